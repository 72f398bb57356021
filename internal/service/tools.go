package service

// Tool names accepted by tool-style dispatch.
const (
	ToolListAvailableAPIs   = "list_available_apis"
	ToolGetAPIDocumentation = "get_api_documentation"
)

// Tool describes one named operation exposed to agent-style callers.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tools returns the tool catalogue in a stable order.
func Tools() []Tool {
	return []Tool{
		{
			Name: ToolMakeAPICall,
			Description: "Make an HTTP API call to any registered API with full control over method, " +
				"parameters, headers, and body. Supports GET, POST, PUT, PATCH, DELETE. " +
				"Handles authentication automatically.",
		},
		{
			Name: ToolListAvailableAPIs,
			Description: "List all available APIs in the registry with their authentication requirements, " +
				"endpoints, and capabilities. Filter by category, search text or authentication requirement.",
		},
		{
			Name: ToolGetAPIDocumentation,
			Description: "Get detailed documentation for a specific API including all available endpoints, " +
				"parameters, examples, and authentication requirements.",
		},
	}
}

// LookupTool returns the tool named name or an *UnknownToolError.
func LookupTool(name string) (Tool, error) {
	tools := Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		if t.Name == name {
			return t, nil
		}
		names = append(names, t.Name)
	}
	return Tool{}, &UnknownToolError{Name: name, Available: names}
}
