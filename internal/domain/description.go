package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// AuthScheme identifies how an upstream API expects credentials.
type AuthScheme string

// Supported authentication schemes.
const (
	AuthNone         AuthScheme = "none"
	AuthBearer       AuthScheme = "bearer"
	AuthAPIKeyHeader AuthScheme = "api_key_header"
	AuthAPIKeyQuery  AuthScheme = "api_key_query"
	AuthBasic        AuthScheme = "basic"
	AuthCustom       AuthScheme = "custom"
)

// DefaultAPIKeyHeader is used by api_key_header when AuthHeaderName is unset.
const DefaultAPIKeyHeader = "X-API-Key"

// ParseAuthScheme converts a textual scheme, including the aliases found in
// hand-written catalog files, into an AuthScheme. The empty string maps to AuthNone.
func ParseAuthScheme(s string) (AuthScheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AuthNone, nil
	case "bearer", "bearer-token", "bearer_token":
		return AuthBearer, nil
	case "apikey", "api_key", "api-key-header", "api_key_header":
		return AuthAPIKeyHeader, nil
	case "api-key-query", "api_key_query":
		return AuthAPIKeyQuery, nil
	case "basic":
		return AuthBasic, nil
	case "custom":
		return AuthCustom, nil
	default:
		return "", fmt.Errorf("%w: unknown auth scheme %q", ErrInvalidDescription, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON and YAML sources
// can use any accepted alias.
func (a *AuthScheme) UnmarshalText(text []byte) error {
	parsed, err := ParseAuthScheme(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// HTTPMethod is an upstream HTTP method.
type HTTPMethod string

// Methods accepted for upstream calls.
const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// IsValid reports whether m is one of the supported methods.
func (m HTTPMethod) IsValid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	}
	return false
}

// AllowsBody reports whether requests with this method carry a body and have
// their body parameters validated.
func (m HTTPMethod) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// RateLimit is advisory metadata published by the upstream. It is never enforced.
type RateLimit struct {
	RequestsPerMinute int `json:"requestsPerMinute"           yaml:"requestsPerMinute"`
	RequestsPerDay    int `json:"requestsPerDay,omitempty"    yaml:"requestsPerDay,omitempty"`
}

// Parameter describes one input of an endpoint. Type and Enum are documentation
// only; values are neither coerced nor checked against them.
type Parameter struct {
	Name        string   `json:"name"              yaml:"name"`
	Type        string   `json:"type"              yaml:"type"`
	Required    bool     `json:"required"          yaml:"required"`
	Description string   `json:"description"       yaml:"description"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"    yaml:"enum,omitempty"`
}

// Endpoint describes one operation of an upstream API.
type Endpoint struct {
	Name            string            `json:"name"                      yaml:"name"`
	Path            string            `json:"path"                      yaml:"path"`
	Method          HTTPMethod        `json:"method"                    yaml:"method"`
	Description     string            `json:"description"               yaml:"description"`
	PathParameters  []Parameter       `json:"pathParameters,omitempty"  yaml:"pathParameters,omitempty"`
	QueryParameters []Parameter       `json:"queryParameters,omitempty" yaml:"queryParameters,omitempty"`
	BodyParameters  []Parameter       `json:"bodyParameters,omitempty"  yaml:"bodyParameters,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"         yaml:"headers,omitempty"`
	ExampleRequest  any               `json:"exampleRequest,omitempty"  yaml:"exampleRequest,omitempty"`
	ExampleResponse any               `json:"exampleResponse,omitempty" yaml:"exampleResponse,omitempty"`
}

// Description is the declarative record of one upstream REST API.
// Descriptions are immutable once registered in a catalog.
type Description struct {
	ID             string            `json:"id"                       yaml:"id"`
	Name           string            `json:"name"                     yaml:"name"`
	Description    string            `json:"description"              yaml:"description"`
	BaseURL        string            `json:"baseUrl"                  yaml:"baseUrl"`
	RequiresAuth   bool              `json:"requiresAuth"             yaml:"requiresAuth"`
	AuthScheme     AuthScheme        `json:"authScheme,omitempty"     yaml:"authScheme,omitempty"`
	AuthHeaderName string            `json:"authHeaderName,omitempty" yaml:"authHeaderName,omitempty"`
	RateLimit      *RateLimit        `json:"rateLimit,omitempty"      yaml:"rateLimit,omitempty"`
	CommonHeaders  map[string]string `json:"commonHeaders,omitempty"  yaml:"commonHeaders,omitempty"`
	Endpoints      []Endpoint        `json:"endpoints"                yaml:"endpoints"`
}

// Validate checks the structural integrity of the description and fills in
// defaults (Name from ID, AuthNone for an empty scheme, GET for empty methods).
func (d *Description) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidDescription)
	}
	if d.Name == "" {
		d.Name = d.ID
	}
	if d.AuthScheme == "" {
		d.AuthScheme = AuthNone
	}
	if _, err := ParseAuthScheme(string(d.AuthScheme)); err != nil {
		return fmt.Errorf("api %s: %w", d.ID, err)
	}

	u, err := url.Parse(d.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: api %s: baseUrl %q must be an absolute http(s) URL",
			ErrInvalidDescription, d.ID, d.BaseURL)
	}

	seen := make(map[string]struct{}, len(d.Endpoints))
	for i := range d.Endpoints {
		ep := &d.Endpoints[i]
		if ep.Name == "" {
			return fmt.Errorf("%w: api %s: endpoint %d has no name", ErrInvalidDescription, d.ID, i)
		}
		if _, dup := seen[ep.Name]; dup {
			return fmt.Errorf("%w: api %s: duplicate endpoint name %q", ErrInvalidDescription, d.ID, ep.Name)
		}
		seen[ep.Name] = struct{}{}

		if ep.Path == "" {
			return fmt.Errorf("%w: api %s: endpoint %s has no path", ErrInvalidDescription, d.ID, ep.Name)
		}
		if ep.Method == "" {
			ep.Method = MethodGet
		}
		ep.Method = HTTPMethod(strings.ToUpper(string(ep.Method)))
		if !ep.Method.IsValid() {
			return fmt.Errorf("%w: api %s: endpoint %s has unsupported method %q",
				ErrInvalidDescription, d.ID, ep.Name, ep.Method)
		}
	}
	return nil
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// PathTokens returns the placeholder names found in a path template, in order.
func PathTokens(path string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}

// Lint reports data-authoring problems that do not prevent registration:
// path placeholders without a declared path parameter and declared path
// parameters that never appear in the path.
func (d *Description) Lint() []string {
	var findings []string
	for _, ep := range d.Endpoints {
		declared := make(map[string]struct{}, len(ep.PathParameters))
		for _, p := range ep.PathParameters {
			declared[p.Name] = struct{}{}
		}
		used := make(map[string]struct{})
		for _, tok := range PathTokens(ep.Path) {
			used[tok] = struct{}{}
			if _, ok := declared[tok]; !ok {
				findings = append(findings,
					fmt.Sprintf("endpoint %s: placeholder {%s} has no declared path parameter", ep.Name, tok))
			}
		}
		for _, p := range ep.PathParameters {
			if _, ok := used[p.Name]; !ok {
				findings = append(findings,
					fmt.Sprintf("endpoint %s: path parameter %s does not appear in %s", ep.Name, p.Name, ep.Path))
			}
		}
	}
	return findings
}

// FindEndpoint resolves an endpoint by name first and by exact path second.
// Returns nil when nothing matches.
func (d *Description) FindEndpoint(nameOrPath string) *Endpoint {
	for i := range d.Endpoints {
		if d.Endpoints[i].Name == nameOrPath {
			return &d.Endpoints[i]
		}
	}
	for i := range d.Endpoints {
		if d.Endpoints[i].Path == nameOrPath {
			return &d.Endpoints[i]
		}
	}
	return nil
}

// EndpointNames lists endpoint names in declaration order.
func (d *Description) EndpointNames() []string {
	names := make([]string, 0, len(d.Endpoints))
	for _, ep := range d.Endpoints {
		names = append(names, ep.Name)
	}
	return names
}

// HeaderName returns the header used by the api_key_header scheme.
func (d *Description) HeaderName() string {
	if d.AuthHeaderName != "" {
		return d.AuthHeaderName
	}
	return DefaultAPIKeyHeader
}
