package catalog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/phrazzld/anyapi/internal/domain"
)

var nonIdentChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// LoadOpenAPI imports an OpenAPI 3 document from a file path or an http(s)
// URL and converts it into a description registered under id. The document
// is imported permissively: schema validation problems do not block the
// import as long as the document parses.
func LoadOpenAPI(ctx context.Context, id, location string) (*domain.Description, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	var (
		doc     *openapi3.T
		err     error
		baseLoc *url.URL
	)
	if u, perr := url.Parse(location); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		baseLoc = u
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load OpenAPI document %s: %v",
			domain.ErrInvalidDescription, location, err)
	}
	return FromOpenAPI(id, doc, baseLoc)
}

// FromOpenAPI converts a parsed OpenAPI 3 document. base resolves a relative
// server URL and may be nil.
func FromOpenAPI(id string, doc *openapi3.T, base *url.URL) (*domain.Description, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil OpenAPI document", domain.ErrInvalidDescription)
	}

	d := &domain.Description{ID: id, AuthScheme: domain.AuthNone}
	if doc.Info != nil {
		d.Name = strings.TrimSpace(doc.Info.Title)
		d.Description = strings.TrimSpace(doc.Info.Description)
	}

	baseURL, err := serverURL(doc.Servers, base)
	if err != nil {
		return nil, err
	}
	d.BaseURL = baseURL

	applySecurity(d, doc)

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		ops := []struct {
			method domain.HTTPMethod
			op     *openapi3.Operation
		}{
			{domain.MethodGet, item.Get},
			{domain.MethodPost, item.Post},
			{domain.MethodPut, item.Put},
			{domain.MethodPatch, item.Patch},
			{domain.MethodDelete, item.Delete},
			{domain.MethodHead, item.Head},
			{domain.MethodOptions, item.Options},
		}
		for _, pair := range ops {
			if pair.op == nil {
				continue
			}
			d.Endpoints = append(d.Endpoints, toEndpoint(p, pair.method, item.Parameters, pair.op))
		}
	}
	return d, nil
}

func serverURL(servers openapi3.Servers, base *url.URL) (string, error) {
	if len(servers) == 0 || servers[0] == nil {
		if base != nil {
			return base.Scheme + "://" + base.Host, nil
		}
		return "", fmt.Errorf("%w: OpenAPI document declares no servers", domain.ErrInvalidDescription)
	}
	s := servers[0]
	raw := s.URL
	for name, v := range s.Variables {
		if v != nil {
			raw = strings.ReplaceAll(raw, "{"+name+"}", v.Default)
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid server URL %q: %v", domain.ErrInvalidDescription, raw, err)
	}
	if !u.IsAbs() && base != nil {
		u = base.ResolveReference(u)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func applySecurity(d *domain.Description, doc *openapi3.T) {
	if doc.Components == nil || len(doc.Components.SecuritySchemes) == 0 {
		return
	}

	var schemeName string
	if len(doc.Security) > 0 {
		d.RequiresAuth = true
		schemeName = firstRequirement(doc.Security[0])
	} else {
		names := make([]string, 0, len(doc.Components.SecuritySchemes))
		for name := range doc.Components.SecuritySchemes {
			names = append(names, name)
		}
		sort.Strings(names)
		schemeName = names[0]
	}

	ref := doc.Components.SecuritySchemes[schemeName]
	if ref == nil || ref.Value == nil {
		return
	}
	s := ref.Value
	switch strings.ToLower(s.Type) {
	case "http":
		switch strings.ToLower(s.Scheme) {
		case "bearer":
			d.AuthScheme = domain.AuthBearer
		case "basic":
			d.AuthScheme = domain.AuthBasic
		default:
			d.AuthScheme = domain.AuthCustom
		}
	case "apikey":
		switch strings.ToLower(s.In) {
		case "header":
			d.AuthScheme = domain.AuthAPIKeyHeader
			d.AuthHeaderName = s.Name
		case "query":
			d.AuthScheme = domain.AuthAPIKeyQuery
		default:
			d.AuthScheme = domain.AuthCustom
		}
	case "oauth2", "openidconnect":
		d.AuthScheme = domain.AuthBearer
	default:
		d.AuthScheme = domain.AuthCustom
	}
}

func firstRequirement(req openapi3.SecurityRequirement) string {
	names := make([]string, 0, len(req))
	for name := range req {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func toEndpoint(path string, method domain.HTTPMethod, shared openapi3.Parameters, op *openapi3.Operation) domain.Endpoint {
	ep := domain.Endpoint{
		Name:        op.OperationID,
		Path:        path,
		Method:      method,
		Description: strings.TrimSpace(op.Summary),
	}
	if ep.Name == "" {
		ep.Name = strings.ToLower(string(method)) + "_" + strings.Trim(nonIdentChars.ReplaceAllString(path, "_"), "_")
	}
	if ep.Description == "" {
		ep.Description = strings.TrimSpace(op.Description)
	}

	type key struct{ in, name string }
	merged := make(map[key]*openapi3.Parameter)
	var order []key
	for _, refs := range []openapi3.Parameters{shared, op.Parameters} {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.In, ref.Value.Name}
			if _, seen := merged[k]; !seen {
				order = append(order, k)
			}
			merged[k] = ref.Value
		}
	}
	for _, k := range order {
		p := merged[k]
		param := toParameter(p.Name, p.Description, p.Required, p.Schema)
		switch p.In {
		case openapi3.ParameterInPath:
			ep.PathParameters = append(ep.PathParameters, param)
		case openapi3.ParameterInQuery:
			ep.QueryParameters = append(ep.QueryParameters, param)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if mt := op.RequestBody.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			schema := mt.Schema.Value
			required := make(map[string]bool, len(schema.Required))
			for _, name := range schema.Required {
				required[name] = true
			}
			names := make([]string, 0, len(schema.Properties))
			for name := range schema.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				prop := schema.Properties[name]
				desc := ""
				if prop != nil && prop.Value != nil {
					desc = prop.Value.Description
				}
				ep.BodyParameters = append(ep.BodyParameters, toParameter(name, desc, required[name], prop))
			}
			if mt.Example != nil {
				ep.ExampleRequest = map[string]any{"body": mt.Example}
			}
		}
	}

	if resp, ok := op.Responses["200"]; ok && resp != nil && resp.Value != nil {
		if mt := resp.Value.Content.Get("application/json"); mt != nil && mt.Example != nil {
			ep.ExampleResponse = mt.Example
		}
	}
	return ep
}

func toParameter(name, description string, required bool, schema *openapi3.SchemaRef) domain.Parameter {
	p := domain.Parameter{
		Name:        name,
		Type:        "string",
		Required:    required,
		Description: strings.TrimSpace(description),
	}
	if schema == nil || schema.Value == nil {
		return p
	}
	s := schema.Value
	if s.Type != "" {
		p.Type = s.Type
		if p.Type == "integer" {
			p.Type = "number"
		}
	}
	if p.Description == "" {
		p.Description = strings.TrimSpace(s.Description)
	}
	p.Default = s.Default
	for _, v := range s.Enum {
		p.Enum = append(p.Enum, fmt.Sprint(v))
	}
	return p
}
