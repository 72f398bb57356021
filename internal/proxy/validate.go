package proxy

import (
	"github.com/phrazzld/anyapi/internal/domain"
)

// Validate checks intent against d and returns the resolved endpoint.
//
// Checks run in order: credential presence for APIs that require auth,
// endpoint resolution (name first, then exact path), required path
// parameters, required query parameters, and for POST, PUT and PATCH only,
// required body parameters. Presence means the key exists; a null value
// still counts as present. Parameter types and enums are not checked.
func Validate(d *domain.Description, intent *domain.CallIntent) (*domain.Endpoint, error) {
	if d.RequiresAuth && intent.AccessToken == "" {
		return nil, &domain.MissingCredentialError{APIName: d.Name, Scheme: d.AuthScheme}
	}

	ep := d.FindEndpoint(intent.Endpoint)
	if ep == nil {
		return nil, &domain.UnknownEndpointError{
			APIName:   d.Name,
			Endpoint:  intent.Endpoint,
			Available: d.EndpointNames(),
		}
	}

	for _, p := range ep.PathParameters {
		if !p.Required {
			continue
		}
		if _, ok := intent.PathParams[p.Name]; !ok {
			return nil, missing(domain.LocationPath, p)
		}
	}

	for _, p := range ep.QueryParameters {
		if p.Required && !intent.QueryParams.Has(p.Name) {
			return nil, missing(domain.LocationQuery, p)
		}
	}

	if intent.EffectiveMethod(ep).AllowsBody() {
		keys := intent.BodyKeys()
		for _, p := range ep.BodyParameters {
			if !p.Required {
				continue
			}
			if _, ok := keys[p.Name]; !ok {
				return nil, missing(domain.LocationBody, p)
			}
		}
	}

	return ep, nil
}

func missing(loc domain.ParameterLocation, p domain.Parameter) error {
	return &domain.MissingParameterError{Location: loc, Name: p.Name, Description: p.Description}
}
