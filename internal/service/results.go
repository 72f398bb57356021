package service

import (
	"time"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/domain"
)

// ListFilter narrows ListAPIs. Zero values match everything.
type ListFilter struct {
	// Category is matched as a case-insensitive substring of the description.
	Category string
	// Search is matched as a case-insensitive substring of the id, name or
	// description.
	Search string
	// RequiresAuth, when set, keeps only APIs with the same requirement.
	RequiresAuth *bool
}

// EndpointSummary is the short form of an endpoint used in listings.
type EndpointSummary struct {
	Name        string            `json:"name"`
	Method      domain.HTTPMethod `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
}

// APISummary is the listing form of a description. It never includes
// commonHeaders or anything else that could carry secrets.
type APISummary struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	RequiresAuth  bool              `json:"requiresAuth"`
	AuthType      domain.AuthScheme `json:"authType"`
	BaseURL       string            `json:"baseUrl"`
	EndpointCount int               `json:"endpointCount"`
	Endpoints     []EndpointSummary `json:"endpoints"`
	RateLimit     *domain.RateLimit `json:"rateLimit,omitempty"`
}

// ListResult is returned by ListAPIs. Counts refer to the filtered list.
type ListResult struct {
	catalog.Summary
	APIs []APISummary `json:"apis"`
}

// AuthenticationDoc explains how to authenticate against an API.
type AuthenticationDoc struct {
	Required     bool              `json:"required"`
	Type         domain.AuthScheme `json:"type"`
	HeaderName   string            `json:"headerName,omitempty"`
	Instructions string            `json:"instructions"`
}

// RateLimitNote replaces rate-limit metadata when an API publishes none.
type RateLimitNote struct {
	Note string `json:"note"`
}

// ParameterGroups lists an endpoint's parameters by location.
type ParameterGroups struct {
	Path  []domain.Parameter `json:"path"`
	Query []domain.Parameter `json:"query"`
	Body  []domain.Parameter `json:"body"`
}

// Usage is a ready-to-send tool invocation for an endpoint.
type Usage struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// EndpointDoc is the documentation of one endpoint.
type EndpointDoc struct {
	Name            string            `json:"name"`
	Method          domain.HTTPMethod `json:"method"`
	Path            string            `json:"path"`
	Description     string            `json:"description"`
	Parameters      ParameterGroups   `json:"parameters"`
	ExampleRequest  any               `json:"exampleRequest"`
	ExampleResponse any               `json:"exampleResponse"`
	Usage           Usage             `json:"usage"`
}

// Documentation is the full documentation of one API.
type Documentation struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	BaseURL        string            `json:"baseUrl"`
	Authentication AuthenticationDoc `json:"authentication"`
	// RateLimit is a *domain.RateLimit or a RateLimitNote.
	RateLimit      any               `json:"rateLimit"`
	CommonHeaders  map[string]string `json:"commonHeaders"`
	Endpoints      []EndpointDoc     `json:"endpoints"`
	TotalEndpoints int               `json:"totalEndpoints"`
}

// APIRef identifies the API a call was made against.
type APIRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CallMetadata accompanies a successful call result.
type CallMetadata struct {
	Timestamp time.Time         `json:"timestamp"`
	RateLimit *domain.RateLimit `json:"rateLimit,omitempty"`
}

// CallResult is returned by MakeAPICall for upstream statuses below 400.
type CallResult struct {
	StatusCode     int          `json:"statusCode"`
	Data           any          `json:"data"`
	ResponseTimeMs int64        `json:"responseTime"`
	APIID          string       `json:"apiId"`
	Endpoint       string       `json:"endpoint"`
	API            APIRef       `json:"api"`
	Metadata       CallMetadata `json:"metadata"`
}
