package api

import (
	"encoding/json"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/service"
)

// ListQuery holds the query-string filters of GET /api/apis.
type ListQuery struct {
	Category     string `schema:"category"`
	Search       string `schema:"q"`
	RequiresAuth *bool  `schema:"requiresAuth"`
}

// ListArgs are the arguments of the list_available_apis tool.
type ListArgs struct {
	Category     string `json:"category,omitempty"`
	Search       string `json:"search,omitempty"`
	RequiresAuth *bool  `json:"requiresAuth,omitempty"`
}

// Filter converts the arguments into a service filter.
func (a ListArgs) Filter() service.ListFilter {
	return service.ListFilter{Category: a.Category, Search: a.Search, RequiresAuth: a.RequiresAuth}
}

// DocumentationArgs are the arguments of the get_api_documentation tool.
type DocumentationArgs struct {
	APIID string `json:"apiId" validate:"required"`
}

// CallRequest is the payload of POST /api/calls and of the make_api_call tool.
type CallRequest struct {
	APIID       string            `json:"apiId"                 validate:"required"`
	Endpoint    string            `json:"endpoint"              validate:"required"`
	Method      string            `json:"method,omitempty"`
	AccessToken string            `json:"accessToken,omitempty"`
	PathParams  map[string]string `json:"pathParams,omitempty"`
	QueryParams json.RawMessage   `json:"queryParams,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// ToIntent converts the request into a call intent. Query parameters are
// decoded here so that their key order survives.
func (c *CallRequest) ToIntent() (*domain.CallIntent, error) {
	intent := &domain.CallIntent{
		APIID:       c.APIID,
		Endpoint:    c.Endpoint,
		Method:      domain.HTTPMethod(c.Method),
		AccessToken: c.AccessToken,
		PathParams:  c.PathParams,
		Body:        c.Body,
		Headers:     c.Headers,
	}
	if len(c.QueryParams) > 0 {
		var params domain.Params
		if err := json.Unmarshal(c.QueryParams, &params); err != nil {
			return nil, domain.NewValidationError("queryParams", err.Error())
		}
		intent.QueryParams = params
	}
	return intent, nil
}
