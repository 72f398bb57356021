package domain

import (
	"encoding/json"
	"fmt"
)

// CallIntent is the caller-supplied input for one upstream call.
type CallIntent struct {
	APIID       string            `json:"apiId"`
	Endpoint    string            `json:"endpoint"`
	Method      HTTPMethod        `json:"method,omitempty"`
	AccessToken string            `json:"-"`
	PathParams  map[string]string `json:"pathParams,omitempty"`
	QueryParams Params            `json:"queryParams,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// EffectiveMethod returns the method override when set, otherwise the
// endpoint's declared method, otherwise GET.
func (i *CallIntent) EffectiveMethod(ep *Endpoint) HTTPMethod {
	if i.Method != "" {
		return i.Method
	}
	if ep != nil && ep.Method != "" {
		return ep.Method
	}
	return MethodGet
}

// HasBody reports whether the intent carries a non-null body.
func (i *CallIntent) HasBody() bool {
	return len(i.Body) > 0 && string(i.Body) != "null"
}

// BodyKeys returns the top-level keys of a JSON object body. A body that is
// absent or not an object yields nil.
func (i *CallIntent) BodyKeys() map[string]struct{} {
	if !i.HasBody() {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(i.Body, &obj); err != nil {
		return nil
	}
	keys := make(map[string]struct{}, len(obj))
	for k := range obj {
		keys[k] = struct{}{}
	}
	return keys
}

// NormalizedResponse is the uniform result of an executed upstream call.
// Body holds parsed JSON when the payload parses, the raw text otherwise.
type NormalizedResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"data"`
	ElapsedMs  int64             `json:"responseTime"`
	APIID      string            `json:"apiId"`
	Endpoint   string            `json:"endpoint"`
}

// IsError reports whether the upstream answered with an error status.
func (r *NormalizedResponse) IsError() bool { return r.StatusCode >= 400 }

func renderBody(body any) string {
	if s, ok := body.(string); ok {
		return s
	}
	out, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(out)
}
