package proxy

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/phrazzld/anyapi/internal/domain"
)

// DefaultUserAgent is sent when BuildOptions.UserAgent is empty.
const DefaultUserAgent = "AnyAPI-Proxy/1.0.0"

// queryKeyAPIID is the one API whose key travels as the appid query
// parameter. This is a named exception for OpenWeatherMap and is not a
// pattern for other APIs: api_key_query on any other API injects nothing.
const (
	queryKeyAPIID = "openweather"
	queryKeyParam = "appid"
)

// OutboundRequest is a fully resolved upstream request.
type OutboundRequest struct {
	Method domain.HTTPMethod
	URL    string
	Header http.Header
	Body   []byte
}

// BuildOptions carries process-level settings for Build.
type BuildOptions struct {
	UserAgent string
}

// Build constructs the outbound request for intent against d. ep is the
// endpoint returned by Validate; when nil, intent.Endpoint is used as the
// path template. Build never fails: unreplaced placeholders stay literal.
func Build(d *domain.Description, ep *domain.Endpoint, intent *domain.CallIntent, opts BuildOptions) *OutboundRequest {
	method := intent.EffectiveMethod(ep)
	return &OutboundRequest{
		Method: method,
		URL:    buildURL(d, ep, intent),
		Header: buildHeaders(d, intent, opts),
		Body:   buildBody(method, intent),
	}
}

// escapeComponent percent-encodes every byte outside the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ). Unlike url.PathEscape it also encodes
// sub-delimiters such as @ : & = + $, so a path value cannot smuggle
// extra path or query structure.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte("-_.!~*'()", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0F])
		}
	}
	return b.String()
}

func buildURL(d *domain.Description, ep *domain.Endpoint, intent *domain.CallIntent) string {
	path := intent.Endpoint
	if ep != nil {
		path = ep.Path
	}
	for key, value := range intent.PathParams {
		path = strings.ReplaceAll(path, "{"+key+"}", escapeComponent(value))
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var q strings.Builder
	appendPair := func(k, v string) {
		if q.Len() > 0 {
			q.WriteByte('&')
		}
		q.WriteString(url.QueryEscape(k))
		q.WriteByte('=')
		q.WriteString(url.QueryEscape(v))
	}

	withAppID := d.ID == queryKeyAPIID && intent.AccessToken != ""
	for _, kv := range intent.QueryParams {
		if withAppID && kv.Key == queryKeyParam {
			continue
		}
		if s, ok := domain.StringifyValue(kv.Value); ok {
			appendPair(kv.Key, s)
		}
	}
	if withAppID {
		appendPair(queryKeyParam, intent.AccessToken)
	}

	u := d.BaseURL + path
	if q.Len() > 0 {
		u += "?" + q.String()
	}
	return u
}

func buildHeaders(d *domain.Description, intent *domain.CallIntent, opts BuildOptions) http.Header {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", ua)
	for k, v := range d.CommonHeaders {
		h.Set(k, v)
	}
	for k, v := range intent.Headers {
		h.Set(k, v)
	}

	if !d.RequiresAuth || intent.AccessToken == "" {
		return h
	}
	// The appid exception never receives a header, whatever its scheme says.
	if d.ID == queryKeyAPIID {
		return h
	}

	token := intent.AccessToken
	switch d.AuthScheme {
	case domain.AuthBearer:
		h.Set("Authorization", "Bearer "+token)
	case domain.AuthAPIKeyHeader:
		h.Set(d.HeaderName(), token)
	case domain.AuthBasic:
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(token)))
	case domain.AuthAPIKeyQuery, domain.AuthCustom, domain.AuthNone:
	}
	return h
}

func buildBody(method domain.HTTPMethod, intent *domain.CallIntent) []byte {
	if !method.AllowsBody() || !intent.HasBody() {
		return nil
	}
	var s string
	if err := json.Unmarshal(intent.Body, &s); err == nil {
		return []byte(s)
	}
	return append([]byte(nil), intent.Body...)
}
