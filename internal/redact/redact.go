// Package redact removes credentials from strings, URLs and headers before
// they are logged or echoed in error responses. Upstream access tokens pass
// through the proxy on every authenticated call, so anything that may carry
// one goes through this package first.
package redact

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
)

var (
	dbConnRegex   = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`)
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	authHdrRegex  = regexp.MustCompile(`(?i)\b(bearer|basic)\s+[A-Za-z0-9_\-.~+/=]{4,}`)
	queryKeyRegex = regexp.MustCompile(`(?i)([?&](?:appid|api_?key|apikey|key|token|access_token|client_key)=)[^&\s"']+`)
	apiKeyRegex   = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|access[_-]?token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	rules = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{jwtTokenRegex, RedactedJWTPlaceholder},
		{dbConnRegex, RedactedCredentialPlaceholder},
		{authHdrRegex, "${1} " + RedactedCredentialPlaceholder},
		{queryKeyRegex, "${1}" + RedactedKeyPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
	}

	sensitiveQueryKeys = map[string]struct{}{
		"appid": {}, "api_key": {}, "apikey": {}, "key": {},
		"token": {}, "access_token": {}, "client_key": {},
	}
)

// String redacts credentials embedded in free text.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.repl)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// URL masks userinfo and the values of credential-bearing query parameters.
// Unparseable input falls back to String.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return String(raw)
	}
	if u.User != nil {
		u.User = url.User(RedactionPlaceholder)
	}
	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for k := range q {
			if _, ok := sensitiveQueryKeys[strings.ToLower(k)]; ok {
				q[k] = []string{RedactedKeyPlaceholder}
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	return u.String()
}

// IsSensitiveHeader reports whether a header value must never be logged.
func IsSensitiveHeader(name string) bool {
	n := strings.ToLower(name)
	switch n {
	case "authorization", "proxy-authorization", "cookie", "set-cookie":
		return true
	}
	return strings.Contains(n, "key") || strings.Contains(n, "token") || strings.Contains(n, "secret")
}

// Headers returns a copy of h with sensitive values replaced.
func Headers(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if IsSensitiveHeader(k) {
			out[k] = []string{RedactionPlaceholder}
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}
