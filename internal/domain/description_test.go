package domain

import (
	"errors"
	"reflect"
	"testing"
)

func validDescription() Description {
	return Description{
		ID:      "coingecko",
		BaseURL: "https://api.coingecko.com/api/v3",
		Endpoints: []Endpoint{
			{
				Name:   "get_coin_data",
				Path:   "/coins/{id}",
				Method: "get",
				PathParameters: []Parameter{
					{Name: "id", Type: "string", Required: true, Description: "Coin id"},
				},
			},
			{Name: "list_coins", Path: "/coins/markets"},
		},
	}
}

func TestDescriptionValidate(t *testing.T) {
	d := validDescription()
	if err := d.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if d.Name != "coingecko" {
		t.Errorf("Expected name to default to id, got %s", d.Name)
	}
	if d.AuthScheme != AuthNone {
		t.Errorf("Expected auth scheme %s, got %s", AuthNone, d.AuthScheme)
	}
	if d.Endpoints[0].Method != MethodGet {
		t.Errorf("Expected method to be uppercased, got %s", d.Endpoints[0].Method)
	}
	if d.Endpoints[1].Method != MethodGet {
		t.Errorf("Expected empty method to default to GET, got %s", d.Endpoints[1].Method)
	}

	tests := []struct {
		name   string
		mutate func(*Description)
	}{
		{"empty id", func(d *Description) { d.ID = " " }},
		{"relative base url", func(d *Description) { d.BaseURL = "/api/v3" }},
		{"non-http base url", func(d *Description) { d.BaseURL = "ftp://example.com" }},
		{"unknown auth scheme", func(d *Description) { d.AuthScheme = "oauth2" }},
		{"endpoint without name", func(d *Description) { d.Endpoints[1].Name = "" }},
		{"duplicate endpoint name", func(d *Description) { d.Endpoints[1].Name = "get_coin_data" }},
		{"endpoint without path", func(d *Description) { d.Endpoints[1].Path = "" }},
		{"unsupported method", func(d *Description) { d.Endpoints[1].Method = "TRACE" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDescription()
			tc.mutate(&d)
			err := d.Validate()
			if !errors.Is(err, ErrInvalidDescription) {
				t.Errorf("Expected ErrInvalidDescription, got %v", err)
			}
		})
	}
}

func TestParseAuthScheme(t *testing.T) {
	cases := map[string]AuthScheme{
		"":               AuthNone,
		"none":           AuthNone,
		"bearer":         AuthBearer,
		"bearer-token":   AuthBearer,
		"apikey":         AuthAPIKeyHeader,
		"api-key-header": AuthAPIKeyHeader,
		"api_key_query":  AuthAPIKeyQuery,
		"Basic":          AuthBasic,
		"custom":         AuthCustom,
	}
	for in, want := range cases {
		got, err := ParseAuthScheme(in)
		if err != nil {
			t.Errorf("ParseAuthScheme(%q) returned error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAuthScheme(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseAuthScheme("digest"); !errors.Is(err, ErrInvalidDescription) {
		t.Errorf("Expected ErrInvalidDescription for unknown scheme, got %v", err)
	}
}

func TestDescriptionLint(t *testing.T) {
	d := Description{
		ID:      "github",
		BaseURL: "https://api.github.com",
		Endpoints: []Endpoint{
			{
				Name:           "get_repo",
				Path:           "/repos/{owner}/{repo}",
				PathParameters: []Parameter{{Name: "owner"}, {Name: "name"}},
			},
			{
				Name:           "get_user",
				Path:           "/users/{username}",
				PathParameters: []Parameter{{Name: "username"}},
			},
		},
	}

	findings := d.Lint()
	if len(findings) != 2 {
		t.Fatalf("Expected 2 findings, got %d: %v", len(findings), findings)
	}
	want := []string{
		"endpoint get_repo: placeholder {repo} has no declared path parameter",
		"endpoint get_repo: path parameter name does not appear in /repos/{owner}/{repo}",
	}
	if !reflect.DeepEqual(findings, want) {
		t.Errorf("Expected %v, got %v", want, findings)
	}
}

func TestFindEndpoint(t *testing.T) {
	d := validDescription()

	if ep := d.FindEndpoint("list_coins"); ep == nil || ep.Path != "/coins/markets" {
		t.Errorf("Expected lookup by name to succeed, got %+v", ep)
	}
	if ep := d.FindEndpoint("/coins/{id}"); ep == nil || ep.Name != "get_coin_data" {
		t.Errorf("Expected lookup by path to succeed, got %+v", ep)
	}
	if ep := d.FindEndpoint("/coins/bitcoin"); ep != nil {
		t.Errorf("Expected no match for a resolved path, got %+v", ep)
	}

	names := d.EndpointNames()
	if !reflect.DeepEqual(names, []string{"get_coin_data", "list_coins"}) {
		t.Errorf("Unexpected endpoint names %v", names)
	}
}

func TestHeaderName(t *testing.T) {
	d := Description{}
	if d.HeaderName() != "X-API-Key" {
		t.Errorf("Expected default header name, got %s", d.HeaderName())
	}
	d.AuthHeaderName = "X-Api-Key"
	if d.HeaderName() != "X-Api-Key" {
		t.Errorf("Expected configured header name, got %s", d.HeaderName())
	}
}

func TestPathTokens(t *testing.T) {
	got := PathTokens("/repos/{owner}/{repo}/issues")
	if !reflect.DeepEqual(got, []string{"owner", "repo"}) {
		t.Errorf("Unexpected tokens %v", got)
	}
	if got := PathTokens("/posts"); len(got) != 0 {
		t.Errorf("Expected no tokens, got %v", got)
	}
}
