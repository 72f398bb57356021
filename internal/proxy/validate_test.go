package proxy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/anyapi/internal/domain"
)

func TestValidateResolvesEndpoint(t *testing.T) {
	d := jsonplaceholder()

	ep, err := Validate(d, &domain.CallIntent{Endpoint: "list_posts"})
	require.NoError(t, err)
	assert.Equal(t, "list_posts", ep.Name)

	ep, err = Validate(d, &domain.CallIntent{Endpoint: "/posts"})
	require.NoError(t, err)
	assert.Equal(t, "list_posts", ep.Name, "path lookup returns the first endpoint with that path")

	_, err = Validate(d, &domain.CallIntent{Endpoint: "/posts/1"})
	var unknown *domain.UnknownEndpointError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"list_posts", "get_post", "create_post"}, unknown.Available)
	assert.Equal(t,
		"Endpoint '/posts/1' not found in API 'JSONPlaceholder'. Available endpoints: list_posts, get_post, create_post",
		err.Error())
}

func TestValidateCredential(t *testing.T) {
	d := authed("newsapi", domain.AuthAPIKeyHeader, "X-Api-Key")

	_, err := Validate(d, &domain.CallIntent{Endpoint: "unknown"})
	var missing *domain.MissingCredentialError
	require.ErrorAs(t, err, &missing, "credential is checked before the endpoint")
	assert.Equal(t, domain.AuthAPIKeyHeader, missing.Scheme)

	_, err = Validate(d, &domain.CallIntent{Endpoint: "ping", AccessToken: "k1"})
	assert.NoError(t, err)

	public := coingecko()
	_, err = Validate(public, &domain.CallIntent{Endpoint: "get_coin_data", PathParams: map[string]string{"id": "bitcoin"}})
	assert.NoError(t, err, "public APIs need no token")
}

func TestValidateRequiredParameters(t *testing.T) {
	tests := []struct {
		name     string
		desc     *domain.Description
		intent   domain.CallIntent
		location domain.ParameterLocation
		param    string
	}{
		{
			name:     "missing path parameter",
			desc:     coingecko(),
			intent:   domain.CallIntent{Endpoint: "get_coin_data"},
			location: domain.LocationPath,
			param:    "id",
		},
		{
			name:     "wrong path parameter key",
			desc:     coingecko(),
			intent:   domain.CallIntent{Endpoint: "/coins/{id}", PathParams: map[string]string{"coin": "bitcoin"}},
			location: domain.LocationPath,
			param:    "id",
		},
		{
			name:     "missing query parameter",
			desc:     coingecko(),
			intent:   domain.CallIntent{Endpoint: "list_coins", QueryParams: domain.Params{{Key: "per_page", Value: 10}}},
			location: domain.LocationQuery,
			param:    "vs_currency",
		},
		{
			name:     "missing body parameter",
			desc:     jsonplaceholder(),
			intent:   domain.CallIntent{Endpoint: "create_post", Body: json.RawMessage(`{"title":"t"}`)},
			location: domain.LocationBody,
			param:    "userId",
		},
		{
			name:     "non-object body on POST",
			desc:     jsonplaceholder(),
			intent:   domain.CallIntent{Endpoint: "create_post", Body: json.RawMessage(`"raw"`)},
			location: domain.LocationBody,
			param:    "title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.desc, &tc.intent)
			var mp *domain.MissingParameterError
			require.ErrorAs(t, err, &mp)
			assert.Equal(t, tc.location, mp.Location)
			assert.Equal(t, tc.param, mp.Name)
			assert.True(t, errors.Is(err, domain.ErrMissingParameter))
		})
	}
}

func TestValidatePresenceSemantics(t *testing.T) {
	d := coingecko()

	_, err := Validate(d, &domain.CallIntent{
		Endpoint:    "list_coins",
		QueryParams: query(t, `{"vs_currency":null}`),
	})
	assert.NoError(t, err, "a null value still counts as present")

	_, err = Validate(d, &domain.CallIntent{
		Endpoint:   "get_coin_data",
		PathParams: map[string]string{"id": ""},
	})
	assert.NoError(t, err, "an empty path value still counts as present")
}

func TestValidateBodyOnlyForWriteMethods(t *testing.T) {
	d := jsonplaceholder()

	_, err := Validate(d, &domain.CallIntent{Endpoint: "create_post", Method: domain.MethodGet})
	assert.NoError(t, err, "GET override skips body checks")

	_, err = Validate(d, &domain.CallIntent{Endpoint: "create_post", Method: domain.MethodDelete})
	assert.NoError(t, err)

	_, err = Validate(d, &domain.CallIntent{
		Endpoint: "create_post",
		Method:   domain.MethodPatch,
		Body:     json.RawMessage(`{"title":"t","userId":1}`),
	})
	assert.NoError(t, err)
}

func TestValidateDoesNotMutate(t *testing.T) {
	d := jsonplaceholder()
	before := *d
	intent := domain.CallIntent{Endpoint: "get_post", PathParams: map[string]string{"id": "1"}}

	_, err := Validate(d, &intent)
	require.NoError(t, err)
	assert.Equal(t, before, *d)
	assert.Equal(t, map[string]string{"id": "1"}, intent.PathParams)
	assert.Empty(t, intent.Method)
}
