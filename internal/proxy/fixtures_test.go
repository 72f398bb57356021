package proxy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/anyapi/internal/domain"
)

func jsonplaceholder() *domain.Description {
	return &domain.Description{
		ID:      "jsonplaceholder",
		Name:    "JSONPlaceholder",
		BaseURL: "https://jsonplaceholder.typicode.com",
		Endpoints: []domain.Endpoint{
			{
				Name:   "list_posts",
				Path:   "/posts",
				Method: domain.MethodGet,
				QueryParameters: []domain.Parameter{
					{Name: "_limit", Type: "number"},
				},
			},
			{
				Name:   "get_post",
				Path:   "/posts/{id}",
				Method: domain.MethodGet,
				PathParameters: []domain.Parameter{
					{Name: "id", Type: "number", Required: true, Description: "Post ID (1-100)"},
				},
			},
			{
				Name:   "create_post",
				Path:   "/posts",
				Method: domain.MethodPost,
				BodyParameters: []domain.Parameter{
					{Name: "title", Type: "string", Required: true, Description: "Post title"},
					{Name: "userId", Type: "number", Required: true, Description: "User ID"},
				},
			},
		},
	}
}

func coingecko() *domain.Description {
	return &domain.Description{
		ID:      "coingecko",
		Name:    "CoinGecko",
		BaseURL: "https://api.coingecko.com/api/v3",
		Endpoints: []domain.Endpoint{
			{
				Name: "list_coins",
				Path: "/coins/markets",
				QueryParameters: []domain.Parameter{
					{Name: "vs_currency", Required: true, Description: "Target currency"},
					{Name: "per_page"},
				},
			},
			{
				Name: "get_coin_data",
				Path: "/coins/{id}",
				PathParameters: []domain.Parameter{
					{Name: "id", Required: true, Description: "Coin ID"},
				},
			},
		},
	}
}

func authed(id string, scheme domain.AuthScheme, header string) *domain.Description {
	return &domain.Description{
		ID:             id,
		Name:           id,
		BaseURL:        "https://" + id + ".example.com",
		RequiresAuth:   true,
		AuthScheme:     scheme,
		AuthHeaderName: header,
		Endpoints:      []domain.Endpoint{{Name: "ping", Path: "/ping", Method: domain.MethodGet}},
	}
}

func query(t *testing.T, raw string) domain.Params {
	t.Helper()
	var p domain.Params
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}
