package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/anyapi/internal/domain"
)

const petstoreDoc = `
openapi: 3.0.3
info:
  title: Petstore
  description: Sample pet store
  version: 1.0.0
servers:
  - url: https://{region}.petstore.example.com/v1
    variables:
      region:
        default: eu
security:
  - api_key: []
components:
  securitySchemes:
    api_key:
      type: apiKey
      in: header
      name: X-Pet-Key
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: integer
    get:
      operationId: getPet
      summary: Find a pet
      parameters:
        - name: fields
          in: query
          schema:
            type: string
            enum: [name, tag]
      responses:
        "200":
          description: ok
          content:
            application/json:
              example:
                id: 1
                name: Rex
  /pets:
    post:
      description: Create a pet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                  description: Pet name
                tag:
                  type: string
      responses:
        "201":
          description: created
`

func TestLoadOpenAPIFromFile(t *testing.T) {
	path := writeFile(t, "petstore.yaml", petstoreDoc)

	d, err := LoadOpenAPI(context.Background(), "petstore", path)
	require.NoError(t, err)

	assert.Equal(t, "petstore", d.ID)
	assert.Equal(t, "Petstore", d.Name)
	assert.Equal(t, "https://eu.petstore.example.com/v1", d.BaseURL)
	assert.True(t, d.RequiresAuth)
	assert.Equal(t, domain.AuthAPIKeyHeader, d.AuthScheme)
	assert.Equal(t, "X-Pet-Key", d.AuthHeaderName)

	require.Len(t, d.Endpoints, 2)

	create := d.Endpoints[0]
	assert.Equal(t, "post_pets", create.Name)
	assert.Equal(t, domain.MethodPost, create.Method)
	assert.Equal(t, "Create a pet", create.Description)
	require.Len(t, create.BodyParameters, 2)
	assert.Equal(t, domain.Parameter{Name: "name", Type: "string", Required: true, Description: "Pet name"}, create.BodyParameters[0])
	assert.False(t, create.BodyParameters[1].Required)

	get := d.Endpoints[1]
	assert.Equal(t, "getPet", get.Name)
	assert.Equal(t, "/pets/{petId}", get.Path)
	require.Len(t, get.PathParameters, 1)
	assert.Equal(t, "number", get.PathParameters[0].Type)
	assert.True(t, get.PathParameters[0].Required)
	require.Len(t, get.QueryParameters, 1)
	assert.Equal(t, []string{"name", "tag"}, get.QueryParameters[0].Enum)
	assert.NotNil(t, get.ExampleResponse)

	b := NewBuilder(nil)
	assert.NoError(t, b.Register(d))
}

func TestLoadOpenAPIFromURL(t *testing.T) {
	doc := `
openapi: 3.0.0
info: {title: Relative, version: "1"}
servers:
  - url: /api
components:
  securitySchemes:
    token:
      type: http
      scheme: bearer
paths:
  /ping:
    get:
      responses:
        "200": {description: ok}
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(doc))
	}))
	defer srv.Close()

	d, err := LoadOpenAPI(context.Background(), "relative", srv.URL+"/openapi.yaml")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/api", d.BaseURL)
	assert.False(t, d.RequiresAuth, "no top-level security requirement")
	assert.Equal(t, domain.AuthBearer, d.AuthScheme)
	require.Len(t, d.Endpoints, 1)
	assert.Equal(t, "get_ping", d.Endpoints[0].Name)
}

func TestLoadOpenAPIErrors(t *testing.T) {
	_, err := LoadOpenAPI(context.Background(), "x", writeFile(t, "broken.yaml", "openapi: [not valid"))
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	noServers := writeFile(t, "noservers.yaml", "openapi: 3.0.0\ninfo: {title: T, version: '1'}\npaths: {}\n")
	_, err = LoadOpenAPI(context.Background(), "x", noServers)
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)

	_, err = FromOpenAPI("x", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDescription)
}
