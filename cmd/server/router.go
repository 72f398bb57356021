package main

import (
	"net/http"

	"github.com/phrazzld/anyapi/internal/api"
)

// setupRouter creates the application router from the application's dependencies.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterConfig{
		ProxyService: app.proxyService,
		Logger:       app.logger,
		AuthEnabled:  app.config.AuthEnabled(),
		JWTService:   app.jwtService,
		ClientKeys:   app.clientKeys,
		HealthCheck:  app.healthCheck,
	})
}
