package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Upstream UpstreamConfig `mapstructure:"upstream" validate:"required"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// UpstreamConfig controls how outbound calls to described APIs are made.
type UpstreamConfig struct {
	// TimeoutSeconds bounds each outbound call, including reading the body.
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	UserAgent      string `mapstructure:"user_agent"      validate:"required"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"  validate:"required,gt=0"`
}

// OpenAPISource names an OpenAPI 3 document to import as a description.
// Location is a file path or an http(s) URL.
type OpenAPISource struct {
	ID       string `mapstructure:"id"       validate:"required"`
	Location string `mapstructure:"location" validate:"required"`
}

// CatalogConfig lists where API descriptions come from. Sources are applied
// in the order builtin, database, files, openapi; later registrations win.
type CatalogConfig struct {
	IncludeBuiltin bool            `mapstructure:"include_builtin"`
	Files          []string        `mapstructure:"files"`
	OpenAPI        []OpenAPISource `mapstructure:"openapi"         validate:"dive"`
	FromDatabase   bool            `mapstructure:"from_database"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is only required when descriptions are read from the database.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains inbound authentication settings. Leaving both the JWT
// secret and the client key hashes empty disables inbound authentication.
type AuthConfig struct {
	JWTSecret            string   `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	ClientKeyHashes      []string `mapstructure:"client_key_hashes"`
	TokenLifetimeMinutes int      `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// EventsConfig controls delivery of call events. Zero workers deliver events
// synchronously on the request path.
type EventsConfig struct {
	Workers   int `mapstructure:"workers"    validate:"gte=0"`
	QueueSize int `mapstructure:"queue_size" validate:"gt=0"`
}

// AuthEnabled reports whether inbound requests must authenticate.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != "" || len(c.Auth.ClientKeyHashes) > 0
}
