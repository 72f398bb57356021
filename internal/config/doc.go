// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and ANYAPI_-prefixed environment
// variables. It provides type-safe access to the settings needed by the
// proxy, the catalog sources and inbound authentication.
package config
