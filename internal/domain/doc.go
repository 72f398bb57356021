// Package domain contains the core entities of the proxy: declarative
// descriptions of upstream REST APIs (Description, Endpoint, Parameter),
// the per-call input (CallIntent) and output (NormalizedResponse), and the
// error taxonomy shared by every layer. It has no knowledge of HTTP
// routing, storage or configuration.
package domain
