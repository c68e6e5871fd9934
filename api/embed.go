package api

import _ "embed"

// OpenAPI is the REST contract served at /openapi.yml.
//
//go:embed openapi.yml
var OpenAPI []byte
