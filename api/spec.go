// Package api embeds the roster OpenAPI document.
package api

import _ "embed"

// OpenAPISpec is the OpenAPI 3.1 document served at /openapi.json.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
