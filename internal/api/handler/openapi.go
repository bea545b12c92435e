package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"
)

// OpenAPIHandler serves the OpenAPI document as JSON.
type OpenAPIHandler struct {
	jsonSpec []byte
}

// NewOpenAPIHandler converts the YAML document to JSON once, up front, so a
// broken document fails server startup instead of the first request.
func NewOpenAPIHandler(yamlSpec []byte) (*OpenAPIHandler, error) {
	jsonSpec, err := yaml.YAMLToJSON(yamlSpec)
	if err != nil {
		return nil, fmt.Errorf("converting OpenAPI spec to JSON: %w", err)
	}
	return &OpenAPIHandler{jsonSpec: jsonSpec}, nil
}

// ServeHTTP writes the converted document.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.jsonSpec); err != nil {
		slog.Error("failed to write OpenAPI spec response", "error", err)
	}
}
