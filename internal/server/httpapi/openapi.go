package httpapi

import (
	_ "embed"
	"net/http"
)

//go:embed swagger/openapi.yaml
var openAPIDoc []byte

func (r *Router) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDoc)
}
