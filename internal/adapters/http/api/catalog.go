package api

import (
	"net/http"

	"github.com/okian/jumpboard/internal/domain/comparison"
)

// CatalogDependencies defines the interface for the metric catalog.
type CatalogDependencies interface {
	Metrics() []comparison.MetricInfo
}

// CatalogHandler handles metric catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCatalog handles GET /metrics/catalog requests.
func (h *CatalogHandler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Metrics())
}
