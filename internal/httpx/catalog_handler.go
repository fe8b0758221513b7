package httpx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/cache"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/shipping"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

const (
	keyProductsList = "products:list"
	keyAreasList    = "areas:list"

	productsTTL = time.Minute
	areasTTL    = time.Hour
)

// CatalogHandler serves the storefront read path. Responses sit behind the
// in-process TTL cache and are rebuilt from the store on miss.
type CatalogHandler struct {
	Ledger *stock.Ledger
	Areas  *shipping.Catalog
	Cache  *cache.Cache
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/areas", h.listAreas)
	r.Get("/admin/cache/stats", h.cacheStats)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.Cache.Get(keyProductsList); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Ledger.ListProducts(ctx)
	if err != nil {
		log.Printf("list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "query failed"})
		return
	}
	h.Cache.Set(keyProductsList, ps, productsTTL)
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) listAreas(w http.ResponseWriter, r *http.Request) {
	if v, ok := h.Cache.Get(keyAreasList); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}
	areas := h.Areas.Available()
	h.Cache.Set(keyAreasList, areas, areasTTL)
	writeJSON(w, http.StatusOK, areas)
}

func (h *CatalogHandler) cacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cache.Stats())
}
