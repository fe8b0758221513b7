package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/cache"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/stock"
)

type StockHandler struct {
	Ledger *stock.Ledger
	Cache  *cache.Cache
}

func (h *StockHandler) Register(r *chi.Mux) {
	r.Route("/admin/stock", func(r chi.Router) {
		r.Put("/", h.setStock)
		r.Get("/alerts", h.alerts)
		r.Get("/history", h.history)
	})
}

type setStockRequest struct {
	ProductID string `json:"productId"`
	NewStock  int    `json:"newStock"`
	Reason    string `json:"reason"`
	AdminID   string `json:"adminId"`
}

func (h *StockHandler) setStock(w http.ResponseWriter, r *http.Request) {
	var req setStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
		return
	}
	if req.ProductID == "" || req.NewStock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "productId and a non-negative newStock are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	newStock, err := h.Ledger.SetAbsolute(ctx, req.ProductID, req.NewStock, req.Reason, req.AdminID)
	if err != nil {
		if errors.Is(err, stock.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "product not found"})
			return
		}
		log.Printf("set stock product=%s: %v", req.ProductID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "stock update failed"})
		return
	}

	// catalog reads now serve stale stock; drop them
	if _, err := h.Cache.ClearPattern(`^products:`); err != nil {
		log.Printf("cache invalidate: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "newStock": newStock})
}

func (h *StockHandler) alerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	low, err := h.Ledger.LowStock(ctx)
	if err != nil {
		log.Printf("low stock list: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": low})
}

func (h *StockHandler) history(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	productID := r.URL.Query().Get("productId")

	entries, err := h.Ledger.History(ctx, productID, page, limit)
	if err != nil {
		log.Printf("stock history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": entries})
}
