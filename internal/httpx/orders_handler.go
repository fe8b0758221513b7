package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/orders"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/redisx"
)

type OrdersHandler struct {
	Intake    *orders.Intake
	Lifecycle *orders.Lifecycle
	Repo      *orders.Repo
	Redis     *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/order", h.submitOrder)
	r.Route("/orders/{id}/status", func(r chi.Router) {
		r.Get("/", h.getStatus)
		r.Patch("/", h.patchStatus)
	})
}

func (h *OrdersHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Intake.Submit(ctx, req, requestMeta(r))
	if err != nil {
		var rej *orders.RejectError
		if errors.As(err, &rej) {
			resp := map[string]any{"ok": false, "error": rej.Msg}
			if rej.Details != nil {
				resp["details"] = rej.Details
			}
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
		log.Printf("submit order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": orders.MsgServerError})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": order.ID})
}

type statusPatch struct {
	Status            string `json:"status"`
	TrackingInfo      string `json:"trackingInfo,omitempty"`
	EstimatedDelivery string `json:"estimatedDelivery,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

func (h *OrdersHandler) patchStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": orders.MsgOrderNotFound})
		return
	}

	var req statusPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	proj, err := h.Lifecycle.SetStatus(ctx, id, orders.Status(req.Status),
		req.TrackingInfo, req.EstimatedDelivery, req.Notes)
	if err != nil {
		var rej *orders.RejectError
		switch {
		case errors.As(err, &rej):
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": rej.Msg})
		case errors.Is(err, orders.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": orders.MsgOrderNotFound})
		default:
			log.Printf("set status order=%s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": orders.MsgServerError})
		}
		return
	}

	// refresh the read cache with the new projection
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if b, err := json.Marshal(proj); err == nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
		"id":         proj.ID,
		"status":     proj.Status,
		"statusText": proj.StatusText,
		"updatedAt":  proj.UpdatedAt,
	}})
}

func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	proj, err := h.Repo.Projection(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": orders.MsgOrderNotFound})
			return
		}
		log.Printf("order status order=%s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": orders.MsgServerError})
		return
	}

	b, _ := json.Marshal(proj)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func requestMeta(r *http.Request) orders.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return orders.RequestMeta{
		IP:        ip,
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
	}
}
