package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/notify"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/orders"
	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/shipping"
)

// NotificationsHandler is the operator-invoked trigger, independent of the
// automatic Kafka-driven flows. It dispatches synchronously and returns the
// per-channel result.
type NotificationsHandler struct {
	Repo       *orders.Repo
	Dispatcher *notify.Dispatcher
	Areas      *shipping.Catalog
}

func (h *NotificationsHandler) Register(r *chi.Mux) {
	r.Post("/notifications/send", h.send)
}

type sendRequest struct {
	OrderID           string `json:"orderId"`
	Type              string `json:"type"` // confirmation | status_update | admin_alert
	Status            string `json:"status,omitempty"`
	TrackingInfo      string `json:"trackingInfo,omitempty"`
	EstimatedDelivery string `json:"estimatedDelivery,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

func (h *NotificationsHandler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
		return
	}
	if req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "orderId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	order, err := h.Repo.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": orders.MsgOrderNotFound})
			return
		}
		log.Printf("load order %s: %v", req.OrderID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": orders.MsgServerError})
		return
	}

	var res notify.Result
	switch req.Type {
	case "confirmation":
		res = h.Dispatcher.SendConfirmation(ctx, h.placedPayload(order))
	case "admin_alert":
		res = h.Dispatcher.SendAdminAlert(ctx, h.placedPayload(order))
	case "status_update":
		status := order.Status
		if req.Status != "" {
			status = orders.Status(req.Status)
			if !status.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": orders.MsgInvalidStatus})
				return
			}
		}
		res = h.Dispatcher.SendStatusUpdate(ctx, events.StatusUpdatePayload{
			OrderID:           order.ID,
			OrderNumber:       order.OrderNumber,
			CustomerName:      order.Customer.Name,
			CustomerPhone:     order.Customer.Phone,
			CustomerEmail:     order.Customer.Email,
			Status:            string(status),
			StatusText:        status.Text(),
			TrackingInfo:      firstOf(req.TrackingInfo, order.TrackingInfo),
			EstimatedDelivery: firstOf(req.EstimatedDelivery, order.EstimatedDelivery),
			Notes:             firstOf(req.Notes, order.Notes),
		})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "unknown notification type"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *NotificationsHandler) placedPayload(o *orders.Order) events.OrderPlacedPayload {
	areaName := o.Customer.AreaID
	if a, ok := h.Areas.Area(o.Customer.AreaID); ok {
		areaName = a.Name
	}
	p := events.OrderPlacedPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.Customer.Name,
		CustomerPhone: o.Customer.Phone,
		CustomerEmail: o.Customer.Email,
		AreaName:      areaName,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		IPAddress:     o.IPAddress,
		RiskScore:     o.RiskScore,
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, events.ItemSnapshot{
			ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity,
			UnitPrice: it.UnitPrice, LineTotal: it.LineTotal,
		})
	}
	return p
}

func firstOf(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
