package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/lifecycle"
)

// Идентичность вызывающего приходит в заголовках; сама аутентификация
// выполняется выше по цепочке (gateway) и сюда не входит.
const (
	headerActorID   = "X-Actor-ID"
	headerActorRole = "X-Actor-Role"

	defaultListLimit = 100
)

type createOrderRequest struct {
	DealerID string              `json:"dealer_id"`
	Items    []createItemRequest `json:"items"`
}

type createItemRequest struct {
	VariantID       string `json:"variant_id"`
	Qty             int32  `json:"qty"`
	DiscountPercent int32  `json:"discount_percent"`
}

type shipOrderRequest struct {
	Carrier   string `json:"carrier"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

type reportIssueRequest struct {
	Reason string `json:"reason"`
}

type resolveDisputeRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes"`
}

type orderItemResponse struct {
	ID              string `json:"id"`
	VariantID       string `json:"variant_id"`
	Qty             int32  `json:"qty"`
	UnitPriceMinor  int64  `json:"unit_price_minor"`
	DiscountPercent int32  `json:"discount_percent"`
	FinalPriceMinor int64  `json:"final_price_minor"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	DealerID      string              `json:"dealer_id"`
	CustomerID    string              `json:"customer_id,omitempty"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	ApprovedBy    string              `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time          `json:"approved_at,omitempty"`
	DeliveryDate  *time.Time          `json:"delivery_date,omitempty"`
	TotalMinor    int64               `json:"total_minor"`
	Items         []orderItemResponse `json:"items"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type trackingEntryResponse struct {
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	actor := strings.TrimSpace(r.Header.Get(headerActorID))
	items := make([]lifecycle.NewItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, lifecycle.NewItem{
			VariantID:       item.VariantID,
			Qty:             item.Qty,
			DiscountPercent: item.DiscountPercent,
		})
	}

	order, err := s.orchestrator.Create(req.DealerID, actor, items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	dealerID := strings.TrimSpace(r.URL.Query().Get("dealer_id"))
	if dealerID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "dealer_id query parameter is required"})
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	orders, err := s.orders.ListByDealer(dealerID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) listTracking(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	// Трекинг переживает удаление заказа, поэтому существование
	// самого заказа здесь не проверяется.
	entries, err := s.tracking.List(orderID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]trackingEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, trackingEntryResponse{
			Status:     string(entry.Status),
			Notes:      entry.Notes,
			Actor:      entry.Actor,
			OccurredAt: entry.Occurred,
		})
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) approveOrder(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get(headerActorID))

	order, err := s.orchestrator.Approve(chi.URLParam(r, "orderID"), actor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) shipOrder(w http.ResponseWriter, r *http.Request) {
	var req shipOrderRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	actor := strings.TrimSpace(r.Header.Get(headerActorID))
	order, err := s.orchestrator.Ship(chi.URLParam(r, "orderID"), actor, lifecycle.Shipment{
		Carrier:   req.Carrier,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	dealerID := strings.TrimSpace(r.Header.Get(headerActorID))

	order, err := s.orchestrator.ConfirmDelivery(chi.URLParam(r, "orderID"), dealerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) reportIssue(w http.ResponseWriter, r *http.Request) {
	var req reportIssueRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	dealerID := strings.TrimSpace(r.Header.Get(headerActorID))
	order, err := s.orchestrator.ReportIssue(chi.URLParam(r, "orderID"), dealerID, req.Reason)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor := strings.TrimSpace(r.Header.Get(headerActorID))
	role := domain.ActorRole(strings.TrimSpace(r.Header.Get(headerActorRole)))

	order, err := s.orchestrator.Cancel(chi.URLParam(r, "orderID"), actor, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) resolveDispute(w http.ResponseWriter, r *http.Request) {
	var req resolveDisputeRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	actor := strings.TrimSpace(r.Header.Get(headerActorID))
	order, err := s.orchestrator.ResolveDispute(
		chi.URLParam(r, "orderID"),
		actor,
		domain.OrderStatus(req.Outcome),
		req.Notes,
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.DeleteCancelled(chi.URLParam(r, "orderID")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError отображает доменную таксономию ошибок на HTTP-статусы.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrOwnership):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrVariantNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case domain.IsStateConflict(err):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrShipmentConflict):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case domain.IsDownstreamUnavailable(err):
		status = http.StatusServiceUnavailable
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed with internal error")
	}

	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Warn("failed to encode response body")
	}
}

// decodeOptionalBody читает JSON-тело, допуская его отсутствие.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:              item.ID,
			VariantID:       item.VariantID,
			Qty:             item.Qty,
			UnitPriceMinor:  item.UnitPriceMinor,
			DiscountPercent: item.DiscountPercent,
			FinalPriceMinor: item.FinalPriceMinor,
		})
	}

	return orderResponse{
		ID:            order.ID,
		DealerID:      order.DealerID,
		CustomerID:    order.CustomerID,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		ApprovedBy:    order.ApprovedBy,
		ApprovedAt:    order.ApprovedAt,
		DeliveryDate:  order.DeliveryDate,
		TotalMinor:    order.TotalMinor,
		Items:         items,
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}
