package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/tinkrentals/rent-ledger/internal/transport"
	"github.com/tinkrentals/rent-ledger/pkg/logger"
)

type ServiceAPI interface {
	RecordAttempt(ctx context.Context, dto *RecordAttemptDTO) (*Payment, error)
	TransitionStatus(ctx context.Context, id int64, next Status) (*Payment, error)
	GetByID(id int64) (*Payment, error)
	ListByLease(leaseID int64) ([]*Payment, error)
	ListByLandlord(landlordID int64, filter ListFilter) ([]*Payment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var dto RecordAttemptDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RecordAttempt: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.Service.RecordAttempt(r.Context(), &dto)
	if err != nil {
		h.Logger.Error("RecordAttempt: service error", "error", err, "landlord_id", dto.LandlordID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, NewPaymentView(payment))
}

func (h *Handler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	var dto TransitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("TransitionStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.Service.TransitionStatus(r.Context(), id, dto.Status)
	if err != nil {
		h.Logger.Error("TransitionStatus: service error", "error", err, "payment_id", id, "status", dto.Status)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewPaymentView(payment))
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}

	payment, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewPaymentView(payment))
}

func (h *Handler) ListLeasePayments(w http.ResponseWriter, r *http.Request) {
	leaseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid lease ID")
		return
	}

	payments, err := h.Service.ListByLease(leaseID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments": NewPaymentViews(payments),
	})
}

// ListLandlordPayments is the payment history endpoint. Optional query
// params: status, from, to (dates), limit, offset.
func (h *Handler) ListLandlordPayments(w http.ResponseWriter, r *http.Request) {
	landlordID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid landlord ID")
		return
	}

	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	payments, err := h.Service.ListByLandlord(landlordID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments": NewPaymentViews(payments),
	})
}

func (h *Handler) paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid payment ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid payment ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	filter := ListFilter{Limit: 50}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = Status(status)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid from date")
			return filter, false
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid to date")
			return filter, false
		}
		filter.To = t
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			filter.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	return filter, true
}
