package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/tinkrentals/rent-ledger/internal/ledger"
	"github.com/tinkrentals/rent-ledger/internal/transport"
	"github.com/tinkrentals/rent-ledger/pkg/logger"
)

type ServiceAPI interface {
	Summarize(landlordID int64, asOf time.Time, recentLimit int) (*Summary, error)
	LatePayments(landlordID int64) ([]ledger.PaymentView, error)
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

// GetSummary serves the landlord payment dashboard. Query params:
// as_of (date, defaults to now) and limit (recent payments to include).
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlordID(w, r)
	if !ok {
		return
	}

	asOf := time.Now()
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		t, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid as_of date")
			return
		}
		// End of day so the whole as_of date is inside the window.
		asOf = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	summary, err := h.Service.Summarize(landlordID, asOf, limit)
	if err != nil {
		h.Logger.Error("GetSummary: service error", "error", err, "landlord_id", landlordID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetLatePayments(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := h.landlordID(w, r)
	if !ok {
		return
	}

	late, err := h.Service.LatePayments(landlordID)
	if err != nil {
		h.Logger.Error("GetLatePayments: service error", "error", err, "landlord_id", landlordID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"late_payments": late,
	})
}

func (h *Handler) landlordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid landlord ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid landlord ID")
		return 0, false
	}
	return id, true
}
