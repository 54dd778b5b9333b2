package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/tinkrentals/rent-ledger/internal/ledger"
	"github.com/tinkrentals/rent-ledger/internal/report"
	"github.com/tinkrentals/rent-ledger/internal/transport/middleware"
)

// RegisterAllRoutes wires the ledger and reporting handlers under /api/v1.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, ledgerHandler *ledger.Handler, reportHandler *report.Handler, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if ledgerHandler != nil {
			r.Route("/payments", func(pr chi.Router) {
				pr.Post("/", ledgerHandler.RecordAttempt)                  // POST /payments
				pr.Get("/{id}", ledgerHandler.GetPayment)                  // GET /payments/:id
				pr.Post("/{id}/transition", ledgerHandler.TransitionStatus) // POST /payments/:id/transition
			})

			r.Get("/leases/{id}/payments", ledgerHandler.ListLeasePayments)
		}

		r.Route("/landlords/{id}/payments", func(lr chi.Router) {
			if ledgerHandler != nil {
				lr.Get("/history", ledgerHandler.ListLandlordPayments)
			}
			if reportHandler != nil {
				lr.Get("/summary", reportHandler.GetSummary)
				lr.Get("/late", reportHandler.GetLatePayments)
			}
		})
	})
}
