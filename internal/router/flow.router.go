package router

import (
	"net/http"
	"time"

	"investment-flow-service/internal/handler"
	"investment-flow-service/internal/metrics"
	"investment-flow-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Reservations *handler.ReservationHandler
	Eligibility  *handler.EligibilityHandler
	Payments     *handler.PaymentHandler
	Escrow       *handler.EscrowHandler
}

// New wires the flow routes behind auth, rate limiting and metrics.
func New(h Handlers, auth *middleware.AuthMiddleware, rdb *redis.Client, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(m.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(rdb, 100, time.Minute, 10*time.Minute, "flow"))

	// Public
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/api/v1/flow", func(r chi.Router) {
			r.Route("/reservations", func(r chi.Router) {
				r.Post("/", h.Reservations.CreateReservation)
				r.Get("/mine", h.Reservations.GetMyReservations)
				r.Get("/{reservationID}", h.Reservations.GetReservation)
				r.Post("/{reservationID}/cancel", h.Reservations.CancelReservation)
				r.Post("/{reservationID}/convert", h.Reservations.ConvertReservation)
			})

			r.Route("/eligibility", func(r chi.Router) {
				r.Post("/check", h.Eligibility.CheckEligibility)
				r.Get("/mine", h.Eligibility.GetMyEligibilityChecks)
				r.Get("/offering/{offeringID}", h.Eligibility.GetMyEligibility)
				r.Get("/offering/{offeringID}/eligible", h.Eligibility.IsEligible)
			})
			r.Put("/admin/eligibility", h.Eligibility.UpdateUserEligibility)

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", h.Payments.CreatePayment)
				r.Get("/pending", h.Payments.GetPendingPayments)
				r.Get("/{paymentID}", h.Payments.GetPayment)
				r.Post("/{paymentID}/review", h.Payments.VerifyPayment)
			})
			r.Get("/investments/{investmentID}/payments", h.Payments.GetInvestmentPayments)
			r.Get("/investments/{investmentID}/payments/total", h.Payments.GetInvestmentPaymentTotal)

			r.Route("/escrow", func(r chi.Router) {
				r.Post("/", h.Escrow.CreateEscrowAccount)
				r.Get("/active", h.Escrow.GetActiveEscrowAccounts)
				r.Get("/{accountID}", h.Escrow.GetEscrowAccount)
				r.Patch("/{accountID}/status", h.Escrow.UpdateEscrowStatus)
				r.Post("/{accountID}/balance", h.Escrow.UpdateEscrowBalance)
			})

			r.Get("/offerings/{offeringID}/reservations", h.Reservations.GetOfferingReservations)
			r.Get("/offerings/{offeringID}/escrow", h.Escrow.GetOfferingEscrow)
		})
	})

	return r
}
