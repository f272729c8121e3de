package handler

import (
	"encoding/json"
	"net/http"

	"investment-flow-service/internal/metrics"
	"investment-flow-service/internal/service"
	"investment-flow-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service *service.PaymentService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPaymentHandler(s *service.PaymentService, logger *zap.Logger, m *metrics.Metrics) *PaymentHandler {
	return &PaymentHandler{service: s, logger: logger, metrics: m}
}

// CreatePayment records funds submitted against an investment; status is
// forced to pending.
// POST /api/v1/flow/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("payment submitted",
		zap.String("payment_id", p.ID),
		zap.String("investment_id", p.InvestmentID),
		zap.Int64("amount_cents", p.AmountCents))

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":           true,
		"id":                p.ID,
		"payment_reference": p.PaymentReference,
		"status":            p.VerificationStatus,
	})
}

// GetPayment fetches one payment by id.
// GET /api/v1/flow/payments/{paymentID}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "paymentID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

// GetInvestmentPayments lists payments against an investment.
// GET /api/v1/flow/investments/{investmentID}/payments
func (h *PaymentHandler) GetInvestmentPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListByInvestment(r.Context(), actor, chi.URLParam(r, "investmentID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

// GetInvestmentPaymentTotal returns the verified running total.
// GET /api/v1/flow/investments/{investmentID}/payments/total
func (h *PaymentHandler) GetInvestmentPaymentTotal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	total, err := h.service.VerifiedTotal(r.Context(), actor, chi.URLParam(r, "investmentID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"total_cents": total})
}

// VerifyPayment records the one-shot admin decision on a pending payment.
// POST /api/v1/flow/payments/{paymentID}/review
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	paymentID := chi.URLParam(r, "paymentID")
	if paymentID == "" {
		response.Error(w, http.StatusBadRequest, "missing paymentID")
		return
	}

	var req service.ReviewPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.PaymentID = paymentID

	if err := h.service.Review(r.Context(), actor, &req); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.PaymentsReviewed.WithLabelValues(string(req.Decision)).Inc()
	h.logger.Info("payment reviewed",
		zap.String("payment_id", paymentID),
		zap.String("decision", string(req.Decision)),
		zap.String("admin_id", actor.ID))
	response.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetPendingPayments lists every payment awaiting review; admin only.
// GET /api/v1/flow/payments/pending
func (h *PaymentHandler) GetPendingPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}
