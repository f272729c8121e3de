package handler

import (
	"encoding/json"
	"net/http"

	"investment-flow-service/internal/domain"
	"investment-flow-service/internal/metrics"
	"investment-flow-service/internal/service"
	"investment-flow-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EscrowHandler struct {
	service *service.EscrowService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewEscrowHandler(s *service.EscrowService, logger *zap.Logger, m *metrics.Metrics) *EscrowHandler {
	return &EscrowHandler{service: s, logger: logger, metrics: m}
}

// CreateEscrowAccount opens a holding account for an offering; admin only.
// POST /api/v1/flow/escrow
func (h *EscrowHandler) CreateEscrowAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateEscrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("escrow account created",
		zap.String("account_id", e.ID),
		zap.String("offering_id", e.OfferingID),
		zap.String("admin_id", actor.ID))

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      e.ID,
		"status":  e.Status,
	})
}

// GetEscrowAccount fetches one account by id.
// GET /api/v1/flow/escrow/{accountID}
func (h *EscrowHandler) GetEscrowAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	e, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// GetOfferingEscrow fetches the escrow account behind an offering.
// GET /api/v1/flow/offerings/{offeringID}/escrow
func (h *EscrowHandler) GetOfferingEscrow(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	e, err := h.service.GetForOffering(r.Context(), actor, chi.URLParam(r, "offeringID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// UpdateEscrowStatus moves the account through its lifecycle; admin only.
// PATCH /api/v1/flow/escrow/{accountID}/status
func (h *EscrowHandler) UpdateEscrowStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Status domain.EscrowStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	if err := h.service.UpdateStatus(r.Context(), actor, accountID, req.Status); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("escrow status updated",
		zap.String("account_id", accountID),
		zap.String("status", string(req.Status)),
		zap.String("admin_id", actor.ID))
	response.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// UpdateEscrowBalance applies a signed delta to the held total; admin only.
// POST /api/v1/flow/escrow/{accountID}/balance
func (h *EscrowHandler) UpdateEscrowBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	balance, err := h.service.AdjustBalance(r.Context(), actor, accountID, req.AmountCents)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	direction := "deposit"
	if req.AmountCents < 0 {
		direction = "withdrawal"
	}
	h.metrics.EscrowAdjustments.WithLabelValues(direction).Inc()
	h.logger.Info("escrow balance adjusted",
		zap.String("account_id", accountID),
		zap.Int64("delta_cents", req.AmountCents),
		zap.Int64("balance_cents", balance))

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"total_held_cents": balance,
	})
}

// GetActiveEscrowAccounts lists accounts in active status; admin only.
// GET /api/v1/flow/escrow/active
func (h *EscrowHandler) GetActiveEscrowAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListActive(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}
