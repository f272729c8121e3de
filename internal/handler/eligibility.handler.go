package handler

import (
	"encoding/json"
	"net/http"

	"investment-flow-service/internal/service"
	"investment-flow-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EligibilityHandler struct {
	service *service.EligibilityService
	logger  *zap.Logger
}

func NewEligibilityHandler(s *service.EligibilityService, logger *zap.Logger) *EligibilityHandler {
	return &EligibilityHandler{service: s, logger: logger}
}

// CheckEligibility upserts the caller's own eligibility record.
// POST /api/v1/flow/eligibility/check
func (h *EligibilityHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.SelfCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.SelfCheck(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// GetMyEligibility returns the caller's record for one offering, null when
// no check has been recorded.
// GET /api/v1/flow/eligibility/offering/{offeringID}
func (h *EligibilityHandler) GetMyEligibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	e, err := h.service.GetMine(r.Context(), actor, chi.URLParam(r, "offeringID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// IsEligible is the derived boolean convenience read.
// GET /api/v1/flow/eligibility/offering/{offeringID}/eligible
func (h *EligibilityHandler) IsEligible(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	eligible, err := h.service.IsEligible(r.Context(), actor, chi.URLParam(r, "offeringID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"eligible": eligible})
}

// GetMyEligibilityChecks lists the caller's records across all offerings.
// GET /api/v1/flow/eligibility/mine
func (h *EligibilityHandler) GetMyEligibilityChecks(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

// UpdateUserEligibility records an admin's authoritative judgment for any
// user; all core fields are required.
// PUT /api/v1/flow/admin/eligibility
func (h *EligibilityHandler) UpdateUserEligibility(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.Override(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("eligibility override",
		zap.String("user_id", req.UserID),
		zap.String("offering_id", req.OfferingID),
		zap.String("admin_id", actor.ID),
		zap.Bool("is_eligible", req.IsEligible))
	response.JSON(w, http.StatusOK, e)
}
