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

type ReservationHandler struct {
	service *service.ReservationService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewReservationHandler(s *service.ReservationService, logger *zap.Logger, m *metrics.Metrics) *ReservationHandler {
	return &ReservationHandler{service: s, logger: logger, metrics: m}
}

// CreateReservation places a share hold for the caller.
// POST /api/v1/flow/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.ReservationsCreated.Inc()
	h.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("offering_id", res.OfferingID),
		zap.Int64("share_quantity", res.ShareQuantity))

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"id":         res.ID,
		"expires_at": res.ExpiresAt,
	})
}

// GetMyReservations returns the caller's reservations.
// GET /api/v1/flow/reservations/mine
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.GetMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

// GetReservation fetches one reservation; owner or admin only.
// GET /api/v1/flow/reservations/{reservationID}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "reservationID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// CancelReservation releases a hold; owner or admin only.
// POST /api/v1/flow/reservations/{reservationID}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservationID := chi.URLParam(r, "reservationID")
	if err := h.service.Cancel(r.Context(), actor, reservationID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("reservation cancelled", zap.String("reservation_id", reservationID))
	response.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ConvertReservation promotes a hold into an investment; admin only.
// POST /api/v1/flow/reservations/{reservationID}/convert
func (h *ReservationHandler) ConvertReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservationID := chi.URLParam(r, "reservationID")
	if err := h.service.Convert(r.Context(), actor, reservationID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("reservation converted",
		zap.String("reservation_id", reservationID),
		zap.String("admin_id", actor.ID))
	response.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetOfferingReservations lists every hold against an offering; admin or
// fundraiser only.
// GET /api/v1/flow/offerings/{offeringID}/reservations
func (h *ReservationHandler) GetOfferingReservations(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.service.ListForOffering(r.Context(), actor, chi.URLParam(r, "offeringID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}
