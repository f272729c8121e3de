package handler

import (
	"errors"
	"net/http"

	"investment-flow-service/internal/domain"
	"investment-flow-service/internal/middleware"
	"investment-flow-service/pkg/response"
	xerrors "investment-flow-service/pkg/xerrors"

	"go.uber.org/zap"
)

// actorFromRequest rebuilds the authenticated caller from the context values
// the auth middleware stored. Handlers hand the Actor to the service layer
// explicitly; nothing below this point reads the request context.
func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok || userID == "" {
		return domain.Actor{}, false
	}
	role, _ := middleware.GetRole(r.Context())
	return domain.Actor{
		ID:            userID,
		Role:          domain.Role(role),
		EmailVerified: middleware.GetEmailVerified(r.Context()),
	}, true
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with the request id.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, xerrors.ErrEmailNotVerified),
		errors.Is(err, xerrors.ErrForbidden):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrConflict),
		errors.Is(err, xerrors.ErrReservationNotActive),
		errors.Is(err, xerrors.ErrPaymentAlreadyVerified),
		errors.Is(err, xerrors.ErrEscrowTransition),
		errors.Is(err, xerrors.ErrEscrowNegativeBalance):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, xerrors.ErrInvalidInput),
		errors.Is(err, xerrors.ErrInvalidShareQuantity),
		errors.Is(err, xerrors.ErrInvalidAccreditation),
		errors.Is(err, xerrors.ErrInvalidJurisdiction),
		errors.Is(err, xerrors.ErrEligibilityFieldsRequired),
		errors.Is(err, xerrors.ErrInvalidPaymentAmount),
		errors.Is(err, xerrors.ErrInvalidPaymentMethod),
		errors.Is(err, xerrors.ErrInvalidPaymentDecision),
		errors.Is(err, xerrors.ErrInvalidEscrowStatus),
		errors.Is(err, xerrors.ErrAccountNumberRequired):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("internal error",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
