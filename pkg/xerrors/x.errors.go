package xerrors

import "errors"
import "github.com/jackc/pgx/v5/pgconn"

func ParsePGErrorCode(err error) string {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrConflict       = errors.New("conflict with current state")
)

// Reservations
var (
	ErrEmailNotVerified     = errors.New("please verify your email before reserving shares")
	ErrReservationNotActive = errors.New("reservation is no longer active")
	ErrInvalidShareQuantity = errors.New("share quantity must be a positive number")
)

// Eligibility
var (
	ErrEligibilityFieldsRequired = errors.New("accreditation status, jurisdiction check and eligibility decision are required")
	ErrInvalidAccreditation      = errors.New("invalid accreditation status")
	ErrInvalidJurisdiction       = errors.New("invalid jurisdiction check")
)

// Payments
var (
	ErrInvalidPaymentAmount   = errors.New("payment amount must be a positive number")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrPaymentAlreadyVerified = errors.New("payment has already been reviewed")
	ErrInvalidPaymentDecision = errors.New("invalid decision: must be 'verified', 'failed' or 'rejected'")
)

// Escrow
var (
	ErrEscrowTransition      = errors.New("escrow status transition not allowed")
	ErrEscrowNegativeBalance = errors.New("withdrawal would drive escrow balance negative")
	ErrInvalidEscrowStatus   = errors.New("invalid escrow status")
	ErrAccountNumberRequired = errors.New("account number required")
)
