package service

import (
	"context"

	"investment-flow-service/internal/domain"
	"investment-flow-service/internal/repository"
)

// Store interfaces are satisfied by the pgx repositories and by in-memory
// fakes in tests. Services depend on these, never on pgx directly.

type ReservationStore interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
	ListByOffering(ctx context.Context, offeringID string) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id string, to domain.ReservationStatus, allowedFrom []domain.ReservationStatus) error
}

type EligibilityStore interface {
	Upsert(ctx context.Context, p repository.UpsertParams) (*domain.Eligibility, error)
	GetByUserOffering(ctx context.Context, userID, offeringID string) (*domain.Eligibility, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Eligibility, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByInvestment(ctx context.Context, investmentID string) ([]domain.Payment, error)
	SumVerifiedByInvestment(ctx context.Context, investmentID string) (int64, error)
	MarkReviewed(ctx context.Context, id string, status domain.VerificationStatus, reviewerID string, notes *string) error
	ListPending(ctx context.Context) ([]domain.Payment, error)
}

type EscrowStore interface {
	Create(ctx context.Context, e *domain.EscrowAccount) error
	GetByID(ctx context.Context, id string) (*domain.EscrowAccount, error)
	GetByOffering(ctx context.Context, offeringID string) (*domain.EscrowAccount, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to domain.EscrowStatus) error
	ApplyBalanceDelta(ctx context.Context, id string, deltaCents int64, allowNegative bool) (int64, error)
	ListActive(ctx context.Context) ([]domain.EscrowAccount, error)
}

type AuditStore interface {
	Insert(ctx context.Context, log *domain.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error)
}
