package service

import (
	"context"
	"fmt"

	"investment-flow-service/internal/domain"
	"investment-flow-service/pkg/id"
	xerrors "investment-flow-service/pkg/xerrors"
)

// EscrowPolicy holds the invariants the platform left configurable: whether
// a withdrawal may drive the balance negative, and whether status changes
// must follow the adjacency table.
type EscrowPolicy struct {
	AllowNegativeBalance bool
	EnforceTransitions   bool
}

type EscrowService struct {
	repo   EscrowStore
	audit  AuditStore
	policy EscrowPolicy
}

func NewEscrowService(repo EscrowStore, audit AuditStore, policy EscrowPolicy) *EscrowService {
	return &EscrowService{repo: repo, audit: audit, policy: policy}
}

type CreateEscrowRequest struct {
	OfferingID        string  `json:"offering_id"`
	AccountNumber     string  `json:"account_number"`
	AccountName       *string `json:"account_name,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	ReleaseConditions *string `json:"release_conditions,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// Create opens a holding account for an offering. Admin-only; the account
// starts in pending_setup with a zero balance.
func (s *EscrowService) Create(ctx context.Context, actor domain.Actor, req *CreateEscrowRequest) (*domain.EscrowAccount, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	if req.OfferingID == "" {
		return nil, xerrors.ErrInvalidInput
	}
	if req.AccountNumber == "" {
		return nil, xerrors.ErrAccountNumberRequired
	}

	e := &domain.EscrowAccount{
		ID:                id.New("esc"),
		OfferingID:        req.OfferingID,
		AccountNumber:     req.AccountNumber,
		AccountName:       req.AccountName,
		BankName:          req.BankName,
		ReleaseConditions: req.ReleaseConditions,
		Notes:             req.Notes,
		Status:            domain.EscrowPendingSetup,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if err := s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "escrow_account",
		EntityID:   e.ID,
		Action:     "created",
		Actor:      actor.ID,
	}); err != nil {
		return nil, err
	}
	return e, nil
}

// Get fetches an escrow account by id. Open to any authenticated caller.
func (s *EscrowService) Get(ctx context.Context, actor domain.Actor, accountID string) (*domain.EscrowAccount, error) {
	return s.repo.GetByID(ctx, accountID)
}

// GetForOffering fetches the offering's escrow account. Open to any
// authenticated caller.
func (s *EscrowService) GetForOffering(ctx context.Context, actor domain.Actor, offeringID string) (*domain.EscrowAccount, error) {
	return s.repo.GetByOffering(ctx, offeringID)
}

// UpdateStatus moves the account through its lifecycle. With transition
// enforcement on, only adjacent steps are accepted; either way the write is
// compare-and-set against the status the decision was made on.
func (s *EscrowService) UpdateStatus(ctx context.Context, actor domain.Actor, accountID string, to domain.EscrowStatus) error {
	if !actor.IsAdmin() {
		return xerrors.ErrForbidden
	}
	if !domain.ValidEscrowStatus(to) {
		return xerrors.ErrInvalidEscrowStatus
	}

	e, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if e.Status == to {
		return nil
	}
	if s.policy.EnforceTransitions && !domain.CanTransitionEscrow(e.Status, to) {
		return xerrors.ErrEscrowTransition
	}

	if err := s.repo.CompareAndSetStatus(ctx, accountID, e.Status, to); err != nil {
		return err
	}

	return s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "escrow_account",
		EntityID:   accountID,
		Action:     "status_" + string(to),
		Actor:      actor.ID,
	})
}

// AdjustBalance applies a signed delta to the held total: deposits positive,
// withdrawals negative. The balance is never overwritten directly.
func (s *EscrowService) AdjustBalance(ctx context.Context, actor domain.Actor, accountID string, deltaCents int64) (int64, error) {
	if !actor.IsAdmin() {
		return 0, xerrors.ErrForbidden
	}
	if deltaCents == 0 {
		return 0, xerrors.ErrInvalidInput
	}

	balance, err := s.repo.ApplyBalanceDelta(ctx, accountID, deltaCents, s.policy.AllowNegativeBalance)
	if err != nil {
		return 0, err
	}

	action := "deposit"
	if deltaCents < 0 {
		action = "withdrawal"
	}
	if err := s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "escrow_account",
		EntityID:   accountID,
		Action:     action,
		Actor:      actor.ID,
		Notes:      fmt.Sprintf("delta_cents=%d balance_cents=%d", deltaCents, balance),
	}); err != nil {
		return 0, err
	}
	return balance, nil
}

// ListActive returns every account currently in active status. Admin-only.
func (s *EscrowService) ListActive(ctx context.Context, actor domain.Actor) ([]domain.EscrowAccount, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.ListActive(ctx)
}
