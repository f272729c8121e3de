package service

import (
	"context"
	"errors"
	"time"

	"investment-flow-service/internal/domain"
	"investment-flow-service/pkg/id"
	xerrors "investment-flow-service/pkg/xerrors"
)

type PaymentService struct {
	repo  PaymentStore
	audit AuditStore
}

func NewPaymentService(repo PaymentStore, audit AuditStore) *PaymentService {
	return &PaymentService{repo: repo, audit: audit}
}

type CreatePaymentRequest struct {
	InvestmentID     string               `json:"investment_id"`
	PaymentMethod    domain.PaymentMethod `json:"payment_method"`
	AmountCents      int64                `json:"amount_cents"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	PaymentDate      *time.Time           `json:"payment_date,omitempty"`
	ReceiptURL       *string              `json:"receipt_url,omitempty"`
	ReceiptKey       *string              `json:"receipt_key,omitempty"`
	Notes            *string              `json:"notes,omitempty"`
}

type ReviewPaymentRequest struct {
	PaymentID string                    `json:"payment_id"` // set in handler from URL param
	Decision  domain.VerificationStatus `json:"decision"`
	Notes     *string                   `json:"notes,omitempty"`
}

// Create records funds submitted against an investment. The verification
// status is forced to pending regardless of input, so recognition can never
// be self-asserted. A reference is generated when the caller supplies none.
func (s *PaymentService) Create(ctx context.Context, actor domain.Actor, req *CreatePaymentRequest) (*domain.Payment, error) {
	if req.InvestmentID == "" {
		return nil, xerrors.ErrInvalidInput
	}
	if req.AmountCents <= 0 {
		return nil, xerrors.ErrInvalidPaymentAmount
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return nil, xerrors.ErrInvalidPaymentMethod
	}

	ref := req.PaymentReference
	if ref == nil {
		generated := id.GenerateReference("PAY")
		ref = &generated
	}

	p := &domain.Payment{
		ID:                 id.New("pay"),
		InvestmentID:       req.InvestmentID,
		PaymentMethod:      req.PaymentMethod,
		AmountCents:        req.AmountCents,
		PaymentReference:   ref,
		PaymentDate:        req.PaymentDate,
		ReceiptURL:         req.ReceiptURL,
		ReceiptKey:         req.ReceiptKey,
		Notes:              req.Notes,
		VerificationStatus: domain.VerificationPending,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "payment",
		EntityID:   p.ID,
		Action:     "submitted",
		Actor:      actor.ID,
	}); err != nil {
		return nil, err
	}
	return p, nil
}

// Get fetches one payment. Any authenticated caller may read by id; no
// ownership restriction exists at this layer.
func (s *PaymentService) Get(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// ListByInvestment returns every payment submitted against an investment.
func (s *PaymentService) ListByInvestment(ctx context.Context, actor domain.Actor, investmentID string) ([]domain.Payment, error) {
	return s.repo.ListByInvestment(ctx, investmentID)
}

// VerifiedTotal sums amount_cents over the investment's verified payments.
func (s *PaymentService) VerifiedTotal(ctx context.Context, actor domain.Actor, investmentID string) (int64, error) {
	return s.repo.SumVerifiedByInvestment(ctx, investmentID)
}

// Review records the one-shot admin decision on a pending payment. A payment
// already moved off pending cannot be reviewed again, in either direction.
func (s *PaymentService) Review(ctx context.Context, actor domain.Actor, req *ReviewPaymentRequest) error {
	if !actor.IsAdmin() {
		return xerrors.ErrForbidden
	}
	if !domain.ValidVerificationDecision(req.Decision) {
		return xerrors.ErrInvalidPaymentDecision
	}

	if err := s.repo.MarkReviewed(ctx, req.PaymentID, req.Decision, actor.ID, req.Notes); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return xerrors.ErrPaymentAlreadyVerified
		}
		return err
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}
	return s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "payment",
		EntityID:   req.PaymentID,
		Action:     string(req.Decision),
		Actor:      actor.ID,
		Notes:      notes,
	})
}

// ListPending returns every payment awaiting review, platform-wide.
func (s *PaymentService) ListPending(ctx context.Context, actor domain.Actor) ([]domain.Payment, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.ListPending(ctx)
}
