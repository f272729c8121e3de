package service

import (
	"context"

	"investment-flow-service/internal/domain"
	"investment-flow-service/internal/repository"
	"investment-flow-service/pkg/id"
	xerrors "investment-flow-service/pkg/xerrors"
)

type EligibilityService struct {
	repo  EligibilityStore
	audit AuditStore
}

func NewEligibilityService(repo EligibilityStore, audit AuditStore) *EligibilityService {
	return &EligibilityService{repo: repo, audit: audit}
}

// SelfCheckRequest carries the fields a user may assert about themselves.
// Everything is optional; omitted fields keep their stored value.
type SelfCheckRequest struct {
	OfferingID           string                      `json:"offering_id"`
	IsEligible           *bool                       `json:"is_eligible,omitempty"`
	AccreditationStatus  *domain.AccreditationStatus `json:"accreditation_status,omitempty"`
	JurisdictionCheck    *domain.JurisdictionCheck   `json:"jurisdiction_check,omitempty"`
	InvestmentLimitCents *int64                      `json:"investment_limit_cents,omitempty"`
	Notes                *string                     `json:"notes,omitempty"`
}

// OverrideRequest is the admin variant: the core fields are mandatory,
// because an override must be a complete, authoritative judgment.
type OverrideRequest struct {
	UserID               string                     `json:"user_id"`
	OfferingID           string                     `json:"offering_id"`
	IsEligible           bool                       `json:"is_eligible"`
	AccreditationStatus  domain.AccreditationStatus `json:"accreditation_status"`
	JurisdictionCheck    domain.JurisdictionCheck   `json:"jurisdiction_check"`
	InvestmentLimitCents *int64                     `json:"investment_limit_cents,omitempty"`
	Notes                *string                    `json:"notes,omitempty"`
}

// SelfCheck upserts the caller's own eligibility record for an offering.
func (s *EligibilityService) SelfCheck(ctx context.Context, actor domain.Actor, req *SelfCheckRequest) (*domain.Eligibility, error) {
	if req.OfferingID == "" {
		return nil, xerrors.ErrInvalidInput
	}
	if req.AccreditationStatus != nil && !domain.ValidAccreditationStatus(*req.AccreditationStatus) {
		return nil, xerrors.ErrInvalidAccreditation
	}
	if req.JurisdictionCheck != nil && !domain.ValidJurisdictionCheck(*req.JurisdictionCheck) {
		return nil, xerrors.ErrInvalidJurisdiction
	}

	return s.repo.Upsert(ctx, repository.UpsertParams{
		UserID:               actor.ID,
		OfferingID:           req.OfferingID,
		IsEligible:           req.IsEligible,
		AccreditationStatus:  req.AccreditationStatus,
		JurisdictionCheck:    req.JurisdictionCheck,
		InvestmentLimitCents: req.InvestmentLimitCents,
		Notes:                req.Notes,
	})
}

// GetMine returns the caller's record for an offering, or nil when no check
// has been recorded yet.
func (s *EligibilityService) GetMine(ctx context.Context, actor domain.Actor, offeringID string) (*domain.Eligibility, error) {
	e, err := s.repo.GetByUserOffering(ctx, actor.ID, offeringID)
	if err != nil {
		if err == xerrors.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// IsEligible is the derived boolean convenience read: true only when a
// record exists and carries an affirmative decision.
func (s *EligibilityService) IsEligible(ctx context.Context, actor domain.Actor, offeringID string) (bool, error) {
	e, err := s.GetMine(ctx, actor, offeringID)
	if err != nil {
		return false, err
	}
	return e != nil && e.IsEligible != nil && *e.IsEligible, nil
}

// ListMine returns the caller's eligibility records across every offering.
func (s *EligibilityService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Eligibility, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Override records an admin's authoritative eligibility judgment for any
// user. Same upsert key as SelfCheck, so the admin write replaces whatever
// the user asserted.
func (s *EligibilityService) Override(ctx context.Context, actor domain.Actor, req *OverrideRequest) (*domain.Eligibility, error) {
	if !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	if req.UserID == "" || req.OfferingID == "" {
		return nil, xerrors.ErrInvalidInput
	}
	if req.AccreditationStatus == "" || req.JurisdictionCheck == "" {
		return nil, xerrors.ErrEligibilityFieldsRequired
	}
	if !domain.ValidAccreditationStatus(req.AccreditationStatus) {
		return nil, xerrors.ErrInvalidAccreditation
	}
	if !domain.ValidJurisdictionCheck(req.JurisdictionCheck) {
		return nil, xerrors.ErrInvalidJurisdiction
	}

	e, err := s.repo.Upsert(ctx, repository.UpsertParams{
		UserID:               req.UserID,
		OfferingID:           req.OfferingID,
		IsEligible:           &req.IsEligible,
		AccreditationStatus:  &req.AccreditationStatus,
		JurisdictionCheck:    &req.JurisdictionCheck,
		InvestmentLimitCents: req.InvestmentLimitCents,
		Notes:                req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "eligibility",
		EntityID:   req.UserID + ":" + req.OfferingID,
		Action:     "override",
		Actor:      actor.ID,
	}); err != nil {
		return nil, err
	}
	return e, nil
}
