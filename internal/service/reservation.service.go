package service

import (
	"context"
	"time"

	"investment-flow-service/internal/domain"
	"investment-flow-service/pkg/id"
	xerrors "investment-flow-service/pkg/xerrors"
)

type ReservationService struct {
	repo  ReservationStore
	audit AuditStore
	now   func() time.Time
}

func NewReservationService(repo ReservationStore, audit AuditStore) *ReservationService {
	return &ReservationService{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

type CreateReservationRequest struct {
	OfferingID        string `json:"offering_id"`
	ShareQuantity     int64  `json:"share_quantity"`
	ExpirationMinutes int    `json:"expiration_minutes,omitempty"`
}

// Create places a time-boxed hold on shares of an offering. The caller must
// have a verified email; the hold window defaults to 30 minutes. Offering
// share inventory is not decremented here.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, req *CreateReservationRequest) (*domain.Reservation, error) {
	if !actor.EmailVerified {
		return nil, xerrors.ErrEmailNotVerified
	}
	if req.OfferingID == "" {
		return nil, xerrors.ErrInvalidInput
	}
	if req.ShareQuantity <= 0 {
		return nil, xerrors.ErrInvalidShareQuantity
	}

	ttl := domain.DefaultReservationTTL
	if req.ExpirationMinutes > 0 {
		ttl = time.Duration(req.ExpirationMinutes) * time.Minute
	}

	res := &domain.Reservation{
		ID:            id.New("res"),
		OfferingID:    req.OfferingID,
		UserID:        actor.ID,
		ShareQuantity: req.ShareQuantity,
		Status:        domain.ReservationActive,
		ExpiresAt:     s.now().Add(ttl),
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}

	log := &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "reservation",
		EntityID:   res.ID,
		Action:     "reserved",
		Actor:      actor.ID,
	}
	if err := s.audit.Insert(ctx, log); err != nil {
		return nil, err
	}
	return res, nil
}

// GetMine returns the caller's own reservations, with expiry derived.
func (s *ReservationService) GetMine(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	out, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.deriveExpiry(out)
	return out, nil
}

// Get fetches one reservation; only the owner or an admin may read it.
func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, reservationID string) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(res.UserID) {
		return nil, xerrors.ErrForbidden
	}
	res.Status = res.EffectiveStatus(s.now())
	return res, nil
}

// Cancel releases a hold. Cancelling an already-cancelled reservation is a
// no-op; cancelling a converted one is a conflict. An expired hold may still
// be cancelled explicitly, which just makes the release visible.
func (s *ReservationService) Cancel(ctx context.Context, actor domain.Actor, reservationID string) error {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if !actor.Owns(res.UserID) {
		return xerrors.ErrForbidden
	}

	switch res.Status {
	case domain.ReservationCancelled:
		return nil
	case domain.ReservationConverted:
		return xerrors.ErrConflict
	}

	if err := s.repo.UpdateStatus(ctx, reservationID, domain.ReservationCancelled,
		[]domain.ReservationStatus{domain.ReservationActive}); err != nil {
		return err
	}

	return s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "reservation",
		EntityID:   reservationID,
		Action:     "cancelled",
		Actor:      actor.ID,
	})
}

// Convert promotes a hold into an investment. Admin-only, and the hold must
// still be live: converting a cancelled or lapsed reservation is refused.
func (s *ReservationService) Convert(ctx context.Context, actor domain.Actor, reservationID string) error {
	if !actor.IsAdmin() {
		return xerrors.ErrForbidden
	}

	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if !res.IsHolding(s.now()) {
		return xerrors.ErrReservationNotActive
	}

	if err := s.repo.UpdateStatus(ctx, reservationID, domain.ReservationConverted,
		[]domain.ReservationStatus{domain.ReservationActive}); err != nil {
		return err
	}

	return s.audit.Insert(ctx, &domain.AuditLog{
		ID:         id.New("aud"),
		EntityType: "reservation",
		EntityID:   reservationID,
		Action:     "converted",
		Actor:      actor.ID,
	})
}

// ListForOffering returns every reservation against an offering, across all
// users. Restricted to admins and fundraisers.
func (s *ReservationService) ListForOffering(ctx context.Context, actor domain.Actor, offeringID string) ([]domain.Reservation, error) {
	if !actor.CanViewOffering() {
		return nil, xerrors.ErrForbidden
	}
	out, err := s.repo.ListByOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	s.deriveExpiry(out)
	return out, nil
}

func (s *ReservationService) deriveExpiry(list []domain.Reservation) {
	now := s.now()
	for i := range list {
		list[i].Status = list[i].EffectiveStatus(now)
	}
}
