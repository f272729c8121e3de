package service

import (
	"context"
	"sync"
	"time"

	"investment-flow-service/internal/domain"
	"investment-flow-service/internal/repository"
	xerrors "investment-flow-service/pkg/xerrors"
)

// In-memory stores mirroring the semantics of the pgx repositories, so the
// services can be exercised without a database.

type memReservationStore struct {
	mu    sync.Mutex
	items map[string]domain.Reservation
}

func newMemReservationStore() *memReservationStore {
	return &memReservationStore{items: make(map[string]domain.Reservation)}
}

func (m *memReservationStore) Create(_ context.Context, res *domain.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res.CreatedAt = time.Now()
	m.items[res.ID] = *res
	return nil
}

func (m *memReservationStore) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := res
	return &out, nil
}

func (m *memReservationStore) ListByUser(_ context.Context, userID string) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, res := range m.items {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *memReservationStore) ListByOffering(_ context.Context, offeringID string) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reservation
	for _, res := range m.items {
		if res.OfferingID == offeringID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *memReservationStore) UpdateStatus(_ context.Context, id string, to domain.ReservationStatus, allowedFrom []domain.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	for _, from := range allowedFrom {
		if res.Status == from {
			res.Status = to
			m.items[id] = res
			return nil
		}
	}
	return xerrors.ErrConflict
}

type memEligibilityStore struct {
	mu    sync.Mutex
	items map[string]domain.Eligibility // key: userID + "|" + offeringID
}

func newMemEligibilityStore() *memEligibilityStore {
	return &memEligibilityStore{items: make(map[string]domain.Eligibility)}
}

func eligKey(userID, offeringID string) string { return userID + "|" + offeringID }

func (m *memEligibilityStore) Upsert(_ context.Context, p repository.UpsertParams) (*domain.Eligibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := eligKey(p.UserID, p.OfferingID)
	e, ok := m.items[key]
	if !ok {
		e = domain.Eligibility{
			UserID:              p.UserID,
			OfferingID:          p.OfferingID,
			AccreditationStatus: domain.AccreditationNotChecked,
			JurisdictionCheck:   domain.JurisdictionNotChecked,
		}
	}
	if p.IsEligible != nil {
		e.IsEligible = p.IsEligible
	}
	if p.AccreditationStatus != nil {
		e.AccreditationStatus = *p.AccreditationStatus
	}
	if p.JurisdictionCheck != nil {
		e.JurisdictionCheck = *p.JurisdictionCheck
	}
	if p.InvestmentLimitCents != nil {
		e.InvestmentLimitCents = p.InvestmentLimitCents
	}
	if p.Notes != nil {
		e.Notes = p.Notes
	}
	e.CheckedAt = time.Now()
	m.items[key] = e

	out := e
	return &out, nil
}

func (m *memEligibilityStore) GetByUserOffering(_ context.Context, userID, offeringID string) (*domain.Eligibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[eligKey(userID, offeringID)]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := e
	return &out, nil
}

func (m *memEligibilityStore) ListByUser(_ context.Context, userID string) ([]domain.Eligibility, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Eligibility
	for _, e := range m.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memPaymentStore struct {
	mu    sync.Mutex
	items map[string]domain.Payment
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{items: make(map[string]domain.Payment)}
}

func (m *memPaymentStore) Create(_ context.Context, p *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.items[p.ID] = *p
	return nil
}

func (m *memPaymentStore) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := p
	return &out, nil
}

func (m *memPaymentStore) ListByInvestment(_ context.Context, investmentID string) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.items {
		if p.InvestmentID == investmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPaymentStore) SumVerifiedByInvestment(_ context.Context, investmentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, p := range m.items {
		if p.InvestmentID == investmentID && p.VerificationStatus == domain.VerificationVerified {
			total += p.AmountCents
		}
	}
	return total, nil
}

func (m *memPaymentStore) MarkReviewed(_ context.Context, id string, status domain.VerificationStatus, reviewerID string, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if p.VerificationStatus != domain.VerificationPending {
		return xerrors.ErrConflict
	}
	now := time.Now()
	p.VerificationStatus = status
	p.VerifiedBy = &reviewerID
	p.VerifiedAt = &now
	p.VerificationNotes = notes
	m.items[id] = p
	return nil
}

func (m *memPaymentStore) ListPending(_ context.Context) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Payment
	for _, p := range m.items {
		if p.VerificationStatus == domain.VerificationPending {
			out = append(out, p)
		}
	}
	return out, nil
}

type memEscrowStore struct {
	mu    sync.Mutex
	items map[string]domain.EscrowAccount
}

func newMemEscrowStore() *memEscrowStore {
	return &memEscrowStore{items: make(map[string]domain.EscrowAccount)}
}

func (m *memEscrowStore) Create(_ context.Context, e *domain.EscrowAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	m.items[e.ID] = *e
	return nil
}

func (m *memEscrowStore) GetByID(_ context.Context, id string) (*domain.EscrowAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	out := e
	return &out, nil
}

func (m *memEscrowStore) GetByOffering(_ context.Context, offeringID string) (*domain.EscrowAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.items {
		if e.OfferingID == offeringID {
			out := e
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memEscrowStore) CompareAndSetStatus(_ context.Context, id string, from, to domain.EscrowStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if e.Status != from {
		return xerrors.ErrConflict
	}
	e.Status = to
	e.UpdatedAt = time.Now()
	m.items[id] = e
	return nil
}

func (m *memEscrowStore) ApplyBalanceDelta(_ context.Context, id string, deltaCents int64, allowNegative bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return 0, xerrors.ErrNotFound
	}
	next := e.TotalHeldCents + deltaCents
	if !allowNegative && next < 0 {
		return 0, xerrors.ErrEscrowNegativeBalance
	}
	e.TotalHeldCents = next
	e.UpdatedAt = time.Now()
	m.items[id] = e
	return next, nil
}

func (m *memEscrowStore) ListActive(_ context.Context) ([]domain.EscrowAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EscrowAccount
	for _, e := range m.items {
		if e.Status == domain.EscrowActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAuditStore struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func newMemAuditStore() *memAuditStore { return &memAuditStore{} }

func (m *memAuditStore) Insert(_ context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memAuditStore) ListByEntity(_ context.Context, entityType, entityID string) ([]domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AuditLog
	for _, l := range m.logs {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}
