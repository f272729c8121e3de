package service

import (
	"context"
	"testing"
	"time"

	"investment-flow-service/internal/domain"
	xerrors "investment-flow-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	investorA = domain.Actor{ID: "user_a", Role: domain.RoleInvestor, EmailVerified: true}
	investorB = domain.Actor{ID: "user_b", Role: domain.RoleInvestor, EmailVerified: true}
	adminC    = domain.Actor{ID: "admin_c", Role: domain.RoleAdmin, EmailVerified: true}
	raiserD   = domain.Actor{ID: "raiser_d", Role: domain.RoleFundraiser, EmailVerified: true}
)

func newReservationService() (*ReservationService, *memReservationStore, *memAuditStore) {
	store := newMemReservationStore()
	audit := newMemAuditStore()
	return NewReservationService(store, audit), store, audit
}

func TestCreateReservationRequiresVerifiedEmail(t *testing.T) {
	svc, _, _ := newReservationService()
	unverified := domain.Actor{ID: "user_x", Role: domain.RoleInvestor, EmailVerified: false}

	_, err := svc.Create(context.Background(), unverified, &CreateReservationRequest{
		OfferingID:    "off_7",
		ShareQuantity: 10,
	})
	require.ErrorIs(t, err, xerrors.ErrEmailNotVerified)
}

func TestCreateReservationDefaultsAndExplicitTTL(t *testing.T) {
	svc, _, _ := newReservationService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	res, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID:    "off_7",
		ShareQuantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, base.Add(30*time.Minute), res.ExpiresAt)
	assert.Equal(t, domain.ReservationActive, res.Status)
	assert.NotEmpty(t, res.ID)

	res, err = svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID:        "off_7",
		ShareQuantity:     5,
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, base.Add(15*time.Minute), res.ExpiresAt)
}

func TestCreateReservationRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newReservationService()

	for _, qty := range []int64{0, -3} {
		_, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
			OfferingID:    "off_7",
			ShareQuantity: qty,
		})
		require.ErrorIs(t, err, xerrors.ErrInvalidShareQuantity)
	}
}

func TestGetReservationOwnershipIsolation(t *testing.T) {
	svc, _, _ := newReservationService()
	res, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID:    "off_7",
		ShareQuantity: 10,
	})
	require.NoError(t, err)

	// owner reads fine
	got, err := svc.Get(context.Background(), investorA, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	// another investor is forbidden
	_, err = svc.Get(context.Background(), investorB, res.ID)
	require.ErrorIs(t, err, xerrors.ErrForbidden)

	// fundraisers get no ownership override either
	_, err = svc.Get(context.Background(), raiserD, res.ID)
	require.ErrorIs(t, err, xerrors.ErrForbidden)

	// any admin reads fine
	got, err = svc.Get(context.Background(), adminC, res.ID)
	require.NoError(t, err)
	assert.Equal(t, investorA.ID, got.UserID)

	_, err = svc.Get(context.Background(), investorA, "res_missing")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGetMyReservationsScopedToCaller(t *testing.T) {
	svc, _, _ := newReservationService()
	_, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{OfferingID: "off_1", ShareQuantity: 1})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), investorB, &CreateReservationRequest{OfferingID: "off_1", ShareQuantity: 2})
	require.NoError(t, err)

	mine, err := svc.GetMine(context.Background(), investorA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, investorA.ID, mine[0].UserID)

	// no admin override on the "mine" listing
	mine, err = svc.GetMine(context.Background(), adminC)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestExpiryIsDerivedAtRead(t *testing.T) {
	svc, _, _ := newReservationService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	res, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID:        "off_7",
		ShareQuantity:     10,
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(16 * time.Minute) }

	got, err := svc.Get(context.Background(), investorA, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationExpired, got.Status)

	mine, err := svc.GetMine(context.Background(), investorA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.ReservationExpired, mine[0].Status)
}

func TestCancelReservation(t *testing.T) {
	svc, _, audit := newReservationService()
	res, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{OfferingID: "off_7", ShareQuantity: 10})
	require.NoError(t, err)

	// non-owner cannot cancel
	require.ErrorIs(t, svc.Cancel(context.Background(), investorB, res.ID), xerrors.ErrForbidden)

	require.NoError(t, svc.Cancel(context.Background(), investorA, res.ID))
	got, err := svc.Get(context.Background(), investorA, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, got.Status)

	// cancelling again is a no-op
	require.NoError(t, svc.Cancel(context.Background(), investorA, res.ID))

	logs, err := audit.ListByEntity(context.Background(), "reservation", res.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2) // reserved + cancelled
	assert.Equal(t, "cancelled", logs[1].Action)
}

func TestConvertReservation(t *testing.T) {
	svc, _, _ := newReservationService()
	res, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{OfferingID: "off_7", ShareQuantity: 10})
	require.NoError(t, err)

	// only admins convert, owner included
	require.ErrorIs(t, svc.Convert(context.Background(), investorA, res.ID), xerrors.ErrForbidden)
	require.ErrorIs(t, svc.Convert(context.Background(), raiserD, res.ID), xerrors.ErrForbidden)

	require.NoError(t, svc.Convert(context.Background(), adminC, res.ID))
	got, err := svc.Get(context.Background(), adminC, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConverted, got.Status)

	// a converted hold cannot be cancelled afterwards
	require.ErrorIs(t, svc.Cancel(context.Background(), investorA, res.ID), xerrors.ErrConflict)
}

func TestConvertRefusesLapsedOrCancelledHolds(t *testing.T) {
	svc, _, _ := newReservationService()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	lapsed, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID: "off_7", ShareQuantity: 10, ExpirationMinutes: 5,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(10 * time.Minute) }
	require.ErrorIs(t, svc.Convert(context.Background(), adminC, lapsed.ID), xerrors.ErrReservationNotActive)

	svc.now = func() time.Time { return base }
	cancelled, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{
		OfferingID: "off_7", ShareQuantity: 10,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), investorA, cancelled.ID))
	require.ErrorIs(t, svc.Convert(context.Background(), adminC, cancelled.ID), xerrors.ErrReservationNotActive)
}

func TestOfferingReservationsRoleGate(t *testing.T) {
	svc, _, _ := newReservationService()
	_, err := svc.Create(context.Background(), investorA, &CreateReservationRequest{OfferingID: "off_7", ShareQuantity: 10})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), investorB, &CreateReservationRequest{OfferingID: "off_7", ShareQuantity: 4})
	require.NoError(t, err)

	_, err = svc.ListForOffering(context.Background(), investorA, "off_7")
	require.ErrorIs(t, err, xerrors.ErrForbidden)

	for _, actor := range []domain.Actor{adminC, raiserD} {
		list, err := svc.ListForOffering(context.Background(), actor, "off_7")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	}
}
