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

func newEligibilityService() (*EligibilityService, *memEligibilityStore) {
	store := newMemEligibilityStore()
	return NewEligibilityService(store, newMemAuditStore()), store
}

func boolPtr(b bool) *bool       { return &b }
func int64Ptr(v int64) *int64    { return &v }
func strPtr(s string) *string    { return &s }

func accrPtr(s domain.AccreditationStatus) *domain.AccreditationStatus { return &s }
func jurPtr(j domain.JurisdictionCheck) *domain.JurisdictionCheck     { return &j }

func TestSelfCheckUpsertsSingleRecordPerPair(t *testing.T) {
	svc, store := newEligibilityService()

	first, err := svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:          "off_7",
		AccreditationStatus: accrPtr(domain.AccreditationPending),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AccreditationPending, first.AccreditationStatus)
	assert.Equal(t, domain.JurisdictionNotChecked, first.JurisdictionCheck)

	time.Sleep(time.Millisecond)

	second, err := svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:        "off_7",
		JurisdictionCheck: jurPtr(domain.JurisdictionAllowed),
	})
	require.NoError(t, err)

	// still one record for the pair, fields merged, checkedAt advanced
	assert.Len(t, store.items, 1)
	assert.Equal(t, domain.AccreditationPending, second.AccreditationStatus)
	assert.Equal(t, domain.JurisdictionAllowed, second.JurisdictionCheck)
	assert.True(t, second.CheckedAt.After(first.CheckedAt))
}

func TestSelfCheckValidatesEnums(t *testing.T) {
	svc, _ := newEligibilityService()

	_, err := svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:          "off_7",
		AccreditationStatus: accrPtr("bogus"),
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidAccreditation)

	_, err = svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:        "off_7",
		JurisdictionCheck: jurPtr("elsewhere"),
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidJurisdiction)

	_, err = svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestGetMineReturnsNilWhenAbsent(t *testing.T) {
	svc, _ := newEligibilityService()

	e, err := svc.GetMine(context.Background(), investorA, "off_7")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestIsEligibleDerivation(t *testing.T) {
	svc, _ := newEligibilityService()

	// no record
	ok, err := svc.IsEligible(context.Background(), investorA, "off_7")
	require.NoError(t, err)
	assert.False(t, ok)

	// record without a decision
	_, err = svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:          "off_7",
		AccreditationStatus: accrPtr(domain.AccreditationPending),
	})
	require.NoError(t, err)
	ok, err = svc.IsEligible(context.Background(), investorA, "off_7")
	require.NoError(t, err)
	assert.False(t, ok)

	// affirmative decision
	_, err = svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID: "off_7",
		IsEligible: boolPtr(true),
	})
	require.NoError(t, err)
	ok, err = svc.IsEligible(context.Background(), investorA, "off_7")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListMineSpansOfferings(t *testing.T) {
	svc, _ := newEligibilityService()
	for _, off := range []string{"off_1", "off_2", "off_3"} {
		_, err := svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{OfferingID: off})
		require.NoError(t, err)
	}
	_, err := svc.SelfCheck(context.Background(), investorB, &SelfCheckRequest{OfferingID: "off_1"})
	require.NoError(t, err)

	list, err := svc.ListMine(context.Background(), investorA)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestOverrideAdminOnlyAndComplete(t *testing.T) {
	svc, _ := newEligibilityService()

	req := &OverrideRequest{
		UserID:              investorA.ID,
		OfferingID:          "off_7",
		IsEligible:          true,
		AccreditationStatus: domain.AccreditationVerified,
		JurisdictionCheck:   domain.JurisdictionAllowed,
	}

	for _, actor := range []domain.Actor{investorA, investorB, raiserD} {
		_, err := svc.Override(context.Background(), actor, req)
		require.ErrorIs(t, err, xerrors.ErrForbidden)
	}

	_, err := svc.Override(context.Background(), adminC, &OverrideRequest{
		UserID:     investorA.ID,
		OfferingID: "off_7",
		IsEligible: true,
	})
	require.ErrorIs(t, err, xerrors.ErrEligibilityFieldsRequired)

	e, err := svc.Override(context.Background(), adminC, req)
	require.NoError(t, err)
	require.NotNil(t, e.IsEligible)
	assert.True(t, *e.IsEligible)
	assert.Equal(t, domain.AccreditationVerified, e.AccreditationStatus)
}

func TestOverrideReplacesSelfCheckOnSameKey(t *testing.T) {
	svc, store := newEligibilityService()

	_, err := svc.SelfCheck(context.Background(), investorA, &SelfCheckRequest{
		OfferingID:           "off_7",
		IsEligible:           boolPtr(true),
		InvestmentLimitCents: int64Ptr(500_000),
		Notes:                strPtr("self asserted"),
	})
	require.NoError(t, err)

	e, err := svc.Override(context.Background(), adminC, &OverrideRequest{
		UserID:              investorA.ID,
		OfferingID:          "off_7",
		IsEligible:          false,
		AccreditationStatus: domain.AccreditationRejected,
		JurisdictionCheck:   domain.JurisdictionProhibited,
	})
	require.NoError(t, err)

	assert.Len(t, store.items, 1)
	require.NotNil(t, e.IsEligible)
	assert.False(t, *e.IsEligible)
	assert.Equal(t, domain.AccreditationRejected, e.AccreditationStatus)
	// untouched optional fields survive the override
	require.NotNil(t, e.InvestmentLimitCents)
	assert.Equal(t, int64(500_000), *e.InvestmentLimitCents)
}
