package repository

import (
	"context"
	"errors"

	"investment-flow-service/internal/domain"
	xerrors "investment-flow-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EligibilityRepo struct {
	db *pgxpool.Pool
}

func NewEligibilityRepo(db *pgxpool.Pool) *EligibilityRepo {
	return &EligibilityRepo{db: db}
}

// UpsertParams carries the fields of an eligibility write. Nil pointers mean
// "leave the stored value alone" so a self-check can touch a subset of
// columns while an admin override replaces all of them.
type UpsertParams struct {
	UserID               string
	OfferingID           string
	IsEligible           *bool
	AccreditationStatus  *domain.AccreditationStatus
	JurisdictionCheck    *domain.JurisdictionCheck
	InvestmentLimitCents *int64
	Notes                *string
}

// Upsert writes the eligibility record keyed on (user_id, offering_id) as a
// single atomic statement. checked_at is stamped on every write.
func (r *EligibilityRepo) Upsert(ctx context.Context, p UpsertParams) (*domain.Eligibility, error) {
	var accr, jur *string
	if p.AccreditationStatus != nil {
		s := string(*p.AccreditationStatus)
		accr = &s
	}
	if p.JurisdictionCheck != nil {
		s := string(*p.JurisdictionCheck)
		jur = &s
	}

	var e domain.Eligibility
	err := r.db.QueryRow(ctx, `
		INSERT INTO eligibility_checks
			(user_id, offering_id, is_eligible, accreditation_status, jurisdiction_check,
			 investment_limit_cents, notes, checked_at)
		VALUES ($1,$2,$3,COALESCE($4,'not_checked'),COALESCE($5,'not_checked'),$6,$7,NOW())
		ON CONFLICT (user_id, offering_id) DO UPDATE SET
			is_eligible            = COALESCE(EXCLUDED.is_eligible, eligibility_checks.is_eligible),
			accreditation_status   = COALESCE($4, eligibility_checks.accreditation_status),
			jurisdiction_check     = COALESCE($5, eligibility_checks.jurisdiction_check),
			investment_limit_cents = COALESCE(EXCLUDED.investment_limit_cents, eligibility_checks.investment_limit_cents),
			notes                  = COALESCE(EXCLUDED.notes, eligibility_checks.notes),
			checked_at             = NOW()
		RETURNING user_id, offering_id, is_eligible, accreditation_status, jurisdiction_check,
		          investment_limit_cents, notes, checked_at
	`, p.UserID, p.OfferingID, p.IsEligible, accr, jur,
		p.InvestmentLimitCents, p.Notes,
	).Scan(
		&e.UserID, &e.OfferingID, &e.IsEligible, &e.AccreditationStatus,
		&e.JurisdictionCheck, &e.InvestmentLimitCents, &e.Notes, &e.CheckedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByUserOffering fetches the single record for a (user, offering) pair.
func (r *EligibilityRepo) GetByUserOffering(ctx context.Context, userID, offeringID string) (*domain.Eligibility, error) {
	var e domain.Eligibility
	err := r.db.QueryRow(ctx, `
		SELECT user_id, offering_id, is_eligible, accreditation_status, jurisdiction_check,
		       investment_limit_cents, notes, checked_at
		FROM eligibility_checks
		WHERE user_id=$1 AND offering_id=$2
	`, userID, offeringID).Scan(
		&e.UserID, &e.OfferingID, &e.IsEligible, &e.AccreditationStatus,
		&e.JurisdictionCheck, &e.InvestmentLimitCents, &e.Notes, &e.CheckedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByUser fetches a user's eligibility records across every offering.
func (r *EligibilityRepo) ListByUser(ctx context.Context, userID string) ([]domain.Eligibility, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, offering_id, is_eligible, accreditation_status, jurisdiction_check,
		       investment_limit_cents, notes, checked_at
		FROM eligibility_checks
		WHERE user_id=$1
		ORDER BY checked_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Eligibility
	for rows.Next() {
		var e domain.Eligibility
		if err := rows.Scan(
			&e.UserID, &e.OfferingID, &e.IsEligible, &e.AccreditationStatus,
			&e.JurisdictionCheck, &e.InvestmentLimitCents, &e.Notes, &e.CheckedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
