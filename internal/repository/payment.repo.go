package repository

import (
	"context"
	"errors"

	"investment-flow-service/internal/domain"
	xerrors "investment-flow-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `id, investment_id, payment_method, amount_cents, payment_reference,
	payment_date, receipt_url, receipt_key, notes, verification_status,
	verification_notes, verified_by, verified_at, created_at`

// Create inserts a new payment record. Status is always written as pending;
// the service layer never passes anything else.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO investment_payments
			(id, investment_id, payment_method, amount_cents, payment_reference,
			 payment_date, receipt_url, receipt_key, notes, verification_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING created_at
	`, p.ID, p.InvestmentID, p.PaymentMethod, p.AmountCents, p.PaymentReference,
		p.PaymentDate, p.ReceiptURL, p.ReceiptKey, p.Notes, p.VerificationStatus,
	).Scan(&p.CreatedAt)

	return err
}

// GetByID fetches a payment by its ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM investment_payments
		WHERE id=$1
	`, id)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByInvestment fetches every payment submitted against an investment.
func (r *PaymentRepo) ListByInvestment(ctx context.Context, investmentID string) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM investment_payments
		WHERE investment_id=$1
		ORDER BY created_at DESC
	`, investmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

// SumVerifiedByInvestment returns the running verified total for an
// investment; zero when nothing has been verified yet.
func (r *PaymentRepo) SumVerifiedByInvestment(ctx context.Context, investmentID string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM investment_payments
		WHERE investment_id=$1 AND verification_status='verified'
	`, investmentID).Scan(&total)
	return total, err
}

// MarkReviewed records the one-shot admin decision on a pending payment.
// The WHERE clause keeps the transition atomic: a payment that has already
// been reviewed yields ErrConflict rather than overwriting the decision.
func (r *PaymentRepo) MarkReviewed(ctx context.Context, id string, status domain.VerificationStatus, reviewerID string, notes *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE investment_payments
		SET verification_status=$2, verified_by=$3, verification_notes=$4, verified_at=NOW()
		WHERE id=$1 AND verification_status='pending'
	`, id, status, reviewerID, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return xerrors.ErrConflict
	}
	return nil
}

// ListPending fetches every payment awaiting review, oldest first.
func (r *PaymentRepo) ListPending(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM investment_payments
		WHERE verification_status='pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.InvestmentID, &p.PaymentMethod, &p.AmountCents, &p.PaymentReference,
		&p.PaymentDate, &p.ReceiptURL, &p.ReceiptKey, &p.Notes, &p.VerificationStatus,
		&p.VerificationNotes, &p.VerifiedBy, &p.VerifiedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
