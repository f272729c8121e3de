package repository

import (
	"context"
	"errors"

	"investment-flow-service/internal/domain"
	xerrors "investment-flow-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EscrowRepo struct {
	db *pgxpool.Pool
}

func NewEscrowRepo(db *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{db: db}
}

const escrowColumns = `id, offering_id, account_number, account_name, bank_name,
	release_conditions, notes, status, total_held_cents, created_at, updated_at`

// Create inserts a new escrow account with a zero balance.
func (r *EscrowRepo) Create(ctx context.Context, e *domain.EscrowAccount) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO escrow_accounts
			(id, offering_id, account_number, account_name, bank_name,
			 release_conditions, notes, status, total_held_cents, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,NOW(),NOW())
		RETURNING created_at, updated_at
	`, e.ID, e.OfferingID, e.AccountNumber, e.AccountName, e.BankName,
		e.ReleaseConditions, e.Notes, e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	return err
}

// GetByID fetches an escrow account by its ID.
func (r *EscrowRepo) GetByID(ctx context.Context, id string) (*domain.EscrowAccount, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+escrowColumns+`
		FROM escrow_accounts
		WHERE id=$1
	`, id)

	e, err := scanEscrow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// GetByOffering fetches the primary escrow account for an offering. When
// several exist the most recently created one wins.
func (r *EscrowRepo) GetByOffering(ctx context.Context, offeringID string) (*domain.EscrowAccount, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+escrowColumns+`
		FROM escrow_accounts
		WHERE offering_id=$1
		ORDER BY created_at DESC
		LIMIT 1
	`, offeringID)

	e, err := scanEscrow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// CompareAndSetStatus moves status from -> to only if the stored status still
// equals from, so concurrent admin updates cannot silently trample each other.
func (r *EscrowRepo) CompareAndSetStatus(ctx context.Context, id string, from, to domain.EscrowStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE escrow_accounts
		SET status=$3, updated_at=NOW()
		WHERE id=$1 AND status=$2
	`, id, from, to)
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

// ApplyBalanceDelta adds a signed delta to total_held_cents in a single
// statement, so concurrent deposits and withdrawals compose instead of
// racing. With allowNegative false the write is refused when the resulting
// balance would drop below zero.
func (r *EscrowRepo) ApplyBalanceDelta(ctx context.Context, id string, deltaCents int64, allowNegative bool) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE escrow_accounts
		SET total_held_cents = total_held_cents + $2, updated_at=NOW()
		WHERE id=$1 AND ($3 OR total_held_cents + $2 >= 0)
		RETURNING total_held_cents
	`, id, deltaCents, allowNegative).Scan(&balance)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := r.GetByID(ctx, id); err != nil {
				return 0, err
			}
			return 0, xerrors.ErrEscrowNegativeBalance
		}
		return 0, err
	}
	return balance, nil
}

// ListActive fetches every escrow account in active status.
func (r *EscrowRepo) ListActive(ctx context.Context) ([]domain.EscrowAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+escrowColumns+`
		FROM escrow_accounts
		WHERE status='active'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EscrowAccount
	for rows.Next() {
		e, err := scanEscrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanEscrow(row pgx.Row) (*domain.EscrowAccount, error) {
	var e domain.EscrowAccount
	err := row.Scan(
		&e.ID, &e.OfferingID, &e.AccountNumber, &e.AccountName, &e.BankName,
		&e.ReleaseConditions, &e.Notes, &e.Status, &e.TotalHeldCents,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
