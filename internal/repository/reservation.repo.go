package repository

import (
	"context"
	"errors"

	"investment-flow-service/internal/domain"
	xerrors "investment-flow-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepo struct {
	db *pgxpool.Pool
}

func NewReservationRepo(db *pgxpool.Pool) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Create inserts a new share reservation.
func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO share_reservations
			(id, offering_id, user_id, share_quantity, status, expires_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at
	`, res.ID, res.OfferingID, res.UserID, res.ShareQuantity, res.Status, res.ExpiresAt,
	).Scan(&res.CreatedAt)

	return err
}

// GetByID fetches a reservation by its ID.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := r.db.QueryRow(ctx, `
		SELECT id, offering_id, user_id, share_quantity, status, expires_at, created_at
		FROM share_reservations
		WHERE id=$1
	`, id).Scan(
		&res.ID, &res.OfferingID, &res.UserID, &res.ShareQuantity,
		&res.Status, &res.ExpiresAt, &res.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}

	return &res, nil
}

// ListByUser fetches all reservations a user has made, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, offering_id, user_id, share_quantity, status, expires_at, created_at
		FROM share_reservations
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// ListByOffering fetches every reservation against an offering across users.
func (r *ReservationRepo) ListByOffering(ctx context.Context, offeringID string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, offering_id, user_id, share_quantity, status, expires_at, created_at
		FROM share_reservations
		WHERE offering_id=$1
		ORDER BY created_at DESC
	`, offeringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// UpdateStatus transitions a reservation conditionally: the write only lands
// if the stored status is one of allowedFrom, so two concurrent decisions on
// the same row cannot both succeed. Returns ErrConflict when the row exists
// but is no longer in an allowed state.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id string, to domain.ReservationStatus, allowedFrom []domain.ReservationStatus) error {
	from := make([]string, len(allowedFrom))
	for i, s := range allowedFrom {
		from[i] = string(s)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE share_reservations
		SET status=$2
		WHERE id=$1 AND status = ANY($3)
	`, id, to, from)
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

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID, &res.OfferingID, &res.UserID, &res.ShareQuantity,
			&res.Status, &res.ExpiresAt, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
