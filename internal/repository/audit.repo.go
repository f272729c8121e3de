package repository

import (
	"context"

	"investment-flow-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	db *pgxpool.Pool
}

func NewAuditRepo(db *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert records an action in the flow audit log.
func (r *AuditRepo) Insert(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO flow_audit_logs (id, entity_type, entity_id, action, actor, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
	`, log.ID, log.EntityType, log.EntityID, log.Action, log.Actor, log.Notes)
	return err
}

// ListByEntity fetches audit logs for one entity, oldest first.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, entity_type, entity_id, action, actor, notes, created_at
		FROM flow_audit_logs
		WHERE entity_type=$1 AND entity_id=$2
		ORDER BY created_at ASC
	`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &l.Actor, &l.Notes, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
