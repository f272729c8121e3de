package domain

import "time"

// AuditLog captures state changes and admin decisions across the flow.
type AuditLog struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"` // reservation | eligibility | payment | escrow_account
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
