package domain

import "time"

// EscrowStatus represents the lifecycle of an offering's holding account.
type EscrowStatus string

const (
	EscrowPendingSetup EscrowStatus = "pending_setup"
	EscrowActive       EscrowStatus = "active"
	EscrowReleasing    EscrowStatus = "releasing"
	EscrowReleased     EscrowStatus = "released"
	EscrowClosed       EscrowStatus = "closed"
)

// EscrowAccount is a bank-style holding account tied to one offering.
// TotalHeldCents moves only through signed deltas, never a direct overwrite.
type EscrowAccount struct {
	ID                string       `json:"id"`
	OfferingID        string       `json:"offering_id"`
	AccountNumber     string       `json:"account_number"`
	AccountName       *string      `json:"account_name,omitempty"`
	BankName          *string      `json:"bank_name,omitempty"`
	ReleaseConditions *string      `json:"release_conditions,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
	Status            EscrowStatus `json:"status"`
	TotalHeldCents    int64        `json:"total_held_cents"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func ValidEscrowStatus(s EscrowStatus) bool {
	switch s {
	case EscrowPendingSetup, EscrowActive, EscrowReleasing, EscrowReleased, EscrowClosed:
		return true
	}
	return false
}

// escrowTransitions is the adjacency table enforced when strict transitions
// are enabled. closed is terminal.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowPendingSetup: {EscrowActive, EscrowClosed},
	EscrowActive:       {EscrowReleasing, EscrowClosed},
	EscrowReleasing:    {EscrowReleased, EscrowActive},
	EscrowReleased:     {EscrowClosed},
	EscrowClosed:       {},
}

// CanTransitionEscrow reports whether from -> to is an allowed step.
func CanTransitionEscrow(from, to EscrowStatus) bool {
	for _, next := range escrowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
