package domain

import "time"

// AccreditationStatus tracks the investor-qualification check.
type AccreditationStatus string

const (
	AccreditationNotChecked AccreditationStatus = "not_checked"
	AccreditationPending    AccreditationStatus = "pending"
	AccreditationVerified   AccreditationStatus = "verified"
	AccreditationRejected   AccreditationStatus = "rejected"
	AccreditationExpired    AccreditationStatus = "expired"
)

// JurisdictionCheck tracks whether the investor's jurisdiction permits
// participation in the offering.
type JurisdictionCheck string

const (
	JurisdictionNotChecked JurisdictionCheck = "not_checked"
	JurisdictionAllowed    JurisdictionCheck = "allowed"
	JurisdictionRestricted JurisdictionCheck = "restricted"
	JurisdictionProhibited JurisdictionCheck = "prohibited"
)

// Eligibility records whether a user may invest in a specific offering.
// At most one record exists per (UserID, OfferingID); writes are upserts
// on that pair and every write stamps CheckedAt.
type Eligibility struct {
	UserID               string              `json:"user_id"`
	OfferingID           string              `json:"offering_id"`
	IsEligible           *bool               `json:"is_eligible,omitempty"`
	AccreditationStatus  AccreditationStatus `json:"accreditation_status"`
	JurisdictionCheck    JurisdictionCheck   `json:"jurisdiction_check"`
	InvestmentLimitCents *int64              `json:"investment_limit_cents,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	CheckedAt            time.Time           `json:"checked_at"`
}

func ValidAccreditationStatus(s AccreditationStatus) bool {
	switch s {
	case AccreditationNotChecked, AccreditationPending, AccreditationVerified,
		AccreditationRejected, AccreditationExpired:
		return true
	}
	return false
}

func ValidJurisdictionCheck(j JurisdictionCheck) bool {
	switch j {
	case JurisdictionNotChecked, JurisdictionAllowed, JurisdictionRestricted,
		JurisdictionProhibited:
		return true
	}
	return false
}
