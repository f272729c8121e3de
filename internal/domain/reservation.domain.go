package domain

import "time"

// ReservationStatus represents possible states of a share reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationConverted ReservationStatus = "converted"
	ReservationExpired   ReservationStatus = "expired"
)

// DefaultReservationTTL is applied when a create request does not carry
// an explicit expiration window.
const DefaultReservationTTL = 30 * time.Minute

// Reservation is a time-boxed hold on shares of an offering.
type Reservation struct {
	ID            string            `json:"id"`
	OfferingID    string            `json:"offering_id"`
	UserID        string            `json:"user_id"`
	ShareQuantity int64             `json:"share_quantity"`
	Status        ReservationStatus `json:"status"`
	ExpiresAt     time.Time         `json:"expires_at"`
	CreatedAt     time.Time         `json:"created_at"`
}

// EffectiveStatus derives expiry at read time: a stored `active` row whose
// hold window has lapsed reports as expired. No sweep job rewrites rows;
// every read site goes through this.
func (r *Reservation) EffectiveStatus(now time.Time) ReservationStatus {
	if r.Status == ReservationActive && now.After(r.ExpiresAt) {
		return ReservationExpired
	}
	return r.Status
}

// IsHolding reports whether the reservation still counts as an active hold.
func (r *Reservation) IsHolding(now time.Time) bool {
	return r.EffectiveStatus(now) == ReservationActive
}
