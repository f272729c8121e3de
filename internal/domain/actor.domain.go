package domain

// Role is the caller's platform role as asserted by the identity service.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFundraiser Role = "fundraiser"
	RoleInvestor   Role = "investor"
)

// Actor is the authenticated caller. It is built once from the request
// context and passed explicitly into every service operation, so
// authorization rules stay unit-testable without a running server.
type Actor struct {
	ID            string `json:"id"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanViewOffering reports whether the actor may see offering-wide listings.
func (a Actor) CanViewOffering() bool {
	return a.Role == RoleAdmin || a.Role == RoleFundraiser
}

// Owns reports whether the actor owns a record belonging to userID,
// with admins allowed through everywhere ownership is checked.
func (a Actor) Owns(userID string) bool {
	return a.ID == userID || a.IsAdmin()
}
