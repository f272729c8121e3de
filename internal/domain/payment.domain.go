package domain

import "time"

// PaymentMethod is how the investor moved the funds.
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWireTransfer PaymentMethod = "wire_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentACH          PaymentMethod = "ach"
	PaymentCheck        PaymentMethod = "check"
	PaymentCrypto       PaymentMethod = "crypto"
	PaymentOther        PaymentMethod = "other"
)

// VerificationStatus gates recognition of a payment behind admin review.
// It starts at pending and moves exactly once to a terminal state.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
	VerificationRejected VerificationStatus = "rejected"
)

// Payment is a record of funds applied toward an investment. Only verified
// payments count toward the investment's running total.
type Payment struct {
	ID                 string             `json:"id"`
	InvestmentID       string             `json:"investment_id"`
	PaymentMethod      PaymentMethod      `json:"payment_method"`
	AmountCents        int64              `json:"amount_cents"`
	PaymentReference   *string            `json:"payment_reference,omitempty"`
	PaymentDate        *time.Time         `json:"payment_date,omitempty"`
	ReceiptURL         *string            `json:"receipt_url,omitempty"`
	ReceiptKey         *string            `json:"receipt_key,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerificationNotes  *string            `json:"verification_notes,omitempty"`
	VerifiedBy         *string            `json:"verified_by,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentBankTransfer, PaymentWireTransfer, PaymentCreditCard,
		PaymentDebitCard, PaymentACH, PaymentCheck, PaymentCrypto, PaymentOther:
		return true
	}
	return false
}

// ValidVerificationDecision reports whether s is a legal target for an
// admin review. pending is never a target: verification is one-way.
func ValidVerificationDecision(s VerificationStatus) bool {
	return s == VerificationVerified || s == VerificationFailed || s == VerificationRejected
}
