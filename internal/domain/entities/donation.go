package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// DonationStatus represents the lifecycle state of a donation
type DonationStatus string

const (
	DonationStatusPending DonationStatus = "PENDING"
	DonationStatusSuccess DonationStatus = "SUCCESS"
	DonationStatusFailed  DonationStatus = "FAILED"
)

// IsTerminal reports whether no further transition is permitted
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusSuccess || s == DonationStatusFailed
}

// Donation represents a donation record in the ledger.
// ProviderOrderRef holds the provider's order id assigned before payment,
// ProviderPaymentRef the provider's payment id assigned on confirmation.
type Donation struct {
	ID                 uint           `json:"id"`
	UserID             uint           `json:"userId"`
	Amount             float64        `json:"amount"`
	Currency           string         `json:"currency"`
	Status             DonationStatus `json:"status"`
	ProviderOrderRef   null.String    `json:"providerOrderRef,omitempty"`
	ProviderPaymentRef null.String    `json:"providerPaymentRef,omitempty"`
	FailureReason      null.String    `json:"failureReason,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`

	// Join projection, populated on admin listings only
	User *DonorInfo `json:"user,omitempty"`
}

// DonorInfo is the read-only projection of the owning user on admin listings
type DonorInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateDonationInput represents input for starting a donation
type CreateDonationInput struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency"`
}

// CreateIntentResponse represents the mock provider's order creation response
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	DonationID   uint   `json:"donationId"`
}

// CreateOrderResponse represents the HMAC provider's order creation response.
// Amount is in minor units (e.g. paise), converted from the requested value.
type CreateOrderResponse struct {
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	KeyID      string `json:"keyId"`
	DonationID uint   `json:"donationId"`
}

// VerifyPaymentInput represents the HMAC provider's verification callback
type VerifyPaymentInput struct {
	OrderID    string `json:"orderId" binding:"required"`
	PaymentID  string `json:"paymentId" binding:"required"`
	Signature  string `json:"signature" binding:"required"`
	DonationID uint   `json:"donationId" binding:"required"`
}

// PaymentFailureInput represents a provider-reported payment failure
type PaymentFailureInput struct {
	DonationID uint   `json:"donationId" binding:"required"`
	Error      string `json:"error"`
}

// CreateHashResponse represents the checksum provider's order creation response
type CreateHashResponse struct {
	Hash       string `json:"hash"`
	MerchantID string `json:"merchantId"`
	OrderID    string `json:"orderId"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	DonationID uint   `json:"donationId"`
}

// ConfirmDonationInput represents a client confirmation by donation id
type ConfirmDonationInput struct {
	DonationID uint `json:"donationId" binding:"required"`
}

// AdminStats represents the admin dashboard aggregates.
// TotalAmount sums amounts over SUCCESS donations only.
type AdminStats struct {
	TotalUsers          int64   `json:"totalUsers"`
	TotalDonationsCount int64   `json:"totalDonationsCount"`
	TotalAmount         float64 `json:"totalAmount"`
}
