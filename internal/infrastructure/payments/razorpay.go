package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"

	"github.com/google/uuid"
	domainerrors "donation-hub.backend/internal/domain/errors"
)

// RazorpayAdapter translates the HMAC-verified provider contract. Orders
// carry amounts in minor units; a confirmation is only trusted when the
// caller-supplied signature matches HMAC-SHA256(secret, orderID|paymentID).
type RazorpayAdapter struct {
	keyID     string
	keySecret string
}

// RazorpayOrder is the provider-side order handed back to the client
type RazorpayOrder struct {
	OrderID  string
	Amount   int64 // minor units
	Currency string
	KeyID    string
}

// NewRazorpayAdapter creates a new razorpay adapter
func NewRazorpayAdapter(keyID, keySecret string) *RazorpayAdapter {
	return &RazorpayAdapter{keyID: keyID, keySecret: keySecret}
}

// Configured reports whether both credentials are present
func (a *RazorpayAdapter) Configured() bool {
	return a.keyID != "" && a.keySecret != ""
}

// CreateOrder creates a provider order for the given amount. The amount is
// converted to minor units (x100) as the provider API requires.
func (a *RazorpayAdapter) CreateOrder(amount float64, currency string) (*RazorpayOrder, error) {
	if !a.Configured() {
		return nil, domainerrors.ValidationFailed("razorpay credentials not configured", domainerrors.ErrProviderNotConfig)
	}
	if amount <= 0 {
		return nil, domainerrors.BadRequest("amount must be greater than zero")
	}

	return &RazorpayOrder{
		OrderID:  "order_" + uuid.New().String(),
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		KeyID:    a.keyID,
	}, nil
}

// Sign computes the expected signature for an order/payment pair
func (a *RazorpayAdapter) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(a.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a caller-supplied signature against the expected
// HMAC. Comparison is constant-time; any mismatch is ErrInvalidSignature and
// must never be treated as a payment failure.
func (a *RazorpayAdapter) VerifySignature(orderID, paymentID, signature string) error {
	if !a.Configured() {
		return domainerrors.ValidationFailed("razorpay credentials not configured", domainerrors.ErrProviderNotConfig)
	}
	expected := a.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domainerrors.ValidationFailed("invalid signature", domainerrors.ErrInvalidSignature)
	}
	return nil
}
