package payments

import (
	"donation-hub.backend/internal/config"
)

// Provider names accepted by the reconciliation flow
const (
	ProviderMock     = "mock"
	ProviderRazorpay = "razorpay"
	ProviderPayHere  = "payhere"
)

// Adapters bundles the configured provider adapters. Each adapter is
// stateless apart from its credentials and translates one provider's
// order/verification contract; the ledger transition itself stays with
// the caller.
type Adapters struct {
	Mock     *MockAdapter
	Razorpay *RazorpayAdapter
	PayHere  *PayHereAdapter
}

// NewAdapters creates the provider adapters from configuration
func NewAdapters(cfg *config.Config) *Adapters {
	return &Adapters{
		Mock:     NewMockAdapter(),
		Razorpay: NewRazorpayAdapter(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		PayHere:  NewPayHereAdapter(cfg.PayHere.MerchantID, cfg.PayHere.MerchantSecret),
	}
}
