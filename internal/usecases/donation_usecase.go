package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"donation-hub.backend/internal/domain/entities"
	"donation-hub.backend/internal/infrastructure/payments"
	"donation-hub.backend/pkg/logger"
)

// DonationUsecase is the reconciliation flow: it ties an order-creation
// request to a provider adapter, inserts the PENDING ledger record, and
// applies the adapter's verification outcome as a ledger transition.
type DonationUsecase struct {
	ledger   *LedgerUsecase
	adapters *payments.Adapters
}

// NewDonationUsecase creates a new donation usecase
func NewDonationUsecase(ledger *LedgerUsecase, adapters *payments.Adapters) *DonationUsecase {
	return &DonationUsecase{
		ledger:   ledger,
		adapters: adapters,
	}
}

// CreateMockIntent creates a PENDING donation against the mock provider.
// The returned client secret proves nothing; this path is for development.
func (u *DonationUsecase) CreateMockIntent(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateIntentResponse, error) {
	donation, err := u.ledger.Start(ctx, userID, input.Amount, input.Currency, null.String{})
	if err != nil {
		return nil, err
	}

	return &entities.CreateIntentResponse{
		ClientSecret: u.adapters.Mock.CreateIntent(),
		DonationID:   donation.ID,
	}, nil
}

// ConfirmMock transitions a mock donation to SUCCESS. No proof of payment
// is required on this path; it trusts the caller and must not be exposed
// in production.
func (u *DonationUsecase) ConfirmMock(ctx context.Context, donationID uint) error {
	return u.ledger.MarkSucceeded(ctx, donationID, u.adapters.Mock.PaymentRef())
}

// CreateRazorpayOrder creates a provider order and the PENDING record keyed
// by the provider's order id.
func (u *DonationUsecase) CreateRazorpayOrder(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateOrderResponse, error) {
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	order, err := u.adapters.Razorpay.CreateOrder(input.Amount, currency)
	if err != nil {
		return nil, err
	}

	donation, err := u.ledger.Start(ctx, userID, input.Amount, currency, null.StringFrom(order.OrderID))
	if err != nil {
		return nil, err
	}

	return &entities.CreateOrderResponse{
		OrderID:    order.OrderID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		KeyID:      order.KeyID,
		DonationID: donation.ID,
	}, nil
}

// VerifyRazorpayPayment checks the provider signature and, only on an exact
// match, transitions the donation to SUCCESS. A bad signature leaves the
// record PENDING: garbage callbacks must not be able to fail someone
// else's donation. The donation must be the one created for the verified
// order id, so a valid signature for one order cannot close another record.
func (u *DonationUsecase) VerifyRazorpayPayment(ctx context.Context, input *entities.VerifyPaymentInput) error {
	if err := u.adapters.Razorpay.VerifySignature(input.OrderID, input.PaymentID, input.Signature); err != nil {
		logger.Warn(ctx, "razorpay signature verification failed",
			zap.Uint("donation_id", input.DonationID),
			zap.String("order_id", input.OrderID),
		)
		return err
	}

	return u.ledger.MarkSucceededForOrder(ctx, input.DonationID, input.OrderID, input.PaymentID)
}

// ReportRazorpayFailure records a provider-reported payment failure.
// This is the provider saying the payment failed, not a forged signature.
func (u *DonationUsecase) ReportRazorpayFailure(ctx context.Context, input *entities.PaymentFailureInput) error {
	reason := input.Error
	if reason == "" {
		reason = "payment failed"
	}
	return u.ledger.MarkFailed(ctx, input.DonationID, reason)
}

// CreatePayHereCheckout creates the PENDING record and the checkout hash
// the client needs to open the provider's payment page.
func (u *DonationUsecase) CreatePayHereCheckout(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateHashResponse, error) {
	currency := input.Currency
	if currency == "" {
		currency = "LKR"
	}

	orderID := "DH-" + uuid.New().String()
	checkout, err := u.adapters.PayHere.CreateCheckout(orderID, input.Amount, currency)
	if err != nil {
		return nil, err
	}

	donation, err := u.ledger.Start(ctx, userID, input.Amount, currency, null.StringFrom(orderID))
	if err != nil {
		return nil, err
	}

	return &entities.CreateHashResponse{
		Hash:       checkout.Hash,
		MerchantID: checkout.MerchantID,
		OrderID:    checkout.OrderID,
		Amount:     checkout.Amount,
		Currency:   checkout.Currency,
		DonationID: donation.ID,
	}, nil
}

// ConfirmPayHere transitions a checkout donation to SUCCESS on the client's
// assertion alone. The provider's redirect flow gives the server no
// independent proof here; the terminal-state rule is the only protection
// against replays.
func (u *DonationUsecase) ConfirmPayHere(ctx context.Context, donationID uint) error {
	return u.ledger.MarkSucceeded(ctx, donationID, "")
}

// History lists the authenticated user's donations, newest first
func (u *DonationUsecase) History(ctx context.Context, userID uint) ([]*entities.Donation, error) {
	return u.ledger.History(ctx, userID)
}
