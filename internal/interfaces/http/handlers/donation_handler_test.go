package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
	"donation-hub.backend/internal/interfaces/http/middleware"
)

type donationServiceStub struct {
	intentFn         func(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateIntentResponse, error)
	confirmMockFn    func(ctx context.Context, donationID uint) error
	orderFn          func(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateOrderResponse, error)
	verifyFn         func(ctx context.Context, input *entities.VerifyPaymentInput) error
	failureFn        func(ctx context.Context, input *entities.PaymentFailureInput) error
	checkoutFn       func(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateHashResponse, error)
	confirmPayHereFn func(ctx context.Context, donationID uint) error
	historyFn        func(ctx context.Context, userID uint) ([]*entities.Donation, error)
}

func (s donationServiceStub) CreateMockIntent(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateIntentResponse, error) {
	return s.intentFn(ctx, userID, input)
}
func (s donationServiceStub) ConfirmMock(ctx context.Context, donationID uint) error {
	return s.confirmMockFn(ctx, donationID)
}
func (s donationServiceStub) CreateRazorpayOrder(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateOrderResponse, error) {
	return s.orderFn(ctx, userID, input)
}
func (s donationServiceStub) VerifyRazorpayPayment(ctx context.Context, input *entities.VerifyPaymentInput) error {
	return s.verifyFn(ctx, input)
}
func (s donationServiceStub) ReportRazorpayFailure(ctx context.Context, input *entities.PaymentFailureInput) error {
	return s.failureFn(ctx, input)
}
func (s donationServiceStub) CreatePayHereCheckout(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateHashResponse, error) {
	return s.checkoutFn(ctx, userID, input)
}
func (s donationServiceStub) ConfirmPayHere(ctx context.Context, donationID uint) error {
	return s.confirmPayHereFn(ctx, donationID)
}
func (s donationServiceStub) History(ctx context.Context, userID uint) ([]*entities.Donation, error) {
	return s.historyFn(ctx, userID)
}

func newDonationRouter(service DonationService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDonationHandler(service)
	r := gin.New()
	withUser := func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}
	donations := r.Group("/donations", withUser)
	donations.POST("/create-payment-intent", h.CreatePaymentIntent)
	donations.POST("/confirm-payment", h.ConfirmPayment)
	donations.POST("/razorpay/create-order", h.CreateRazorpayOrder)
	donations.POST("/razorpay/verify", h.VerifyRazorpayPayment)
	donations.POST("/razorpay/failure", h.ReportRazorpayFailure)
	donations.POST("/payhere/create-hash", h.CreatePayHereHash)
	donations.POST("/payhere/confirm", h.ConfirmPayHere)
	donations.GET("/my-history", h.GetMyHistory)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDonationHandler_CreatePaymentIntent(t *testing.T) {
	service := donationServiceStub{
		intentFn: func(_ context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateIntentResponse, error) {
			require.EqualValues(t, 7, userID)
			if input.Amount <= 0 {
				return nil, domainerrors.BadRequest("amount must be greater than zero")
			}
			return &entities.CreateIntentResponse{ClientSecret: "mock_secret_1", DonationID: 1}, nil
		},
	}
	r := newDonationRouter(service, 7)

	w := postJSON(t, r, "/donations/create-payment-intent", `{"amount":100,"currency":"usd"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp entities.CreateIntentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "mock_secret_1", resp.ClientSecret)
	require.EqualValues(t, 1, resp.DonationID)

	w = postJSON(t, r, "/donations/create-payment-intent", `{"amount":-5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/donations/create-payment-intent", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_RequiresAuthenticatedUser(t *testing.T) {
	r := newDonationRouter(donationServiceStub{}, 0)

	for _, path := range []string{
		"/donations/create-payment-intent",
		"/donations/razorpay/create-order",
		"/donations/payhere/create-hash",
	} {
		w := postJSON(t, r, path, `{"amount":100}`)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/donations/my-history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDonationHandler_ConfirmPayment(t *testing.T) {
	confirmed := []uint{}
	service := donationServiceStub{
		confirmMockFn: func(_ context.Context, donationID uint) error {
			if donationID == 99 {
				return domainerrors.Conflict("donation already SUCCESS")
			}
			confirmed = append(confirmed, donationID)
			return nil
		},
	}
	r := newDonationRouter(service, 7)

	w := postJSON(t, r, "/donations/confirm-payment", `{"donationId":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []uint{3}, confirmed)
	require.Contains(t, w.Body.String(), "SUCCESS")

	w = postJSON(t, r, "/donations/confirm-payment", `{"donationId":99}`)
	require.Equal(t, http.StatusConflict, w.Code)

	// donationId is required
	w = postJSON(t, r, "/donations/confirm-payment", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_RazorpayOrderAndVerify(t *testing.T) {
	service := donationServiceStub{
		orderFn: func(_ context.Context, _ uint, input *entities.CreateDonationInput) (*entities.CreateOrderResponse, error) {
			return &entities.CreateOrderResponse{
				OrderID:    "order_abc",
				Amount:     int64(input.Amount * 100),
				Currency:   "INR",
				KeyID:      "rzp_test_key",
				DonationID: 5,
			}, nil
		},
		verifyFn: func(_ context.Context, input *entities.VerifyPaymentInput) error {
			if input.Signature == "deadbeef" {
				return domainerrors.ValidationFailed("invalid signature", domainerrors.ErrInvalidSignature)
			}
			return nil
		},
		failureFn: func(_ context.Context, input *entities.PaymentFailureInput) error {
			return nil
		},
	}
	r := newDonationRouter(service, 7)

	w := postJSON(t, r, "/donations/razorpay/create-order", `{"amount":500}`)
	require.Equal(t, http.StatusOK, w.Code)

	var order entities.CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	require.Equal(t, "order_abc", order.OrderID)
	require.EqualValues(t, 50000, order.Amount)

	w = postJSON(t, r, "/donations/razorpay/verify", `{"orderId":"order_abc","paymentId":"pay_123","signature":"goodsig","donationId":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/donations/razorpay/verify", `{"orderId":"order_abc","paymentId":"pay_123","signature":"deadbeef","donationId":5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// all verify fields are required
	w = postJSON(t, r, "/donations/razorpay/verify", `{"orderId":"order_abc"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/donations/razorpay/failure", `{"donationId":5,"error":"card declined"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "UPDATED")
}

func TestDonationHandler_PayHere(t *testing.T) {
	service := donationServiceStub{
		checkoutFn: func(_ context.Context, _ uint, input *entities.CreateDonationInput) (*entities.CreateHashResponse, error) {
			if input.Currency == "XXX" {
				return nil, domainerrors.ValidationFailed("payhere merchant credentials not configured", domainerrors.ErrProviderNotConfig)
			}
			return &entities.CreateHashResponse{
				Hash:       "2FA3EB40C2DE1871FE794B2D08B1E115",
				MerchantID: "1211149",
				OrderID:    "DH-1",
				Amount:     "500.00",
				Currency:   "LKR",
				DonationID: 9,
			}, nil
		},
		confirmPayHereFn: func(_ context.Context, donationID uint) error {
			return domainerrors.NotFound("donation not found")
		},
	}
	r := newDonationRouter(service, 7)

	w := postJSON(t, r, "/donations/payhere/create-hash", `{"amount":500,"currency":"LKR"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp entities.CreateHashResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "500.00", resp.Amount)
	require.Equal(t, "DH-1", resp.OrderID)

	w = postJSON(t, r, "/donations/payhere/create-hash", `{"amount":500,"currency":"XXX"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/donations/payhere/confirm", `{"donationId":42}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDonationHandler_MyHistory(t *testing.T) {
	service := donationServiceStub{
		historyFn: func(_ context.Context, userID uint) ([]*entities.Donation, error) {
			require.EqualValues(t, 7, userID)
			return []*entities.Donation{
				{ID: 2, UserID: userID, Amount: 50, Status: entities.DonationStatusSuccess},
				{ID: 1, UserID: userID, Amount: 25, Status: entities.DonationStatusPending},
			}, nil
		},
	}
	r := newDonationRouter(service, 7)

	req := httptest.NewRequest(http.MethodGet, "/donations/my-history", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var donations []*entities.Donation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &donations))
	require.Len(t, donations, 2)
	require.EqualValues(t, 2, donations[0].ID)
}
