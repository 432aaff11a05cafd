package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
	"donation-hub.backend/internal/interfaces/http/middleware"
	"donation-hub.backend/internal/interfaces/http/response"
)

type DonationService interface {
	CreateMockIntent(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateIntentResponse, error)
	ConfirmMock(ctx context.Context, donationID uint) error
	CreateRazorpayOrder(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateOrderResponse, error)
	VerifyRazorpayPayment(ctx context.Context, input *entities.VerifyPaymentInput) error
	ReportRazorpayFailure(ctx context.Context, input *entities.PaymentFailureInput) error
	CreatePayHereCheckout(ctx context.Context, userID uint, input *entities.CreateDonationInput) (*entities.CreateHashResponse, error)
	ConfirmPayHere(ctx context.Context, donationID uint) error
	History(ctx context.Context, userID uint) ([]*entities.Donation, error)
}

// DonationHandler handles donation endpoints across all payment providers
type DonationHandler struct {
	donationUsecase DonationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationUsecase DonationService) *DonationHandler {
	return &DonationHandler{donationUsecase: donationUsecase}
}

// CreatePaymentIntent creates a mock payment intent
// POST /api/v1/donations/create-payment-intent
func (h *DonationHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	var input entities.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.donationUsecase.CreateMockIntent(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ConfirmPayment confirms a mock payment
// POST /api/v1/donations/confirm-payment
func (h *DonationHandler) ConfirmPayment(c *gin.Context) {
	var input entities.ConfirmDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.donationUsecase.ConfirmMock(c.Request.Context(), input.DonationID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(entities.DonationStatusSuccess)})
}

// CreateRazorpayOrder creates a razorpay order
// POST /api/v1/donations/razorpay/create-order
func (h *DonationHandler) CreateRazorpayOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	var input entities.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.donationUsecase.CreateRazorpayOrder(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// VerifyRazorpayPayment verifies a razorpay payment signature
// POST /api/v1/donations/razorpay/verify
func (h *DonationHandler) VerifyRazorpayPayment(c *gin.Context) {
	var input entities.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.donationUsecase.VerifyRazorpayPayment(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(entities.DonationStatusSuccess)})
}

// ReportRazorpayFailure records a provider-reported payment failure
// POST /api/v1/donations/razorpay/failure
func (h *DonationHandler) ReportRazorpayFailure(c *gin.Context) {
	var input entities.PaymentFailureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.donationUsecase.ReportRazorpayFailure(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "UPDATED"})
}

// CreatePayHereHash creates a payhere checkout hash
// POST /api/v1/donations/payhere/create-hash
func (h *DonationHandler) CreatePayHereHash(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	var input entities.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	resp, err := h.donationUsecase.CreatePayHereCheckout(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ConfirmPayHere confirms a payhere checkout
// POST /api/v1/donations/payhere/confirm
func (h *DonationHandler) ConfirmPayHere(c *gin.Context) {
	var input entities.ConfirmDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.donationUsecase.ConfirmPayHere(c.Request.Context(), input.DonationID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(entities.DonationStatusSuccess)})
}

// GetMyHistory lists the authenticated user's donations, newest first
// GET /api/v1/donations/my-history
func (h *DonationHandler) GetMyHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}

	donations, err := h.donationUsecase.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, donations)
}
