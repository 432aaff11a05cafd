package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"donation-hub.backend/internal/domain/entities"
	"donation-hub.backend/internal/interfaces/http/response"
)

type adminService interface {
	Stats(ctx context.Context) (*entities.AdminStats, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
	ListDonations(ctx context.Context) ([]*entities.Donation, error)
	ClearUsers(ctx context.Context) (int64, error)
	ClearDonations(ctx context.Context) (int64, error)
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	adminUsecase adminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase adminService) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase}
}

// GetStats returns aggregate donation statistics
// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUsecase.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ListUsers lists all registered users
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUsecase.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, users)
}

// ListDonations lists all donations with donor info
// GET /api/v1/admin/donations
func (h *AdminHandler) ListDonations(c *gin.Context) {
	donations, err := h.adminUsecase.ListDonations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, donations)
}

// ClearUsers deletes all users
// DELETE /api/v1/admin/users
func (h *AdminHandler) ClearUsers(c *gin.Context) {
	deleted, err := h.adminUsecase.ClearUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

// ClearDonations deletes all donations
// DELETE /api/v1/admin/donations
func (h *AdminHandler) ClearDonations(c *gin.Context) {
	deleted, err := h.adminUsecase.ClearDonations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
