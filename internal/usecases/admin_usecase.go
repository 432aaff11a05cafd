package usecases

import (
	"context"

	"go.uber.org/zap"
	"donation-hub.backend/internal/domain/entities"
	"donation-hub.backend/internal/domain/repositories"
	"donation-hub.backend/pkg/logger"
)

// AdminUsecase serves the administrative read-only rollups and the
// bulk-clear escape hatches. Confirmation semantics are a UI concern;
// clears here are unconditional.
type AdminUsecase struct {
	userRepo     repositories.UserRepository
	donationRepo repositories.DonationRepository
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(userRepo repositories.UserRepository, donationRepo repositories.DonationRepository) *AdminUsecase {
	return &AdminUsecase{
		userRepo:     userRepo,
		donationRepo: donationRepo,
	}
}

// Stats returns the dashboard aggregates. TotalAmount sums SUCCESS
// donations only and is zero on an empty store.
func (u *AdminUsecase) Stats(ctx context.Context) (*entities.AdminStats, error) {
	totalUsers, err := u.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalDonations, err := u.donationRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount, err := u.donationRepo.SumAmountByStatus(ctx, entities.DonationStatusSuccess)
	if err != nil {
		return nil, err
	}

	return &entities.AdminStats{
		TotalUsers:          totalUsers,
		TotalDonationsCount: totalDonations,
		TotalAmount:         totalAmount,
	}, nil
}

// ListUsers lists all users in insertion order
func (u *AdminUsecase) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return u.userRepo.List(ctx)
}

// ListDonations lists all donations newest first, joined with the owning
// user's name and email.
func (u *AdminUsecase) ListDonations(ctx context.Context) ([]*entities.Donation, error) {
	return u.donationRepo.ListAll(ctx, true)
}

// ClearUsers wipes the users collection, the requesting admin included
func (u *AdminUsecase) ClearUsers(ctx context.Context) (int64, error) {
	count, err := u.userRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Warn(ctx, "all users cleared", zap.Int64("count", count))
	return count, nil
}

// ClearDonations wipes the donations collection
func (u *AdminUsecase) ClearDonations(ctx context.Context) (int64, error) {
	count, err := u.donationRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logger.Warn(ctx, "all donations cleared", zap.Int64("count", count))
	return count, nil
}
