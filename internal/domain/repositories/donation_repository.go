package repositories

import (
	"context"

	"donation-hub.backend/internal/domain/entities"
)

// DonationRepository defines donation ledger data operations.
// Records are created once and only ever mutated by status transition;
// individual deletes are not supported, bulk wipe only.
type DonationRepository interface {
	Create(ctx context.Context, donation *entities.Donation) error
	GetByID(ctx context.Context, id uint) (*entities.Donation, error)
	GetByOrderRef(ctx context.Context, orderRef string) (*entities.Donation, error)
	UpdateStatus(ctx context.Context, id uint, status entities.DonationStatus, paymentRef, failureReason string) error
	GetByUserID(ctx context.Context, userID uint) ([]*entities.Donation, error)
	ListAll(ctx context.Context, joinUser bool) ([]*entities.Donation, error)
	SumAmountByStatus(ctx context.Context, status entities.DonationStatus) (float64, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
