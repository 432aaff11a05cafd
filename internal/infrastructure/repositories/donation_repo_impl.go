package repositories

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
	"donation-hub.backend/internal/infrastructure/models"
)

// DonationRepository implements donation ledger data operations
type DonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create creates a new donation record and assigns its id.
// Status defaults to PENDING when unset.
func (r *DonationRepository) Create(ctx context.Context, donation *entities.Donation) error {
	if donation.Status == "" {
		donation.Status = entities.DonationStatusPending
	}
	m := &models.Donation{
		UserID:             donation.UserID,
		Amount:             donation.Amount,
		Currency:           donation.Currency,
		Status:             string(donation.Status),
		ProviderOrderRef:   donation.ProviderOrderRef.Ptr(),
		ProviderPaymentRef: donation.ProviderPaymentRef.Ptr(),
		CreatedAt:          donation.CreatedAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	donation.ID = m.ID
	donation.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a donation by ID. Inside a locked UnitOfWork scope the row
// is read FOR UPDATE on postgres; sqlite serializes writers on its own.
func (r *DonationRepository) GetByID(ctx context.Context, id uint) (*entities.Donation, error) {
	var m models.Donation
	query := GetDB(ctx, r.db).WithContext(ctx)
	if lockRequested(ctx) && query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return donationToEntity(&m), nil
}

// GetByOrderRef gets a donation by its provider order reference
func (r *DonationRepository) GetByOrderRef(ctx context.Context, orderRef string) (*entities.Donation, error) {
	var m models.Donation
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("provider_order_ref = ?", orderRef).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return donationToEntity(&m), nil
}

// UpdateStatus applies a status transition. Amount, currency, user and
// createdAt are immutable after creation; only the status and the provider
// payment reference ever change.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id uint, status entities.DonationStatus, paymentRef, failureReason string) error {
	updates := map[string]interface{}{
		"status": string(status),
	}
	if paymentRef != "" {
		updates["provider_payment_ref"] = paymentRef
	}
	if failureReason != "" {
		updates["failure_reason"] = failureReason
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetByUserID lists a user's donations, newest first
func (r *DonationRepository) GetByUserID(ctx context.Context, userID uint) ([]*entities.Donation, error) {
	var donationModels []models.Donation
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&donationModels).Error
	if err != nil {
		return nil, err
	}
	return donationsToEntities(donationModels), nil
}

// ListAll lists all donations newest first, optionally joined with the
// owning user's name and email (read-only projection).
func (r *DonationRepository) ListAll(ctx context.Context, joinUser bool) ([]*entities.Donation, error) {
	var donationModels []models.Donation
	err := GetDB(ctx, r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&donationModels).Error
	if err != nil {
		return nil, err
	}

	donations := donationsToEntities(donationModels)
	if !joinUser || len(donations) == 0 {
		return donations, nil
	}

	var userModels []models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Find(&userModels).Error; err != nil {
		return nil, err
	}
	donors := make(map[uint]*entities.DonorInfo, len(userModels))
	for i := range userModels {
		donors[userModels[i].ID] = &entities.DonorInfo{
			Name:  userModels[i].Name,
			Email: userModels[i].Email,
		}
	}
	for _, d := range donations {
		d.User = donors[d.UserID]
	}
	return donations, nil
}

// SumAmountByStatus sums donation amounts over the given status, zero if none
func (r *DonationRepository) SumAmountByStatus(ctx context.Context, status entities.DonationStatus) (float64, error) {
	var total *float64
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Donation{}).
		Select("SUM(amount)").
		Where("status = ?", string(status)).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// Count returns the total number of donations
func (r *DonationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Donation{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAll wipes the donations collection and returns the number deleted
func (r *DonationRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Where("1 = 1").Delete(&models.Donation{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func donationToEntity(m *models.Donation) *entities.Donation {
	return &entities.Donation{
		ID:                 m.ID,
		UserID:             m.UserID,
		Amount:             m.Amount,
		Currency:           m.Currency,
		Status:             entities.DonationStatus(m.Status),
		ProviderOrderRef:   null.StringFromPtr(m.ProviderOrderRef),
		ProviderPaymentRef: null.StringFromPtr(m.ProviderPaymentRef),
		FailureReason:      null.StringFromPtr(m.FailureReason),
		CreatedAt:          m.CreatedAt,
	}
}

func donationsToEntities(donationModels []models.Donation) []*entities.Donation {
	donations := make([]*entities.Donation, 0, len(donationModels))
	for i := range donationModels {
		donations = append(donations, donationToEntity(&donationModels[i]))
	}
	return donations
}
