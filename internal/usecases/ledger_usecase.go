package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
	"donation-hub.backend/internal/domain/repositories"
)

// LedgerUsecase enforces the donation lifecycle: records are created
// PENDING and move exactly once to SUCCESS or FAILED. Transitions out of a
// terminal state are rejected with Conflict, which keeps repeated provider
// callbacks from double-counting aggregates. A failed donation is retried
// by creating a new record, never by reopening the old one.
type LedgerUsecase struct {
	donationRepo repositories.DonationRepository
	uow          repositories.UnitOfWork
}

// NewLedgerUsecase creates a new ledger usecase
func NewLedgerUsecase(donationRepo repositories.DonationRepository, uow repositories.UnitOfWork) *LedgerUsecase {
	return &LedgerUsecase{
		donationRepo: donationRepo,
		uow:          uow,
	}
}

// Start inserts a new PENDING donation for the user. The ledger trusts the
// authenticated caller's user id; referential integrity is not re-checked.
func (u *LedgerUsecase) Start(ctx context.Context, userID uint, amount float64, currency string, orderRef null.String) (*entities.Donation, error) {
	if amount <= 0 {
		return nil, domainerrors.BadRequest("amount must be greater than zero")
	}
	if currency == "" {
		currency = "usd"
	}

	donation := &entities.Donation{
		UserID:           userID,
		Amount:           amount,
		Currency:         currency,
		Status:           entities.DonationStatusPending,
		ProviderOrderRef: orderRef,
		CreatedAt:        time.Now(),
	}
	if err := u.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// MarkSucceeded transitions PENDING -> SUCCESS, recording the provider's
// payment reference.
func (u *LedgerUsecase) MarkSucceeded(ctx context.Context, id uint, paymentRef string) error {
	return u.transition(ctx, id, entities.DonationStatusSuccess, paymentRef, "", nil)
}

// MarkSucceededForOrder is MarkSucceeded with an ownership check: the
// donation must carry orderRef as its provider order reference. A signature
// verified for one order cannot close a different donation.
func (u *LedgerUsecase) MarkSucceededForOrder(ctx context.Context, id uint, orderRef, paymentRef string) error {
	return u.transition(ctx, id, entities.DonationStatusSuccess, paymentRef, "", func(d *entities.Donation) error {
		if !d.ProviderOrderRef.Valid || d.ProviderOrderRef.String != orderRef {
			return domainerrors.ValidationFailed("order does not belong to this donation", domainerrors.ErrInvalidSignature)
		}
		return nil
	})
}

// MarkFailed transitions PENDING -> FAILED with the provider's reason.
func (u *LedgerUsecase) MarkFailed(ctx context.Context, id uint, reason string) error {
	return u.transition(ctx, id, entities.DonationStatusFailed, "", reason, nil)
}

// transition applies the state machine inside a locked transaction so two
// concurrent callbacks on the same donation serialize on the row. guard, if
// set, runs against the loaded record before the status check and can veto
// the transition.
func (u *LedgerUsecase) transition(ctx context.Context, id uint, to entities.DonationStatus, paymentRef, reason string, guard func(*entities.Donation) error) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		donation, err := u.donationRepo.GetByID(lockCtx, id)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("donation not found")
			}
			return err
		}

		if guard != nil {
			if err := guard(donation); err != nil {
				return err
			}
		}

		if donation.Status.IsTerminal() {
			return domainerrors.Conflict(fmt.Sprintf("donation already %s", donation.Status))
		}

		return u.donationRepo.UpdateStatus(lockCtx, id, to, paymentRef, reason)
	})
}

// History lists the user's donations, newest first
func (u *LedgerUsecase) History(ctx context.Context, userID uint) ([]*entities.Donation, error) {
	return u.donationRepo.GetByUserID(ctx, userID)
}

// Get returns a single donation by id
func (u *LedgerUsecase) Get(ctx context.Context, id uint) (*entities.Donation, error) {
	donation, err := u.donationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("donation not found")
		}
		return nil, err
	}
	return donation, nil
}
