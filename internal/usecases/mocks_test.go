package usecases_test

import (
	"context"
	"sort"
	"time"

	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
)

// fakeUnitOfWork runs the scope function directly; the fakes below are
// already serialized within a single test.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeUnitOfWork) WithLock(ctx context.Context) context.Context { return ctx }

type fakeDonationRepo struct {
	donations []*entities.Donation
	nextID    uint
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{nextID: 1}
}

func (r *fakeDonationRepo) Create(_ context.Context, d *entities.Donation) error {
	if d.Status == "" {
		d.Status = entities.DonationStatusPending
	}
	stored := *d
	stored.ID = r.nextID
	r.nextID++
	r.donations = append(r.donations, &stored)
	d.ID = stored.ID
	return nil
}

func (r *fakeDonationRepo) GetByID(_ context.Context, id uint) (*entities.Donation, error) {
	for _, d := range r.donations {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *fakeDonationRepo) GetByOrderRef(_ context.Context, orderRef string) (*entities.Donation, error) {
	for _, d := range r.donations {
		if d.ProviderOrderRef.Valid && d.ProviderOrderRef.String == orderRef {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *fakeDonationRepo) UpdateStatus(_ context.Context, id uint, status entities.DonationStatus, paymentRef, failureReason string) error {
	for _, d := range r.donations {
		if d.ID == id {
			d.Status = status
			if paymentRef != "" {
				d.ProviderPaymentRef.SetValid(paymentRef)
			}
			if failureReason != "" {
				d.FailureReason.SetValid(failureReason)
			}
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (r *fakeDonationRepo) GetByUserID(_ context.Context, userID uint) ([]*entities.Donation, error) {
	var out []*entities.Donation
	for _, d := range r.donations {
		if d.UserID == userID {
			copied := *d
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDonationRepo) ListAll(_ context.Context, _ bool) ([]*entities.Donation, error) {
	out := make([]*entities.Donation, 0, len(r.donations))
	for _, d := range r.donations {
		copied := *d
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDonationRepo) SumAmountByStatus(_ context.Context, status entities.DonationStatus) (float64, error) {
	var total float64
	for _, d := range r.donations {
		if d.Status == status {
			total += d.Amount
		}
	}
	return total, nil
}

func (r *fakeDonationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.donations)), nil
}

func (r *fakeDonationRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(r.donations))
	r.donations = nil
	return count, nil
}

type fakeUserRepo struct {
	users  []*entities.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	stored := *u
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.nextID++
	r.users = append(r.users, &stored)
	u.ID = stored.ID
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entities.User, error) {
	out := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(r.users))
	r.users = nil
	return count, nil
}
