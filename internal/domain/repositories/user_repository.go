package repositories

import (
	"context"

	"donation-hub.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*entities.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}
