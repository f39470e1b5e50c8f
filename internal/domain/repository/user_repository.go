package repository

import (
	"context"

	"pasarloak/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetBySecondMeUserID(ctx context.Context, secondmeUserID string) (*entity.User, error)
	GetByAccessToken(ctx context.Context, accessToken string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
}
