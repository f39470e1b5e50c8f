package repository

import (
	"context"

	"pasarloak/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListActive(ctx context.Context, limit int) ([]*entity.Product, error)
	ListActiveExcludingSeller(ctx context.Context, sellerID string, limit int) ([]*entity.Product, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	MarkSold(ctx context.Context, id string) error
}
