package usecase

import (
	"context"

	"pasarloak/internal/domain/entity"
	"pasarloak/internal/domain/repository"
	"pasarloak/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       float64
	MinPrice    *float64
	Category    string
	Condition   string
	Images      []string
}

// SellerSummary is the public slice of a seller attached to listings.
type SellerSummary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type ProductWithSeller struct {
	*entity.Product
	Seller *SellerSummary `json:"seller,omitempty"`
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be positive", nil)
	}
	if input.MinPrice != nil && (*input.MinPrice <= 0 || *input.MinPrice > input.Price) {
		return nil, errors.BadRequest("Minimum price must be positive and not exceed the list price", nil)
	}

	product := &entity.Product{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		MinPrice:    input.MinPrice,
		Category:    input.Category,
		Condition:   input.Condition,
		Images:      input.Images,
		Status:      entity.ProductStatusActive,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*ProductWithSeller, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.withSeller(ctx, product), nil
}

func (uc *ProductUseCase) ListActiveProducts(ctx context.Context, limit int) ([]*ProductWithSeller, error) {
	products, err := uc.productRepo.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*ProductWithSeller, 0, len(products))
	for _, p := range products {
		result = append(result, uc.withSeller(ctx, p))
	}

	return result, nil
}

func (uc *ProductUseCase) ListMyProducts(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.ListBySellerID(ctx, sellerID, limit, offset)
}

func (uc *ProductUseCase) withSeller(ctx context.Context, product *entity.Product) *ProductWithSeller {
	result := &ProductWithSeller{Product: product}

	seller, err := uc.userRepo.GetByID(ctx, product.SellerID)
	if err == nil {
		result.Seller = &SellerSummary{
			ID:       seller.ID,
			Nickname: seller.Nickname,
			Avatar:   seller.Avatar,
		}
	}

	return result
}
