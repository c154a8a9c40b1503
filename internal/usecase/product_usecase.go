package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type ProductUseCase interface {
	Overview(ctx context.Context) (*domain.AdminOverview, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

type productUseCase struct {
	productRepo domain.ProductRepository
	flavorRepo  domain.FlavorRepository
	log         *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, fRepo domain.FlavorRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo: pRepo,
		flavorRepo:  fRepo,
		log:         logger,
	}
}

func (uc *productUseCase) Overview(ctx context.Context) (*domain.AdminOverview, error) {
	products, err := uc.productRepo.ListProductsWithStock(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for admin: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	flavors, err := uc.flavorRepo.ListFlavors(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list flavors for admin: %v", err)
		return nil, fmt.Errorf("could not retrieve flavors: %w", err)
	}
	return &domain.AdminOverview{Products: products, Flavors: flavors}, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	in, err := normalizeProductInput(in)
	if err != nil {
		uc.log.Warnf("Use Case: Rejected product creation: %v", err)
		return 0, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", in.Name)
	id, err := uc.productRepo.CreateProduct(ctx, in)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", in.Name, err)
		return 0, err
	}
	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", in.Name, id)
	return id, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", id)
		return domain.NewValidationError("id", "must be positive")
	}
	in, err := normalizeProductInput(in)
	if err != nil {
		uc.log.Warnf("Use Case: Rejected update for product ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Replacing product ID %d and its %d flavor associations", id, len(in.FlavorStock))
	if err := uc.productRepo.UpdateProduct(ctx, id, in); err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %d: %v", id, err)
		return err
	}
	return nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return domain.NewValidationError("id", "must be positive")
	}
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}
	return nil
}

// Column limits: price is NUMERIC(10,2), stock is a 32-bit INTEGER.
var maxPrice = decimal.RequireFromString("99999999.99")

const maxStock = math.MaxInt32

func normalizeProductInput(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return in, domain.NewValidationError("name", "cannot be empty")
	}
	if in.Category == "" {
		return in, domain.NewValidationError("category", "cannot be empty")
	}
	if in.Price.IsNegative() {
		return in, domain.NewValidationError("price", "cannot be negative")
	}
	if in.Price.Round(2).GreaterThan(maxPrice) {
		return in, domain.NewValidationError("price", "cannot exceed "+maxPrice.StringFixed(2))
	}
	if in.ImageURL != nil {
		if url := strings.TrimSpace(*in.ImageURL); url == "" {
			in.ImageURL = nil
		} else {
			in.ImageURL = &url
		}
	}

	stock := make(map[int64]int, len(in.FlavorStock))
	for fid, qty := range in.FlavorStock {
		if fid <= 0 {
			continue
		}
		if qty < 0 {
			qty = 0
		}
		if qty > maxStock {
			return in, domain.NewValidationError("stock", fmt.Sprintf("cannot exceed %d", maxStock))
		}
		stock[fid] = qty
	}
	in.FlavorStock = stock
	return in, nil
}

// IsValidation reports whether err is a domain.ValidationError.
func IsValidation(err error) bool {
	var vErr *domain.ValidationError
	return errors.As(err, &vErr)
}
