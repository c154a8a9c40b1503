package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type CatalogUseCase interface {
	// ListProducts returns the full catalog when category is nil.
	ListProducts(ctx context.Context, category *string) ([]domain.ProductView, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type catalogUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCatalogUseCase(pRepo domain.ProductRepository, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{
		productRepo: pRepo,
		log:         logger,
	}
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, category *string) ([]domain.ProductView, error) {
	if category != nil {
		trimmed := strings.TrimSpace(*category)
		category = &trimmed
		uc.log.Infof("Use Case: Listing catalog for category '%s'", trimmed)
	} else {
		uc.log.Info("Use Case: Listing full catalog")
	}

	products, err := uc.productRepo.ListCatalog(ctx, category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list catalog: %v", err)
		return nil, fmt.Errorf("could not retrieve catalog: %w", err)
	}
	return products, nil
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := uc.productRepo.ListCategories(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list categories: %v", err)
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	return categories, nil
}
