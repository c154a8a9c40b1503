package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type FlavorUseCase interface {
	ListFlavors(ctx context.Context) ([]domain.Flavor, error)
	CreateFlavor(ctx context.Context, name string) error
	DeleteFlavor(ctx context.Context, id int64) error
}

type flavorUseCase struct {
	flavorRepo domain.FlavorRepository
	log        *logrus.Logger
}

func NewFlavorUseCase(fRepo domain.FlavorRepository, logger *logrus.Logger) FlavorUseCase {
	return &flavorUseCase{
		flavorRepo: fRepo,
		log:        logger,
	}
}

func (uc *flavorUseCase) ListFlavors(ctx context.Context) ([]domain.Flavor, error) {
	flavors, err := uc.flavorRepo.ListFlavors(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list flavors: %v", err)
		return nil, fmt.Errorf("could not retrieve flavors: %w", err)
	}
	return flavors, nil
}

func (uc *flavorUseCase) CreateFlavor(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warn("Use Case: Attempted to create flavor with empty name")
		return domain.NewValidationError("name", "cannot be empty")
	}
	// the catalog aggregates flavor names with a comma
	if strings.Contains(name, ",") {
		uc.log.Warnf("Use Case: Rejected flavor name with comma: '%s'", name)
		return domain.NewValidationError("name", "cannot contain ','")
	}

	uc.log.Infof("Use Case: Attempting to create flavor '%s'", name)
	return uc.flavorRepo.CreateFlavor(ctx, name)
}

func (uc *flavorUseCase) DeleteFlavor(ctx context.Context, id int64) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid flavor ID: %d", id)
		return domain.NewValidationError("id", "must be positive")
	}
	uc.log.Infof("Use Case: Attempting to delete flavor ID %d", id)
	return uc.flavorRepo.DeleteFlavor(ctx, id)
}
