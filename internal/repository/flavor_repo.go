package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/pkg/db"
)

type flavorRepository struct {
	db  *db.Adapter
	log *logrus.Logger
}

func NewFlavorRepository(adapter *db.Adapter, logger *logrus.Logger) domain.FlavorRepository {
	return &flavorRepository{
		db:  adapter,
		log: logger,
	}
}

func (r *flavorRepository) ListFlavors(ctx context.Context) ([]domain.Flavor, error) {
	rows, err := r.db.All(ctx, `SELECT id, name FROM flavors ORDER BY name`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list flavors: %v", err)
		return nil, fmt.Errorf("could not list flavors: %w", err)
	}
	flavors := make([]domain.Flavor, 0, len(rows))
	for _, row := range rows {
		flavors = append(flavors, domain.Flavor{ID: row.Int64("id"), Name: row.String("name")})
	}
	return flavors, nil
}

// CreateFlavor leaves deduplication to the UNIQUE constraint.
func (r *flavorRepository) CreateFlavor(ctx context.Context, name string) error {
	n, err := r.db.Exec(ctx, `INSERT INTO flavors (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		r.log.Errorf("Repository: Failed to create flavor '%s': %v", name, err)
		return fmt.Errorf("could not create flavor: %w", err)
	}
	if n == 0 {
		r.log.Infof("Repository: Flavor '%s' already exists, nothing inserted", name)
		return nil
	}
	r.log.Infof("Repository: Flavor '%s' created", name)
	return nil
}

func (r *flavorRepository) DeleteFlavor(ctx context.Context, id int64) error {
	var deleted int64
	err := r.db.InTx(ctx, func(tx *db.Adapter) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_flavors WHERE flavor_id = ?`, id); err != nil {
			return err
		}
		var err error
		deleted, err = tx.Exec(ctx, `DELETE FROM flavors WHERE id = ?`, id)
		return err
	})
	if err != nil {
		r.log.Errorf("Repository: Failed to delete flavor ID %d: %v", id, err)
		return fmt.Errorf("could not delete flavor: %w", err)
	}
	if deleted == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent flavor ID %d", id)
		return nil
	}
	r.log.Infof("Repository: Flavor deleted with ID: %d", id)
	return nil
}
