package domain

import "context"

type FlavorRepository interface {
	ListFlavors(ctx context.Context) ([]Flavor, error)
	// CreateFlavor is a no-op when the name already exists.
	CreateFlavor(ctx context.Context, name string) error
	DeleteFlavor(ctx context.Context, id int64) error
}
