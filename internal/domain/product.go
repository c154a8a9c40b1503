package domain

import "context"

type ProductRepository interface {
	// ListCatalog returns products newest first. A nil category returns the full catalog.
	ListCatalog(ctx context.Context, category *string) ([]ProductView, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListProductsWithStock(ctx context.Context) ([]AdminProduct, error)

	CreateProduct(ctx context.Context, in ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}
