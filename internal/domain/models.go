package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Category    string          `json:"category"`
}

type Flavor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StockAssociation is one product_flavors row. At most one exists per (ProductID, FlavorID).
type StockAssociation struct {
	ProductID int64 `json:"product_id"`
	FlavorID  int64 `json:"flavor_id"`
	Stock     int   `json:"stock"`
}

// ProductView is a catalog entry. Flavors only lists flavors with stock > 0;
// HasFlavors reports whether any association exists at all, so an empty
// Flavors with HasFlavors=true means "out of stock".
type ProductView struct {
	Product
	Flavors    []string `json:"flavors"`
	HasFlavors bool     `json:"has_flavors"`
}

// AdminProduct carries the flavor_id -> stock map shown in the admin panel.
type AdminProduct struct {
	Product
	FlavorStock map[int64]int `json:"flavors_stock"`
}

type AdminOverview struct {
	Products []AdminProduct `json:"products"`
	Flavors  []Flavor       `json:"all_flavors"`
}

// CartItem is a snapshot taken when the item is added. Price is never
// re-read from the catalog afterwards.
type CartItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Flavor    string          `json:"flavor"`
}

// ProductInput is the validated form of a create/update submission.
// FlavorStock maps flavor id to the submitted stock (already defaulted to 0).
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    *string
	Category    string
	FlavorStock map[int64]int
}

type Checkout struct {
	ID    string          `json:"id"`
	URL   string          `json:"url"`
	Total decimal.Decimal `json:"total"`
}
