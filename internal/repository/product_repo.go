package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	"storefront/pkg/db"
)

const flavorSeparator = ","

type productRepository struct {
	db  *db.Adapter
	log *logrus.Logger
}

func NewProductRepository(adapter *db.Adapter, logger *logrus.Logger) domain.ProductRepository {
	return &productRepository{
		db:  adapter,
		log: logger,
	}
}

func (r *productRepository) ListCatalog(ctx context.Context, category *string) ([]domain.ProductView, error) {
	query := `
        SELECT
            p.id, p.name, p.description, p.price, p.image_url, p.category,
            ` + r.db.StringAgg("CASE WHEN pf.stock > 0 THEN f.name ELSE NULL END", flavorSeparator) + ` AS available_flavors,
            COUNT(pf.flavor_id) AS total_flavors_count
        FROM products p
        LEFT JOIN product_flavors pf ON p.id = pf.product_id
        LEFT JOIN flavors f ON pf.flavor_id = f.id`
	var args []any
	if category != nil {
		query += `
        WHERE p.category = ?`
		args = append(args, *category)
	}
	query += `
        GROUP BY p.id, p.name, p.description, p.price, p.image_url, p.category
        ORDER BY p.id DESC`

	rows, err := r.db.All(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list catalog: %v", err)
		return nil, fmt.Errorf("could not list catalog: %w", err)
	}

	views := make([]domain.ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.ProductView{
			Product:    productFromRow(row),
			Flavors:    splitFlavors(row.String("available_flavors")),
			HasFlavors: row.Int64("total_flavors_count") > 0,
		})
	}
	r.log.Infof("Repository: Retrieved %d catalog products", len(views))
	return views, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := r.db.One(ctx, `
        SELECT id, name, description, price, image_url, category
        FROM products
        WHERE id = ?`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	if row == nil {
		r.log.Warnf("Repository: Product with ID %d not found", id)
		return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}
	product := productFromRow(row)
	return &product, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.All(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.String("category"))
	}
	return categories, nil
}

func (r *productRepository) ListProductsWithStock(ctx context.Context) ([]domain.AdminProduct, error) {
	productRows, err := r.db.All(ctx, `
        SELECT id, name, description, price, image_url, category
        FROM products
        ORDER BY id DESC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products for admin: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	stockRows, err := r.db.All(ctx, `SELECT product_id, flavor_id, stock FROM product_flavors`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list stock associations: %v", err)
		return nil, fmt.Errorf("could not list stock: %w", err)
	}

	stock := make(map[int64]map[int64]int)
	for _, row := range stockRows {
		pid := row.Int64("product_id")
		if stock[pid] == nil {
			stock[pid] = make(map[int64]int)
		}
		stock[pid][row.Int64("flavor_id")] = int(row.Int64("stock"))
	}

	products := make([]domain.AdminProduct, 0, len(productRows))
	for _, row := range productRows {
		p := productFromRow(row)
		fs := stock[p.ID]
		if fs == nil {
			fs = map[int64]int{}
		}
		products = append(products, domain.AdminProduct{Product: p, FlavorStock: fs})
	}
	return products, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, in domain.ProductInput) (int64, error) {
	var id int64
	err := r.db.InTx(ctx, func(tx *db.Adapter) error {
		var err error
		id, err = tx.InsertID(ctx, `
            INSERT INTO products (name, description, price, image_url, category)
            VALUES (?, ?, ?, ?, ?)`,
			in.Name, in.Description, in.Price, in.ImageURL, in.Category)
		if err != nil {
			return err
		}
		return insertStock(ctx, tx, id, in.FlavorStock)
	})
	if err != nil {
		r.log.Errorf("Repository: Failed to create product '%s': %v", in.Name, err)
		return 0, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product created with ID: %d, Name: %s, flavors: %d", id, in.Name, len(in.FlavorStock))
	return id, nil
}

// UpdateProduct replaces every column and every stock association. Flavors
// missing from in.FlavorStock lose their association.
func (r *productRepository) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	err := r.db.InTx(ctx, func(tx *db.Adapter) error {
		n, err := tx.Exec(ctx, `
            UPDATE products
            SET name = ?, description = ?, price = ?, image_url = ?, category = ?
            WHERE id = ?`,
			in.Name, in.Description, in.Price, in.ImageURL, in.Category, id)
		if err != nil {
			return err
		}
		if n == 0 {
			r.log.Warnf("Repository: Product with ID %d not found for update (0 rows affected)", id)
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_flavors WHERE product_id = ?`, id); err != nil {
			return err
		}
		return insertStock(ctx, tx, id, in.FlavorStock)
	})
	if err != nil {
		r.log.Errorf("Repository: Failed to update product ID %d: %v", id, err)
		return fmt.Errorf("could not update product: %w", err)
	}
	r.log.Infof("Repository: Product ID %d updated with %d flavor associations", id, len(in.FlavorStock))
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	var deleted int64
	err := r.db.InTx(ctx, func(tx *db.Adapter) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_flavors WHERE product_id = ?`, id); err != nil {
			return err
		}
		var err error
		deleted, err = tx.Exec(ctx, `DELETE FROM products WHERE id = ?`, id)
		return err
	})
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	if deleted == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return nil
	}
	r.log.Infof("Repository: Product deleted with ID: %d", id)
	return nil
}

func insertStock(ctx context.Context, tx *db.Adapter, productID int64, flavorStock map[int64]int) error {
	flavorIDs := make([]int64, 0, len(flavorStock))
	for fid := range flavorStock {
		flavorIDs = append(flavorIDs, fid)
	}
	sort.Slice(flavorIDs, func(i, j int) bool { return flavorIDs[i] < flavorIDs[j] })

	for _, fid := range flavorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_flavors (product_id, flavor_id, stock) VALUES (?, ?, ?)`,
			productID, fid, flavorStock[fid]); err != nil {
			return err
		}
	}
	return nil
}

func productFromRow(row db.Row) domain.Product {
	return domain.Product{
		ID:          row.Int64("id"),
		Name:        row.String("name"),
		Description: row.String("description"),
		Price:       row.Decimal("price"),
		ImageURL:    row.NullString("image_url"),
		Category:    row.String("category"),
	}
}

// splitFlavors turns the aggregated name list into a sorted slice; an empty
// or NULL aggregate yields an empty, non-nil slice.
func splitFlavors(joined string) []string {
	flavors := []string{}
	if joined == "" {
		return flavors
	}
	for _, name := range strings.Split(joined, flavorSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			flavors = append(flavors, name)
		}
	}
	sort.Strings(flavors)
	return flavors
}
