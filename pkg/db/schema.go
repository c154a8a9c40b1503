package db

import "context"

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10, 2) NOT NULL,
		image_url TEXT,
		category TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flavors (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_flavors (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		flavor_id INTEGER NOT NULL REFERENCES flavors(id) ON DELETE CASCADE,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		PRIMARY KEY (product_id, flavor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10, 2) NOT NULL,
		image_url TEXT,
		category TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flavors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS product_flavors (
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		flavor_id INTEGER NOT NULL REFERENCES flavors(id) ON DELETE CASCADE,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		PRIMARY KEY (product_id, flavor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
}

// Migrate creates the products / flavors / product_flavors tables if missing.
func (a *Adapter) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if a.dialect == DialectPostgres {
		stmts = postgresSchema
	}
	return a.InTx(ctx, func(tx *Adapter) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		a.log.Info("DB: Schema is up to date.")
		return nil
	})
}
