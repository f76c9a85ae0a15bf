package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

type productSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Category    string   `yaml:"category"`
	Size        string   `yaml:"size"`
	Stock       int      `yaml:"stock"`
	Images      []string `yaml:"images"`
}

type Catalog struct {
	Products []productSeed `yaml:"products"`
}

// LoadCatalog reads a product catalog definition from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

// Apply loads the catalog file and upserts its products, keyed by name.
// Running it repeatedly against the same file is safe.
func Apply(ctx context.Context, pool *pgxpool.Pool, catalogPath string) error {
	cat, err := LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	for _, p := range cat.Products {
		if p.Name == "" {
			return fmt.Errorf("catalog product with empty name")
		}
		if p.Price < 0 {
			return fmt.Errorf("catalog product %q has negative price", p.Name)
		}
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return err
	}

	var id string
	err = pool.QueryRow(ctx, `SELECT id::text FROM products WHERE name = $1`, p.Name).Scan(&id)
	if err == pgx.ErrNoRows {
		const ins = `
INSERT INTO products (name, description, price, category, size, stock, images)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
`
		_, err = pool.Exec(ctx, ins, p.Name, p.Description, p.Price, p.Category, p.Size, p.Stock, string(imagesJSON))
		return err
	}
	if err != nil {
		return err
	}

	const upd = `
UPDATE products
SET description = $2,
    price = $3,
    category = $4,
    size = $5,
    stock = $6,
    images = $7::jsonb,
    updated_at = now()
WHERE id = $1
`
	_, err = pool.Exec(ctx, upd, id, p.Description, p.Price, p.Category, p.Size, p.Stock, string(imagesJSON))
	return err
}
