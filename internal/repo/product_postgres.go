package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, name, description, price, original_price, category, brand, rating,
	review_count, stock, image, thumbnail, variants, created_at, updated_at`

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p        models.Product
		original sql.NullFloat64
		variants []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &original, &p.Category, &p.Brand, &p.Rating,
		&p.ReviewCount, &p.Stock, &p.Image, &p.Thumbnail, &variants, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if original.Valid {
		p.OriginalPrice = &original.Float64
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return models.Product{}, fmt.Errorf("failed to decode variants of product %d: %w", p.ID, err)
		}
	}
	return p, nil
}

func productArgs(p models.Product) ([]any, error) {
	variants := p.Variants
	if variants == nil {
		variants = []models.ProductVariant{}
	}
	v, err := json.Marshal(variants)
	if err != nil {
		return nil, err
	}
	var original sql.NullFloat64
	if p.OriginalPrice != nil {
		original = sql.NullFloat64{Float64: *p.OriginalPrice, Valid: true}
	}
	return []any{p.Name, p.Description, p.Price, original, p.Category, p.Brand, p.Rating,
		p.ReviewCount, p.Stock, p.Image, p.Thumbnail, string(v)}, nil
}

func (r *PostgresProductRepository) Create(p models.Product) (models.Product, error) {
	args, err := productArgs(p)
	if err != nil {
		return models.Product{}, err
	}
	query := `INSERT INTO products (name, description, price, original_price, category, brand, rating,
		review_count, stock, image, thumbnail, variants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	args = append(args, p.CreatedAt, p.UpdatedAt)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByID(id int) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) Update(p models.Product) (models.Product, error) {
	args, err := productArgs(p)
	if err != nil {
		return models.Product{}, err
	}
	query := `UPDATE products SET name = $1, description = $2, price = $3, original_price = $4, category = $5,
		brand = $6, rating = $7, review_count = $8, stock = $9, image = $10, thumbnail = $11, variants = $12,
		updated_at = $13
		WHERE id = $14 RETURNING created_at`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	args = append(args, p.UpdatedAt, p.ID)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock applies delta atomically; a row that would go negative is not
// touched, which is told apart from a missing product by a follow-up lookup.
func (r *PostgresProductRepository) AdjustStock(id int, delta int) (models.Product, error) {
	query := `UPDATE products SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND stock + $1 >= 0
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(id); getErr != nil {
			return models.Product{}, getErr
		}
		return models.Product{}, ErrInsufficientStock
	}
	return p, err
}

func (r *PostgresProductRepository) Upsert(p models.Product) (models.Product, error) {
	args, err := productArgs(p)
	if err != nil {
		return models.Product{}, err
	}
	query := `INSERT INTO products (name, description, price, original_price, category, brand, rating,
		review_count, stock, image, thumbnail, variants, created_at, updated_at, id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			price = EXCLUDED.price, original_price = EXCLUDED.original_price, category = EXCLUDED.category,
			brand = EXCLUDED.brand, rating = EXCLUDED.rating, review_count = EXCLUDED.review_count,
			stock = EXCLUDED.stock, image = EXCLUDED.image, thumbnail = EXCLUDED.thumbnail,
			variants = EXCLUDED.variants, updated_at = EXCLUDED.updated_at`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	args = append(args, p.CreatedAt, p.UpdatedAt, p.ID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return models.Product{}, fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
	}
	return p, nil
}
