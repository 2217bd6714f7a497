package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

// PostgresProductRepository implements ProductRepository over the menu
// subsystem's products table.
type PostgresProductRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProductRepository creates a Postgres-backed product repository
func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// GetAll returns all products ordered by id
func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, base_price::text, category FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// GetByID returns a product by its ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, base_price::text, category FROM products WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrProductNotFound
	}
	return scanProduct(rows)
}

func scanProduct(rows pgx.Rows) (*models.Product, error) {
	var (
		product models.Product
		price   string
	)
	if err := rows.Scan(&product.ID, &product.Name, &price, &product.Category); err != nil {
		return nil, err
	}
	basePrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, errors.New("malformed base_price column")
	}
	product.BasePrice = basePrice
	return &product, nil
}
