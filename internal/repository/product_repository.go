package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/restobar/pricing-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines read-only access to the menu subsystem's
// products. The pricing core never writes products.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	products map[int64]models.Product
}

// NewInMemoryProductRepository creates a new in-memory product repository with seed data
func NewInMemoryProductRepository() *InMemoryProductRepository {
	products := map[int64]models.Product{
		1:  {ID: 1, Name: "Classic Burger", BasePrice: decimal.NewFromFloat(9.00), Category: "Burger"},
		2:  {ID: 2, Name: "Bacon Cheeseburger", BasePrice: decimal.NewFromFloat(11.50), Category: "Burger"},
		3:  {ID: 3, Name: "Margherita Pizza", BasePrice: decimal.NewFromFloat(14.99), Category: "Pizza"},
		4:  {ID: 4, Name: "Pepperoni Pizza", BasePrice: decimal.NewFromFloat(16.99), Category: "Pizza"},
		5:  {ID: 5, Name: "Caesar Salad", BasePrice: decimal.NewFromFloat(8.99), Category: "Salad"},
		6:  {ID: 6, Name: "House IPA", BasePrice: decimal.NewFromFloat(7.00), Category: "Beer"},
		7:  {ID: 7, Name: "Amber Lager", BasePrice: decimal.NewFromFloat(6.50), Category: "Beer"},
		8:  {ID: 8, Name: "Old Fashioned", BasePrice: decimal.NewFromFloat(12.00), Category: "Cocktail"},
		9:  {ID: 9, Name: "Negroni", BasePrice: decimal.NewFromFloat(13.00), Category: "Cocktail"},
		10: {ID: 10, Name: "Espresso Martini", BasePrice: decimal.NewFromFloat(13.50), Category: "Cocktail"},
	}

	return &InMemoryProductRepository{
		products: products,
	}
}

// GetAll returns all products ordered by id
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
