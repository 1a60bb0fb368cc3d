package repositories

import (
	"context"

	"productapi/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Create, Update and Delete are all-or-nothing; any rejection by the store is
// returned as a *models.DataValidationError. Find reports a missing id through
// its boolean result rather than an error.
type ProductRepository interface {
	All(ctx context.Context) ([]models.Product, error)
	Find(ctx context.Context, id int) (*models.Product, bool, error)
	FindByName(ctx context.Context, name string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, product *models.Product) error
}
