package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"productapi/internal/logger"
	"productapi/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// All retrieves every product in the table.
func (r *GORMProductRepository) All(ctx context.Context) ([]models.Product, error) {
	logger.FromContext(ctx).Info("Processing all Products")
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Find retrieves a single product by its id.
func (r *GORMProductRepository) Find(ctx context.Context, id int) (*models.Product, bool, error) {
	logger.FromContext(ctx).Info("Processing lookup", zap.Int("id", id))
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, true, nil
}

// FindByName retrieves all products whose name matches exactly.
func (r *GORMProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	logger.FromContext(ctx).Info("Processing name query", zap.String("name", name))
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by name %q: %w", name, err)
	}
	return products, nil
}

// Create inserts the product and populates its id. Any caller-supplied id is
// discarded first.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	log := logger.FromContext(ctx)
	log.Info("Creating product", zap.String("name", product.Name))

	product.ID = 0
	err := product.Validate()
	if err == nil {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(product).Error
		})
	}
	if err != nil {
		product.ID = 0
		log.Error("Error creating record", zap.Stringer("product", product), zap.Error(err))
		return asValidationError(err)
	}
	return nil
}

// Update writes name, description and price of an already persisted product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	log := logger.FromContext(ctx)
	log.Info("Saving product", zap.String("name", product.Name))

	err := r.update(ctx, product)
	if err != nil {
		log.Error("Error updating record", zap.Stringer("product", product), zap.Error(err))
		return asValidationError(err)
	}
	return nil
}

func (r *GORMProductRepository) update(ctx context.Context, product *models.Product) error {
	if !product.Persisted() {
		return errors.New("update called with an empty ID field")
	}
	if err := product.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{ID: product.ID}).
			Select("name", "description", "price").
			Updates(map[string]interface{}{
				"name":        product.Name,
				"description": product.Description,
				"price":       product.Price,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d not found for update", product.ID)
		}
		return nil
	})
}

// Delete removes the product row.
func (r *GORMProductRepository) Delete(ctx context.Context, product *models.Product) error {
	log := logger.FromContext(ctx)
	log.Info("Deleting product", zap.String("name", product.Name))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", product.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d not found for deletion", product.ID)
		}
		return nil
	})
	if err != nil {
		log.Error("Error deleting record", zap.Stringer("product", product), zap.Error(err))
		return asValidationError(err)
	}
	return nil
}

func asValidationError(err error) error {
	var dve *models.DataValidationError
	if errors.As(err, &dve) {
		return dve
	}
	return models.NewDataValidationError(err)
}

var _ ProductRepository = (*GORMProductRepository)(nil)
