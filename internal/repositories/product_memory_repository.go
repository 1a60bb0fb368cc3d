package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"productapi/internal/logger"
	"productapi/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It applies the same validation as the GORM repository.
type MemoryProductRepository struct {
	products map[int]models.Product
	nextID   int
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int]models.Product),
		nextID:   1,
	}
}

// All returns all products ordered by id.
func (r *MemoryProductRepository) All(ctx context.Context) ([]models.Product, error) {
	logger.FromContext(ctx).Info("Processing all Products")
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// Find returns a copy of the product with the given id.
func (r *MemoryProductRepository) Find(ctx context.Context, id int) (*models.Product, bool, error) {
	logger.FromContext(ctx).Info("Processing lookup", zap.Int("id", id))
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, false, nil
	}
	return &product, true, nil
}

// FindByName returns products whose name matches exactly.
func (r *MemoryProductRepository) FindByName(ctx context.Context, name string) ([]models.Product, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Product, 0)
	for _, p := range all {
		if p.Name == name {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Create stores the product under the next sequential id.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	logger.FromContext(ctx).Info("Creating product", zap.String("name", product.Name))
	product.ID = 0
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update replaces the stored copy of an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	logger.FromContext(ctx).Info("Saving product", zap.String("name", product.Name))
	if !product.Persisted() {
		return models.NewDataValidationError(fmt.Errorf("update called with an empty ID field"))
	}
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return models.NewDataValidationError(fmt.Errorf("product with ID %d not found for update", product.ID))
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product.
func (r *MemoryProductRepository) Delete(ctx context.Context, product *models.Product) error {
	logger.FromContext(ctx).Info("Deleting product", zap.String("name", product.Name))
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return models.NewDataValidationError(fmt.Errorf("product with ID %d not found for deletion", product.ID))
	}
	delete(r.products, product.ID)
	return nil
}

var _ ProductRepository = (*MemoryProductRepository)(nil)
