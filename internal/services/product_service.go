package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"productapi/internal/logger"
	"productapi/internal/models"
	"productapi/internal/repositories"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher sends an encoded event to the message broker.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductEvent is the message published after a product write commits.
type ProductEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Product    map[string]interface{} `json:"product"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.All(ctx)
}

// GetProduct retrieves a single product by its ID. found is false when no
// product has that id.
func (s *ProductService) GetProduct(ctx context.Context, id int) (product *models.Product, found bool, err error) {
	return s.repo.Find(ctx, id)
}

// FindProductsByName retrieves all products with exactly the given name.
func (s *ProductService) FindProductsByName(ctx context.Context, name string) ([]models.Product, error) {
	return s.repo.FindByName(ctx, name)
}

// CreateProduct persists a new product and announces it.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, EventProductCreated, product)
	return nil
}

// UpdateProduct saves changes to an existing product and announces them.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, EventProductUpdated, product)
	return nil
}

// DeleteProduct removes a product and announces its removal.
func (s *ProductService) DeleteProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Delete(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, EventProductDeleted, product)
	return nil
}

// publish never fails the caller: the write has already committed.
func (s *ProductService) publish(ctx context.Context, eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	log := logger.FromContext(ctx)

	body, err := json.Marshal(ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Product:    product.Serialize(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn("Failed to marshal product event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Warn("Failed to publish product event",
			zap.String("type", eventType), zap.Int("product_id", product.ID), zap.Error(err))
	}
}
