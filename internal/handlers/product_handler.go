package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"productapi/internal/logger"
	"productapi/internal/models"
	"productapi/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/name/:name", h.HandleGetProductsByName)
	productRoutes.Get("/:id<int>", h.HandleGetProduct)
	productRoutes.Put("/:id<int>", h.HandleUpdateProduct)
	productRoutes.Delete("/:id<int>", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a product from the posted JSON body and
// points the Location header at it.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)
	log.Info("Request to Create a Product")

	if err := checkContentType(c, fiber.MIMEApplicationJSON); err != nil {
		return err
	}
	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	product, err := new(models.Product).Deserialize(data)
	if err != nil {
		return err
	}
	if err := h.service.CreateProduct(ctx, product); err != nil {
		return err
	}

	location := fmt.Sprintf("%s%s/%d", c.BaseURL(), strings.TrimRight(c.Path(), "/"), product.ID)
	log.Info("Product created", zap.Int("id", product.ID))

	c.Set(fiber.HeaderLocation, location)
	return c.Status(fiber.StatusCreated).JSON(product.Serialize())
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := productID(c)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Request to retrieve Product", zap.Int("id", id))

	product, found, err := h.service.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return notFoundByID(c, id)
	}
	return c.Status(fiber.StatusOK).JSON(product.Serialize())
}

// HandleUpdateProduct replaces name, description and price of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)
	id, err := productID(c)
	if err != nil {
		return err
	}
	log.Info("Request to update Product", zap.Int("id", id))

	if err := checkContentType(c, fiber.MIMEApplicationJSON); err != nil {
		return err
	}

	product, found, err := h.service.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return notFoundByID(c, id)
	}

	data, err := decodeBody(c)
	if err != nil {
		return err
	}
	if _, err := product.Deserialize(data); err != nil {
		return err
	}
	if err := h.service.UpdateProduct(ctx, product); err != nil {
		return err
	}

	log.Info("Product updated", zap.Int("id", id))
	return c.Status(fiber.StatusOK).JSON(product.Serialize())
}

// HandleGetProductsByName retrieves every product with exactly the given name.
func (h *ProductHandler) HandleGetProductsByName(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid product name %q", c.Params("name")))
	}
	log.Info("Request to retrieve Products by name", zap.String("name", name))

	products, err := h.service.FindProductsByName(ctx, name)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		message := fmt.Sprintf("Product with name %s not found.", name)
		log.Error(message)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": message})
	}

	log.Info("Returning products", zap.Int("count", len(products)))
	return c.Status(fiber.StatusOK).JSON(serializeAll(products))
}

// HandleDeleteProduct deletes a single product. Deleting an unknown id is a 404.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)
	id, err := productID(c)
	if err != nil {
		return err
	}
	log.Info("Request to delete Product", zap.Int("id", id))

	product, found, err := h.service.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return notFoundByID(c, id)
	}
	if err := h.service.DeleteProduct(ctx, product); err != nil {
		return err
	}

	log.Info("Product deleted", zap.Int("id", id))
	return c.Status(fiber.StatusOK).Send(nil)
}

// HandleListProducts returns all products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logger.FromContext(ctx)
	log.Info("Request for product list")

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		return err
	}

	log.Info("Returning products", zap.Int("count", len(products)))
	return c.Status(fiber.StatusOK).JSON(serializeAll(products))
}

func serializeAll(products []models.Product) []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		results = append(results, products[i].Serialize())
	}
	return results
}

func productID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid product id %q", c.Params("id")))
	}
	return id, nil
}

func notFoundByID(c *fiber.Ctx, id int) error {
	message := fmt.Sprintf("Product with id %d not found.", id)
	logger.FromContext(c.UserContext()).Error(message)
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": message})
}

// checkContentType requires the Content-Type header to equal contentType exactly.
func checkContentType(c *fiber.Ctx, contentType string) error {
	got := c.Get(fiber.HeaderContentType)
	if got == contentType {
		return nil
	}

	log := logger.FromContext(c.UserContext())
	if got == "" {
		log.Error("No Content-Type specified.")
	} else {
		log.Error("Invalid Content-Type", zap.String("content_type", got))
	}
	return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be "+contentType)
}

// decodeBody parses the request body as a single JSON value. Numbers are kept
// as json.Number so prices never pass through float64.
func decodeBody(c *fiber.Ctx) (interface{}, error) {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "The request body is empty; a JSON object is required.")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to decode JSON object: "+err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to decode JSON object: unexpected data after the top-level value")
	}
	return data, nil
}
