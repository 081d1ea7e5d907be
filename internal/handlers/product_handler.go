package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"inventory/internal/apperrors"
	"inventory/internal/models"
	"inventory/internal/services"
	"inventory/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductService is the behaviour the product handlers need.
type ProductService interface {
	CreateProduct(ctx context.Context, req models.ProductCreate) (*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
}

const (
	msgInvalidID      = "Invalid product ID type"
	msgInvalidPayload = "Invalid request body"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service ProductService) *ProductHandler {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &ProductHandler{
		service:  service,
		validate: v,
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a product and returns it with its new ID.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	log := logger.FromCtx(c)

	var req models.ProductCreate
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	if err := h.validateStruct(req); err != nil {
		log.Info("Product creation rejected", zap.Error(err))
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return err
	}

	log.Info("Product created", zap.Uint("product_id", product.ID), zap.String("name", product.Name))
	return c.Status(fiber.StatusOK).JSON(product)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update. Keys missing from the body are left untouched.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	log := logger.FromCtx(c)

	id, err := productID(c)
	if err != nil {
		return err
	}

	var req models.ProductUpdate
	if err := h.parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return err
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}

	logger.FromCtx(c).Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(fiber.Map{
		"message": services.MsgDeleted,
	})
}

// HandleListProducts lists products, optionally only those priced at or above price_gte.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var filter models.ProductFilter
	if raw := c.Query("price_gte"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperrors.Unprocessable("price_gte must be a number").WithError(err)
		}
		filter.PriceGTE = &value
	}
	if err := h.validateStruct(filter); err != nil {
		return err
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Unprocessable(bodyErrorDetail(err)).WithError(err)
	}
	return nil
}

// validateStruct turns validator failures into a 422 naming every offending field.
func (h *ProductHandler) validateStruct(s interface{}) error {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Unprocessable(err.Error()).WithError(err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fieldMessage(e))
	}
	return apperrors.Unprocessable(strings.Join(messages, "; ")).WithError(err)
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", e.Field())
	case "gt":
		return fmt.Sprintf("Field '%s' must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("Field '%s' must be greater than or equal to %s", e.Field(), e.Param())
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
}

func bodyErrorDetail(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("Field '%s' must be of type %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, fiber.ErrUnprocessableEntity):
		return "Content-Type must be application/json"
	}
	return msgInvalidPayload
}

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil {
		return 0, apperrors.Unprocessable(msgInvalidID).WithError(err)
	}
	return uint(id), nil
}

// jsonFieldName reports validation failures with the JSON key the client sent.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
