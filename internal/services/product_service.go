package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"inventory/internal/apperrors"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"go.uber.org/zap"
)

const (
	MsgNameRequired      = "Product name is required"
	MsgDuplicateOnCreate = "Product creation failed due to duplicate name."
	MsgIntegrityOnUpdate = "Product update failed due to integrity error."
	MsgNotFound          = "Product not found"
	MsgPriceNotPositive  = "Price must be greater than 0"
	MsgQuantityNegative  = "Quantity must be greater than or equal to 0"
	MsgDeleted           = "Product deleted successfully"
	msgInternal          = "Internal server error"
	changeCreated        = "created"
	changeUpdated        = "updated"
	changeDeleted        = "deleted"
)

// EventPublisher receives product changes after they have been committed.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	log       *zap.Logger
	publisher EventPublisher
	onChange  func(change string)
	now       func() time.Time
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithEventPublisher publishes an event for every committed change.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithChangeCounter is called with "created", "updated" or "deleted" after each commit.
func WithChangeCounter(fn func(change string)) Option {
	return func(s *ProductService) { s.onChange = fn }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log *zap.Logger, opts ...Option) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ProductService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProduct inserts a product. The payload must already have passed model validation.
func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductCreate) (*models.Product, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.BadRequest(MsgNameRequired)
	}

	product := req.ToProduct()
	err := s.repo.WithinTransaction(ctx, func(repo repositories.ProductRepository) error {
		return repo.Create(ctx, &product)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateName) {
			return nil, apperrors.BadRequest(MsgDuplicateOnCreate).WithError(err)
		}
		return nil, apperrors.Internal(msgInternal).WithError(err)
	}

	s.committed(models.EventProductCreated, changeCreated, product)
	return &product, nil
}

// GetProduct returns a single product.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product *models.Product
	err := s.repo.WithinTransaction(ctx, func(repo repositories.ProductRepository) error {
		var err error
		product, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.lookupError(err)
	}
	return product, nil
}

// UpdateProduct applies the supplied fields to an existing product.
// Nothing is written unless every supplied field is valid.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req models.ProductUpdate) (*models.Product, error) {
	var product *models.Product
	err := s.repo.WithinTransaction(ctx, func(repo repositories.ProductRepository) error {
		var err error
		product, err = repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := validateUpdate(req); err != nil {
			return err
		}
		req.Apply(product)
		return repo.Update(ctx, product)
	})
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			return nil, appErr
		}
		if errors.Is(err, repositories.ErrDuplicateName) {
			return nil, apperrors.Integrity(MsgIntegrityOnUpdate).WithError(err)
		}
		return nil, s.lookupError(err)
	}

	s.committed(models.EventProductUpdated, changeUpdated, *product)
	return product, nil
}

// DeleteProduct removes a product permanently.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	var product *models.Product
	err := s.repo.WithinTransaction(ctx, func(repo repositories.ProductRepository) error {
		var err error
		product, err = repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return s.lookupError(err)
	}

	s.committed(models.EventProductDeleted, changeDeleted, *product)
	return nil
}

// ListProducts returns products in id order, never nil.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if filter.PriceGTE != nil && *filter.PriceGTE < 0 {
		return nil, apperrors.Unprocessable("price_gte must be greater than or equal to 0")
	}

	var products []models.Product
	err := s.repo.WithinTransaction(ctx, func(repo repositories.ProductRepository) error {
		var err error
		products, err = repo.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, apperrors.Internal(msgInternal).WithError(err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func validateUpdate(req models.ProductUpdate) error {
	if field, ok := req.NullRequiredField(); ok {
		return apperrors.Unprocessable("Field '" + field + "' may not be null")
	}
	if req.Name.Present() && strings.TrimSpace(req.Name.Value) == "" {
		return apperrors.BadRequest(MsgNameRequired)
	}
	if req.Price.Present() && !(req.Price.Value > 0) {
		return apperrors.BadRequest(MsgPriceNotPositive)
	}
	if req.Quantity.Present() && req.Quantity.Value < 0 {
		return apperrors.BadRequest(MsgQuantityNegative)
	}
	return nil
}

func (s *ProductService) lookupError(err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return apperrors.NotFound(MsgNotFound).WithError(err)
	}
	return apperrors.Internal(msgInternal).WithError(err)
}

// committed runs the post-commit hooks. Failures are logged only: the change is already durable.
func (s *ProductService) committed(eventType, change string, product models.Product) {
	if s.onChange != nil {
		s.onChange(change)
	}
	if s.publisher == nil {
		return
	}
	event := models.ProductEvent{
		Type:       eventType,
		Product:    product,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		s.log.Warn("Failed to publish product event",
			zap.String("type", eventType),
			zap.Uint("product_id", product.ID),
			zap.Error(err))
	}
}
