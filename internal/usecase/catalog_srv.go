package usecase

import (
	"context"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/dto/response"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListProducts(ctx context.Context, page request.PaginatedRequest, search *string) (*response.PaginatedResponse[response.ProductResponse], error)
	SearchProducts(ctx context.Context, query string) ([]response.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*response.ProductResponse, error)
	CreateProduct(ctx context.Context, req *request.CreateProductRequest) (*response.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error)
	RateProduct(ctx context.Context, userID, productID uuid.UUID, score int) error
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) ListProducts(ctx context.Context, page request.PaginatedRequest, search *string) (*response.PaginatedResponse[response.ProductResponse], error) {
	products, err := s.repo.Product.FindAll(ctx, page.Limit(), page.Offset(), search)
	if err != nil {
		s.log.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products")
	}

	total, err := s.repo.Product.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products")
	}

	return response.NewPaginatedResponse(response.ProductsToResponse(products), page.Page, page.Limit(), total), nil
}

func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]response.ProductResponse, error) {
	if query == "" {
		return nil, fmt.Errorf("search query required")
	}

	products, err := s.repo.Product.Search(ctx, query)
	if err != nil {
		s.log.Error("Failed to search products", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("failed to search products")
	}

	return response.ProductsToResponse(products), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*response.ProductResponse, error) {
	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("failed to find product")
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *request.CreateProductRequest) (*response.ProductResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create product validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Create product entity
	now := time.Now()
	product := &entity.Product{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	// 3. Save
	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("failed to create product")
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update product validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Load current row
	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("failed to find product")
	}
	if product == nil {
		return nil, fmt.Errorf("product not found")
	}

	// 3. Apply only the fields that were sent
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.UpdatedAt = time.Now()

	// 4. Save
	if err := s.repo.Product.Update(ctx, product); err != nil {
		s.log.Error("Failed to update product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("failed to update product")
	}

	s.log.Info("Product updated", zap.String("product_id", product.ID.String()))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *catalogService) RateProduct(ctx context.Context, userID, productID uuid.UUID, score int) error {
	// 1. Range check
	if score < 1 || score > 5 {
		return fmt.Errorf("validation failed: score must be between 1 and 5")
	}

	// 2. Product must still exist
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", productID.String()))
		return fmt.Errorf("failed to find product")
	}
	if product == nil {
		return fmt.Errorf("product not found")
	}

	// 3. Upsert the rating; re-rating overwrites
	rating := &entity.Rating{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		ProductID: productID,
		Score:     score,
	}
	if err := s.repo.Rating.Upsert(ctx, rating); err != nil {
		s.log.Error("Failed to save rating", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()))
		return fmt.Errorf("failed to save rating")
	}

	s.log.Info("Product rated",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("score", score))

	return nil
}
