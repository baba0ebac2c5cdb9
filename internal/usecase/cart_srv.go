package usecase

import (
	"context"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/internal/dto/request"
	"shopline/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	IncreaseItem(ctx context.Context, userID, productID uuid.UUID) error
	// DecreaseItem returns true when the line dropped to zero and was removed.
	DecreaseItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	ListAll(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.CartItemResponse], error)
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{repo: repo, log: log}
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	// 1. Product must exist; stock is only enforced at checkout
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		s.log.Error("Failed to find product", zap.Error(err), zap.String("product_id", productID.String()))
		return fmt.Errorf("failed to find product")
	}
	if product == nil {
		return fmt.Errorf("product not found")
	}

	// 2. Idempotent add: first add creates the line, later adds increment it
	item := &entity.CartItem{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}
	if err := s.repo.Cart.AddItem(ctx, item); err != nil {
		s.log.Error("Failed to add cart item", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()))
		return fmt.Errorf("failed to add to cart")
	}

	s.log.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()))

	return nil
}

func (s *cartService) IncreaseItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.Cart.Increase(ctx, userID, productID); err != nil {
		s.log.Error("Failed to increase cart item", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()))
		return fmt.Errorf("cart item not found")
	}
	return nil
}

func (s *cartService) DecreaseItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	removed, err := s.repo.Cart.Decrease(ctx, userID, productID)
	if err != nil {
		s.log.Error("Failed to decrease cart item", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()))
		return false, fmt.Errorf("cart item not found")
	}
	return removed, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	// 1. Load cart lines
	items, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load cart", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load cart")
	}

	// 2. Join with live product rows for names and current prices
	products := make(map[string]*entity.Product, len(items))
	for _, item := range items {
		p, err := s.repo.Product.FindByID(ctx, item.ProductID)
		if err != nil {
			s.log.Error("Failed to load cart product", zap.Error(err), zap.String("product_id", item.ProductID.String()))
			return nil, fmt.Errorf("failed to load cart")
		}
		if p != nil {
			products[item.ProductID.String()] = p
		}
	}

	return response.CartToResponse(items, products), nil
}

func (s *cartService) ListAll(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.CartItemResponse], error) {
	items, err := s.repo.Cart.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list cart items", zap.Error(err))
		return nil, fmt.Errorf("failed to list cart items")
	}

	total, err := s.repo.Cart.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count cart items", zap.Error(err))
		return nil, fmt.Errorf("failed to list cart items")
	}

	out := make([]response.CartItemResponse, 0, len(items))
	for _, item := range items {
		line := response.CartItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		}
		if p, err := s.repo.Product.FindByID(ctx, item.ProductID); err == nil && p != nil {
			line.ProductName = p.Name
			line.Price = p.Price
			line.Subtotal = p.Price * float64(item.Quantity)
		}
		out = append(out, line)
	}

	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}
