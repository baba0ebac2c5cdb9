package repository

import (
	"context"
	"fmt"

	"shopline/internal/data/entity"
	"shopline/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartRepository interface {
	// AddItem is the idempotent add-to-cart: the first add creates the line
	// at quantity 1, every later add increments it. One statement, so
	// concurrent adds cannot create duplicate rows.
	AddItem(ctx context.Context, item *entity.CartItem) error
	Increase(ctx context.Context, userID, productID uuid.UUID) error
	// Decrease drops the quantity by one; a line at quantity 1 is deleted
	// instead of being clamped to zero. Returns true when the line was removed.
	Decrease(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.CartItem, error)
	CountAll(ctx context.Context) (int64, error)
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to add cart item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("product_id", item.ProductID.String()),
		)
		return fmt.Errorf("add cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) Increase(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		UPDATE cart_items
		SET quantity = quantity + 1
		WHERE user_id = $1 AND product_id = $2
	`

	result, err := r.db.Exec(ctx, query, userID, productID)
	if err != nil {
		r.log.Error("Failed to increase cart quantity",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("increase cart quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cart item not found")
	}

	return nil
}

func (r *cartRepository) Decrease(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	// Only decrement while the result stays >= 1; the guard keeps the CHECK
	// constraint from ever firing.
	query := `
		UPDATE cart_items
		SET quantity = quantity - 1
		WHERE user_id = $1 AND product_id = $2 AND quantity > 1
	`

	result, err := r.db.Exec(ctx, query, userID, productID)
	if err != nil {
		r.log.Error("Failed to decrease cart quantity",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return false, fmt.Errorf("decrease cart quantity: %w", err)
	}

	if result.RowsAffected() > 0 {
		return false, nil
	}

	// Line was at quantity 1 (or gone): remove it entirely
	del := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	delResult, err := r.db.Exec(ctx, del, userID, productID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}

	if delResult.RowsAffected() == 0 {
		return false, fmt.Errorf("cart item not found")
	}

	return true, nil
}

func (r *cartRepository) scanItems(ctx context.Context, query string, args ...any) ([]*entity.CartItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	items, err := r.scanItems(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to get cart items",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find cart items for %s: %w", userID.String(), err)
	}

	return items, nil
}

func (r *cartRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart_items
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	items, err := r.scanItems(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list cart items", zap.Error(err))
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	return items, nil
}

func (r *cartRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}
