package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopline/internal/data/entity"
	"shopline/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned by PlaceOrder when the user has no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError aborts the whole checkout transaction; nothing is
// committed when it is returned.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s is out of stock: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// DeliveryDueOrder is a paid order whose preferred delivery time has passed
// and which has not been notified yet.
type DeliveryDueOrder struct {
	ID      uuid.UUID
	OrderID string
	Email   string
	Address string
}

type OrderRepository interface {
	// PlaceOrder converts the user's cart into an order inside one
	// transaction: product rows are locked, stock is checked and
	// decremented, line prices are frozen onto order items, products driven
	// to zero stock are deleted, and the cart is cleared. Any failure rolls
	// the whole sequence back.
	PlaceOrder(ctx context.Context, order *entity.Order) ([]*entity.OrderItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error)
	// SetPaid advances confirmed -> paid; returns false if the order was not
	// in the confirmed state.
	SetPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod) (bool, error)
	FindDeliveryDue(ctx context.Context) ([]*DeliveryDueOrder, error)
	// MarkDelivered advances paid -> delivered and stamps the notification
	// time; returns false if another worker got there first.
	MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context, limit, offset int, status *string, search *string) ([]*entity.Order, error)
	CountAll(ctx context.Context, status *string, search *string) (int64, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

type cartLine struct {
	productID uuid.UUID
	quantity  int
	name      string
	price     float64
	stock     int
}

func (r *orderRepository) PlaceOrder(ctx context.Context, order *entity.Order) ([]*entity.OrderItem, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock every product referenced by the cart so a concurrent checkout
	// cannot pass the same stock check.
	rows, err := tx.Query(ctx, `
		SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
		FOR UPDATE OF p
	`, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock cart products: %w", err)
	}

	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity, &l.name, &l.price, &l.stock); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Any short line aborts before a single write happens
	var total float64
	for _, l := range lines {
		if l.quantity > l.stock {
			return nil, &InsufficientStockError{
				ProductID:   l.productID,
				ProductName: l.name,
				Requested:   l.quantity,
				Available:   l.stock,
			}
		}
		total += l.price * float64(l.quantity)
	}

	now := time.Now()
	order.TotalAmount = total
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_id, user_id, address_id, total_amount,
		                    payment_method, status, preferred_delivery_time,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.OrderID, order.UserID, order.AddressID, order.TotalAmount,
		order.PaymentMethod, order.Status, order.PreferredDeliveryTime,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	items := make([]*entity.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := &entity.OrderItem{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			OrderID:     order.ID,
			ProductID:   l.productID,
			ProductName: l.name,
			Price:       l.price,
			Quantity:    l.quantity,
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name,
			                         price, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Price, item.Quantity, item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}

		if l.stock == l.quantity {
			// Stock exhausted: the product leaves the catalog entirely.
			// Cart lines of other users cascade away with it.
			if _, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, l.productID); err != nil {
				return nil, fmt.Errorf("delete exhausted product: %w", err)
			}
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE products SET stock = stock - $2, updated_at = $3
				WHERE id = $1
			`, l.productID, l.quantity, now)
			if err != nil {
				return nil, fmt.Errorf("decrement stock: %w", err)
			}
		}

		items = append(items, item)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout transaction: %w", err)
	}

	return items, nil
}

const orderColumns = `id, order_id, user_id, address_id, total_amount,
	       payment_method, status, preferred_delivery_time,
	       delivery_notified_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var order entity.Order
	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&order.UserID,
		&order.AddressID,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.Status,
		&order.PreferredDeliveryTime,
		&order.DeliveryNotifiedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return nil, fmt.Errorf("find order %s: %w", id.String(), err)
	}

	return order, nil
}

func (r *orderRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}

	return order, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	orders, err := r.queryOrders(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get user orders",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find orders for %s: %w", userID.String(), err)
	}

	return orders, nil
}

func (r *orderRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders for %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *orderRepository) FindItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, price, quantity, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to get order items",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find items for order %s: %w", orderID.String(), err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&item.Quantity,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}

func (r *orderRepository) SetPaid(ctx context.Context, id uuid.UUID, method entity.PaymentMethod) (bool, error) {
	// The status guard in the WHERE clause keeps the transition monotonic
	// even under concurrent payment requests.
	query := `
		UPDATE orders
		SET payment_method = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, id, method, entity.OrderStatusPaid, entity.OrderStatusConfirmed)
	if err != nil {
		r.log.Error("Failed to mark order paid",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return false, fmt.Errorf("mark order %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *orderRepository) FindDeliveryDue(ctx context.Context) ([]*DeliveryDueOrder, error) {
	query := `
		SELECT o.id, o.order_id, u.email,
		       a.street || ', ' || a.city || ', ' || a.country
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN addresses a ON a.id = o.address_id
		WHERE o.status = $1
		  AND o.delivery_notified_at IS NULL
		  AND o.preferred_delivery_time <= NOW()
		ORDER BY o.preferred_delivery_time
	`

	rows, err := r.db.Query(ctx, query, entity.OrderStatusPaid)
	if err != nil {
		r.log.Error("Failed to find delivery-due orders", zap.Error(err))
		return nil, fmt.Errorf("find delivery-due orders: %w", err)
	}
	defer rows.Close()

	var due []*DeliveryDueOrder
	for rows.Next() {
		var d DeliveryDueOrder
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Email, &d.Address); err != nil {
			return nil, fmt.Errorf("scan delivery-due row: %w", err)
		}
		due = append(due, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery-due rows: %w", err)
	}

	return due, nil
}

func (r *orderRepository) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, delivery_notified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3 AND delivery_notified_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, entity.OrderStatusDelivered, entity.OrderStatusPaid)
	if err != nil {
		r.log.Error("Failed to mark order delivered",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return false, fmt.Errorf("mark order %s delivered: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *orderRepository) FindAll(ctx context.Context, limit, offset int, status *string, search *string) ([]*entity.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)
	where, args := orderFilters(status, search)
	query += where
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) CountAll(ctx context.Context, status *string, search *string) (int64, error) {
	query := `SELECT COUNT(*) FROM orders`
	where, args := orderFilters(status, search)
	query += where

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

func orderFilters(status *string, search *string) (string, []any) {
	where := ""
	args := []any{}

	if status != nil && *status != "" {
		args = append(args, *status)
		where = fmt.Sprintf(` WHERE status = $%d`, len(args))
	}
	if search != nil && *search != "" {
		args = append(args, *search)
		clause := fmt.Sprintf(`order_id ILIKE '%%' || $%d || '%%'`, len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	return where, args
}
