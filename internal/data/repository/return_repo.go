package repository

import (
	"context"
	"fmt"

	"shopline/internal/data/entity"
	"shopline/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReturnRepository interface {
	Create(ctx context.Context, req *entity.ReturnRequest) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.ReturnRequest, error)
	FindAll(ctx context.Context, limit, offset int, status *string) ([]*entity.ReturnRequest, error)
	CountAll(ctx context.Context, status *string) (int64, error)
}

type returnRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReturnRepository(db database.PgxIface, log *zap.Logger) ReturnRepository {
	return &returnRepository{
		db:  db,
		log: log.With(zap.String("repository", "return")),
	}
}

func (r *returnRepository) Create(ctx context.Context, req *entity.ReturnRequest) error {
	query := `
		INSERT INTO return_requests (id, order_id, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.OrderID,
		req.Description,
		req.Status,
		req.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create return request",
			zap.Error(err),
			zap.String("order_id", req.OrderID.String()),
		)
		return fmt.Errorf("create return request: %w", err)
	}

	return nil
}

func (r *returnRepository) scanRequests(ctx context.Context, query string, args ...any) ([]*entity.ReturnRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*entity.ReturnRequest
	for rows.Next() {
		var req entity.ReturnRequest
		err := rows.Scan(
			&req.ID,
			&req.OrderID,
			&req.Description,
			&req.Status,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan return request row: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return request rows: %w", err)
	}

	return requests, nil
}

func (r *returnRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.ReturnRequest, error) {
	query := `
		SELECT id, order_id, description, status, created_at
		FROM return_requests
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	requests, err := r.scanRequests(ctx, query, orderID)
	if err != nil {
		r.log.Error("Failed to get return requests",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
		)
		return nil, fmt.Errorf("find return requests for order %s: %w", orderID.String(), err)
	}

	return requests, nil
}

func (r *returnRepository) FindAll(ctx context.Context, limit, offset int, status *string) ([]*entity.ReturnRequest, error) {
	query := `
		SELECT id, order_id, description, status, created_at
		FROM return_requests
	`
	args := []any{}

	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	requests, err := r.scanRequests(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list return requests", zap.Error(err))
		return nil, fmt.Errorf("list return requests: %w", err)
	}

	return requests, nil
}

func (r *returnRepository) CountAll(ctx context.Context, status *string) (int64, error) {
	query := `SELECT COUNT(*) FROM return_requests`
	args := []any{}

	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count return requests: %w", err)
	}

	return count, nil
}
