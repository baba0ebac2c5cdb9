package repository

import (
	"context"
	"fmt"

	"shopline/internal/data/entity"
	"shopline/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingRepository interface {
	// Upsert keeps at most one rating per (user, product); re-rating
	// overwrites the previous score.
	Upsert(ctx context.Context, rating *entity.Rating) error
	FindAll(ctx context.Context) ([]*entity.Rating, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error)
}

type ratingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRatingRepository(db database.PgxIface, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, user_id, product_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET score = EXCLUDED.score
	`

	_, err := r.db.Exec(ctx, query,
		rating.ID,
		rating.UserID,
		rating.ProductID,
		rating.Score,
		rating.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert rating",
			zap.Error(err),
			zap.String("user_id", rating.UserID.String()),
			zap.String("product_id", rating.ProductID.String()),
		)
		return fmt.Errorf("upsert rating: %w", err)
	}

	return nil
}

func (r *ratingRepository) scanRatings(ctx context.Context, query string, args ...any) ([]*entity.Rating, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*entity.Rating
	for rows.Next() {
		var rating entity.Rating
		err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.ProductID,
			&rating.Score,
			&rating.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, &rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

func (r *ratingRepository) FindAll(ctx context.Context) ([]*entity.Rating, error) {
	query := `
		SELECT id, user_id, product_id, score, created_at
		FROM ratings
	`

	ratings, err := r.scanRatings(ctx, query)
	if err != nil {
		r.log.Error("Failed to load ratings", zap.Error(err))
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	return ratings, nil
}

func (r *ratingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Rating, error) {
	query := `
		SELECT id, user_id, product_id, score, created_at
		FROM ratings
		WHERE user_id = $1
	`

	ratings, err := r.scanRatings(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to load user ratings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("load ratings for %s: %w", userID.String(), err)
	}

	return ratings, nil
}
