package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

const (
	RecommendSourcePersonalized = "personalized"
	RecommendSourceRandom       = "random"
)

// RecommendService suggests products with item-based collaborative
// filtering over the rating table. Users without rating history, and cold
// catalogs, fall back to a random sample.
type RecommendService interface {
	RecommendForUser(ctx context.Context, userID uuid.UUID, exclude []uuid.UUID) ([]*entity.Product, string, error)
}

type recommendService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewRecommendService(repo *repository.Repository, config *utils.Config, log *zap.Logger) RecommendService {
	return &recommendService{
		repo:   repo,
		config: config,
		log:    log,
	}
}

func (s *recommendService) RecommendForUser(ctx context.Context, userID uuid.UUID, exclude []uuid.UUID) ([]*entity.Product, string, error) {
	topN := s.config.Recommender.TopN
	if topN <= 0 {
		topN = 4
	}

	// 1. The model is small enough to re-fit per request from the full
	// rating table
	ratings, err := s.repo.Rating.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load ratings", zap.Error(err))
		return nil, "", fmt.Errorf("failed to build recommendations")
	}

	matrix := buildRatingMatrix(ratings)
	userRatings := matrix.byUser[userID]

	// 2. No history means nothing to personalize on
	if len(userRatings) == 0 {
		return s.randomFallback(ctx, topN, exclude)
	}

	// 3. Score every unrated, non-excluded product against the user's
	// rated items
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	type scored struct {
		productID uuid.UUID
		score     float64
	}
	var candidates []scored

	for productID := range matrix.byProduct {
		if excluded[productID] {
			continue
		}
		if _, rated := userRatings[productID]; rated {
			continue
		}
		if score, ok := matrix.predict(userID, productID, s.config.Recommender.Neighbors); ok {
			candidates = append(candidates, scored{productID: productID, score: score})
		}
	}

	if len(candidates) == 0 {
		return s.randomFallback(ctx, topN, exclude)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	// 4. Resolve product rows; ratings can outlive their product
	products := make([]*entity.Product, 0, len(candidates))
	for _, c := range candidates {
		p, err := s.repo.Product.FindByID(ctx, c.productID)
		if err != nil {
			s.log.Error("Failed to load recommended product", zap.Error(err), zap.String("product_id", c.productID.String()))
			continue
		}
		if p != nil {
			products = append(products, p)
		}
	}

	if len(products) == 0 {
		return s.randomFallback(ctx, topN, exclude)
	}

	return products, RecommendSourcePersonalized, nil
}

func (s *recommendService) randomFallback(ctx context.Context, n int, exclude []uuid.UUID) ([]*entity.Product, string, error) {
	products, err := s.repo.Product.FindRandom(ctx, n, exclude)
	if err != nil {
		s.log.Error("Failed to load random products", zap.Error(err))
		return nil, "", fmt.Errorf("failed to build recommendations")
	}
	return products, RecommendSourceRandom, nil
}

// ==================== RATING MATRIX ====================

type ratingMatrix struct {
	// byProduct: product -> user -> score
	byProduct map[uuid.UUID]map[uuid.UUID]float64
	// byUser: user -> product -> score
	byUser map[uuid.UUID]map[uuid.UUID]float64
	// productMean: product -> mean score, for mean-centering
	productMean map[uuid.UUID]float64
}

func buildRatingMatrix(ratings []*entity.Rating) *ratingMatrix {
	m := &ratingMatrix{
		byProduct:   make(map[uuid.UUID]map[uuid.UUID]float64),
		byUser:      make(map[uuid.UUID]map[uuid.UUID]float64),
		productMean: make(map[uuid.UUID]float64),
	}

	for _, r := range ratings {
		if m.byProduct[r.ProductID] == nil {
			m.byProduct[r.ProductID] = make(map[uuid.UUID]float64)
		}
		m.byProduct[r.ProductID][r.UserID] = float64(r.Score)

		if m.byUser[r.UserID] == nil {
			m.byUser[r.UserID] = make(map[uuid.UUID]float64)
		}
		m.byUser[r.UserID][r.ProductID] = float64(r.Score)
	}

	for productID, users := range m.byProduct {
		var sum float64
		for _, score := range users {
			sum += score
		}
		m.productMean[productID] = sum / float64(len(users))
	}

	return m
}

// similarity is the mean-centered cosine between two product rating vectors
// over the users who rated both.
func (m *ratingMatrix) similarity(a, b uuid.UUID) (float64, bool) {
	ra, rb := m.byProduct[a], m.byProduct[b]
	if len(ra) == 0 || len(rb) == 0 {
		return 0, false
	}

	var va, vb []float64
	for userID, scoreA := range ra {
		if scoreB, ok := rb[userID]; ok {
			va = append(va, scoreA-m.productMean[a])
			vb = append(vb, scoreB-m.productMean[b])
		}
	}
	if len(va) == 0 {
		return 0, false
	}

	normA := math.Sqrt(floats.Dot(va, va))
	normB := math.Sqrt(floats.Dot(vb, vb))
	if normA == 0 || normB == 0 {
		return 0, false
	}

	return floats.Dot(va, vb) / (normA * normB), true
}

// predict scores a product for a user from the k most similar items the
// user has already rated.
func (m *ratingMatrix) predict(userID, productID uuid.UUID, k int) (float64, bool) {
	if k <= 0 {
		k = 20
	}

	type neighbor struct {
		sim   float64
		score float64
	}
	var neighbors []neighbor

	for ratedID, score := range m.byUser[userID] {
		if sim, ok := m.similarity(productID, ratedID); ok && sim > 0 {
			neighbors = append(neighbors, neighbor{sim: sim, score: score})
		}
	}
	if len(neighbors) == 0 {
		return 0, false
	}

	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].sim > neighbors[j].sim
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	var num, den float64
	for _, n := range neighbors {
		num += n.sim * n.score
		den += math.Abs(n.sim)
	}
	if den == 0 {
		return 0, false
	}

	return num / den, true
}
