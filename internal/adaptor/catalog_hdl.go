package adaptor

import (
	"encoding/json"
	"net/http"

	"shopline/internal/dto/request"
	"shopline/internal/dto/response"
	"shopline/internal/usecase"
	"shopline/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service   usecase.CatalogService
	recommend usecase.RecommendService
	log       *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, recommend usecase.RecommendService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		recommend: recommend,
		log:       log.With(zap.String("handler", "catalog")),
	}
}

// GetProducts handles GET /api/products
func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	page := request.PaginationFromQuery(r)

	var search *string
	if q := r.URL.Query().Get("search"); q != "" {
		search = &q
	}

	resp, err := h.service.ListProducts(r.Context(), page, search)
	if err != nil {
		handleServiceError(h.log, w, err, "get products")
		return
	}

	utils.ResponseSuccess(w, "Products retrieved", resp)
}

// SearchProducts handles GET /api/products/search?q=...
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	resp, err := h.service.SearchProducts(r.Context(), query)
	if err != nil {
		handleServiceError(h.log, w, err, "search products")
		return
	}

	utils.ResponseSuccess(w, "Search results", resp)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return
	}

	resp, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get product")
		return
	}

	utils.ResponseSuccess(w, "Product retrieved", resp)
}

// RateProduct handles POST /api/products/{id}/rate
func (h *CatalogHandler) RateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	productID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req request.RateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.RateProduct(r.Context(), userID, productID, req.Score); err != nil {
		handleServiceError(h.log, w, err, "rate product")
		return
	}

	utils.ResponseSuccess(w, "Rating saved", nil)
}

// GetRecommendations handles GET /api/recommendations
func (h *CatalogHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	products, source, err := h.recommend.RecommendForUser(r.Context(), userID, nil)
	if err != nil {
		handleServiceError(h.log, w, err, "get recommendations")
		return
	}

	resp := response.RecommendationResponse{
		Source:   source,
		Products: response.ProductsToResponse(products),
	}
	utils.ResponseSuccess(w, "Recommendations retrieved", resp)
}
