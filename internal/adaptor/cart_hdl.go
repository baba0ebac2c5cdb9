package adaptor

import (
	"encoding/json"
	"net/http"

	"shopline/internal/dto/request"
	"shopline/internal/usecase"
	"shopline/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "Cart retrieved", resp)
}

// AddItem handles POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := h.parseCartRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.AddItem(r.Context(), userID, productID); err != nil {
		handleServiceError(h.log, w, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, "Item added to cart", nil)
}

// IncreaseItem handles PUT /api/cart/increase
func (h *CartHandler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := h.parseCartRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.IncreaseItem(r.Context(), userID, productID); err != nil {
		handleServiceError(h.log, w, err, "increase cart item")
		return
	}

	utils.ResponseSuccess(w, "Item quantity increased", nil)
}

// DecreaseItem handles PUT /api/cart/decrease
func (h *CartHandler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := h.parseCartRequest(w, r)
	if !ok {
		return
	}

	removed, err := h.service.DecreaseItem(r.Context(), userID, productID)
	if err != nil {
		handleServiceError(h.log, w, err, "decrease cart item")
		return
	}

	if removed {
		utils.ResponseSuccess(w, "Item removed from cart", nil)
		return
	}
	utils.ResponseSuccess(w, "Item quantity decreased", nil)
}

func (h *CartHandler) parseCartRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	var req request.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return uuid.Nil, uuid.Nil, false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return uuid.Nil, uuid.Nil, false
	}

	productID, err := utils.ParseUUID(req.ProductID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, productID, true
}
