package adaptor

import (
	"encoding/json"
	"net/http"

	"shopline/internal/dto/request"
	"shopline/internal/usecase"
	"shopline/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler covers the store-management surface: catalog writes plus
// listings across all users.
type AdminHandler struct {
	catalog usecase.CatalogService
	cart    usecase.CartService
	order   usecase.OrderService
	log     *zap.Logger
}

func NewAdminHandler(service *usecase.Service, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		catalog: service.Catalog,
		cart:    service.Cart,
		order:   service.Order,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// CreateProduct handles POST /api/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProductRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.catalog.CreateProduct(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create product")
		return
	}

	utils.ResponseCreated(w, "Product created", resp)
}

// UpdateProduct handles PUT /api/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid product ID", nil)
		return
	}

	var req request.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.catalog.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update product")
		return
	}

	utils.ResponseSuccess(w, "Product updated", resp)
}

// GetOrders handles GET /api/admin/orders
func (h *AdminHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	page := request.PaginationFromQuery(r)
	query := r.URL.Query()

	var status *string
	if s := query.Get("status"); s != "" {
		status = &s
	}
	var search *string
	if s := query.Get("search"); s != "" {
		search = &s
	}

	resp, err := h.order.ListAllOrders(r.Context(), page, status, search)
	if err != nil {
		handleServiceError(h.log, w, err, "list all orders")
		return
	}

	utils.ResponseSuccess(w, "Orders retrieved", resp)
}

// GetOrderItems handles GET /api/admin/orders/{orderID}/items
func (h *AdminHandler) GetOrderItems(w http.ResponseWriter, r *http.Request) {
	resp, err := h.order.ListOrderItems(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(h.log, w, err, "list order items")
		return
	}

	utils.ResponseSuccess(w, "Order items retrieved", resp)
}

// GetReturns handles GET /api/admin/returns
func (h *AdminHandler) GetReturns(w http.ResponseWriter, r *http.Request) {
	page := request.PaginationFromQuery(r)

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	resp, err := h.order.ListReturns(r.Context(), page, status)
	if err != nil {
		handleServiceError(h.log, w, err, "list return requests")
		return
	}

	utils.ResponseSuccess(w, "Return requests retrieved", resp)
}

// GetCarts handles GET /api/admin/carts
func (h *AdminHandler) GetCarts(w http.ResponseWriter, r *http.Request) {
	page := request.PaginationFromQuery(r)

	resp, err := h.cart.ListAll(r.Context(), page)
	if err != nil {
		handleServiceError(h.log, w, err, "list cart items")
		return
	}

	utils.ResponseSuccess(w, "Cart items retrieved", resp)
}
