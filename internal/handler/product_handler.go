package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"market-stall/internal/model"
	"market-stall/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	catalog service.CatalogService
	writer  service.ProductWriter
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService, writer service.ProductWriter, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		writer:  writer,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with optional filters.
// Query parameters: status, category, q, limit.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.ProductFilter{
		Status:     q.Get("status"),
		CategoryID: q.Get("category"),
		SearchText: q.Get("q"),
	}

	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		writeDomainError(w, model.NewValidationError("status", "Unknown product status"), h.logger)
		return
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeDomainError(w, model.NewValidationError("limit", "Limit must be a positive integer"), h.logger)
			return
		}
		filter.Limit = limit
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id} requests.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}

	var draft model.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidJSON,
			Message: "Request body must be valid JSON",
		})
		return
	}

	product, err := h.writer.Create(r.Context(), sellerID, draft)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.sellerID(w, r)
	if !ok {
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var draft model.ProductDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeInvalidJSON,
			Message: "Request body must be valid JSON",
		})
		return
	}

	product, err := h.writer.Update(r.Context(), id, sellerID, draft)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// productID extracts and parses the {id} path value.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeDomainError(w, model.NewValidationError("id", "Product ID is required"), h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		writeDomainError(w, model.NewValidationError("id", "Product ID must be a UUID"), h.logger)
		return uuid.Nil, false
	}

	return id, true
}

// sellerID extracts the seller identity supplied by the platform.
func (h *ProductHandler) sellerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sellerID := r.Header.Get(SellerIDHeader)
	if sellerID == "" {
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:   model.ErrCodeUnauthorised,
			Message: "Seller identity header is required",
		})
		return "", false
	}
	return sellerID, true
}
