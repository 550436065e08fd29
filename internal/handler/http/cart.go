package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/CafeCart/internal/domain"
	"github.com/utafrali/CafeCart/internal/store"
	apperrors "github.com/utafrali/CafeCart/pkg/errors"
	"github.com/utafrali/CafeCart/pkg/validator"
)

// CartHandler exposes the cart store over HTTP. It is deliberately thin:
// each route maps to exactly one store operation and carries no business
// rules of its own.
type CartHandler struct {
	store  *store.CartStore
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(s *store.CartStore, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:  s,
		logger: logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
// Price is a pointer so "price missing" and "price zero" stay distinct.
type AddItemRequest struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required,min=1,max=500"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Quantity    int      `json:"quantity"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's
// quantity. Zero or negative removes the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// cartView is the full cart state the UI renders: line items in insertion
// order, derived totals, and the badge count.
type cartView struct {
	Items     []domain.LineItem `json:"items"`
	Totals    domain.Totals     `json:"totals"`
	ItemCount int               `json:"itemCount"`
}

func (h *CartHandler) view() cartView {
	return cartView{
		Items:     h.store.Items(),
		Totals:    h.store.Totals(),
		ItemCount: h.store.ItemCount(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	err := h.store.AddItem(r.Context(), domain.LineItem{
		ID:          req.ID,
		Name:        req.Name,
		Price:       *req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "item id is required"},
		})
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	h.store.UpdateQuantity(r.Context(), id, req.Quantity)

	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "item id is required"},
		})
		return
	}

	h.store.RemoveItem(r.Context(), id)

	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(r.Context())

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// Checkout handles POST /api/v1/cart/checkout. The order is accepted and
// completes after the processing delay; the response does not wait for it.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.Checkout(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, response{Data: map[string]string{"status": "processing"}})
}

// --- Helpers ---

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	if errors.Is(err, apperrors.ErrInvalidInput) {
		code = "INVALID_INPUT"
		message = err.Error()
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: code, Message: message},
	})
}

func (h *CartHandler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
