package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/CafeCart/internal/catalog"
	redisrepo "github.com/utafrali/CafeCart/internal/repository/redis"
	"github.com/utafrali/CafeCart/internal/store"
	"github.com/utafrali/CafeCart/pkg/health"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupServer builds the full production router over a miniredis-backed
// store, so requests exercise middleware, handlers, store, and persistence
// end-to-end.
func setupServer(t *testing.T) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := testLogger()
	repo := redisrepo.NewSlotRepository(client, "", logger)
	cartStore := store.New(context.Background(), repo, nil, logger,
		store.WithCheckoutDelay(50*time.Millisecond))
	menu := catalog.New(catalog.DefaultMenu())

	return NewRouter(cartStore, menu, health.NewHandler(), logger), mr
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type cartPayload struct {
	Data struct {
		Items []struct {
			ID          string  `json:"id"`
			Name        string  `json:"name"`
			Price       float64 `json:"price"`
			Quantity    int     `json:"quantity"`
			Image       string  `json:"image"`
			Description string  `json:"description"`
		} `json:"items"`
		Totals struct {
			Subtotal    string `json:"subtotal"`
			DeliveryFee string `json:"deliveryFee"`
			Tax         string `json:"tax"`
			Total       string `json:"total"`
			Currency    string `json:"currency"`
		} `json:"totals"`
		ItemCount int `json:"itemCount"`
	} `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeCart(t *testing.T, rr *httptest.ResponseRecorder) cartPayload {
	t.Helper()
	var p cartPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

// ============================================================================
// GET /api/v1/cart
// ============================================================================

func TestGetCart_Empty(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/v1/cart", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	assert.Empty(t, p.Data.Items)
	assert.Equal(t, 0, p.Data.ItemCount)
	assert.Equal(t, "0.00", p.Data.Totals.Subtotal)
	assert.Equal(t, "0.00", p.Data.Totals.Total)
}

// ============================================================================
// POST /api/v1/cart/items
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50, "quantity": 2,
	})

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	require.Len(t, p.Data.Items, 1)
	assert.Equal(t, "latte", p.Data.Items[0].ID)
	assert.Equal(t, 2, p.Data.Items[0].Quantity)
	assert.Equal(t, "7.00", p.Data.Totals.Subtotal)
	assert.Equal(t, 2, p.Data.ItemCount)
}

func TestAddItem_MissingFields(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"name": "Nameless", "price": 1.00,
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	p := decodeCart(t, rr)
	require.NotNil(t, p.Error)
	assert.Equal(t, "VALIDATION_ERROR", p.Error.Code)
	assert.Contains(t, p.Error.Fields, "ID")
}

func TestAddItem_NonNumericPrice(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": "lots",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	p := decodeCart(t, rr)
	require.NotNil(t, p.Error)
	assert.Equal(t, "INVALID_INPUT", p.Error.Code)
}

func TestAddItem_NegativePrice(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": -0.50,
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddItem_WrongContentType(t *testing.T) {
	h, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("id=latte"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestAddItem_MergesDuplicate(t *testing.T) {
	h, _ := setupServer(t)

	body := map[string]any{"id": "latte", "name": "Caffe Latte", "price": 3.50}
	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", body)
	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", body)

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	require.Len(t, p.Data.Items, 1)
	assert.Equal(t, 2, p.Data.Items[0].Quantity)
}

// ============================================================================
// PUT /api/v1/cart/items/{id}
// ============================================================================

func TestUpdateQuantity_Set(t *testing.T) {
	h, _ := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodPut, "/api/v1/cart/items/latte", map[string]any{"quantity": 4})

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	assert.Equal(t, 4, p.Data.ItemCount)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	h, _ := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodPut, "/api/v1/cart/items/latte", map[string]any{"quantity": 0})

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	assert.Empty(t, p.Data.Items)
}

func TestUpdateQuantity_UnknownIDIsNoOp(t *testing.T) {
	h, _ := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodPut, "/api/v1/cart/items/cortado", map[string]any{"quantity": 9})

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	require.Len(t, p.Data.Items, 1)
	assert.Equal(t, 1, p.Data.Items[0].Quantity)
}

// ============================================================================
// DELETE /api/v1/cart/items/{id} and DELETE /api/v1/cart
// ============================================================================

func TestRemoveItem(t *testing.T) {
	h, _ := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodDelete, "/api/v1/cart/items/latte", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeCart(t, rr)
	assert.Empty(t, p.Data.Items)
}

func TestClearCart(t *testing.T) {
	h, mr := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodDelete, "/api/v1/cart", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	// The slot remains with an empty item list.
	raw, err := mr.Get(redisrepo.DefaultSlotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"items":[]}`, raw)
}

// ============================================================================
// POST /api/v1/cart/checkout
// ============================================================================

func TestCheckout_EmptyCartRejected(t *testing.T) {
	h, _ := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/checkout", nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	p := decodeCart(t, rr)
	require.NotNil(t, p.Error)
	assert.Contains(t, p.Error.Message, "empty")
}

func TestCheckout_AcceptedAndClears(t *testing.T) {
	h, _ := setupServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"id": "latte", "name": "Caffe Latte", "price": 3.50,
	})
	rr := doJSON(t, h, http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)

	// The cart drains once the processing delay elapses.
	require.Eventually(t, func() bool {
		p := decodeCart(t, doJSON(t, h, http.MethodGet, "/api/v1/cart", nil))
		return p.Data.ItemCount == 0
	}, 2*time.Second, 25*time.Millisecond)
}
