package cart_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"GroceryStore/internal/cart"
	"GroceryStore/internal/catalog"
	"GroceryStore/pkg/kit"
)

var bananas = catalog.Product{
	ID:          "p-bananas",
	Name:        "Bananas",
	Description: "Fresh bananas",
	Price:       catalog.MustPrice("0.99"),
	Image:       "/images/bananas.png",
	Category:    "Fruit",
	Discount:    10,
}

func newCartTS(t *testing.T, deps cart.HTTPDeps) *httptest.Server {
	t.Helper()

	deps.Log = zap.NewNop()
	deps.Service = "cart"
	ts := httptest.NewServer(cart.NewHandler(&cart.Server{Store: cart.NewStore()}, deps))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any, headers map[string]string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeEntries(t *testing.T, raw []byte) []cart.Entry {
	t.Helper()

	var out []cart.Entry
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestCartAPI_AddTwiceMerges(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{})

	status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := do(t, http.MethodGet, ts.URL+"/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, status)

	got := decodeEntries(t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Quantity)
	assert.Equal(t, bananas.ID, got[0].Product.ID)
	assert.Equal(t, bananas.Name, got[0].Product.Name)
	assert.True(t, bananas.Price.Equal(got[0].Product.Price.Decimal))
	assert.Contains(t, string(raw), `"_id":"p-bananas"`)
}

func TestCartAPI_RemoveAndCheckout(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{})

	bread := catalog.Product{ID: "p-bread", Name: "Bread", Price: catalog.MustPrice("2.49")}
	do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 2}, nil)
	do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bread, "quantity": 1}, nil)

	status, raw := do(t, http.MethodPost, ts.URL+"/api/cart/remove", map[string]any{"productId": "nope"}, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeEntries(t, raw), 2)

	status, raw = do(t, http.MethodPost, ts.URL+"/api/cart/remove", map[string]any{"productId": bananas.ID}, nil)
	require.Equal(t, http.StatusOK, status)
	got := decodeEntries(t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, "p-bread", got[0].Product.ID)

	status, raw = do(t, http.MethodPost, ts.URL+"/api/cart/checkout", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var res cart.CheckoutResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.Message)

	_, raw = do(t, http.MethodGet, ts.URL+"/api/cart", nil, nil)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestCartAPI_BadInput(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{})

	status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": map[string]any{"name": "x"}, "quantity": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/cart/add", strings.NewReader(`{"product":`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartAPI_QuantityOverflowIsBadRequest(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{})

	status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": math.MaxInt}, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, raw := do(t, http.MethodGet, ts.URL+"/api/cart", nil, nil)
	got := decodeEntries(t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, math.MaxInt, got[0].Quantity)
}

func TestCartAPI_CartIDHeaderSeparatesCarts(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{})

	alice := map[string]string{kit.CartIDHeader: "alice"}
	do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 4}, alice)

	_, raw := do(t, http.MethodGet, ts.URL+"/api/cart", nil, nil)
	assert.Empty(t, decodeEntries(t, raw), "shared cart is untouched")

	_, raw = do(t, http.MethodGet, ts.URL+"/api/cart", nil, alice)
	got := decodeEntries(t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Quantity)
}

func TestCartAPI_RateLimitsMutations(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{MutationsPerMinute: 2})

	for range 2 {
		status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 1}, nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/checkout", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/cart", nil, nil)
	assert.Equal(t, http.StatusOK, status, "reads are not limited")
}

func TestCartAPI_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	ts := newCartTS(t, cart.HTTPDeps{MutationsPerMinute: 1})

	add := map[string]any{"product": bananas, "quantity": 1}
	status, _ := do(t, http.MethodPost, ts.URL+"/api/cart/add", add, map[string]string{"X-Forwarded-For": "192.0.2.1"})
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/cart/add", add, map[string]string{"X-Forwarded-For": "192.0.2.2"})
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestCartAPI_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ts := newCartTS(t, cart.HTTPDeps{Registry: reg, MetricsToken: "tok"})

	do(t, http.MethodPost, ts.URL+"/api/cart/add", map[string]any{"product": bananas, "quantity": 1}, nil)
	do(t, http.MethodPost, ts.URL+"/api/cart/checkout", nil, nil)

	status, raw := do(t, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{"Authorization": "Bearer tok"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "cart_checkouts_total 1")
	assert.Contains(t, string(raw), "cart_entries 0")
}
