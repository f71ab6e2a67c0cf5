package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := CORS([]string{"http://shop.test"})(next)

	preflight := func(headers string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodOptions, "/api/cart/add", nil)
		r.Header.Set("Origin", "http://shop.test")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		// Browsers send the list lowercased and comma separated without spaces.
		r.Header.Set("Access-Control-Request-Headers", headers)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	rec := preflight("content-type,x-cart-id")
	assert.Equal(t, "http://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("content-type,x-api-key")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), "headers outside the allow list are refused")

	other := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	other.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestChiRoutePatternOrPath_WithoutChi(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/plain", nil)
	assert.Equal(t, "/plain", ChiRoutePatternOrPath(r))
}
