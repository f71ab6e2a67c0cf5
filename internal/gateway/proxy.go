package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"GroceryStore/pkg/kit"
)

var ErrBadUpstream = errors.New("bad upstream url")

// NewReverseProxy forwards requests unchanged to target. Upstream failures
// are answered with a JSON 502.
func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadUpstream, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadUpstream, target)
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if log != nil {
			log.Warn("upstream request failed",
				zap.String("upstream", u.Host),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", map[string]any{"upstream": u.Host})
	}
	return p, nil
}

// stripCORS drops the upstream's CORS headers so only the gateway's apply.
func stripCORS(resp *http.Response) error {
	for _, h := range []string{
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Credentials",
		"Access-Control-Allow-Headers",
		"Access-Control-Allow-Methods",
		"Access-Control-Expose-Headers",
		"Access-Control-Max-Age",
	} {
		resp.Header.Del(h)
	}
	return nil
}
