// Package img proxies remote news images through the API. Serving images
// from our own origin avoids hotlink blocks and mixed-content problems in
// browser frontends.
package img

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/handler/http/respond"
	"istanbul-news/internal/observability/logging"
	"istanbul-news/internal/observability/metrics"
)

// DefaultTimeout bounds a single upstream image fetch.
const DefaultTimeout = 6 * time.Second

// cacheControl lets clients and CDNs keep proxied images for a day.
const cacheControl = "public, max-age=86400"

// Handler serves GET /img?u=<image-url>.
type Handler struct {
	client *http.Client
	logger *slog.Logger
}

// NewHandler creates an image proxy handler.
// Pass a nil client to use one with DefaultTimeout.
func NewHandler(client *http.Client, logger *slog.Logger) *Handler {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, logger: logger}
}

// Register mounts the proxy route on the mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /img", h.Proxy)
}

// Proxy fetches the upstream image and relays it. Invalid target URLs get a
// 400; any upstream failure collapses to a 404 so broken images stay quiet
// on the client side.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("u")
	if err := entity.ValidateAbsoluteURL(target); err != nil {
		metrics.RecordImageProxy("bad_request")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		metrics.RecordImageProxy("bad_request")
		respond.SafeError(w, http.StatusBadRequest, &entity.ValidationError{
			Field: "u", Message: "invalid image URL",
		})
		return
	}
	req.Header.Set("User-Agent", "IstanbulNewsBot/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		h.upstreamFailed(w, r, target, err)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		h.upstreamFailed(w, r, target, fmt.Errorf("%w: HTTP %d", entity.ErrUpstreamStatus, resp.StatusCode))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// レスポンス送信中の切断はログだけ残す
		logging.WithRequestID(r.Context(), h.logger).Debug("image relay interrupted",
			slog.String("url", target),
			slog.Any("error", err))
		return
	}

	metrics.RecordImageProxy("success")
}

// upstreamFailed answers 404 for any upstream problem.
func (h *Handler) upstreamFailed(w http.ResponseWriter, r *http.Request, target string, err error) {
	metrics.RecordImageProxy("upstream_error")
	logging.WithRequestID(r.Context(), h.logger).Debug("image fetch failed",
		slog.String("url", target),
		slog.Any("error", err))
	respond.SafeError(w, http.StatusNotFound, fmt.Errorf("image not found"))
}
