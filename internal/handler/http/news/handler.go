// Package news exposes the district and breaking news endpoints.
package news

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/handler/http/respond"
	"istanbul-news/internal/observability/logging"
	"istanbul-news/internal/observability/metrics"
	"istanbul-news/internal/relevance"
	"istanbul-news/internal/usecase/aggregate"
)

const (
	districtLimit = 30
	breakingLimit = 70

	breakingScope = "İstanbul"

	// Google News drifts to nationwide coverage without negative city
	// keywords, so the breaking query pins the city and excludes the rest.
	breakingQuery = `"İstanbul" (son dakika OR belediye OR asayiş OR kaza OR trafik OR yangın OR operasyon OR gözaltı) ` +
		`-Bursa -Ankara -İzmir -Antalya -Adana -Konya -Kayseri -Gaziantep -Sakarya -Kocaeli -Edirne -Tekirdağ -Eskişehir`
)

// districtNegatives adds per-district negative keywords. Beşiktaş otherwise
// drowns in football coverage, Avcılar in hunting news.
var districtNegatives = map[string]string{
	"Beşiktaş": " -transfer -maç -stadyum -futbol",
	"Avcılar":  " -avcılık -avcı -tüfek",
}

// Aggregator is the aggregation use case consumed by the handlers.
type Aggregator interface {
	Aggregate(ctx context.Context, req aggregate.Request) ([]entity.NewsItem, error)
}

// Handler serves the news endpoints.
type Handler struct {
	service Aggregator
	logger  *slog.Logger
}

// NewHandler creates a news handler.
func NewHandler(service Aggregator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the news routes on the mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /get-news/{district}", h.District)
	mux.HandleFunc("GET /get-breaking", h.Breaking)
}

// District handles GET /get-news/{district}.
func (h *Handler) District(w http.ResponseWriter, r *http.Request) {
	district := r.PathValue("district")
	if district == "" {
		respond.SafeError(w, http.StatusBadRequest, &entity.ValidationError{
			Field: "district", Message: "district is required",
		})
		return
	}

	items, err := h.service.Aggregate(r.Context(), aggregate.Request{
		Query:          buildDistrictQuery(district),
		Scope:          district,
		Limit:          districtLimit,
		StrictIstanbul: true,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	metrics.RecordNewsServed("district", len(items))
	respond.JSON(w, http.StatusOK, toResponse(items))
}

// Breaking handles GET /get-breaking.
func (h *Handler) Breaking(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Aggregate(r.Context(), aggregate.Request{
		Query:          breakingQuery,
		Scope:          breakingScope,
		Limit:          breakingLimit,
		StrictIstanbul: true,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	// 検索クエリをすり抜けた市外の記事を二次フィルタで落とす
	filtered := items[:0:0]
	for _, it := range items {
		if relevance.IsIstanbulRelated(it.Title, it.Link) {
			filtered = append(filtered, it)
		}
	}

	metrics.RecordNewsServed("breaking", len(filtered))
	respond.JSON(w, http.StatusOK, toResponse(filtered))
}

// buildDistrictQuery builds the Google News query for a district.
func buildDistrictQuery(district string) string {
	return `"` + district + `" İstanbul yerel haberleri` + districtNegatives[district]
}

// respondError maps use case errors onto HTTP responses. Validation errors
// get a 400; feed fetch failures degrade to an empty list so clients always
// have something renderable.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	logging.WithRequestID(r.Context(), h.logger).Error("news aggregation failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	respond.JSON(w, http.StatusOK, []ItemResponse{})
}
