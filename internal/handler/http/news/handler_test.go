package news_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"istanbul-news/internal/domain/entity"
	"istanbul-news/internal/handler/http/news"
	"istanbul-news/internal/usecase/aggregate"
)

type stubAggregator struct {
	gotReq aggregate.Request
	items  []entity.NewsItem
	err    error
}

func (s *stubAggregator) Aggregate(ctx context.Context, req aggregate.Request) ([]entity.NewsItem, error) {
	s.gotReq = req
	return s.items, s.err
}

func newMux(svc news.Aggregator) *http.ServeMux {
	mux := http.NewServeMux()
	news.Register(mux, news.NewHandler(svc, slog.New(slog.DiscardHandler)))
	return mux
}

func TestDistrict_BuildsQueryAndResponds(t *testing.T) {
	svc := &stubAggregator{items: []entity.NewsItem{
		{Title: "Kadıköy'de etkinlik", Link: "https://a.example/1", Source: "Gazete", Date: "10:30", District: "Kadıköy"},
	}}
	mux := newMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-news/Kadıköy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if want := `"Kadıköy" İstanbul yerel haberleri`; svc.gotReq.Query != want {
		t.Errorf("query = %q, want %q", svc.gotReq.Query, want)
	}
	if svc.gotReq.Limit != 30 || !svc.gotReq.StrictIstanbul {
		t.Errorf("request = %+v, want limit 30 strict", svc.gotReq)
	}
	if svc.gotReq.Scope != "Kadıköy" {
		t.Errorf("scope = %q, want Kadıköy", svc.gotReq.Scope)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body) != 1 || body[0]["title"] != "Kadıköy'de etkinlik" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body[0]["image"]; ok {
		t.Error("image key present, want omitted when empty")
	}
}

func TestDistrict_NegativeKeywords(t *testing.T) {
	tests := []struct {
		district string
		want     string
	}{
		{"Beşiktaş", `"Beşiktaş" İstanbul yerel haberleri -transfer -maç -stadyum -futbol`},
		{"Avcılar", `"Avcılar" İstanbul yerel haberleri -avcılık -avcı -tüfek`},
		{"Üsküdar", `"Üsküdar" İstanbul yerel haberleri`},
	}

	for _, tt := range tests {
		svc := &stubAggregator{}
		mux := newMux(svc)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-news/"+tt.district, nil))

		if svc.gotReq.Query != tt.want {
			t.Errorf("district %s query = %q, want %q", tt.district, svc.gotReq.Query, tt.want)
		}
	}
}

func TestDistrict_UpstreamFailureDegradesToEmptyList(t *testing.T) {
	svc := &stubAggregator{err: errors.New("feed unavailable")}
	mux := newMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-news/Kadıköy", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestDistrict_ValidationError(t *testing.T) {
	svc := &stubAggregator{err: &entity.ValidationError{Field: "limit", Message: "limit must be positive"}}
	mux := newMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-news/Kadıköy", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestBreaking_FiltersAndResponds(t *testing.T) {
	svc := &stubAggregator{items: []entity.NewsItem{
		{Title: "İstanbul'da son dakika", Link: "https://a.example/1", District: "İstanbul"},
		{Title: "Bursa'da kaza", Link: "https://a.example/2", District: "İstanbul"},
	}}
	mux := newMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-breaking", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if svc.gotReq.Limit != 70 || !svc.gotReq.StrictIstanbul {
		t.Errorf("request = %+v, want limit 70 strict", svc.gotReq)
	}
	if svc.gotReq.Scope != "İstanbul" {
		t.Errorf("scope = %q, want İstanbul", svc.gotReq.Scope)
	}

	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// 2回目のフィルタでBursaの記事が落ちる
	if len(body) != 1 || body[0]["title"] != "İstanbul'da son dakika" {
		t.Errorf("body = %v, want only the Istanbul item", body)
	}
}

func TestBreaking_EmptyResultIsJSONArray(t *testing.T) {
	mux := newMux(&stubAggregator{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-breaking", nil))

	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}
