package img_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"istanbul-news/internal/handler/http/img"
)

func newMux(client *http.Client) *http.ServeMux {
	mux := http.NewServeMux()
	img.Register(mux, img.NewHandler(client, slog.New(slog.DiscardHandler)))
	return mux
}

func get(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestProxy_RelaysImage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	mux := newMux(upstream.Client())
	rec := get(t, mux, "/img?u="+url.QueryEscape(upstream.URL+"/a.png"))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestProxy_DefaultsContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Content-Typeを明示しないアップストリーム
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer upstream.Close()

	mux := newMux(upstream.Client())
	rec := get(t, mux, "/img?u="+url.QueryEscape(upstream.URL+"/x"))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg default", ct)
	}
}

func TestProxy_MissingOrInvalidURL(t *testing.T) {
	mux := newMux(http.DefaultClient)

	for _, target := range []string{
		"/img",
		"/img?u=",
		"/img?u=ftp%3A%2F%2Fexample.com%2Fx",
		"/img?u=relative%2Fpath.jpg",
	} {
		rec := get(t, mux, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s code = %d, want 400", target, rec.Code)
		}
	}
}

func TestProxy_UpstreamErrorIs404(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer upstream.Close()

	mux := newMux(upstream.Client())
	rec := get(t, mux, "/img?u="+url.QueryEscape(upstream.URL+"/blocked.jpg"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestProxy_UnreachableUpstreamIs404(t *testing.T) {
	mux := newMux(http.DefaultClient)
	rec := get(t, mux, "/img?u="+url.QueryEscape("http://127.0.0.1:1/x.jpg"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}
