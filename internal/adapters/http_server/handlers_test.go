package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"review_radar/internal/adapters/http_server"
	"review_radar/internal/analysis"
	"review_radar/internal/app"
	"review_radar/internal/domain"
)

type stubSupplier struct {
	reviews []domain.RawReview
	err     error
}

func (s stubSupplier) FetchReviews(ctx context.Context, productID int64, maxPages int) ([]domain.RawReview, error) {
	return s.reviews, s.err
}

type stubLabeler struct{}

func (stubLabeler) Label(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	if strings.Contains(text, "bad") {
		return domain.Negative, 0.9, nil
	}
	return domain.Positive, 0.9, nil
}

func newTestServer(t *testing.T, sup domain.ReviewSupplier) *httptest.Server {
	t.Helper()
	svc := app.NewAnalysisService(sup, stubLabeler{}, nil,
		analysis.Config{MinTermLength: 3, TopN: 5, Stopwords: map[string]struct{}{}}, 2, time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{A: svc})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

const productURL = "https://www.daraz.pk/products/usb-hub-i55443322.html"

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	res, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return res
}

func TestAnalyze_OK(t *testing.T) {
	ts := newTestServer(t, stubSupplier{reviews: []domain.RawReview{
		{Text: "bad cable"}, {Text: "bad port"}, {Text: "works great"},
	}})

	res := get(t, ts, "/v1/analyze?url="+productURL+"&max_pages=2")
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}

	var body struct {
		ProductID    int64 `json:"product_id"`
		TotalReviews int   `json:"total_reviews"`
		Sentiment    struct {
			Positive int `json:"positive"`
			Negative int `json:"negative"`
			Neutral  int `json:"neutral"`
		} `json:"sentiment"`
		TopIssues []domain.IssueTerm `json:"top_issues"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ProductID != 55443322 {
		t.Fatalf("product id = %d", body.ProductID)
	}
	if body.TotalReviews != 3 || body.Sentiment.Negative != 2 || body.Sentiment.Positive != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.TopIssues) == 0 || body.TopIssues[0].Term != "bad" {
		t.Fatalf("top issues = %+v", body.TopIssues)
	}
}

func TestAnalyze_ETagShortCircuit(t *testing.T) {
	ts := newTestServer(t, stubSupplier{reviews: []domain.RawReview{{Text: "bad glue"}}})

	res := get(t, ts, "/v1/analyze?url="+productURL)
	res.Body.Close()
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/analyze?url="+productURL, nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("status %d, want 304", res2.StatusCode)
	}
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	ts := newTestServer(t, stubSupplier{})

	cases := []struct {
		name string
		path string
	}{
		{"missing url", "/v1/analyze"},
		{"not a daraz url", "/v1/analyze?url=https://example.com/x-i1.html"},
		{"no product id", "/v1/analyze?url=https://www.daraz.pk/products/foo.html"},
		{"max_pages zero", "/v1/analyze?url=" + productURL + "&max_pages=0"},
		{"max_pages four", "/v1/analyze?url=" + productURL + "&max_pages=4"},
		{"max_pages junk", "/v1/analyze?url=" + productURL + "&max_pages=two"},
		{"max_pages negative", "/v1/analyze?url=" + productURL + "&max_pages=-1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := get(t, ts, c.path)
			defer res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", res.StatusCode)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
				t.Fatalf("content type %q", ct)
			}
		})
	}
}

func TestAnalyze_SupplierFailureIs502(t *testing.T) {
	ts := newTestServer(t, stubSupplier{err: domain.ErrUnavailable})

	res := get(t, ts, "/v1/analyze?url="+productURL)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", res.StatusCode)
	}
}

func TestAnalyze_NoReviews(t *testing.T) {
	ts := newTestServer(t, stubSupplier{})

	res := get(t, ts, "/v1/analyze?url="+productURL)
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("zero reviews must be 200, got %d", res.StatusCode)
	}
	var body domain.AnalysisResult
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalReviews != 0 || len(body.TopIssues) != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, stubSupplier{})
	res := get(t, ts, "/healthz")
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
}
