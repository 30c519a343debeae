package orchestrator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/local/pdf2text/internal/fetch"
	"github.com/local/pdf2text/internal/pdfdoc"
)

func newTestMux(o *Orchestrator) *http.ServeMux {
	mux := http.NewServeMux()
	o.RegisterRoutes(mux)
	return mux
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := doGet(t, newTestMux(New(Dependencies{Fetcher: &fakeFetcher{}})), "/api/health")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
}

func TestHandleTextSuccess(t *testing.T) {
	doc := &fakeDoc{pages: pagesOf("one", "two", "three")}
	mux := newTestMux(newTestOrchestrator(&fakeFetcher{data: fakePDF}, doc, 1))

	q := url.Values{"pdfUrl": {"https://example.com/a.pdf"}, "min": {"2"}, "max": {"3"}}
	rec, body := doGet(t, mux, "/api/pdf-text?"+q.Encode())
	if rec.Code != http.StatusOK || body["text"] != "two\nthree" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}

func TestHandleTextMissingURL(t *testing.T) {
	f := &fakeFetcher{data: fakePDF}
	mux := newTestMux(newTestOrchestrator(f, &fakeDoc{}, 1))

	for _, path := range []string{"/api/pdf-text", "/api/pdf-text-all", "/api/pdf-info", "/api/pdf-text?pdfUrl="} {
		rec, body := doGet(t, mux, path)
		if rec.Code != http.StatusBadRequest || body["error"] != "Missing pdfUrl parameter" {
			t.Fatalf("%s: got %d %v", path, rec.Code, body)
		}
	}
	if f.calls != 0 {
		t.Fatalf("fetch attempted %d times", f.calls)
	}
}

func TestHandleTextInvalidParameters(t *testing.T) {
	f := &fakeFetcher{data: fakePDF}
	mux := newTestMux(newTestOrchestrator(f, &fakeDoc{pages: numberedPages(20)}, 1))

	tests := []struct {
		query   string
		message string
	}{
		{"min=10&max=5", "Invalid page range: min > max"},
		{"min=0", "Invalid min page value"},
		{"max=-3", "Invalid max page value"},
		{"min=1&max=500", "The range of files is too large (it surpass 200 page)"},
		{"min=abc", "min must be an integer"},
		{"max=1.5", "max must be an integer"},
		{"min=99999999999999999999", "min is out of range"},
	}
	for _, tt := range tests {
		rec, body := doGet(t, mux, "/api/pdf-text?pdfUrl=https%3A%2F%2Fexample.com%2Fa.pdf&"+tt.query)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", tt.query, rec.Code)
		}
		if body["error"] != "Invalid parameters" || body["message"] != tt.message {
			t.Fatalf("%s: body %v", tt.query, body)
		}
	}
}

func TestHandleTextAllIgnoresBounds(t *testing.T) {
	doc := &fakeDoc{pages: pagesOf("a", "b", "c")}
	mux := newTestMux(newTestOrchestrator(&fakeFetcher{data: fakePDF}, doc, 1))

	rec, body := doGet(t, mux, "/api/pdf-text-all?pdfUrl=u&min=2&max=2")
	if rec.Code != http.StatusOK || body["text"] != "a\nb\nc" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}

func TestHandleTextRemoteFailure(t *testing.T) {
	origin := httptest.NewServer(http.NotFoundHandler())
	defer origin.Close()

	o := New(Dependencies{
		Fetcher: fetch.New(fetch.Options{Client: origin.Client()}),
		Opener:  pdfdoc.OpenerFunc(func([]byte) (pdfdoc.Document, error) { t.Fatal("open must not be reached"); return nil, nil }),
	})
	rec, body := doGet(t, newTestMux(o), "/api/pdf-text?pdfUrl="+url.QueryEscape(origin.URL+"/missing.pdf"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, body %v", rec.Code, body)
	}
	if body["error"] != "Failed to download PDF" || !strings.Contains(body["message"].(string), "404") {
		t.Fatalf("body %v", body)
	}
}

func TestHandleTextExtractionFailure(t *testing.T) {
	mux := newTestMux(newTestOrchestrator(&fakeFetcher{data: []byte("GIF89a......")}, &fakeDoc{}, 1))
	rec, body := doGet(t, mux, "/api/pdf-text-all?pdfUrl=u")
	if rec.Code != http.StatusInternalServerError || body["error"] != "Failed to process PDF" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}

func TestHandleInfo(t *testing.T) {
	doc := &fakeDoc{pages: pagesOf("", "")}
	mux := newTestMux(newTestOrchestrator(&fakeFetcher{data: fakePDF}, doc, 1))
	rec, body := doGet(t, mux, "/api/pdf-info?pdfUrl=u")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d %v", rec.Code, body)
	}
	if body["pages"] != float64(2) || body["has_text"] != false || body["mime"] != "application/pdf" {
		t.Fatalf("body %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(newTestOrchestrator(&fakeFetcher{data: fakePDF}, &fakeDoc{}, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pdf-text?pdfUrl=u", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, "GET") {
		t.Fatalf("Allow = %q", allow)
	}
}

func TestHandleTextRefusesS3ByDefault(t *testing.T) {
	o := New(Dependencies{
		Fetcher: fetch.New(fetch.Options{}),
		Opener:  pdfdoc.OpenerFunc(func([]byte) (pdfdoc.Document, error) { t.Fatal("open must not be reached"); return nil, nil }),
	})
	rec, body := doGet(t, newTestMux(o), "/api/pdf-text?pdfUrl="+url.QueryEscape("s3://internal-bucket/secret.pdf"))
	if rec.Code != http.StatusBadGateway || body["error"] != "Failed to download PDF" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
	if !strings.Contains(body["message"].(string), "not allowed") {
		t.Fatalf("message %v", body["message"])
	}
}
