package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(requests.WithLabelValues("pdf-text", "invalid_parameters"))
	ObserveRequest("pdf-text", "invalid_parameters", 10*time.Millisecond)
	after := testutil.ToFloat64(requests.WithLabelValues("pdf-text", "invalid_parameters"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestAddPagesIgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(pagesExtracted)
	AddPages(0)
	AddPages(-4)
	AddPages(3)
	if got := testutil.ToFloat64(pagesExtracted) - before; got != 3 {
		t.Fatalf("pages delta = %v, want 3", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	Init()
	Init()
	ObserveFetch(true, 2048, time.Second)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "pdf2text_fetch_bytes_total") {
		t.Fatalf("metrics output missing fetch counter")
	}
}
