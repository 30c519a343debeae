package pdfdoc

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

type memDoc struct {
	pages  []string
	fail   map[int]bool
	calls  []int
	closed bool
}

func (d *memDoc) NumPage() int { return len(d.pages) }

func (d *memDoc) PageText(page int, _ Tolerances) (string, bool, error) {
	d.calls = append(d.calls, page)
	if d.fail[page] {
		return "", false, errors.New("broken page")
	}
	return d.pages[page-1], true, nil
}

func (d *memDoc) Close() error { d.closed = true; return nil }

func TestProbeSmallDocumentSamplesAllPages(t *testing.T) {
	doc := &memDoc{pages: []string{"a b", "c", "  "}}
	diag := Probe(doc, 10, defaultTol, rand.New(rand.NewSource(1)))
	if got := diag.SampledPages; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("sampled = %v", got)
	}
	if diag.TotalCharsInSample != 3 || diag.HasExtractableText {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
}

func TestProbeStopsAtThreshold(t *testing.T) {
	doc := &memDoc{pages: []string{strings.Repeat("x", 400), "y", "z"}}
	diag := Probe(doc, 0, defaultTol, nil)
	if !diag.HasExtractableText || diag.Threshold != DefaultThreshold {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
	if len(doc.calls) != 1 {
		t.Fatalf("expected early exit after first page, calls = %v", doc.calls)
	}
}

func TestProbeRecordsPageErrors(t *testing.T) {
	doc := &memDoc{pages: []string{"one", "two"}, fail: map[int]bool{1: true}}
	diag := Probe(doc, 1, defaultTol, nil)
	if diag.Probes[0].Err == "" || !diag.HasExtractableText {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
}

func TestProbeEmptyDocument(t *testing.T) {
	diag := Probe(&memDoc{}, 5, defaultTol, nil)
	if diag.HasExtractableText || len(diag.SampledPages) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
}

func TestSamplePagesLargeDocument(t *testing.T) {
	var d Diagnostics
	d.SamplePages(100, rand.New(rand.NewSource(42)))
	if len(d.SampledPages) != 5 {
		t.Fatalf("expected 5 samples, got %v", d.SampledPages)
	}
	want := map[int]bool{1: false, 51: false, 100: false}
	for i, p := range d.SampledPages {
		if p < 1 || p > 100 {
			t.Fatalf("sample out of range: %d", p)
		}
		if i > 0 && p <= d.SampledPages[i-1] {
			t.Fatalf("samples not strictly ascending: %v", d.SampledPages)
		}
		if _, ok := want[p]; ok {
			want[p] = true
		}
	}
	for p, seen := range want {
		if !seen {
			t.Fatalf("page %d missing from %v", p, d.SampledPages)
		}
	}
}
