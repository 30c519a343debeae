package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/local/pdf2text/internal/pdfdoc"
)

func TestAssemble(t *testing.T) {
	tol := pdfdoc.Tolerances{X: 1.5, Y: 1.5}
	tests := []struct {
		name  string
		pages []*string
		rng   PageRange
		want  string
	}{
		{name: "trims each page", pages: pagesOf("  a  ", "\tb\n"), rng: PageRange{1, 2}, want: "a\nb"},
		{name: "empty leading pages trimmed away", pages: pagesOf("", " ", "c"), rng: PageRange{1, 3}, want: "c"},
		{name: "interior empty page kept", pages: pagesOf("a", "", "c"), rng: PageRange{1, 3}, want: "a\n\nc"},
		{name: "page without text", pages: []*string{str("a"), nil}, rng: PageRange{1, 2}, want: "a"},
		{name: "empty range", pages: pagesOf("a"), rng: PageRange{3, 1}, want: ""},
		{name: "sub range", pages: pagesOf("a", "b", "c", "d"), rng: PageRange{2, 3}, want: "b\nc"},
	}
	for _, tt := range tests {
		for _, workers := range []int{1, 3} {
			got, err := Assemble(context.Background(), &fakeDoc{pages: tt.pages}, tt.rng, tol, workers)
			if err != nil {
				t.Fatalf("%s/workers=%d: unexpected error: %v", tt.name, workers, err)
			}
			if got != tt.want {
				t.Fatalf("%s/workers=%d: got %q, want %q", tt.name, workers, got, tt.want)
			}
		}
	}
}

func TestAssembleStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := &fakeDoc{pages: numberedPages(5)}
	_, err := Assemble(ctx, doc, PageRange{1, 5}, Tolerances, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(doc.visited) != 0 {
		t.Fatalf("visited %v after cancel", doc.visited)
	}
}

func TestAssemblePropagatesPageError(t *testing.T) {
	boom := errors.New("boom")
	doc := &fakeDoc{pages: numberedPages(6), fail: map[int]error{4: boom}}
	for _, workers := range []int{1, 4} {
		if _, err := Assemble(context.Background(), doc, PageRange{1, 6}, Tolerances, workers); !errors.Is(err, boom) {
			t.Fatalf("workers=%d: expected boom, got %v", workers, err)
		}
	}
}
