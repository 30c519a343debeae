package orchestrator

import (
	"errors"
	"testing"
)

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name       string
		min, max   int
		total      int
		want       PageRange
		wantErrMsg string
	}{
		{name: "inside document", min: 2, max: 4, total: 5, want: PageRange{2, 4}},
		{name: "single page", min: 3, max: 3, total: 5, want: PageRange{3, 3}},
		{name: "clamped to total", min: 1, max: 150, total: 12, want: PageRange{1, 12}},
		{name: "start past end of document", min: 10, max: 20, total: 5, want: PageRange{10, 5}},
		{name: "max span allowed", min: 1, max: 201, total: 500, want: PageRange{1, 201}},
		{name: "zero min", min: 0, max: 5, total: 5, wantErrMsg: "Invalid min page value"},
		{name: "negative max", min: 1, max: -1, total: 5, wantErrMsg: "Invalid max page value"},
		{name: "bad min checked before bad max", min: 0, max: 0, total: 5, wantErrMsg: "Invalid min page value"},
		{name: "inverted", min: 10, max: 5, total: 50, wantErrMsg: "Invalid page range: min > max"},
		{name: "span too large", min: 1, max: 300, total: 3, wantErrMsg: "The range of files is too large (it surpass 200 page)"},
		{name: "span one over cap", min: 1, max: 202, total: 500, wantErrMsg: "The range of files is too large (it surpass 200 page)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeRange(tt.min, tt.max, tt.total)
			if tt.wantErrMsg != "" {
				var re *RangeError
				if !errors.As(err, &re) {
					t.Fatalf("expected *RangeError, got %v", err)
				}
				if re.Message != tt.wantErrMsg {
					t.Fatalf("message = %q, want %q", re.Message, tt.wantErrMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ComputeRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeRangeProperty(t *testing.T) {
	for total := 0; total <= 12; total += 3 {
		for lo := 1; lo <= 8; lo++ {
			for hi := lo; hi <= lo+MaxPageSpan; hi += 37 {
				got, err := ComputeRange(lo, hi, total)
				if err != nil {
					t.Fatalf("(%d,%d,%d): %v", lo, hi, total, err)
				}
				wantEnd := hi
				if total < wantEnd {
					wantEnd = total
				}
				if got.Start != lo || got.End != wantEnd {
					t.Fatalf("(%d,%d,%d) = %+v", lo, hi, total, got)
				}
			}
		}
	}
}

func TestPageRangeLen(t *testing.T) {
	if n := (PageRange{2, 4}).Len(); n != 3 {
		t.Fatalf("Len = %d", n)
	}
	if n := (PageRange{10, 5}).Len(); n != 0 {
		t.Fatalf("Len = %d", n)
	}
}
