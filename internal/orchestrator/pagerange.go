package orchestrator

import "github.com/local/pdf2text/internal/pdfdoc"

const (
    // DefaultMinPage and DefaultMaxPage apply to /api/pdf-text when the client
    // leaves a bound out. The default window is deliberately smaller than the
    // hard span cap.
    DefaultMinPage = 1
    DefaultMaxPage = 150

    // AllPagesMax is the fixed upper bound for /api/pdf-text-all.
    AllPagesMax = 200

    // MaxPageSpan caps requestedMax - requestedMin.
    MaxPageSpan = 200
)

// Tolerances used for every extraction.
var Tolerances = pdfdoc.Tolerances{X: 1.5, Y: 1.5}

// PageRange is an inclusive, 1-based page window.
type PageRange struct {
    Start int
    End   int
}

// Len is the number of pages in the window; zero when the document ends
// before Start.
func (r PageRange) Len() int {
    if r.End < r.Start { return 0 }
    return r.End - r.Start + 1
}

// RangeError reports the first violated range rule.
type RangeError struct {
    Message string
}

func (e *RangeError) Error() string { return e.Message }

// ComputeRange validates the requested bounds and clamps the end to the
// document length. The span check runs on the requested bounds, before
// clamping, so an oversized request fails even against a short document.
func ComputeRange(requestedMin, requestedMax, totalPages int) (PageRange, error) {
    switch {
    case requestedMin < 1:
        return PageRange{}, &RangeError{Message: "Invalid min page value"}
    case requestedMax < 1:
        return PageRange{}, &RangeError{Message: "Invalid max page value"}
    case requestedMin > requestedMax:
        return PageRange{}, &RangeError{Message: "Invalid page range: min > max"}
    case requestedMax-requestedMin > MaxPageSpan:
        return PageRange{}, &RangeError{Message: "The range of files is too large (it surpass 200 page)"}
    }
    end := requestedMax
    if totalPages < end { end = totalPages }
    return PageRange{Start: requestedMin, End: end}, nil
}
