// Package pdfdoc opens PDF documents held in memory and extracts per-page
// text through a pluggable backend.
package pdfdoc

import (
	"errors"
	"fmt"
	"strings"
)

// Tolerances controls how close glyphs must be to merge. X applies within a
// line (word gaps), Y across lines.
type Tolerances struct {
	X float64
	Y float64
}

// Document is an opened PDF. Pages are 1-based. Callers must Close it.
type Document interface {
	NumPage() int
	// PageText returns the text of a page. ok is false when the page has no
	// text to offer at all, as opposed to an empty text layer.
	PageText(page int, tol Tolerances) (text string, ok bool, err error)
	Close() error
}

// Opener turns raw bytes into a Document.
type Opener interface {
	Open(data []byte) (Document, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(data []byte) (Document, error)

func (f OpenerFunc) Open(data []byte) (Document, error) { return f(data) }

const (
	BackendLayout = "layout"
	BackendMuPDF  = "mupdf"
)

var ErrUnknownBackend = errors.New("unknown pdf backend")

// OpenerFor returns the opener registered for backend. An empty name selects
// the layout backend.
func OpenerFor(backend string) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendLayout:
		return LayoutOpener{}, nil
	case BackendMuPDF, "fitz":
		return MuPDFOpener{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// recovered converts a panic value raised inside a PDF library into an error.
func recovered(op string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %v", op, r)
}
