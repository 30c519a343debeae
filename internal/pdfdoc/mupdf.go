package pdfdoc

import (
	"fmt"
	"sync"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// MuPDFOpener uses go-fitz (MuPDF). MuPDF runs its own text layout, so the
// tolerances passed to PageText are not applied.
type MuPDFOpener struct{}

func (MuPDFOpener) Open(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, recovered("open pdf", r)
		}
	}()
	d, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &mupdfDoc{doc: d, pages: d.NumPage()}, nil
}

type mupdfDoc struct {
	mu     sync.Mutex
	doc    *fitz.Document
	pages  int
	closed bool
}

func (d *mupdfDoc) NumPage() int { return d.pages }

func (d *mupdfDoc) PageText(page int, _ Tolerances) (text string, ok bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", false, fmt.Errorf("page %d: document closed", page)
	}
	// go-fitz uses 0-based indexing
	idx := page - 1
	if idx < 0 || idx >= d.pages {
		return "", false, fmt.Errorf("page %d out of range (document has %d pages)", page, d.pages)
	}
	defer func() {
		if r := recover(); r != nil {
			text, ok, err = "", false, recovered(fmt.Sprintf("text page %d", page), r)
		}
	}()
	text, err = d.doc.Text(idx)
	if err != nil {
		return "", false, fmt.Errorf("text page %d: %w", page, err)
	}
	log.Debug().Int("page", page).Int("chars", len(text)).Msg("extracted page text with go-fitz")
	return text, true, nil
}

func (d *mupdfDoc) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.doc.Close()
}
