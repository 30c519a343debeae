package pdfdoc

import (
	"bytes"
	"fmt"
	"sync/atomic"

	lpdf "github.com/ledongthuc/pdf"
)

// LayoutOpener reads documents with ledongthuc/pdf and rebuilds page text from
// positioned glyph runs using the requested tolerances.
type LayoutOpener struct{}

func (LayoutOpener) Open(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, recovered("open pdf", r)
		}
	}()
	data = layoutHeader(data)
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &layoutDoc{r: r, pages: r.NumPage()}, nil
}

// layoutHeader returns data with a %PDF-2.x header rewritten to %PDF-1.7.
// ledongthuc rejects any header outside 1.0-1.7, while 2.0 files keep the same
// file structure. The rewrite is on a copy and keeps every byte offset.
func layoutHeader(data []byte) []byte {
	if len(data) < 8 || !bytes.HasPrefix(data, []byte("%PDF-2.")) {
		return data
	}
	out := make([]byte, len(data))
	copy(out, data)
	copy(out[5:8], "1.7")
	return out
}

// layoutDoc is read-only after open, so pages may be extracted concurrently.
type layoutDoc struct {
	r      *lpdf.Reader
	pages  int
	closed atomic.Bool
}

func (d *layoutDoc) NumPage() int { return d.pages }

func (d *layoutDoc) PageText(page int, tol Tolerances) (text string, ok bool, err error) {
	if d.closed.Load() {
		return "", false, fmt.Errorf("page %d: document closed", page)
	}
	if page < 1 || page > d.pages {
		return "", false, fmt.Errorf("page %d out of range (document has %d pages)", page, d.pages)
	}
	defer func() {
		if r := recover(); r != nil {
			text, ok, err = "", false, recovered(fmt.Sprintf("text page %d", page), r)
		}
	}()

	p := d.r.Page(page)
	if p.V.IsNull() {
		return "", false, nil
	}
	content := p.Content()
	runs := make([]Run, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, Run{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	return GroupRuns(runs, tol), true, nil
}

func (d *layoutDoc) Close() error {
	d.closed.Store(true)
	return nil
}
