package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

const mimePDF = "application/pdf"

var ErrNotPDF = errors.New("unsupported content type")

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

// Sniff detects the payload type from magic bytes, not from any URL or header
// hint, and returns ErrNotPDF for anything that is not a PDF.
func Sniff(data []byte) (string, error) {
	m := mimetype.Detect(data)
	if !m.Is(mimePDF) {
		log.Debug().Str("mime", m.String()).Int("bytes", len(data)).Msg("payload is not a pdf")
		return m.String(), fmt.Errorf("%w: %s", ErrNotPDF, m.String())
	}
	return mimePDF, nil
}

// PageCount reads the page tree with pdfcpu in relaxed validation mode. It is
// independent of the text backend, which makes it useful as a cross-check.
func PageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, recovered("pdf page count", r)
		}
	}()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err = api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}
