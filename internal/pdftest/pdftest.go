// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Options shapes the generated file.
type Options struct {
	// Version goes into the %PDF- header; default "1.4".
	Version string
	// Font is a standard-14 base font name; default Helvetica.
	Font string
	// Widths emits /FirstChar, /LastChar and a monospaced /Widths array. The
	// standard-14 fonts may omit it, in which case readers see zero-width glyphs.
	Widths bool
}

const (
	lineHeight = 14
	glyphWidth = 600
)

// Build returns a PDF with one page per entry. Lines within an entry are split
// on "\n" and set lineHeight points apart; an empty entry gives a page without
// any text.
func Build(pages []string, opts Options) []byte {
	if opts.Version == "" {
		opts.Version = "1.4"
	}
	if opts.Font == "" {
		opts.Font = "Helvetica"
	}

	var objs []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		fontDict(opts),
	)
	for i, text := range pages {
		content := contentStream(text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", opts.Version)
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func fontDict(opts Options) string {
	d := fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding", opts.Font)
	if opts.Widths {
		w := make([]string, 126-32+1)
		for i := range w {
			w[i] = fmt.Sprint(glyphWidth)
		}
		d += fmt.Sprintf(" /FirstChar 32 /LastChar 126 /Widths [%s]", strings.Join(w, " "))
	}
	return d + " >>"
}

func contentStream(text string) string {
	if text == "" {
		return "BT\nET"
	}
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			fmt.Fprintf(&b, "0 -%d Td\n", lineHeight)
		}
		fmt.Fprintf(&b, "(%s) Tj\n", escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}
