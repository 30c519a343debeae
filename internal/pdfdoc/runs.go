package pdfdoc

import (
	"math"
	"sort"
	"strings"
)

// Run is a positioned piece of text as reported by the content stream, in PDF
// user space (Y grows upward). W is the advance width of the whole run.
type Run struct {
	X, Y float64
	W    float64
	Size float64
	S    string
}

// GroupRuns rebuilds reading-order text from runs. Runs whose baselines differ
// by at most tol.Y from the previous run share a line. Within a line a single
// space separates two runs when blank runs sit between them or when the
// horizontal gap exceeds tol.X. Lines holding only blank runs are dropped and
// lines are joined with "\n".
func GroupRuns(runs []Run, tol Tolerances) string {
	kept := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.S == "" {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return ""
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Y != kept[j].Y {
			return kept[i].Y > kept[j].Y
		}
		return kept[i].X < kept[j].X
	})

	var lines [][]Run
	cur := []Run{kept[0]}
	for _, r := range kept[1:] {
		if math.Abs(cur[len(cur)-1].Y-r.Y) > tol.Y {
			lines = append(lines, cur)
			cur = nil
		}
		cur = append(cur, r)
	}
	lines = append(lines, cur)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if text := joinLine(line, tol.X); text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n")
}

// joinLine orders a line by X. Runs with equal X keep stream order, which is
// what fonts without /Widths produce: every glyph reports zero advance.
func joinLine(line []Run, xTol float64) string {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	var b strings.Builder
	var prevEnd float64
	started, pending := false, false
	for _, r := range line {
		if strings.TrimSpace(r.S) == "" {
			pending = started
			if end := r.X + r.W; started && end > prevEnd {
				prevEnd = end
			}
			continue
		}
		if started && (pending || r.X-prevEnd > xTol) {
			b.WriteByte(' ')
		}
		b.WriteString(r.S)
		if end := r.X + r.W; !started || end > prevEnd {
			prevEnd = end
		}
		started, pending = true, false
	}
	return b.String()
}
