package pdfdoc

import (
	"math/rand"
	"regexp"
	"sort"
	"time"
)

// PageProbe captures the result of probing a single page.
type PageProbe struct {
	Page      int    `json:"page"`
	CharCount int    `json:"char_count"`
	Err       string `json:"err,omitempty"`
}

// Diagnostics describes a text-layer probe.
type Diagnostics struct {
	TotalPages         int         `json:"total_pages"`
	SampledPages       []int       `json:"sampled_pages"`
	TotalCharsInSample int         `json:"total_chars_in_sample"`
	Threshold          int         `json:"threshold"`
	Probes             []PageProbe `json:"probes"`
	HasExtractableText bool        `json:"has_extractable_text"`
	DurationMs         int64       `json:"duration_ms"`
}

// DefaultThreshold is used when a non-positive threshold is passed in.
const DefaultThreshold = 300

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Probe samples up to five pages of doc and reports whether they carry at
// least threshold non-whitespace runes between them. Scanned documents
// without a text layer come out false. Sampling stops as soon as the
// threshold is reached.
func Probe(doc Document, threshold int, tol Tolerances, rnd *rand.Rand) *Diagnostics {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	start := time.Now()
	total := doc.NumPage()
	diag := &Diagnostics{TotalPages: total, SampledPages: []int{}, Threshold: threshold}
	if total <= 0 {
		diag.DurationMs = time.Since(start).Milliseconds()
		return diag
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	diag.SamplePages(total, rnd)
	for _, p := range diag.SampledPages {
		probe := PageProbe{Page: p}
		text, _, err := doc.PageText(p, tol)
		if err != nil {
			probe.Err = err.Error()
			diag.Probes = append(diag.Probes, probe)
			continue
		}
		// Unicode-aware: count runes after removing whitespace
		probe.CharCount = len([]rune(whitespaceRegex.ReplaceAllString(text, "")))
		diag.TotalCharsInSample += probe.CharCount
		diag.Probes = append(diag.Probes, probe)
		if diag.TotalCharsInSample >= threshold {
			break
		}
	}
	diag.HasExtractableText = diag.TotalCharsInSample >= threshold
	diag.DurationMs = time.Since(start).Milliseconds()
	return diag
}

// SamplePages fills SampledPages: every page when there are at most five,
// otherwise first, middle and last plus random distinct pages up to five.
func (d *Diagnostics) SamplePages(total int, rnd *rand.Rand) {
	if total <= 5 {
		d.SampledPages = make([]int, total)
		for i := range d.SampledPages {
			d.SampledPages[i] = i + 1
		}
		return
	}
	picked := map[int]struct{}{1: {}, total/2 + 1: {}, total: {}}
	for len(picked) < 5 {
		picked[rnd.Intn(total)+1] = struct{}{}
	}
	d.SampledPages = make([]int, 0, len(picked))
	for p := range picked {
		d.SampledPages = append(d.SampledPages, p)
	}
	sort.Ints(d.SampledPages)
}
