package orchestrator

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/local/pdf2text/internal/limiter"
    "github.com/local/pdf2text/internal/metrics"
    "github.com/local/pdf2text/internal/pdfdoc"
)

// Fetcher downloads a source document.
type Fetcher interface {
    Fetch(ctx context.Context, url string) ([]byte, error)
}

type Dependencies struct {
    Fetcher Fetcher
    Opener  pdfdoc.Opener
    // Workers bounds concurrent page extraction; <= 1 is sequential.
    Workers int
    // Limiter bounds documents in flight across requests; nil is unlimited.
    Limiter *limiter.Limiter
}

// Orchestrator runs fetch, open, validate and assemble for each request. It
// holds no per-request state.
type Orchestrator struct {
    deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
    if deps.Opener == nil { deps.Opener = pdfdoc.LayoutOpener{} }
    return &Orchestrator{deps: deps}
}

// ExtractRange returns the text of pages [minPage, maxPage]. Nil bounds fall
// back to DefaultMinPage and DefaultMaxPage.
func (o *Orchestrator) ExtractRange(ctx context.Context, url string, minPage, maxPage *int) (string, error) {
    lo, hi := DefaultMinPage, DefaultMaxPage
    if minPage != nil { lo = *minPage }
    if maxPage != nil { hi = *maxPage }
    return o.extract(ctx, url, lo, hi)
}

// ExtractAll returns the text of the first AllPagesMax pages. Longer
// documents are truncated without notice.
func (o *Orchestrator) ExtractAll(ctx context.Context, url string) (string, error) {
    return o.extract(ctx, url, 1, AllPagesMax)
}

func (o *Orchestrator) extract(ctx context.Context, url string, lo, hi int) (string, error) {
    if strings.TrimSpace(url) == "" { return "", missingURL() }
    logger := zerolog.Ctx(ctx).With().Str("url", url).Int("min", lo).Int("max", hi).Logger()

    release, err := o.deps.Limiter.Acquire(ctx)
    if err != nil { return "", classify(err) }
    defer release()

    data, err := o.fetch(ctx, url)
    if err != nil {
        logger.Warn().Err(err).Msg("download failed")
        return "", classify(err)
    }

    var text string
    err = o.withDocument(data, func(doc pdfdoc.Document, _ string) error {
        rng, err := ComputeRange(lo, hi, doc.NumPage())
        if err != nil { return err }
        logger.Debug().Int("total_pages", doc.NumPage()).Int("start", rng.Start).Int("end", rng.End).Msg("extracting pages")
        text, err = Assemble(ctx, doc, rng, Tolerances, o.deps.Workers)
        if err == nil { metrics.AddPages(rng.Len()) }
        return err
    })
    if err != nil {
        e := classify(err)
        logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("extraction failed")
        return "", e
    }
    logger.Debug().Int("chars", len(text)).Msg("extraction complete")
    return text, nil
}

// Info summarises a document without extracting all of its text.
type Info struct {
    Pages        int    `json:"pages"`
    MIME         string `json:"mime"`
    Size         int    `json:"size"`
    HasText      bool   `json:"has_text"`
    SampledPages []int  `json:"sampled_pages"`
    SampledChars int    `json:"sampled_chars"`
}

// Inspect downloads url, counts its pages and probes a sample of pages for a
// text layer.
func (o *Orchestrator) Inspect(ctx context.Context, url string) (*Info, error) {
    if strings.TrimSpace(url) == "" { return nil, missingURL() }
    logger := zerolog.Ctx(ctx).With().Str("url", url).Logger()

    release, err := o.deps.Limiter.Acquire(ctx)
    if err != nil { return nil, classify(err) }
    defer release()

    data, err := o.fetch(ctx, url)
    if err != nil {
        logger.Warn().Err(err).Msg("download failed")
        return nil, classify(err)
    }

    info := &Info{Size: len(data)}
    err = o.withDocument(data, func(doc pdfdoc.Document, mime string) error {
        info.MIME = mime
        n, err := pdfdoc.PageCount(data)
        if err != nil {
            logger.Warn().Err(err).Msg("pdfcpu page count failed; using backend count")
            n = doc.NumPage()
        }
        info.Pages = n
        diag := pdfdoc.Probe(doc, 0, Tolerances, nil)
        info.HasText = diag.HasExtractableText
        info.SampledPages = diag.SampledPages
        info.SampledChars = diag.TotalCharsInSample
        return nil
    })
    if err != nil {
        logger.Warn().Err(err).Msg("inspect failed")
        return nil, classify(err)
    }
    return info, nil
}

func (o *Orchestrator) fetch(ctx context.Context, url string) ([]byte, error) {
    start := time.Now()
    data, err := o.deps.Fetcher.Fetch(ctx, url)
    metrics.ObserveFetch(err == nil, len(data), time.Since(start))
    return data, err
}

// withDocument sniffs and opens data, runs fn with the sniffed MIME type, and
// closes the document on every path out, including a panic inside fn.
func (o *Orchestrator) withDocument(data []byte, fn func(doc pdfdoc.Document, mime string) error) (err error) {
    mime, err := pdfdoc.Sniff(data)
    if err != nil { return err }

    doc, err := o.open(data)
    if err != nil { return err }
    defer func() {
        if r := recover(); r != nil {
            err = fmt.Errorf("unexpected failure: %v", r)
        }
        if cerr := doc.Close(); cerr != nil {
            log.Warn().Err(cerr).Msg("close pdf failed")
        }
    }()
    return fn(doc, mime)
}

func (o *Orchestrator) open(data []byte) (doc pdfdoc.Document, err error) {
    defer func() {
        if r := recover(); r != nil {
            doc, err = nil, fmt.Errorf("open pdf: %v", r)
        }
    }()
    return o.deps.Opener.Open(data)
}
