package orchestrator

import (
    "context"
    "fmt"
    "strings"

    "golang.org/x/sync/errgroup"

    "github.com/local/pdf2text/internal/pdfdoc"
)

// Assemble extracts every page in rng and joins the trimmed page texts with
// "\n", trimming the result. A page without text contributes an empty
// segment. With workers > 1 pages are extracted concurrently; the output
// order is always page order.
func Assemble(ctx context.Context, doc pdfdoc.Document, rng PageRange, tol pdfdoc.Tolerances, workers int) (string, error) {
    n := rng.Len()
    if n == 0 { return "", nil }

    parts := make([]string, n)
    extract := func(ctx context.Context, i int) error {
        if err := ctx.Err(); err != nil { return err }
        text, ok, err := doc.PageText(rng.Start+i, tol)
        if err != nil { return err }
        if ok { parts[i] = strings.TrimSpace(text) }
        return nil
    }

    if workers <= 1 || n == 1 {
        for i := 0; i < n; i++ {
            if err := extract(ctx, i); err != nil { return "", err }
        }
    } else {
        g, gctx := errgroup.WithContext(ctx)
        g.SetLimit(workers)
        for i := 0; i < n; i++ {
            g.Go(func() (err error) {
                defer func() {
                    if r := recover(); r != nil {
                        err = fmt.Errorf("page %d: unexpected failure: %v", rng.Start+i, r)
                    }
                }()
                return extract(gctx, i)
            })
        }
        if err := g.Wait(); err != nil { return "", err }
    }

    return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
