// Command pdf2text prints the text of a remote PDF to stdout.
//
//	pdf2text [-min N] [-max N] [-all] <url>
package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"

    "github.com/rs/zerolog/log"

    cfgpkg "github.com/local/pdf2text/internal/config"
    "github.com/local/pdf2text/internal/fetch"
    "github.com/local/pdf2text/internal/limiter"
    logpkg "github.com/local/pdf2text/internal/logger"
    "github.com/local/pdf2text/internal/orchestrator"
    "github.com/local/pdf2text/internal/pdfdoc"
)

func main() {
    minPage := flag.Int("min", orchestrator.DefaultMinPage, "first page (1-based)")
    maxPage := flag.Int("max", orchestrator.DefaultMaxPage, "last page (inclusive)")
    all := flag.Bool("all", false, "extract the first 200 pages, ignoring -min/-max")
    flag.Usage = func() {
        fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-min N] [-max N] [-all] <url>\n", os.Args[0])
        flag.PrintDefaults()
    }
    flag.Parse()
    if flag.NArg() != 1 {
        flag.Usage()
        os.Exit(2)
    }
    url := flag.Arg(0)

    cfg := cfgpkg.Load()
    // Logs go to stderr so stdout carries only the text.
    _ = logpkg.Init(logpkg.Options{
        Level:  cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File:   cfg.Logging.File,
        Output: os.Stderr,
    })
    defer logpkg.Close()

    opener, err := pdfdoc.OpenerFor(cfg.Extract.Backend)
    if err != nil {
        log.Error().Err(err).Str("backend", cfg.Extract.Backend).Msg("invalid PDF_BACKEND")
        os.Exit(1)
    }
    orch := orchestrator.New(orchestrator.Dependencies{
        Fetcher: fetch.New(fetch.Options{Timeout: cfg.Fetch.Timeout, MaxBytes: cfg.Fetch.MaxBytes, S3Buckets: cfg.Fetch.S3Buckets}),
        Opener:  opener,
        Workers: cfg.Extract.Workers,
        Limiter: limiter.New(cfg.Extract.MaxInflight),
    })

    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
    defer cancel()
    ctx = logpkg.Get().WithContext(ctx)

    var text string
    if *all {
        text, err = orch.ExtractAll(ctx, url)
    } else {
        text, err = orch.ExtractRange(ctx, url, minPage, maxPage)
    }
    if err != nil {
        kind := orchestrator.KindOf(err)
        fmt.Fprintf(os.Stderr, "%s: %v\n", kind.Label(), err)
        logpkg.Close()
        os.Exit(exitCode(kind))
    }
    fmt.Println(text)
}

func exitCode(k orchestrator.Kind) int {
    switch k {
    case orchestrator.KindMissingParameter, orchestrator.KindInvalidParameters:
        return 2
    case orchestrator.KindRemoteUnavailable:
        return 3
    default:
        return 1
    }
}
