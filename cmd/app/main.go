package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "github.com/rs/zerolog/log"

    cfgpkg "github.com/local/pdf2text/internal/config"
    "github.com/local/pdf2text/internal/fetch"
    "github.com/local/pdf2text/internal/limiter"
    logpkg "github.com/local/pdf2text/internal/logger"
    "github.com/local/pdf2text/internal/metrics"
    "github.com/local/pdf2text/internal/orchestrator"
    "github.com/local/pdf2text/internal/pdfdoc"
    web "github.com/local/pdf2text/internal/web"
)

func main() {
    cfg := cfgpkg.Load()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level: cfg.Logging.Level,
        Pretty: cfg.Logging.Pretty,
        File: cfg.Logging.File,
        MaxSizeMB: cfg.Logging.MaxSizeMB,
        MaxBackups: cfg.Logging.MaxBackups,
        MaxAgeDays: cfg.Logging.MaxAgeDays,
        Compress: cfg.Logging.Compress,
        SendToAxiom: cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey: cfg.Axiom.APIKey,
        AxiomOrgID: cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush: cfg.Axiom.FlushInterval,
        AxiomLevel: cfg.Axiom.Level,
    })
    defer logpkg.Close()

    opener, err := pdfdoc.OpenerFor(cfg.Extract.Backend)
    if err != nil {
        log.Fatal().Err(err).Str("backend", cfg.Extract.Backend).Msg("invalid PDF_BACKEND")
    }

    orch := orchestrator.New(orchestrator.Dependencies{
        Fetcher: fetch.New(fetch.Options{Timeout: cfg.Fetch.Timeout, MaxBytes: cfg.Fetch.MaxBytes, S3Buckets: cfg.Fetch.S3Buckets}),
        Opener:  opener,
        Workers: cfg.Extract.Workers,
        Limiter: limiter.New(cfg.Extract.MaxInflight),
    })
    mux := http.NewServeMux()
    orch.RegisterRoutes(mux)

    // Landing page
    web.New(web.Limits{
        DefaultMin: orchestrator.DefaultMinPage,
        DefaultMax: orchestrator.DefaultMaxPage,
        MaxSpan:    orchestrator.MaxPageSpan,
        AllMax:     orchestrator.AllPagesMax,
    }).RegisterRoutes(mux)

    if cfg.Server.MetricsEnabled {
        metrics.Init()
        mux.Handle("/metrics", metrics.Handler())
    }

    handler := web.Chain(mux, web.Middleware(*logpkg.Get(), cfg.Server.CORSAllowOrigin)...)
    srv := &http.Server{
        Addr:         ":" + cfg.Server.Port,
        Handler:      handler,
        ReadTimeout:  cfg.Server.ReadTimeout,
        WriteTimeout: cfg.Server.WriteTimeout,
    }

    go func(){
        log.Info().Str("backend", cfg.Extract.Backend).Int("workers", cfg.Extract.Workers).Msgf("HTTP server listening on :%s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
    defer cancel()
    if err := srv.Shutdown(ctx); err != nil {
        log.Warn().Err(err).Msg("shutdown incomplete")
    }
    fmt.Println("shutdown complete")
}
