package logger

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "sync"
    "sync/atomic"
    "time"

    "github.com/axiomhq/axiom-go/axiom"
    "github.com/axiomhq/axiom-go/axiom/ingest"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "pdf2text"

// Options defines logger initialization parameters.
type Options struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool

    // Output replaces stdout; nil means os.Stdout.
    Output io.Writer

    // Axiom
    SendToAxiom  bool
    AxiomAPIKey  string
    AxiomOrgID   string
    AxiomDataset string
    AxiomFlush   time.Duration
    // AxiomLevel is the lowest level shipped; default info.
    AxiomLevel string
}

var (
    global zerolog.Logger
    ship   *shipper
)

// Init sets up the global logger: stdout or console, optional file rotation,
// optional Axiom forwarding.
func Init(opts Options) error {
    if ship != nil {
        ship.Close()
        ship = nil
    }
    var writers []io.Writer

    if opts.File != "" {
        if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
            return fmt.Errorf("create logs dir: %w", err)
        }
        writers = append(writers, &lumberjack.Logger{
            Filename:   opts.File,
            MaxSize:    opts.MaxSizeMB,
            MaxBackups: opts.MaxBackups,
            MaxAge:     opts.MaxAgeDays,
            Compress:   opts.Compress,
        })
    }

    out := opts.Output
    if out == nil {
        out = os.Stdout
    }
    if opts.Pretty {
        writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
    } else {
        writers = append(writers, out)
    }

    if opts.SendToAxiom && opts.AxiomAPIKey != "" {
        s, err := newAxiomShipper(opts)
        if err != nil {
            fmt.Fprintf(os.Stderr, "Axiom disabled: %v\n", err)
        } else {
            ship = s
            writers = append(writers, s)
        }
    }

    zerolog.TimeFieldFormat = time.RFC3339
    lvl := parseLevel(opts.Level)

    global = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Str("service", serviceName).Logger()
    log.Logger = global
    zerolog.DefaultContextLogger = &global
    return nil
}

// Close ships whatever Axiom still has queued.
func Close() {
    if ship != nil {
        ship.Close()
        ship = nil
    }
}

func parseLevel(s string) zerolog.Level {
    lvl, err := zerolog.ParseLevel(s)
    if err != nil || s == "" { return zerolog.InfoLevel }
    return lvl
}

// Get returns the global logger.
func Get() *zerolog.Logger { return &global }

const (
    shipBatch   = 200
    shipBuffer  = 1000
    shipTimeout = 15 * time.Second
)

type ingester interface {
    IngestEvents(ctx context.Context, dataset string, events []axiom.Event, options ...ingest.Option) (*ingest.Status, error)
}

// shipper batches log events into an Axiom dataset. Events below min never
// enter the queue; events arriving while the queue is full are dropped and
// counted.
type shipper struct {
    sink    ingester
    dataset string
    min     zerolog.Level
    ch      chan axiom.Event
    done    chan struct{}
    wg      sync.WaitGroup
    dropped atomic.Int64
    failed  atomic.Int64
}

func newAxiomShipper(opts Options) (*shipper, error) {
    copts := []axiom.Option{axiom.SetToken(opts.AxiomAPIKey)}
    if opts.AxiomOrgID != "" { copts = append(copts, axiom.SetOrganizationID(opts.AxiomOrgID)) }
    c, err := axiom.NewClient(copts...)
    if err != nil { return nil, err }
    dataset := opts.AxiomDataset
    if dataset == "" { dataset = "dev_" + serviceName }
    return newShipper(c, dataset, parseLevel(opts.AxiomLevel), opts.AxiomFlush), nil
}

func newShipper(sink ingester, dataset string, min zerolog.Level, every time.Duration) *shipper {
    if every <= 0 { every = 10 * time.Second }
    s := &shipper{
        sink:    sink,
        dataset: dataset,
        min:     min,
        ch:      make(chan axiom.Event, shipBuffer),
        done:    make(chan struct{}),
    }
    s.wg.Add(1)
    go s.run(every)
    return s
}

func (s *shipper) Write(p []byte) (int, error) { return s.WriteLevel(zerolog.NoLevel, p) }

func (s *shipper) WriteLevel(l zerolog.Level, p []byte) (int, error) {
    if l < s.min { return len(p), nil }
    ev := axiom.Event{}
    if err := json.Unmarshal(p, &ev); err != nil {
        ev = axiom.Event{"message": string(p)}
    }
    if _, ok := ev[ingest.TimestampField]; !ok {
        ev[ingest.TimestampField] = time.Now()
    }
    select {
    case s.ch <- ev:
    default:
        s.dropped.Add(1)
    }
    return len(p), nil
}

func (s *shipper) run(every time.Duration) {
    defer s.wg.Done()
    ticker := time.NewTicker(every)
    defer ticker.Stop()
    batch := make([]axiom.Event, 0, shipBatch)
    flush := func() {
        if len(batch) == 0 { return }
        ctx, cancel := context.WithTimeout(context.Background(), shipTimeout)
        if _, err := s.sink.IngestEvents(ctx, s.dataset, batch); err != nil {
            s.failed.Add(int64(len(batch)))
        }
        cancel()
        batch = batch[:0]
    }
    add := func(ev axiom.Event) {
        batch = append(batch, ev)
        if len(batch) >= shipBatch { flush() }
    }
    for {
        select {
        case <-s.done:
            for {
                select {
                case ev := <-s.ch:
                    add(ev)
                default:
                    flush()
                    return
                }
            }
        case <-ticker.C:
            flush()
        case ev := <-s.ch:
            add(ev)
        }
    }
}

// Close drains the queue, ships the last batch and reports losses on stderr.
func (s *shipper) Close() {
    close(s.done)
    s.wg.Wait()
    if d, f := s.dropped.Load(), s.failed.Load(); d > 0 || f > 0 {
        fmt.Fprintf(os.Stderr, "axiom: %d log events dropped, %d failed to ship\n", d, f)
    }
}
