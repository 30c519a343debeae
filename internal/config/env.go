package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level        string
    Pretty       bool
    File         string
    MaxSizeMB    int
    MaxBackups   int
    MaxAgeDays   int
    Compress     bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
    Level         string
}

// FetchConfig controls how source documents are downloaded.
type FetchConfig struct {
    Timeout   time.Duration
    MaxBytes  int64
    // S3Buckets allowlists s3:// sources; empty means s3:// is refused.
    S3Buckets []string
}

// ExtractConfig selects the PDF backend and page worker count.
type ExtractConfig struct {
    Backend     string // "layout"|"mupdf"
    Workers     int
    MaxInflight int // concurrent documents across requests; 0 = unlimited
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
    Port            string
    ReadTimeout     time.Duration
    WriteTimeout    time.Duration
    ShutdownTimeout time.Duration
    CORSAllowOrigin string
    MetricsEnabled  bool
}

// Config is the top-level configuration.
type Config struct {
    Logging LoggingConfig
    Axiom   AxiomConfig
    Fetch   FetchConfig
    Extract ExtractConfig
    Server  ServerConfig
}

// Load reads an optional .env file and then builds the configuration from the
// environment. Variables already set in the environment win over the file.
func Load(files ...string) Config {
    if len(files) == 0 {
        files = []string{".env"}
    }
    for _, f := range files {
        if _, err := os.Stat(f); err == nil {
            _ = godotenv.Load(f)
        }
    }
    return FromEnv()
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    // Logging defaults
    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", ""),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    // Axiom defaults
    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_pdf2text",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
        Level:         getEnv("AXIOM_LEVEL", "info"),
    }

    cfg.Fetch = FetchConfig{
        Timeout:   parseDuration(getEnv("FETCH_TIMEOUT", "30s"), 30*time.Second),
        MaxBytes:  int64(parseInt(getEnv("FETCH_MAX_BYTES", "104857600"), 100<<20)),
        S3Buckets: parseList(getEnv("FETCH_S3_BUCKETS", "")),
    }
    if cfg.Fetch.Timeout <= 0 { cfg.Fetch.Timeout = 30 * time.Second }

    cfg.Extract = ExtractConfig{
        Backend:     strings.ToLower(getEnv("PDF_BACKEND", "layout")),
        Workers:     parseInt(getEnv("EXTRACT_WORKERS", "1"), 1),
        MaxInflight: parseInt(getEnv("EXTRACT_MAX_INFLIGHT", "0"), 0),
    }
    if cfg.Extract.Workers < 1 { cfg.Extract.Workers = 1 }
    if cfg.Extract.MaxInflight < 0 { cfg.Extract.MaxInflight = 0 }

    cfg.Server = ServerConfig{
        Port:            getEnv("PORT", "8080"),
        ReadTimeout:     parseDuration(getEnv("SERVER_READ_TIMEOUT", "15s"), 15*time.Second),
        WriteTimeout:    parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "120s"), 120*time.Second),
        ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
        CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),
        MetricsEnabled:  parseBool(getEnv("METRICS_ENABLED", "true")),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" { out = append(out, p) }
    }
    return out
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
