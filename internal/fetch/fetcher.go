// Package fetch downloads source documents over HTTP(S) or from S3.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 100 << 20
)

// browserHeaders is sent on every HTTP download. Some hosts refuse clients
// that do not look like a browser.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Accept-Encoding":           "gzip, deflate",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Options configures a Fetcher.
type Options struct {
	Timeout  time.Duration
	MaxBytes int64
	// Client overrides the HTTP client; its Timeout is replaced by Options.Timeout.
	Client *http.Client
	// S3Buckets lists the buckets s3:// URLs may read from. Empty disables
	// s3:// sources.
	S3Buckets []string
	// S3 overrides the S3 downloader; when nil one is built lazily from the
	// default AWS config on first allowed s3:// request.
	S3 S3Downloader
}

// Fetcher downloads a whole document in a single attempt.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64

	s3Buckets map[string]struct{}
	s3mu      sync.Mutex
	s3        S3Downloader
}

func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 { opts.Timeout = DefaultTimeout }
	if opts.MaxBytes <= 0 { opts.MaxBytes = DefaultMaxBytes }
	client := &http.Client{}
	if opts.Client != nil {
		c := *opts.Client
		client = &c
	}
	client.Timeout = opts.Timeout
	buckets := make(map[string]struct{}, len(opts.S3Buckets))
	for _, b := range opts.S3Buckets {
		if b = strings.TrimSpace(b); b != "" { buckets[b] = struct{}{} }
	}
	return &Fetcher{client: client, timeout: opts.Timeout, maxBytes: opts.MaxBytes, s3Buckets: buckets, s3: opts.S3}
}

// Fetch returns the raw bytes behind url. Supported schemes are http, https and,
// for allowlisted buckets only, s3.
// Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, "s3://"):
		return f.fetchS3(ctx, url)
	default:
		return f.fetchHTTP(ctx, url)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Status: statusText(resp)}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer body.Close()

	data, err := readLimited(body, f.maxBytes)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	log.Debug().Str("url", url).Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("downloaded document")
	return data, nil
}

// decodeBody undoes Content-Encoding. Setting Accept-Encoding by hand turns off
// the transport's own gzip handling, so it has to happen here.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil { return nil, fmt.Errorf("gzip body: %w", err) }
		return zr, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil { return nil, fmt.Errorf("deflate body: %w", err) }
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

var errTooLarge = errors.New("document too large")

func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: exceeds %d bytes", errTooLarge, max)
	}
	return data, nil
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode)
}
