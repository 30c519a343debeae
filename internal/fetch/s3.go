package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Downloader is the part of manager.Downloader used here.
type S3Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

var errBucketDenied = errors.New("s3 bucket not allowed")

// cappedWriterAt fails any write reaching past max, so an oversized object is
// abandoned mid-download instead of being buffered whole.
type cappedWriterAt struct {
	w   io.WriterAt
	max int64
}

func (c cappedWriterAt) WriteAt(p []byte, off int64) (int, error) {
	if off+int64(len(p)) > c.max {
		return 0, fmt.Errorf("%w: exceeds %d bytes", errTooLarge, c.max)
	}
	return c.w.WriteAt(p, off)
}

// parseS3URL splits s3://bucket/key.
func parseS3URL(ref string) (bucket, key string, err error) {
	path := strings.TrimPrefix(ref, "s3://")
	if i := strings.Index(path, "#"); i >= 0 { path = path[:i] }
	slash := strings.Index(path, "/")
	if slash <= 0 || slash == len(path)-1 {
		return "", "", fmt.Errorf("invalid s3 url: %s", ref)
	}
	return path[:slash], path[slash+1:], nil
}

func (f *Fetcher) downloader(ctx context.Context) (S3Downloader, error) {
	f.s3mu.Lock()
	defer f.s3mu.Unlock()
	if f.s3 != nil {
		return f.s3, nil
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	f.s3 = manager.NewDownloader(s3.NewFromConfig(cfg))
	return f.s3, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, ref string) ([]byte, error) {
	bucket, key, err := parseS3URL(ref)
	if err != nil {
		return nil, &FetchError{URL: ref, Err: err}
	}
	if _, ok := f.s3Buckets[bucket]; !ok {
		return nil, &FetchError{URL: ref, Err: fmt.Errorf("%w: %s", errBucketDenied, bucket)}
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	dl, err := f.downloader(ctx)
	if err != nil {
		return nil, &FetchError{URL: ref, Err: err}
	}

	start := time.Now()
	buf := manager.NewWriteAtBuffer(nil)
	n, err := dl.Download(ctx, cappedWriterAt{w: buf, max: f.maxBytes}, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, &FetchError{URL: ref, Err: err}
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Dur("took", time.Since(start)).Msg("downloaded s3 document")
	return buf.Bytes(), nil
}
