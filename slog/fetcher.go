// Package slog provides logging decorators for govvideo services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/govvideo"
)

// Ensure LoggingFetcher implements govvideo.Fetcher.
var _ govvideo.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every request.
type LoggingFetcher struct {
	next   govvideo.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next govvideo.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*govvideo.Response, error) {
	begin := time.Now()
	resp, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Info("fetch",
			"url", url,
			"code", govvideo.ErrorCode(err),
			"duration", time.Since(begin),
			"err", govvideo.ErrorMessage(err),
		)
		return nil, err
	}

	attrs := []any{
		"url", url,
		"bytes", len(resp.Body),
		"duration", time.Since(begin),
	}
	if resp.URL != url {
		attrs = append(attrs, "final", resp.URL)
	}
	f.logger.Info("fetch", attrs...)
	return resp, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
