// Package scan runs the periodic pass over all tracked categories.
package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"go-mod.ewintr.nl/stockwatch/internal/bucket"
	"go-mod.ewintr.nl/stockwatch/internal/category"
	"go-mod.ewintr.nl/stockwatch/internal/change"
	"go-mod.ewintr.nl/stockwatch/internal/notify"
	"go-mod.ewintr.nl/stockwatch/internal/stock"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type StatusReporter interface {
	Report(ctx context.Context, status string, attributes map[string]any) error
}

type Summary struct {
	Scanned  int
	Failed   int
	Notified int
}

type Option func(*Cycle)

func WithBuckets(t bucket.Table) Option {
	return func(c *Cycle) {
		c.buckets = t
	}
}

func WithLocation(loc *time.Location) Option {
	return func(c *Cycle) {
		c.loc = loc
	}
}

func WithStatus(s StatusReporter) Option {
	return func(c *Cycle) {
		c.status = s
	}
}

type Cycle struct {
	registry *category.Registry
	detector *change.Detector
	fetcher  Fetcher
	parser   *stock.Parser
	notifier notify.Notifier
	buckets  bucket.Table
	loc      *time.Location
	status   StatusReporter
	logger   *slog.Logger
}

func NewCycle(registry *category.Registry, detector *change.Detector, fetcher Fetcher, parser *stock.Parser, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Cycle {
	c := &Cycle{
		registry: registry,
		detector: detector,
		fetcher:  fetcher,
		parser:   parser,
		notifier: notifier,
		buckets:  bucket.Default(),
		loc:      time.Local,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run scans every category registered at the moment it starts, in insertion
// order. A failing category is logged and skipped.
func (c *Cycle) Run(ctx context.Context) Summary {
	logger := c.logger.With("cycle", uuid.NewString())
	urls := c.registry.List()
	logger.Info("starting scan", "categories", len(urls))
	c.report(ctx, logger, "checking", map[string]any{
		"last_check_start": time.Now().Format(time.RFC3339),
	})

	var sum Summary
	for _, url := range urls {
		if ctx.Err() != nil {
			logger.Info("scan interrupted", "error", ctx.Err())
			break
		}
		c.scan(ctx, logger, url, &sum)
	}

	logger.Info("scan finished", "scanned", sum.Scanned, "failed", sum.Failed, "notified", sum.Notified)
	status := "idle"
	if sum.Failed > 0 && sum.Scanned == 0 {
		status = "error"
	}
	c.report(ctx, logger, status, map[string]any{
		"last_check_end": time.Now().Format(time.RFC3339),
		"categories":     len(urls),
		"failed":         sum.Failed,
	})

	return sum
}

func (c *Cycle) scan(ctx context.Context, logger *slog.Logger, url string, sum *Summary) {
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Error("could not fetch category", "url", url, "error", err)
		sum.Failed++
		return
	}
	snap, err := c.parser.Parse(html)
	if err != nil {
		logger.Error("could not parse category", "url", url, "error", err)
		sum.Failed++
		return
	}
	sum.Scanned++

	switch snap.Outcome() {
	case stock.NoProducts:
		logger.Warn("no products matched, selectors may be outdated", "url", url)
	case stock.Partial:
		logger.Info("some products without price", "url", url, "matched", snap.Matched, "skipped", snap.Skipped)
	}
	logger.Info("fetched products", "url", url, "total", snap.Total())

	ev, ok := c.detector.Observe(url, snap.Total())
	if !ok {
		return
	}

	text := Report(ev, c.buckets.Aggregate(snap.Prices()), c.loc)
	if err := c.notifier.Notify(ctx, text); err != nil {
		logger.Error("could not notify of stock change", "url", url, "error", err)
		return
	}
	sum.Notified++
	logger.Info("notification sent", "url", url, "previous", ev.Previous, "current", ev.Current)
}

func (c *Cycle) report(ctx context.Context, logger *slog.Logger, status string, attrs map[string]any) {
	if c.status == nil {
		return
	}
	if err := c.status.Report(ctx, status, attrs); err != nil {
		logger.Error("failed to update status", "error", err)
	}
}
