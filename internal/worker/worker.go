// Package worker consumes document events from Kafka and indexes them in
// batches through the bulk API.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchbridge/internal/config"
	"searchbridge/internal/convert"
	"searchbridge/internal/model"
	"searchbridge/internal/search"
)

const (
	shutdownFlushTimeout = 10 * time.Second
	maxRetryDelay        = 30 * time.Second
)

// Reader is the part of *kafka.Reader the worker uses.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewReader builds a consumer group reader for cfg. Offsets are committed
// explicitly after each flush.
func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
	})
}

// Indexer batches events into bulk requests.
type Indexer struct {
	reader        Reader
	engine        search.Searcher
	logger        *zap.Logger
	metrics       *Metrics
	batchSize     int
	flushInterval time.Duration
	retryDelay    time.Duration
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithMetrics records event outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(w *Indexer) { w.metrics = m }
}

// WithRetryDelay sets the first delay before a failed bulk request is retried.
func WithRetryDelay(d time.Duration) Option {
	return func(w *Indexer) { w.retryDelay = d }
}

// New returns an Indexer reading from r and writing to engine.
func New(r Reader, engine search.Searcher, cfg config.KafkaConfig, logger *zap.Logger, opts ...Option) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Indexer{
		reader:        r,
		engine:        engine,
		logger:        logger.With(zap.String("component", "worker")),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		retryDelay:    time.Second,
	}
	if w.batchSize <= 0 {
		w.batchSize = 500
	}
	if w.flushInterval <= 0 {
		w.flushInterval = time.Second
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run consumes until ctx is cancelled. The pending batch is flushed before
// returning. It returns nil on a clean shutdown.
func (w *Indexer) Run(ctx context.Context) error {
	w.logger.Info("worker_start",
		zap.Int("batch_size", w.batchSize),
		zap.Duration("flush_interval", w.flushInterval),
	)

	msgs := make(chan kafka.Message)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(msgs)
		return w.fetch(gctx, msgs)
	})
	g.Go(func() error {
		return w.batchLoop(gctx, msgs)
	})

	err := g.Wait()
	w.logger.Info("worker_stop")
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *Indexer) fetch(ctx context.Context, out chan<- kafka.Message) error {
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Warn("worker_fetch_failed", zap.Error(err))
			if err := sleep(ctx, w.retryDelay); err != nil {
				return nil
			}
			continue
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Indexer) batchLoop(ctx context.Context, in <-chan kafka.Message) error {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]kafka.Message, 0, w.batchSize)
	for {
		select {
		case msg, ok := <-in:
			if !ok {
				flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
				defer cancel()
				return w.flush(flushCtx, batch)
			}
			batch = append(batch, msg)
			if len(batch) < w.batchSize {
				continue
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
		}
		if err := w.flush(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
	}
}

// flush submits batch and commits its offsets. A failed bulk request is
// retried until it succeeds or ctx ends; per-item failures are logged and
// committed.
func (w *Indexer) flush(ctx context.Context, batch []kafka.Message) error {
	if len(batch) == 0 {
		return nil
	}

	ops := make([]map[string]any, 0, len(batch))
	skipped := 0
	for _, msg := range batch {
		ev, err := ParseEvent(msg.Value)
		if err != nil {
			skipped++
			w.logger.Warn("worker_event_skipped",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}
		ops = append(ops, ev.Operation())
	}
	w.metrics.count("skipped", skipped)

	if len(ops) > 0 {
		if err := w.submit(ctx, ops); err != nil {
			return err
		}
	}

	if err := w.reader.CommitMessages(ctx, batch...); err != nil {
		return fmt.Errorf("commit offsets: %w", err)
	}
	return nil
}

func (w *Indexer) submit(ctx context.Context, ops []map[string]any) error {
	delay := w.retryDelay
	for attempt := 1; ; attempt++ {
		req, err := convert.BulkRequest("", ops, nil)
		if err != nil {
			return fmt.Errorf("build bulk request: %w", err)
		}
		start := time.Now()
		res, err := w.engine.Bulk(ctx, req)
		if err == nil {
			w.report(res.Took, len(ops), res.Failed(), time.Since(start))
			return nil
		}
		w.logger.Warn("worker_bulk_failed",
			zap.Int("attempt", attempt),
			zap.Int("operations", len(ops)),
			zap.Error(err),
		)
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (w *Indexer) report(took int64, total int, failed []map[string]model.BulkItem, elapsed time.Duration) {
	for _, item := range failed {
		for action, res := range item {
			fields := []zap.Field{
				zap.String("action", action),
				zap.String("index", res.Index),
				zap.String("id", res.ID),
				zap.Int("status", res.Status),
			}
			if res.Error != nil {
				fields = append(fields, zap.String("error_type", res.Error.Type), zap.String("error_reason", res.Error.Reason))
			}
			w.logger.Error("worker_item_failed", fields...)
		}
	}
	w.metrics.batch(total)
	w.metrics.count("failed", len(failed))
	w.metrics.count("indexed", total-len(failed))
	w.logger.Info("worker_flush",
		zap.Int("operations", total),
		zap.Int("failed", len(failed)),
		zap.Int64("took_ms", took),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
