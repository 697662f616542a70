package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/recon-obs-decoder/internal/decoder"
	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
	"github.com/couchcryptid/recon-obs-decoder/internal/observability"
)

// Extractor frames the next raw bulletin from the source stream. Exhaustion
// is reported as io.EOF and ends the run normally.
type Extractor interface {
	Extract(ctx context.Context) (domain.Bulletin, error)
}

// Transformer decodes a framed bulletin into sounding records. Records may
// accompany an error when a message was aborted after a partial flush.
type Transformer interface {
	Transform(ctx context.Context, b domain.Bulletin) ([]domain.SoundingRecord, error)
}

// Loader writes decoded records to the destination.
type Loader interface {
	Load(ctx context.Context, records []domain.SoundingRecord) error
}

// Pipeline orchestrates the extract-decode-load loop over one input stream.
// It runs to stream exhaustion; there is no mid-message cancellation, the
// context is only consulted between messages.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics

	messages int
	records  int
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
	}
}

// Counts reports the messages consumed and records loaded by the last Run.
// Strict callers reconcile these against expected message counts, since an
// unparsable message yields zero records without failing the run.
func (p *Pipeline) Counts() (messages, records int) {
	return p.messages, p.records
}

// Run executes the batch loop until the stream is exhausted or the context
// is cancelled between messages.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("decode pipeline started")
	start := time.Now()
	p.messages, p.records = 0, 0

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		bulletin, err := p.extractor.Extract(ctx)
		if errors.Is(err, io.EOF) {
			p.logger.Info("input exhausted",
				"messages", p.messages,
				"records", p.records,
				"elapsed", time.Since(start),
			)
			return nil
		}
		if err != nil {
			return err
		}
		p.messages++

		if err := p.processMessage(ctx, bulletin); err != nil {
			return err
		}
	}
}

// processMessage decodes and loads one bulletin. A decode error abandons the
// message (conservative recovery for garbled bulletins) but whatever the
// reconciler flushed first is still loaded.
func (p *Pipeline) processMessage(ctx context.Context, bulletin domain.Bulletin) error {
	records, err := p.transformer.Transform(ctx, bulletin)
	if err != nil {
		p.logger.Warn("message decode aborted",
			"error", err,
			"ordinal", bulletin.Ordinal,
			"header", bulletin.FirstToken(),
			"flushed_records", len(records),
		)
		p.metrics.FormatErrors.Inc()
	}

	if mt, ok := p.messageType(bulletin); ok {
		p.metrics.MessagesDecoded.WithLabelValues(string(mt)).Inc()
	} else {
		p.metrics.MessagesSkipped.Inc()
	}

	if len(records) == 0 {
		return nil
	}
	if err := p.loader.Load(ctx, records); err != nil {
		return err
	}
	p.records += len(records)
	for _, r := range records {
		p.metrics.RecordsEmitted.WithLabelValues(string(r.Tag)).Inc()
	}
	p.metrics.LevelsPerMessage.Observe(float64(len(records)))
	return nil
}

func (p *Pipeline) messageType(b domain.Bulletin) (domain.MessageType, bool) {
	return decoder.MessageTypeOf(b.FirstToken())
}
