package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-besttrack/internal/domain"
	"github.com/couchcryptid/storm-besttrack/internal/observability"
)

// StormDecoder decodes one storm from the file an index was built from.
// Implementations must be safe for concurrent use.
type StormDecoder interface {
	Decode(idx *domain.Index, id string) ([]domain.StormTrackRecord, error)
}

// Loader writes a batch of decoded tracks to its destination and reports
// how many rows it wrote.
type Loader interface {
	Name() string
	Load(ctx context.Context, tracks []domain.StormTrack) (int, error)
}

// Pipeline selects storms from an index, decodes them and hands the batch to a loader.
type Pipeline struct {
	decoder     StormDecoder
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
}

// New creates a Pipeline. concurrency bounds simultaneous decodes; values
// below 1 mean one at a time.
func New(d StormDecoder, l Loader, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		decoder:     d,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Extract decodes every storm with FullYear >= cutoff. Results follow index
// order regardless of completion order. The first failure cancels the rest.
func (p *Pipeline) Extract(ctx context.Context, idx *domain.Index, cutoff int) ([]domain.StormTrack, error) {
	start := time.Now()
	entries := idx.Since(cutoff)
	tracks := make([]domain.StormTrack, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := p.decode(idx, entry.ID)
			if err != nil {
				return err
			}
			tracks[i] = domain.StormTrack{Storm: entry, Records: recs}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.metrics.ExtractDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("storms extracted", "cutoff", cutoff, "storms", len(tracks), "duration", time.Since(start))
	return tracks, nil
}

// Timestamps returns the concatenated observation times of storms with
// FullYear >= cutoff, storm by storm in index order. The result is sorted
// within each storm but not globally.
func (p *Pipeline) Timestamps(ctx context.Context, idx *domain.Index, cutoff int) ([]time.Time, error) {
	tracks, err := p.Extract(ctx, idx, cutoff)
	if err != nil {
		return nil, err
	}
	var ts []time.Time
	for _, tr := range tracks {
		ts = append(ts, tr.Timestamps()...)
	}
	return ts, nil
}

// Run extracts storms after cutoff and loads them.
func (p *Pipeline) Run(ctx context.Context, idx *domain.Index, cutoff int) error {
	tracks, err := p.Extract(ctx, idx, cutoff)
	if err != nil {
		return err
	}

	n, err := p.loader.Load(ctx, tracks)
	if err != nil {
		p.logger.Error("load failed", "sink", p.loader.Name(), "error", err)
		return err
	}

	p.metrics.RowsWritten.WithLabelValues(p.loader.Name()).Add(float64(n))
	p.logger.Info("batch loaded", "sink", p.loader.Name(), "storms", len(tracks), "rows", n)
	return nil
}

func (p *Pipeline) decode(idx *domain.Index, id string) ([]domain.StormTrackRecord, error) {
	start := time.Now()
	recs, err := p.decoder.Decode(idx, id)
	p.metrics.DecodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.DecodeErrors.WithLabelValues(errorKind(err)).Inc()
		p.logger.Error("decode failed", "storm_id", id, "error", err)
		return nil, err
	}

	p.metrics.StormsDecoded.Inc()
	p.metrics.RecordsDecoded.Add(float64(len(recs)))
	p.logger.Debug("storm decoded", "storm_id", id, "records", len(recs))
	return recs, nil
}

func errorKind(err error) string {
	var (
		pe      *domain.ParseError
		unknown *domain.UnknownStormError
	)
	switch {
	case errors.As(err, &pe):
		return "parse"
	case errors.As(err, &unknown):
		return "unknown"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported"
	default:
		return "io"
	}
}
