package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-besttrack/internal/adapter/bstfile"
	"github.com/couchcryptid/storm-besttrack/internal/adapter/parquet"
	"github.com/couchcryptid/storm-besttrack/internal/adapter/timestamps"
	"github.com/couchcryptid/storm-besttrack/internal/config"
	"github.com/couchcryptid/storm-besttrack/internal/domain"
	"github.com/couchcryptid/storm-besttrack/internal/observability"
	"github.com/couchcryptid/storm-besttrack/internal/pipeline"
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	stdout  io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage()
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "index":
		return a.runIndex(rest)
	case "decode":
		return a.runDecode(rest)
	case "times":
		return a.runTimes(ctx, rest)
	case "export":
		return a.runExport(ctx, rest)
	case "validate":
		return a.runValidate(rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, usage())
	}
}

// sourceFlags are shared by every subcommand.
type sourceFlags struct {
	in      string
	agency  string
	century int
	strict  bool
}

func (a *app) newFlagSet(name string, sf *sourceFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	fs.StringVar(&sf.in, "in", "", "best-track file to read (required)")
	fs.StringVar(&sf.agency, "agency", a.cfg.Agency, "agency format: JMA, RSMC-Tokyo or JTWC")
	fs.IntVar(&sf.century, "century", a.cfg.CenturyBoundary, "two-digit years at or above this are 19xx")
	fs.BoolVar(&sf.strict, "strict", a.cfg.StrictDuplicates, "fail on repeated storm codes")
	return fs
}

func (sf *sourceFlags) indexOptions() (domain.IndexOptions, error) {
	if sf.in == "" {
		return domain.IndexOptions{}, errors.New("-in is required")
	}
	format, err := domain.ParseFormat(sf.agency)
	if err != nil {
		return domain.IndexOptions{}, err
	}
	return domain.IndexOptions{
		Format:           format,
		CenturyBoundary:  sf.century,
		StrictDuplicates: sf.strict,
	}, nil
}

// open indexes the input file named by the shared flags.
func (a *app) open(sf *sourceFlags) (*bstfile.File, *domain.Index, error) {
	opts, err := sf.indexOptions()
	if err != nil {
		return nil, nil, err
	}

	src := bstfile.New(sf.in, a.logger)
	idx, err := src.Index(opts)
	if err != nil {
		return nil, nil, err
	}
	a.metrics.StormsIndexed.Add(float64(idx.Len()))
	a.logger.Info("index built", "path", sf.in, "storms", idx.Len())
	return src, idx, nil
}

func (a *app) runIndex(args []string) error {
	var sf sourceFlags
	fs := a.newFlagSet("index", &sf)
	since := fs.Int("since", 0, "only list storms from this year on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, idx, err := a.open(&sf)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	for _, e := range idx.Since(*since) {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// exportedTrack is the JSON shape printed by the decode command.
type exportedTrack struct {
	domain.StormTrack
	ExportedAt time.Time `json:"exported_at"`
}

func (a *app) runDecode(args []string) error {
	var sf sourceFlags
	fs := a.newFlagSet("decode", &sf)
	id := fs.String("id", "", "storm code, e.g. 1513 (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	src, idx, err := a.open(&sf)
	if err != nil {
		return err
	}

	track, err := src.Track(idx, *id)
	if err != nil {
		return err
	}
	a.metrics.StormsDecoded.Inc()
	a.metrics.RecordsDecoded.Add(float64(len(track.Records)))

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportedTrack{StormTrack: track, ExportedAt: domain.Now()}); err != nil {
		return err
	}
	a.metrics.RowsWritten.WithLabelValues("json").Add(float64(len(track.Records)))
	return nil
}

func (a *app) runTimes(ctx context.Context, args []string) error {
	var sf sourceFlags
	fs := a.newFlagSet("times", &sf)
	cutoff := fs.Int("cutoff", a.cfg.YearCutoff, "first storm year to include")
	out := fs.String("out", "", "output file (default bt_time_after_<cutoff>.txt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		*out = fmt.Sprintf("bt_time_after_%d.txt", *cutoff)
	}

	src, idx, err := a.open(&sf)
	if err != nil {
		return err
	}

	p := pipeline.New(src, timestamps.NewFileLoader(*out), a.logger, a.metrics, a.cfg.DecodeConcurrency)
	return p.Run(ctx, idx, *cutoff)
}

func (a *app) runExport(ctx context.Context, args []string) error {
	var sf sourceFlags
	fs := a.newFlagSet("export", &sf)
	cutoff := fs.Int("cutoff", a.cfg.YearCutoff, "first storm year to include")
	out := fs.String("out", "", "Parquet output file (required)")
	compression := fs.String("compression", a.cfg.ParquetCompression, "none, snappy, zstd or gzip")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out is required")
	}

	ct, err := parquet.ParseCompressionType(*compression)
	if err != nil {
		return fmt.Errorf("-compression: %w", err)
	}

	src, idx, err := a.open(&sf)
	if err != nil {
		return err
	}

	loader := parquet.NewLoader(*out, ct)
	p := pipeline.New(src, loader, a.logger, a.metrics, a.cfg.DecodeConcurrency)
	return p.Run(ctx, idx, *cutoff)
}
