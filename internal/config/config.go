package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/storm-besttrack/internal/adapter/parquet"
	"github.com/couchcryptid/storm-besttrack/internal/domain"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	// Parsing.
	Agency           string
	CenturyBoundary  int
	YearCutoff       int
	StrictDuplicates bool

	// Batch extraction.
	DecodeConcurrency int
	RunTimeout        time.Duration // 0 disables

	// Outputs.
	ParquetCompression string
	MetricsTextfile    string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	boundary, err := parseIntRange("CENTURY_BOUNDARY", "51", 0, 99)
	if err != nil {
		return nil, err
	}

	cutoff, err := parseIntRange("YEAR_CUTOFF", "2015", 1900, 2099)
	if err != nil {
		return nil, err
	}

	concurrency, err := parseIntRange("DECODE_CONCURRENCY", "4", 1, 64)
	if err != nil {
		return nil, err
	}

	runTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("RUN_TIMEOUT", "0s"))
	if err != nil || runTimeout < 0 {
		return nil, errors.New("invalid RUN_TIMEOUT")
	}

	strict := false
	if v := os.Getenv("STRICT_DUPLICATES"); v != "" {
		strict, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid STRICT_DUPLICATES")
		}
	}

	cfg := &Config{
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		Agency:             sharedcfg.EnvOrDefault("BESTTRACK_AGENCY", "JMA"),
		CenturyBoundary:    boundary,
		YearCutoff:         cutoff,
		StrictDuplicates:   strict,
		DecodeConcurrency:  concurrency,
		RunTimeout:         runTimeout,
		ParquetCompression: sharedcfg.EnvOrDefault("PARQUET_COMPRESSION", "zstd"),
		MetricsTextfile:    os.Getenv("METRICS_TEXTFILE"),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("LOG_FORMAT must be json or text")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid LOG_LEVEL: must be debug, info, warn or error")
	}

	if _, err := domain.ParseFormat(cfg.Agency); err != nil {
		return nil, errors.New("invalid BESTTRACK_AGENCY: must be JMA, RSMC-Tokyo or JTWC")
	}

	if _, err := parquet.ParseCompressionType(cfg.ParquetCompression); err != nil {
		return nil, errors.New("invalid PARQUET_COMPRESSION: must be none, snappy, zstd or gzip")
	}

	return cfg, nil
}

func parseIntRange(key, def string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer in [%d, %d]", key, lo, hi)
	}
	return n, nil
}
