// Package ingest decodes XH files and indexes their traces in the catalog.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/xhfile/pkg/assemble"
	"github.com/ssargent/xhfile/pkg/catalog"
	"github.com/ssargent/xhfile/pkg/codec"
	"github.com/ssargent/xhfile/pkg/logging"
	"github.com/ssargent/xhfile/pkg/stream"
)

// Store is the part of the catalog the ingester writes to.
type Store interface {
	ReplacePath(path string, entries []*catalog.Entry) error
	DeleteByPath(path string) (int, error)
}

// Config controls decoding and parallelism.
type Config struct {
	Workers    int
	Strict     bool
	MaxSamples int64
}

// Result reports what happened to one file.
type Result struct {
	Path    string
	Records int
	Samples int64
	Skipped bool
	Err     error
}

// Ingester indexes XH files.
type Ingester struct {
	store   Store
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
}

// New creates an Ingester. logger and metrics may be nil.
func New(store Store, cfg Config, logger *slog.Logger, metrics *Metrics) *Ingester {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Ingester{
		store:   store,
		cfg:     cfg,
		logger:  logging.Default(logger).With("component", "ingest"),
		metrics: metrics,
	}
}

// IngestFile decodes path and replaces its catalog entries. Files that are
// not XH are skipped and leave the catalog untouched. A file that fails to
// decode part way also leaves the catalog untouched.
func (ing *Ingester) IngestFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{Path: path, Err: err}, err
	}

	res, entries, err := ing.decode(ctx, abs)
	if err == nil && !res.Skipped {
		err = ing.store.ReplacePath(abs, entries)
	}

	switch {
	case err != nil:
		res.Err = err
		ing.metrics.RecordFile(OutcomeFailed, res.Records, res.Samples, time.Since(start))
		ing.logger.Warn("file failed", "path", abs, "error", err)
	case res.Skipped:
		ing.metrics.RecordFile(OutcomeSkipped, 0, 0, time.Since(start))
		ing.logger.Debug("file skipped", "path", abs)
	default:
		ing.metrics.RecordFile(OutcomeIndexed, res.Records, res.Samples, time.Since(start))
		ing.logger.Info("file indexed", "path", abs, "records", res.Records, "samples", res.Samples)
	}
	return res, err
}

func (ing *Ingester) decode(ctx context.Context, path string) (Result, []*catalog.Entry, error) {
	res := Result{Path: path}

	r, err := stream.Open(stream.ReaderConfig{
		FilePath:   path,
		Strict:     ing.cfg.Strict,
		MaxSamples: ing.cfg.MaxSamples,
	})
	if errors.Is(err, codec.ErrNotRecognized) {
		res.Skipped = true
		return res, nil, nil
	}
	if err != nil {
		return res, nil, err
	}
	defer r.Close()

	var entries []*catalog.Entry
	for {
		if err := ctx.Err(); err != nil {
			return res, nil, err
		}
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, nil, err
		}
		tr, err := assemble.Assemble(rec)
		if err != nil {
			return res, nil, fmt.Errorf("record %d at offset %d: %w", res.Records, rec.Offset, err)
		}
		entries = append(entries, catalog.NewEntry(path, res.Records, rec.Offset, tr))
		res.Records++
		res.Samples += int64(len(rec.Samples))
	}
	return res, entries, nil
}

// IngestFiles ingests paths with up to Config.Workers files in flight.
// Per-file failures are reported in the results; the returned error is
// only set when ctx is cancelled.
func (ing *Ingester) IngestFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.cfg.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}
			results[i], _ = ing.IngestFile(gctx, path)
			if errors.Is(results[i].Err, context.Canceled) || errors.Is(results[i].Err, context.DeadlineExceeded) {
				return results[i].Err
			}
			return nil
		})
	}
	return results, g.Wait()
}

// Remove drops the catalog entries of path.
func (ing *Ingester) Remove(path string) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	n, err := ing.store.DeleteByPath(abs)
	if err == nil && n > 0 {
		ing.logger.Info("file removed", "path", abs, "records", n)
	}
	return n, err
}

// Expand replaces each directory in paths with the regular files below it.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
