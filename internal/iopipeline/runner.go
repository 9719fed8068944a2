// Package iopipeline assembles and drives a full extraction run: mapping
// file, extractors, transform strategies, collector, lint rules and loader.
// This is an impure package; the pure transform core lives under pkg/.
package iopipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/phenotools/pxtract/internal/ioextract"
	"github.com/phenotools/pxtract/internal/ioload"
	"github.com/phenotools/pxtract/internal/iomapping"
	"github.com/phenotools/pxtract/internal/ioontology"
	"github.com/phenotools/pxtract/pkg/collect"
	"github.com/phenotools/pxtract/pkg/config"
	"github.com/phenotools/pxtract/pkg/lint"
	"github.com/phenotools/pxtract/pkg/ontology"
	"github.com/phenotools/pxtract/pkg/pxtract"
	"github.com/phenotools/pxtract/pkg/report"
	"github.com/phenotools/pxtract/pkg/strategy"
	"github.com/phenotools/pxtract/pkg/table"
)

// Runner executes one pipeline run from a loaded configuration.
type Runner struct {
	cfg *config.Config
	log *slog.Logger

	// overrides for tests; nil means build from cfg
	provider ontology.TermProvider
	loader   pxtract.Loader

	// Progress enables the terminal progress bar over sources.
	Progress bool
}

// New creates a runner. log must not be nil.
func New(cfg *config.Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// WithProvider substitutes the backing term provider; tests use it to avoid
// the network.
func (r *Runner) WithProvider(p ontology.TermProvider) *Runner {
	r.provider = p
	return r
}

// WithLoader substitutes the record destination.
func (r *Runner) WithLoader(l pxtract.Loader) *Runner {
	r.loader = l
	return r
}

// Run executes extraction, transformation, collection, linting and loading.
// Structural problems (bad configuration, unreadable sources, failed
// required identifiers, loader failures) abort the run; row-scoped problems
// accumulate as diagnostics in the returned result.
func (r *Runner) Run(ctx context.Context) (*pxtract.RunResult, error) {
	mappingFile, err := iomapping.Load(r.cfg.MappingPath)
	if err != nil {
		return nil, err
	}

	factory, closeCache, err := r.ontologyFactory(ctx)
	if err != nil {
		return nil, err
	}
	if closeCache != nil {
		defer closeCache()
	}

	names := r.cfg.Strategies
	if len(names) == 0 {
		names = strategy.DefaultOrder()
	}
	pipeline, err := strategy.Build(names, factory)
	if err != nil {
		return nil, err
	}
	r.log.Info("pipeline assembled",
		"strategies", pipeline.Names(),
		"sources", len(mappingFile.Sources),
	)

	extractors := make([]pxtract.Extractor, 0, len(mappingFile.Sources))
	for _, src := range mappingFile.Sources {
		ex, err := ioextract.New(src)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, ex)
	}

	rpt := report.New()
	collector := collect.New(factory)

	var bar *pb.ProgressBar
	if r.Progress {
		bar = pb.Full.Start(len(extractors))
		bar.Set(pb.CleanOnFinish, true)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs())
	for _, ex := range extractors {
		g.Go(func() error {
			defer func() {
				if bar != nil {
					bar.Increment()
				}
			}()
			return r.processSource(gctx, ex, pipeline, collector, rpt)
		})
	}
	if err := g.Wait(); err != nil {
		if bar != nil {
			bar.Finish()
		}
		return nil, err
	}
	if bar != nil {
		bar.Finish()
	}

	records := collector.Finalize()
	lint.New().Run(records, rpt)

	loader, closeLoader, err := r.buildLoader(ctx)
	if err != nil {
		return nil, err
	}
	if closeLoader != nil {
		defer closeLoader()
	}
	if err := loader.Load(ctx, records); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	r.log.Info("run finished",
		"records", humanize.Comma(int64(len(records))),
		"diagnostics", humanize.Comma(int64(rpt.Len())),
	)
	for kind, n := range rpt.CountByKind() {
		r.log.Debug("diagnostics by kind", "kind", string(kind), "count", n)
	}

	return &pxtract.RunResult{
		Records:     records,
		Diagnostics: rpt.Diagnostics(),
	}, nil
}

// processSource extracts one source and feeds every tagged table through the
// strategies into the collector.
func (r *Runner) processSource(
	ctx context.Context,
	ex pxtract.Extractor,
	pipeline *strategy.Pipeline,
	collector *collect.Collector,
	rpt *report.Report,
) error {
	tables, err := ex.Extract(ctx)
	if err != nil {
		return err
	}
	for _, tg := range tables {
		if err := pipeline.Apply(ctx, tg, rpt); err != nil {
			return err
		}
		for row := 0; row < tg.NumRows(); row++ {
			collector.Ingest(ctx, tg, row, rpt)
		}
		r.log.Debug("table collected",
			"source", ex.Name(),
			"table", tg.Name(),
			"rows", tg.NumRows(),
		)
	}
	return nil
}

// ontologyFactory builds the provider chain and warms the declared
// references. The returned closer releases the persistent cache, if any.
func (r *Runner) ontologyFactory(
	ctx context.Context,
) (*ontology.Factory, func() error, error) {
	provider := r.provider
	var cached *ioontology.CachedProvider
	if provider == nil {
		provider = ioontology.NewHTTPProvider(r.cfg.Ontology)
		if r.cfg.Ontology.CachePath != "" {
			var err error
			cached, err = ioontology.OpenCache(
				r.cfg.Ontology.CachePath, provider, r.log,
			)
			if err != nil {
				return nil, nil, err
			}
			provider = cached
		}
	}

	factory := ontology.NewFactory(provider)
	for _, s := range r.cfg.Ontologies {
		ref, err := ontology.ParseRef(s)
		if err != nil {
			return nil, nil, err
		}
		dict := factory.BiDict(ref)
		if cached != nil {
			terms, err := cached.Preload(ctx, ref)
			if err != nil {
				r.log.Warn("cache warm-up failed", "ref", ref.String(), "error", err)
				continue
			}
			dict.Preload(terms)
			r.log.Debug("dictionary warmed",
				"ref", ref.String(), "terms", dict.Size())
		}
	}

	var closer func() error
	if cached != nil {
		closer = cached.Close
	}
	return factory, closer, nil
}

func (r *Runner) buildLoader(ctx context.Context) (pxtract.Loader, func(), error) {
	if r.loader != nil {
		return r.loader, nil, nil
	}
	switch r.cfg.Loader.Kind {
	case "postgres":
		pg, err := ioload.NewPg(ctx, r.cfg.Loader)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return ioload.NewDir(r.cfg.Loader), nil, nil
	}
}

func (r *Runner) jobs() int {
	if r.cfg.JobsNumber > 0 {
		return r.cfg.JobsNumber
	}
	return 1
}

// interface checks
var _ pxtract.Extractor = (*tableExtractor)(nil)

// tableExtractor serves pre-built tagged tables; tests and the lint command
// use it to run the pipeline without touching the file system.
type tableExtractor struct {
	name   string
	tables []*table.Tagged
}

// NewTableExtractor wraps already tagged tables in the Extractor contract.
func NewTableExtractor(name string, tables []*table.Tagged) pxtract.Extractor {
	return &tableExtractor{name: name, tables: tables}
}

func (e *tableExtractor) Name() string { return e.name }

func (e *tableExtractor) Extract(_ context.Context) ([]*table.Tagged, error) {
	return e.tables, nil
}
