// Package pipeline sequences the batch run: per entity extract, curate,
// check and persist, then join everything into the consumable table.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NFIT95/data-pipeline/config"
	"github.com/NFIT95/data-pipeline/internal/check"
	"github.com/NFIT95/data-pipeline/internal/curate"
	"github.com/NFIT95/data-pipeline/internal/entity"
	"github.com/NFIT95/data-pipeline/internal/extract"
	"github.com/NFIT95/data-pipeline/internal/profile"
	"github.com/NFIT95/data-pipeline/internal/store"
	"github.com/NFIT95/data-pipeline/internal/table"
	"github.com/NFIT95/data-pipeline/internal/transform"
	"github.com/NFIT95/data-pipeline/internal/util"
)

// ConsumableName is the output name of the analytics base table.
const ConsumableName = "analytics_base_table"

// Pipeline drives one batch run end to end.
type Pipeline struct {
	cfg       *config.Config
	store     *store.Store
	extractor *extract.Extractor
	logger    *zap.Logger
	runID     string
}

// New creates a pipeline over the configured data root.
func New(cfg *config.Config) (*Pipeline, error) {
	st, err := store.NewStore(cfg.Data.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}
	runID := uuid.New().String()
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		extractor: extract.New(),
		logger:    util.RunLogger(runID),
		runID:     runID,
	}, nil
}

// RunID returns the identifier of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Run executes the batch: every entity in fixed order through extract,
// quarantine, curate, check and persist; then the curated tables are
// read back, transformed and checked before the consumable table is
// written. A failed expectation suite aborts the run with no partial
// consumable output.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	kinds := make([]entity.Kind, 0, len(p.cfg.Data.Entities))
	for _, name := range p.cfg.Data.Entities {
		kind, err := entity.KindOf(name)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	for _, kind := range kinds {
		if err := p.runEntity(ctx, kind); err != nil {
			util.RunsFailedTotal.WithLabelValues("entity_stage").Inc()
			return err
		}
	}

	if err := p.runTransform(ctx, kinds); err != nil {
		util.RunsFailedTotal.WithLabelValues("transform_stage").Inc()
		return err
	}

	util.RunsCompletedTotal.Inc()
	p.logger.Info("Pipeline run completed", zap.String("sample_setting", p.cfg.Server.SampleSetting))
	return nil
}

// runEntity takes one entity from raw file to curated parquet.
func (p *Pipeline) runEntity(ctx context.Context, kind entity.Kind) error {
	_, span := util.StartSpan(ctx, "pipeline.Entity."+kind.String())
	defer span.End()
	defer observeStage("entity_"+kind.String(), time.Now())

	now := time.Now()

	result, err := p.extractor.FromFile(p.store.RawPath(kind.String()), kind)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", kind, err)
	}
	util.RowsExtractedTotal.WithLabelValues(kind.String()).Add(float64(result.Valid.NumRows()))
	util.RowsQuarantinedTotal.WithLabelValues(kind.String()).Add(float64(len(result.Broken)))
	p.logger.Info("Entity extracted",
		zap.String("entity", kind.String()),
		zap.Int("valid", result.Valid.NumRows()),
		zap.Int("broken", len(result.Broken)))

	if _, err := p.store.WriteQuarantine(result.Broken, kind.String(), now); err != nil {
		return fmt.Errorf("failed to quarantine %s rows: %w", kind, err)
	}

	curated := curate.Curate(result.Valid, now)

	if err := p.check(check.SuiteFor(kind, p.cfg.Checks.CuratedSuite), curated, kind.String()); err != nil {
		return err
	}

	if _, err := p.store.WriteParquet(curated, store.FolderCurated, kind.String(), now); err != nil {
		return fmt.Errorf("failed to persist curated %s: %w", kind, err)
	}
	util.TablesCuratedTotal.Inc()

	if _, err := p.store.WriteProfile(profile.New(kind.String(), curated), kind.String(), now); err != nil {
		return fmt.Errorf("failed to profile %s: %w", kind, err)
	}
	return nil
}

// runTransform reads the persisted curated tables back and builds the
// consumable table. Transforming from the files rather than the
// in-memory tables keeps the consumable output a pure function of what
// is on disk.
func (p *Pipeline) runTransform(ctx context.Context, kinds []entity.Kind) error {
	_, span := util.StartSpan(ctx, "pipeline.Transform")
	defer span.End()
	defer observeStage("transform", time.Now())

	curated := make(map[entity.Kind]*table.Table, len(kinds))
	for _, kind := range kinds {
		t, err := p.store.ReadLatestParquet(store.FolderCurated, kind.String())
		if err != nil {
			return fmt.Errorf("failed to read curated %s: %w", kind, err)
		}
		curated[kind] = t
	}

	transformer := transform.New(p.cfg.Features.MainCurrencies)
	consumable, err := transformer.BuildConsumable(curated, p.cfg.Features.ConsumableColumns)
	if err != nil {
		return fmt.Errorf("failed to build consumable table: %w", err)
	}

	suite := check.ConsumableSuite(p.cfg.Checks.ConsumableSuite, p.cfg.Features.ConsumableColumns)
	if err := p.check(suite, consumable, ConsumableName); err != nil {
		return err
	}

	now := time.Now()
	if _, err := p.store.WriteParquet(consumable, store.FolderConsumable, ConsumableName, now); err != nil {
		return fmt.Errorf("failed to persist consumable table: %w", err)
	}
	if _, err := p.store.WriteProfile(profile.New(ConsumableName, consumable), ConsumableName, now); err != nil {
		return fmt.Errorf("failed to profile consumable table: %w", err)
	}
	return nil
}

// check runs a suite and converts a failed verdict into the fatal
// ErrExpectationsFailed, logging every violated rule first.
func (p *Pipeline) check(suite check.Suite, t *table.Table, name string) error {
	result := suite.Run(t)
	if result.Success() {
		p.logger.Info("Expectations passed",
			zap.String("suite", suite.Name),
			zap.String("table", name))
		return nil
	}
	util.ExpectationFailuresTotal.WithLabelValues(suite.Name).Inc()
	for _, failure := range result.Failures {
		p.logger.Error("Expectation failed",
			zap.String("suite", suite.Name),
			zap.String("table", name),
			zap.String("rule", failure.Rule.Kind.String()),
			zap.String("column", failure.Rule.Column),
			zap.String("detail", failure.Detail))
	}
	return fmt.Errorf("%w: table %s failed suite %s", check.ErrExpectationsFailed, name, suite.Name)
}

func observeStage(stage string, start time.Time) {
	util.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
