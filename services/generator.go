package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"hatchery/models"

	"go.uber.org/zap"
)

// GeneratorOptions controls the shape of a generated dataset
type GeneratorOptions struct {
	Seed       uint64
	Timestamps int
	Interval   time.Duration
	Start      time.Time
	TankIDs    []int
}

// DefaultGeneratorOptions returns 3000 half-hourly timestamps from
// 01-06-2025 00:00 over every known tank
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Seed:       42,
		Timestamps: 3000,
		Interval:   30 * time.Minute,
		Start:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		TankIDs:    models.TankIDs(),
	}
}

// Dataset is the main table plus the two static reference tables
type Dataset struct {
	Rows       []models.DatasetRow
	Thresholds []models.ThresholdDescription
	Species    []models.SpeciesInfo
}

type GeneratorOption func(*Generator)

// WithSampler replaces the distribution sampler, e.g. with fixed readings
func WithSampler(s ReadingSampler) GeneratorOption {
	return func(g *Generator) {
		g.sampler = s
	}
}

func WithRuleSet(rules models.RuleSet) GeneratorOption {
	return func(g *Generator) {
		g.engine = NewLabelRuleEngine(rules)
	}
}

func WithSamplerConfig(cfg SamplerConfig) GeneratorOption {
	return func(g *Generator) {
		g.sampler = NewParameterSampler(cfg, g.src)
	}
}

// Generator owns the random stream and the entry id counter of one run.
// It is not safe for concurrent use; separate generators share nothing.
type Generator struct {
	opts        GeneratorOptions
	src         rand.Source
	sampler     ReadingSampler
	engine      *LabelRuleEngine
	nextEntryID int
	logger      *zap.Logger
}

func NewGenerator(opts GeneratorOptions, logger *zap.Logger, options ...GeneratorOption) *Generator {
	if len(opts.TankIDs) == 0 {
		opts.TankIDs = models.TankIDs()
	}

	src := rand.NewPCG(opts.Seed, opts.Seed)
	g := &Generator{
		opts:        opts,
		src:         src,
		sampler:     NewParameterSampler(DefaultSamplerConfig(), src),
		engine:      NewLabelRuleEngine(models.DefaultRuleSet()),
		nextEntryID: 1,
		logger:      logger,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// NextRow samples, labels and rounds one (timestamp, tank) row and assigns it
// the next entry id
func (g *Generator) NextRow(ts time.Time, tankID int) (models.DatasetRow, error) {
	profile, ok := models.SpeciesForTank(tankID)
	if !ok {
		return models.DatasetRow{}, fmt.Errorf("tank %d: %w", tankID, ErrUnknownTank)
	}

	sampled := g.sampler.Sample(profile)
	reading, labels := g.engine.Label(sampled, g.src)

	row := models.DatasetRow{
		EntryID:   g.nextEntryID,
		Timestamp: ts,
		TankID:    tankID,
		Species:   profile.Name,
		Reading:   reading.Rounded(),
		Labels:    labels,
	}
	g.nextEntryID++
	return row, nil
}

// Generate builds the full table in timestamp-major, tank-minor order
func (g *Generator) Generate() (*Dataset, error) {
	g.logger.Info("Generating dataset",
		zap.Uint64("seed", g.opts.Seed),
		zap.Int("timestamps", g.opts.Timestamps),
		zap.Duration("interval", g.opts.Interval),
		zap.Ints("tank_ids", g.opts.TankIDs))

	rows := make([]models.DatasetRow, 0, g.opts.Timestamps*len(g.opts.TankIDs))
	for i := 0; i < g.opts.Timestamps; i++ {
		ts := g.opts.Start.Add(time.Duration(i) * g.opts.Interval)
		for _, tankID := range g.opts.TankIDs {
			row, err := g.NextRow(ts, tankID)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}

	g.logger.Info("Dataset generated", zap.Int("rows", len(rows)))

	return &Dataset{
		Rows:       rows,
		Thresholds: models.ThresholdDescriptions(),
		Species:    models.SpeciesInformation(),
	}, nil
}
