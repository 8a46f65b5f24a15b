// Package dataset loads the reference and child-mortality sources, reshapes
// the wide mortality file into long records, and left-joins the two on
// (country, year) into the read-only Table the views render from.
package dataset

import (
	"context"
	"log/slog"
	"time"
)

// Config configures a Preparer.
type Config struct {
	// ReferencePath overrides the bundled gapminder table when non-empty.
	ReferencePath string
	MortalityPath string
	Logger        *slog.Logger
}

// Preparer runs the load, reshape and merge pipeline.
type Preparer struct {
	referencePath string
	mortalityPath string
	logger        *slog.Logger
}

// NewPreparer creates a Preparer.
func NewPreparer(cfg Config) *Preparer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preparer{
		referencePath: cfg.ReferencePath,
		mortalityPath: cfg.MortalityPath,
		logger:        logger,
	}
}

// MortalityPath returns the mortality file the preparer reads.
func (p *Preparer) MortalityPath() string { return p.mortalityPath }

// ReferencePath returns the reference file, empty for the bundled table.
func (p *Preparer) ReferencePath() string { return p.referencePath }

// Prepare loads both sources and merges them. Any error aborts the whole
// load; there is no partial result.
func (p *Preparer) Prepare(ctx context.Context) (*Table, error) {
	start := time.Now()

	reference, err := LoadReference(ctx, p.referencePath)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("loaded reference table", "source", p.referenceSource(), "rows", len(reference))

	wide, err := LoadMortality(ctx, p.mortalityPath)
	if err != nil {
		return nil, err
	}
	long := Melt(wide)
	p.logger.Debug("reshaped mortality table",
		"source", p.mortalityPath,
		"countries", len(wide.Rows),
		"years", len(wide.Years),
		"records", len(long))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := Merge(reference, long)
	report := table.Report()
	p.logger.Debug("merged datasets",
		"rows", table.Len(),
		"matched", report.Matched,
		"null", report.NullValues,
		"unmatched_countries", len(report.UnmatchedCountries),
		"duration", time.Since(start))

	return table, nil
}

func (p *Preparer) referenceSource() string {
	if p.referencePath == "" {
		return BundledSource
	}
	return p.referencePath
}
