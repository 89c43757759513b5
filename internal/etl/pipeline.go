package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/logger"
	"github.com/juju/clock"
)

// Pipeline runs a Migrator over an eagerly loaded record set, batch by
// batch. Records are processed one at a time; a failing record is counted
// and logged and the run continues.
type Pipeline[T any] struct {
	BatchSize int
	// RecordDelay is waited between two consecutive records, whatever their outcome.
	RecordDelay time.Duration
	Clock       clock.Clock
	Validator   *Validator
}

func NewPipeline[T any](batchSize int, recordDelay time.Duration, clk clock.Clock) *Pipeline[T] {
	if batchSize <= 0 {
		batchSize = 100
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &Pipeline[T]{
		BatchSize:   batchSize,
		RecordDelay: recordDelay,
		Clock:       clk,
		Validator:   NewValidator(),
	}
}

// Run always returns stats, also when ctx is cancelled mid-run.
func (p *Pipeline[T]) Run(ctx context.Context, records []T, m Migrator[T]) *Stats {
	stats := NewStats(m.Entity(), p.Clock.Now())
	stats.Total = len(records)
	batches := (len(records) + p.BatchSize - 1) / p.BatchSize

	logger.Infof("Starting %s migration. Records: %d, Batch Size: %d, Record Delay: %s",
		m.Entity(), len(records), p.BatchSize, p.RecordDelay)

	for b := 0; b < batches; b++ {
		start := b * p.BatchSize
		end := start + p.BatchSize
		if end > len(records) {
			end = len(records)
		}
		logger.Infof("%s: processing batch %d/%d", m.Entity(), b+1, batches)

		for i := start; i < end; i++ {
			if i > 0 && !p.pause(ctx) {
				logger.Warnf("%s: run interrupted after %d of %d records", m.Entity(), i, len(records))
				stats.Finished = p.Clock.Now()
				return stats
			}
			p.process(ctx, &records[i], m, stats)
		}

		done := stats.Migrated + stats.Updated + stats.Skipped + stats.Errors
		logger.Infof("%s: batch done. Processed: %d/%d (migrated %d, updated %d, errors %d)",
			m.Entity(), done, len(records), stats.Migrated, stats.Updated, stats.Errors)
	}

	stats.Finished = p.Clock.Now()
	return stats
}

func (p *Pipeline[T]) pause(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.RecordDelay <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-p.Clock.After(p.RecordDelay):
		return true
	}
}

func (p *Pipeline[T]) process(ctx context.Context, rec *T, m Migrator[T], stats *Stats) {
	outcome, err := p.migrateOne(ctx, rec, m, stats)
	if err != nil {
		stats.Errors++
		switch {
		case IsNoLocation(err):
			stats.Add("noLocation", 1)
		case IsMissingDependency(err):
			stats.Add("missingDependency", 1)
		}
		logger.WithFields(map[string]interface{}{
			"entity": m.Entity(),
			"record": m.Describe(rec),
		}).Errorf("migration failed: %v", err)
		return
	}
	stats.record(outcome)
	logger.Debugf("%s %s: %s", m.Entity(), m.Describe(rec), outcome)
}

func (p *Pipeline[T]) migrateOne(ctx context.Context, rec *T, m Migrator[T], stats *Stats) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if p.Validator != nil {
		if err := p.Validator.ValidateRecord(rec); err != nil {
			return Skipped, err
		}
	}
	return m.Migrate(ctx, rec, stats)
}
