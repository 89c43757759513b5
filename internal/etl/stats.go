package etl

import (
	"sort"
	"time"

	"github.com/BartekS5/tanamao-migrate/pkg/logger"
)

// Outcome is what happened to one record.
type Outcome int

const (
	Inserted Outcome = iota
	Updated
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	}
	return "skipped"
}

// Stats aggregates one entity run.
type Stats struct {
	Entity   string
	Migrated int
	Updated  int
	Skipped  int
	Errors   int
	Total    int
	Extra    map[string]int
	Warnings []string
	Started  time.Time
	Finished time.Time
}

func NewStats(entity string, started time.Time) *Stats {
	return &Stats{Entity: entity, Extra: map[string]int{}, Started: started}
}

// Add increments an entity-specific counter.
func (s *Stats) Add(key string, n int) {
	s.Extra[key] += n
}

// Warn records a non-fatal mapping problem.
func (s *Stats) Warn(w *MappingWarning) {
	logger.WithFields(map[string]interface{}{"entity": s.Entity, "record": w.Record}).Warn(w.Error())
	s.Warnings = append(s.Warnings, w.Error())
}

func (s *Stats) record(o Outcome) {
	switch o {
	case Inserted:
		s.Migrated++
	case Updated:
		s.Updated++
	default:
		s.Skipped++
	}
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Log prints the run summary.
func (s *Stats) Log() {
	logger.Infof("%s summary: migrated=%d updated=%d skipped=%d errors=%d total=%d duration=%s",
		s.Entity, s.Migrated, s.Updated, s.Skipped, s.Errors, s.Total, s.Duration().Round(time.Millisecond))

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.Infof("%s summary: %s=%d", s.Entity, k, s.Extra[k])
	}
	if len(s.Warnings) > 0 {
		logger.Warnf("%s summary: %d mapping warnings", s.Entity, len(s.Warnings))
	}
}
