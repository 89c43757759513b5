package etl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingClock runs on dilated wall time and records every wait.
type recordingClock struct {
	clock.Clock
	mu    sync.Mutex
	waits []time.Duration
}

func newRecordingClock() *recordingClock {
	return &recordingClock{Clock: testclock.NewDilatedWallClock(time.Millisecond)}
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	return c.Clock.After(d)
}

func (c *recordingClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type testRecord struct {
	Name   string `validate:"required"`
	Fail   bool
	Panic  bool
	Exists bool
}

type testMigrator struct {
	seen   []string
	cancel context.CancelFunc
	stopAt string
}

func (m *testMigrator) Entity() string                { return "things" }
func (m *testMigrator) Describe(r *testRecord) string { return r.Name }

func (m *testMigrator) Migrate(_ context.Context, r *testRecord, stats *Stats) (Outcome, error) {
	m.seen = append(m.seen, r.Name)
	if m.cancel != nil && r.Name == m.stopAt {
		m.cancel()
	}
	switch {
	case r.Panic:
		panic("boom")
	case r.Fail:
		return Skipped, errors.New("write failed")
	case r.Exists:
		return Updated, nil
	}
	stats.Add("children", 2)
	return Inserted, nil
}

func TestPipelineCountsOutcomes(t *testing.T) {
	records := []testRecord{
		{Name: "a"},
		{Name: "b", Exists: true},
		{Name: "c", Fail: true},
		{Name: "d", Panic: true},
		{Name: ""},
		{Name: "f"},
	}
	m := &testMigrator{}
	p := NewPipeline[testRecord](4, 0, testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	stats := p.Run(context.Background(), records, m)

	assert.Equal(t, "things", stats.Entity)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Migrated)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 3, stats.Errors)
	assert.Equal(t, 4, stats.Extra["children"])
	// the invalid record never reaches the migrator
	assert.Equal(t, []string{"a", "b", "c", "d", "f"}, m.seen)
}

func TestPipelineWaitsBetweenRecordsOnly(t *testing.T) {
	clk := newRecordingClock()
	records := []testRecord{{Name: "a"}, {Name: "b", Fail: true}, {Name: "c"}, {Name: "d"}, {Name: "e"}}
	p := NewPipeline[testRecord](2, 2*time.Second, clk)

	stats := p.Run(context.Background(), records, &testMigrator{})

	assert.Equal(t, 4, stats.Migrated)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, clk.Waits())
}

func TestPipelineEmptyInput(t *testing.T) {
	clk := newRecordingClock()
	p := NewPipeline[testRecord](10, time.Second, clk)

	stats := p.Run(context.Background(), nil, &testMigrator{})

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Migrated)
	assert.Empty(t, clk.Waits())
}

func TestPipelineStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := &testMigrator{cancel: cancel, stopAt: "b"}
	records := []testRecord{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	p := NewPipeline[testRecord](10, time.Second, newRecordingClock())

	stats := p.Run(ctx, records, m)

	require.NotNil(t, stats)
	assert.Equal(t, []string{"a", "b"}, m.seen)
	assert.Equal(t, 2, stats.Migrated)
	assert.Equal(t, 3, stats.Total)
	assert.False(t, stats.Finished.IsZero())
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline[testRecord](0, 0, nil)
	assert.Equal(t, 100, p.BatchSize)
	assert.Equal(t, clock.WallClock, p.Clock)
	assert.NotNil(t, p.Validator)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "inserted", Inserted.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "skipped", Skipped.String())
}
