package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-support-chatbot-be/pkg/datasource"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeSource struct {
	records []datasource.RawRecord
	err     error
}

func (f *fakeSource) FetchRawRecords(ctx context.Context) ([]datasource.RawRecord, error) {
	return f.records, f.err
}

func (f *fakeSource) AboutText(ctx context.Context) (string, error) {
	return "about", nil
}

func testConfig() Config {
	return Config{
		InitialInterval:   time.Hour,
		MaxInterval:       24 * time.Hour,
		ChecksBeforeScale: 5,
	}
}

func records(ids ...string) []datasource.RawRecord {
	out := make([]datasource.RawRecord, len(ids))
	for i, id := range ids {
		out[i] = datasource.RawRecord{"Product ID": id}
	}
	return out
}

func TestPollOnceRebuildsOnChange(t *testing.T) {
	source := &fakeSource{records: records("a", "b")}
	rebuilds := 0
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		rebuilds++
		return nil
	}, nopLogger{}, testConfig())

	w.PollOnce(context.Background())
	assert.Equal(t, 1, rebuilds)

	// Same records again: no rebuild.
	w.PollOnce(context.Background())
	assert.Equal(t, 1, rebuilds)

	// A field change triggers another rebuild.
	source.records = records("a", "c")
	w.PollOnce(context.Background())
	assert.Equal(t, 2, rebuilds)
}

func TestPollOnceScalesIntervalAfterUnchangedChecks(t *testing.T) {
	source := &fakeSource{records: records("a")}
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		return nil
	}, nopLogger{}, testConfig())
	w.Prime(source.records)

	for i := 0; i < 4; i++ {
		w.PollOnce(context.Background())
		assert.Equal(t, time.Hour, w.State().Interval, "interval must not scale before the fifth check")
	}

	w.PollOnce(context.Background())
	assert.Equal(t, 2*time.Hour, w.State().Interval)
	assert.Equal(t, 0, w.State().UnchangedChecks)
}

func TestPollOnceIntervalCapsAtMax(t *testing.T) {
	source := &fakeSource{records: records("a")}
	cfg := Config{
		InitialInterval:   time.Hour,
		MaxInterval:       3 * time.Hour,
		ChecksBeforeScale: 1,
	}
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		return nil
	}, nopLogger{}, cfg)
	w.Prime(source.records)

	w.PollOnce(context.Background())
	assert.Equal(t, 2*time.Hour, w.State().Interval)

	w.PollOnce(context.Background())
	assert.Equal(t, 3*time.Hour, w.State().Interval)

	w.PollOnce(context.Background())
	assert.Equal(t, 3*time.Hour, w.State().Interval)
}

func TestPollOnceChangeResetsCounterButNotInterval(t *testing.T) {
	source := &fakeSource{records: records("a")}
	cfg := Config{
		InitialInterval:   time.Hour,
		MaxInterval:       24 * time.Hour,
		ChecksBeforeScale: 1,
	}
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		return nil
	}, nopLogger{}, cfg)
	w.Prime(source.records)

	w.PollOnce(context.Background())
	require.Equal(t, 2*time.Hour, w.State().Interval)

	// A change rebuilds but keeps the scaled interval.
	source.records = records("b")
	w.PollOnce(context.Background())
	assert.Equal(t, 2*time.Hour, w.State().Interval)
	assert.Equal(t, 0, w.State().UnchangedChecks)
}

func TestPollOnceFetchErrorKeepsState(t *testing.T) {
	source := &fakeSource{records: records("a")}
	rebuilds := 0
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		rebuilds++
		return nil
	}, nopLogger{}, testConfig())
	w.Prime(source.records)

	source.err = errors.New("catalog unreachable")
	w.PollOnce(context.Background())
	assert.Equal(t, 0, rebuilds)
	assert.Equal(t, "catalog unreachable", w.State().LastError)
	assert.Equal(t, time.Hour, w.State().Interval)

	// Recovery: same data, no rebuild, error cleared.
	source.err = nil
	w.PollOnce(context.Background())
	assert.Equal(t, 0, rebuilds)
	assert.Empty(t, w.State().LastError)
}

func TestPollOnceRebuildFailureRetriesNextPoll(t *testing.T) {
	source := &fakeSource{records: records("a")}
	var rebuildErr error
	rebuilds := 0
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		rebuilds++
		return rebuildErr
	}, nopLogger{}, testConfig())

	rebuildErr = errors.New("embedding service down")
	w.PollOnce(context.Background())
	assert.Equal(t, 1, rebuilds)
	assert.NotEmpty(t, w.State().LastError)

	// The snapshot was not recorded, so the same data rebuilds again.
	rebuildErr = nil
	w.PollOnce(context.Background())
	assert.Equal(t, 2, rebuilds)
	assert.Empty(t, w.State().LastError)
}

func TestPrimeSuppressesInitialRebuild(t *testing.T) {
	source := &fakeSource{records: records("a", "b")}
	rebuilds := 0
	w := New(source, func(ctx context.Context, recs []datasource.RawRecord) error {
		rebuilds++
		return nil
	}, nopLogger{}, testConfig())

	w.Prime(source.records)
	w.PollOnce(context.Background())
	assert.Equal(t, 0, rebuilds)
}
