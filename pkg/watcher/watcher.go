package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/pkg/datasource"
)

// RebuildFunc is invoked synchronously when the catalog changes. The
// watcher does not schedule the next poll until it returns.
type RebuildFunc func(ctx context.Context, records []datasource.RawRecord) error

type Config struct {
	InitialInterval   time.Duration
	MaxInterval       time.Duration
	ChecksBeforeScale int
}

func DefaultConfig() Config {
	return Config{
		InitialInterval:   time.Hour,
		MaxInterval:       24 * time.Hour,
		ChecksBeforeScale: 5,
	}
}

// State is a read-only snapshot of the watcher for health reporting.
type State struct {
	Interval        time.Duration `json:"interval"`
	UnchangedChecks int           `json:"unchanged_checks"`
	LastCheck       time.Time     `json:"last_check"`
	LastChange      time.Time     `json:"last_change"`
	LastError       string        `json:"last_error,omitempty"`
}

// Watcher polls the catalog source and triggers a rebuild when the
// fetched record set differs from the last seen one. The polling
// interval doubles after ChecksBeforeScale consecutive unchanged checks,
// capped at MaxInterval; a detected change does not shrink it back.
type Watcher struct {
	source  datasource.DataSource
	rebuild RebuildFunc
	log     logger.ILogger
	cfg     Config

	mu        sync.Mutex
	lastHash  string
	unchanged int
	interval  time.Duration
	lastCheck time.Time
	lastSeen  time.Time
	lastErr   string
}

func New(source datasource.DataSource, rebuild RebuildFunc, log logger.ILogger, cfg Config) *Watcher {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultConfig().InitialInterval
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = DefaultConfig().MaxInterval
	}
	if cfg.ChecksBeforeScale <= 0 {
		cfg.ChecksBeforeScale = DefaultConfig().ChecksBeforeScale
	}
	return &Watcher{
		source:   source,
		rebuild:  rebuild,
		log:      log,
		cfg:      cfg,
		interval: cfg.InitialInterval,
	}
}

// Prime records the snapshot that matches an already-built index, so the
// first poll after boot does not trigger a redundant rebuild.
func (w *Watcher) Prime(records []datasource.RawRecord) {
	hash, err := snapshotHash(records)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.lastHash = hash
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		w.mu.Lock()
		wait := w.interval
		w.mu.Unlock()

		select {
		case <-ctx.Done():
			w.log.Info("watcher", "catalog watcher stopped", nil)
			return
		case <-time.After(wait):
		}

		w.PollOnce(ctx)
	}
}

// PollOnce performs a single check-and-maybe-rebuild cycle.
func (w *Watcher) PollOnce(ctx context.Context) {
	records, err := w.source.FetchRawRecords(ctx)

	w.mu.Lock()
	w.lastCheck = time.Now()
	w.mu.Unlock()

	if err != nil {
		w.setError(err)
		w.log.Error("watcher", "catalog fetch failed, keeping current index", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	hash, err := snapshotHash(records)
	if err != nil {
		w.setError(err)
		w.log.Error("watcher", "snapshot hash failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.mu.Lock()
	unchanged := hash == w.lastHash
	w.mu.Unlock()

	if unchanged {
		w.recordUnchanged()
		return
	}

	if err := w.rebuild(ctx, records); err != nil {
		// Old index stays live; the stale snapshot hash makes the
		// next poll retry the rebuild.
		w.setError(err)
		w.log.Error("watcher", "rebuild failed, keeping current index", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.mu.Lock()
	w.lastHash = hash
	w.lastSeen = time.Now()
	w.unchanged = 0
	w.lastErr = ""
	interval := w.interval
	w.mu.Unlock()

	w.log.Info("watcher", "catalog change detected, index rebuilt", map[string]interface{}{
		"records":  len(records),
		"interval": interval.String(),
	})
}

// State reports the current polling state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Interval:        w.interval,
		UnchangedChecks: w.unchanged,
		LastCheck:       w.lastCheck,
		LastChange:      w.lastSeen,
		LastError:       w.lastErr,
	}
}

func (w *Watcher) recordUnchanged() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastErr = ""
	w.unchanged++
	if w.unchanged < w.cfg.ChecksBeforeScale {
		return
	}

	w.unchanged = 0
	next := w.interval * 2
	if next > w.cfg.MaxInterval {
		next = w.cfg.MaxInterval
	}
	if next != w.interval {
		w.log.Info("watcher", "catalog stable, scaling poll interval", map[string]interface{}{
			"interval": next.String(),
		})
	}
	w.interval = next
}

func (w *Watcher) setError(err error) {
	w.mu.Lock()
	w.lastErr = err.Error()
	w.mu.Unlock()
}

// snapshotHash fingerprints the whole record set. encoding/json sorts
// map keys, so equal sets always produce equal hashes.
func snapshotHash(records []datasource.RawRecord) (string, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
