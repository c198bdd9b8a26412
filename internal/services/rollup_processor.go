package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"daytrack/internal/core"
	applog "daytrack/internal/log"
	"daytrack/internal/metrics"
	"daytrack/internal/store"
)

// WeekSummarizer computes the summary of the week containing a date.
type WeekSummarizer interface {
	WeekSummary(ctx context.Context, date core.Date) (core.WeekSnapshot, error)
}

// SnapshotExporter publishes a snapshot to an external sink.
type SnapshotExporter interface {
	ExportWeek(ctx context.Context, s core.WeekSnapshot) error
}

// RollupProcessorConfig holds configuration for the rollup processor
type RollupProcessorConfig struct {
	// PollInterval is how often pending weeks and the current week are
	// rolled up (default: 1m)
	PollInterval time.Duration
}

// DefaultRollupProcessorConfig returns sensible defaults
func DefaultRollupProcessorConfig() RollupProcessorConfig {
	return RollupProcessorConfig{PollInterval: time.Minute}
}

// RollupProcessor keeps WeekSnapshots up to date. Changed dates arrive via
// Enqueue (or Process directly); the poll loop flushes them and also
// refreshes the current week so snapshots exist without a broker.
type RollupProcessor struct {
	summarizer WeekSummarizer
	snapshots  store.SnapshotStore
	exporter   SnapshotExporter
	today      Today
	config     RollupProcessorConfig
	logger     *applog.Logger

	pendingMu sync.Mutex
	pending   map[string]core.Date

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewRollupProcessor creates a rollup processor. exporter may be nil.
func NewRollupProcessor(
	summarizer WeekSummarizer,
	snapshots store.SnapshotStore,
	exporter SnapshotExporter,
	today Today,
	config RollupProcessorConfig,
	logger *applog.Logger,
) *RollupProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultRollupProcessorConfig().PollInterval
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RollupProcessor{
		summarizer: summarizer,
		snapshots:  snapshots,
		exporter:   exporter,
		today:      today,
		config:     config,
		logger:     logger.WithComponent(applog.ComponentRollup),
		pending:    make(map[string]core.Date),
	}
}

// Process recomputes and stores the snapshot for the week containing date.
// An export failure is returned after the snapshot has been stored.
func (p *RollupProcessor) Process(ctx context.Context, date core.Date) (snap core.WeekSnapshot, err error) {
	defer func() { metrics.RecordRollup(err, time.Now()) }()

	snap, err = p.summarizer.WeekSummary(ctx, date)
	if err != nil {
		return core.WeekSnapshot{}, fmt.Errorf("summarize week of %s: %w", date, err)
	}
	if err = p.snapshots.UpsertSnapshot(ctx, snap); err != nil {
		return core.WeekSnapshot{}, fmt.Errorf("store snapshot: %w", err)
	}

	p.logger.InfoContext(ctx, "Week rolled up",
		applog.FieldWeekStart, snap.WeekStart.String(),
		applog.FieldMinutes, snap.TotalMinutes,
		applog.FieldOperation, applog.OpRollup)

	if p.exporter != nil {
		if err = p.exporter.ExportWeek(ctx, snap); err != nil {
			return snap, fmt.Errorf("export snapshot: %w", err)
		}
	}
	return snap, nil
}

// HandleDayChanged rolls up the week of a changed date right away. It fails
// only when no snapshot could be stored, so a broker redelivers the event; an
// export failure is logged instead.
func (p *RollupProcessor) HandleDayChanged(ctx context.Context, date core.Date) error {
	snap, err := p.Process(ctx, date)
	if err == nil {
		return nil
	}
	if snap.WeekStart.IsZero() {
		return err
	}
	p.logger.WarnContext(ctx, "Snapshot stored but not exported",
		applog.NewFields().WithDate(date.String()).WithOperation(applog.OpExport).
			WithError(err, applog.ErrorTypeNetwork).ToSlice()...)
	return nil
}

// Enqueue marks the week containing date for the next poll cycle. Several
// dates of the same week collapse into one rollup.
func (p *RollupProcessor) Enqueue(date core.Date) {
	start := core.StartOfWeek(date)
	p.pendingMu.Lock()
	p.pending[start.String()] = start
	p.pendingMu.Unlock()
}

// Pending returns the week starts waiting for rollup, oldest first.
func (p *RollupProcessor) Pending() []core.Date {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	out := make([]core.Date, 0, len(p.pending))
	for _, d := range p.pending {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j].Time) })
	return out
}

// Start begins the processing loop. Returns an error if already running.
func (p *RollupProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("rollup processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	p.logger.InfoContext(ctx, "Rollup processor started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *RollupProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		p.logger.InfoContext(ctx, "Rollup processor stopped gracefully")
	case <-ctx.Done():
		p.logger.WarnContext(ctx, "Rollup processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

// IsRunning returns whether the processor is currently running
func (p *RollupProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *RollupProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.flush(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.flush(ctx)
		}
	}
}

// flush rolls up every pending week plus the current one. Weeks whose
// snapshot could not be stored stay pending for the next cycle.
func (p *RollupProcessor) flush(ctx context.Context) {
	if p.today != nil {
		p.Enqueue(p.today())
	}
	for _, week := range p.Pending() {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		snap, err := p.Process(ctx, week)
		if err != nil {
			p.logger.ErrorContext(ctx, "Rollup failed",
				applog.NewFields().WithDate(week.String()).WithOperation(applog.OpRollup).
					WithError(err, applog.ErrorTypeDatabase).ToSlice()...)
			// A stored snapshot is not retried for a failed export.
			if snap.WeekStart.IsZero() {
				continue
			}
		}
		p.pendingMu.Lock()
		delete(p.pending, week.String())
		p.pendingMu.Unlock()
	}
}
