package schedule

import (
	"context"
	"time"

	"github.com/nextwaveweb/salonbook/pkg/logging"
)

// BookingPruner deletes past-dated bookings.
type BookingPruner interface {
	PruneBefore(ctx context.Context, cutoffDate string) (int64, error)
}

// Pruner periodically drops overrides and bookings dated before today. The
// cutoff is read from the wall clock once per run so a run crossing midnight
// stays self-consistent.
type Pruner struct {
	overrides OverrideStore
	bookings  BookingPruner
	interval  time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

// NewPruner creates a maintenance pruner.
func NewPruner(overrides OverrideStore, bookings BookingPruner, interval time.Duration, logger *logging.Logger) *Pruner {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Pruner{
		overrides: overrides,
		bookings:  bookings,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Run blocks, pruning on the configured interval until ctx is cancelled.
func (p *Pruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single prune pass. Today's rows are never touched, so
// the pass cannot race destructively with in-flight bookings for today.
func (p *Pruner) RunOnce(ctx context.Context) {
	cutoff := FormatDate(p.now().UTC())

	if p.overrides != nil {
		n, err := p.overrides.PruneBefore(ctx, cutoff)
		if err != nil {
			p.logger.Error("override prune failed", "error", err, "cutoff", cutoff)
		} else if n > 0 {
			p.logger.Info("pruned past overrides", "count", n, "cutoff", cutoff)
		}
	}

	if p.bookings != nil {
		n, err := p.bookings.PruneBefore(ctx, cutoff)
		if err != nil {
			p.logger.Error("booking prune failed", "error", err, "cutoff", cutoff)
		} else if n > 0 {
			p.logger.Info("pruned past bookings", "count", n, "cutoff", cutoff)
		}
	}
}
