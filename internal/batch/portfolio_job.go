package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
)

type PortfolioStatsSource interface {
	GetPortfolioStats(ctx context.Context) (*loan.PortfolioStats, error)
}

// PortfolioSnapshotJob refreshes the portfolio gauges from the database.
type PortfolioSnapshotJob struct {
	source PortfolioStatsSource
	logger *slog.Logger
	now    func() time.Time
}

func NewPortfolioSnapshotJob(source PortfolioStatsSource, logger *slog.Logger) *PortfolioSnapshotJob {
	if source == nil || logger == nil {
		panic("PortfolioSnapshotJob dependencies cannot be nil")
	}
	return &PortfolioSnapshotJob{
		source: source,
		logger: logger.With("job", "PortfolioSnapshot"),
		now:    time.Now,
	}
}

func (j *PortfolioSnapshotJob) Run(ctx context.Context) error {
	startTime := j.now()
	j.logger.InfoContext(ctx, "Starting portfolio snapshot job.")

	stats, err := j.source.GetPortfolioStats(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to load portfolio stats, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to load portfolio stats: %w", err)
	}

	principal := stats.ActivePrincipal.InexactFloat64()
	monitoring.RecordPortfolioSnapshot(stats.Customers, stats.ActiveLoans, stats.LateLoans, principal, startTime)

	j.logger.InfoContext(ctx, "Portfolio snapshot job finished.",
		slog.Int64("customers", stats.Customers),
		slog.Int64("active_loans", stats.ActiveLoans),
		slog.Int64("late_loans", stats.LateLoans),
		slog.String("active_principal", stats.ActivePrincipal.StringFixed(2)),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
