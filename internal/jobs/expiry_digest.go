package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/forgo/roster/internal/model"
	"github.com/forgo/roster/internal/service"
)

// SnapshotSource loads the current data set and the reference date
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context) (*service.Snapshot, error)
	Today() time.Time
}

// ExpiryDigest periodically logs the contracts that end within the next
// three months
type ExpiryDigest struct {
	source     SnapshotSource
	logger     *slog.Logger
	interval   time.Duration
	startDelay time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	running    bool
	mu         sync.Mutex
}

// ExpiryDigestConfig holds the digest job settings
type ExpiryDigestConfig struct {
	Source     SnapshotSource
	Logger     *slog.Logger  // Optional
	Interval   time.Duration // Defaults to 24h
	StartDelay time.Duration // Delay before the first run
}

// NewExpiryDigest creates a new expiry digest job
func NewExpiryDigest(cfg ExpiryDigestConfig) *ExpiryDigest {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ExpiryDigest{
		source:     cfg.Source,
		logger:     cfg.Logger.With(slog.String("job", "expiry_digest")),
		interval:   cfg.Interval,
		startDelay: cfg.StartDelay,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the digest loop
func (d *ExpiryDigest) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.run()
	d.logger.Info("expiry digest started", slog.Duration("interval", d.interval))
}

// Stop gracefully stops the digest loop
func (d *ExpiryDigest) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	d.logger.Info("expiry digest stopped")
}

// IsRunning returns whether the loop is running
func (d *ExpiryDigest) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *ExpiryDigest) run() {
	defer d.wg.Done()

	if d.startDelay > 0 {
		select {
		case <-time.After(d.startDelay):
		case <-d.stopCh:
			return
		}
	}
	d.tick()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.tick()
		case <-d.stopCh:
			return
		}
	}
}

func (d *ExpiryDigest) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := d.RunOnce(ctx); err != nil {
		d.logger.Error("expiry digest failed", slog.String("error", err.Error()))
	}
}

// RunOnce computes and logs one digest. It returns the expiring contracts,
// soonest first.
func (d *ExpiryDigest) RunOnce(ctx context.Context) ([]*model.Contract, error) {
	snap, err := d.source.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	today := d.source.Today()
	expiring := service.ExpiringContracts(snap.Contracts, today, 0)

	d.logger.Info("contracts expiring soon",
		slog.String("reference_date", model.FormatDate(today)),
		slog.Int("count", len(expiring)),
	)
	for _, c := range expiring {
		d.logger.Info("contract expiring",
			slog.String("contract_id", c.ID),
			slog.String("player_id", c.PlayerID),
			slog.String("team_id", c.TeamID),
			slog.String("end_date", model.FormatDate(c.EndDate)),
		)
	}
	return expiring, nil
}
