// Package worker contains background jobs of the server process.
package worker

import (
	"context"
	"time"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
)

// SessionPruner deletes expired sessions on a fixed interval. Expired rows
// are already invisible to lookups; pruning only reclaims space.
type SessionPruner struct {
	sessions model.SessionStore
	interval time.Duration
	now      func() time.Time
	metrics  metrics.Recorder
	logger   *logger.Logger
}

func NewSessionPruner(sessions model.SessionStore, interval time.Duration, recorder metrics.Recorder, logger *logger.Logger) *SessionPruner {
	return &SessionPruner{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		metrics:  recorder,
		logger:   logger,
	}
}

// Run prunes every interval until ctx ends.
func (p *SessionPruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Prune(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Session pruner: prune failed", "error", err.Error())
			}
		}
	}
}

// Prune deletes sessions expired at the current time and returns how many
// were removed.
func (p *SessionPruner) Prune(ctx context.Context) (int64, error) {
	n, err := p.sessions.DeleteExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}

	p.metrics.RecordSessionsPruned(n)
	if n > 0 {
		p.logger.Info("Session pruner: expired sessions deleted", "count", n)
	}
	return n, nil
}
