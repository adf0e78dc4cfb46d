package pollstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/models"
)

// DefaultInterval matches the refresh cadence the web client uses.
const DefaultInterval = 3 * time.Second

// Poller periodically refetches the planner document and hands each
// successful fetch to the callback. Failed fetches are swallowed; the
// client's offline flag is the only signal.
type Poller struct {
	client   *Client
	interval time.Duration
	logger   *zap.Logger
	onUpdate func(*models.PlannerDocument)
}

// NewPoller creates a poller. A non-positive interval falls back to
// DefaultInterval.
func NewPoller(client *Client, interval time.Duration, logger *zap.Logger, onUpdate func(*models.PlannerDocument)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		client:   client,
		interval: interval,
		logger:   logger,
		onUpdate: onUpdate,
	}
}

// Run polls until the context is cancelled. It fetches once
// immediately so the caller starts with fresh data.
func (p *Poller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("planner_poller_stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	doc, err := p.client.Fetch(ctx)
	if err != nil {
		return
	}
	p.onUpdate(doc)
}
