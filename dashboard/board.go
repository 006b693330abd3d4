package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/triage-api/schema"
)

const DefaultPollInterval = 30 * time.Second

var log = logrus.WithField("prefix", "dashboard")

var (
	ErrInvalidFilter = fmt.Errorf("unknown status filter")
	// ErrRefreshFailed means an action went through but the list could not
	// be reloaded afterwards
	ErrRefreshFailed = fmt.Errorf("alert list refresh failed")
)

// AlertSource is where a worker's alerts come from and where their actions go
type AlertSource interface {
	ListAlerts(ctx context.Context) ([]schema.Alert, error)
	Contact(ctx context.Context, id int64) (*schema.Alert, error)
	Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error)
}

// View is what the dashboard shows at one point in time
type View struct {
	Alerts      []schema.Alert      `json:"alerts"`
	Counts      schema.AlertCounts  `json:"counts"`
	Filter      schema.StatusFilter `json:"filter"`
	Err         error               `json:"-"`
	RefreshedAt time.Time           `json:"refreshed_at"`
}

// Board keeps the last known list of alerts of a worker. A failed refresh
// leaves the list untouched and only records the error.
type Board struct {
	sync.RWMutex

	source   AlertSource
	interval time.Duration

	alerts      []schema.Alert
	filter      schema.StatusFilter
	err         error
	refreshedAt time.Time
}

func NewBoard(source AlertSource, interval time.Duration) *Board {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Board{
		source:   source,
		interval: interval,
		filter:   schema.StatusFilter(schema.AlertNew),
	}
}

// Run refreshes the board right away and then on every poll interval until
// the context is done. onRefresh, when given, receives the view after each poll.
func (b *Board) Run(ctx context.Context, onRefresh func(View)) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		b.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}
		if onRefresh != nil {
			onRefresh(b.View())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refresh fetches the alerts from the source
func (b *Board) Refresh(ctx context.Context) error {
	alerts, err := b.source.ListAlerts(ctx)

	b.Lock()
	defer b.Unlock()

	if err != nil {
		log.WithError(err).Warn("fail to refresh alerts, keep the last known list")
		b.err = err
		return err
	}

	b.alerts = alerts
	b.err = nil
	b.refreshedAt = time.Now()
	return nil
}

func (b *Board) SetFilter(f schema.StatusFilter) error {
	if !f.Valid() {
		return ErrInvalidFilter
	}
	b.Lock()
	b.filter = f
	b.Unlock()
	return nil
}

func (b *Board) Filter() schema.StatusFilter {
	b.RLock()
	defer b.RUnlock()
	return b.filter
}

// Alerts returns the alerts matching the current filter
func (b *Board) Alerts() []schema.Alert {
	b.RLock()
	defer b.RUnlock()
	return b.filtered()
}

func (b *Board) filtered() []schema.Alert {
	alerts := make([]schema.Alert, 0, len(b.alerts))
	for _, a := range b.alerts {
		if b.filter.Match(a) {
			alerts = append(alerts, a.Clone())
		}
	}
	return alerts
}

// Counts is computed over all alerts regardless of the filter
func (b *Board) Counts() schema.AlertCounts {
	b.RLock()
	defer b.RUnlock()
	return schema.CountAlerts(b.alerts)
}

// Err is the error of the last refresh, nil when it succeeded
func (b *Board) Err() error {
	b.RLock()
	defer b.RUnlock()
	return b.err
}

func (b *Board) View() View {
	b.RLock()
	defer b.RUnlock()
	return View{
		Alerts:      b.filtered(),
		Counts:      schema.CountAlerts(b.alerts),
		Filter:      b.filter,
		Err:         b.err,
		RefreshedAt: b.refreshedAt,
	}
}

// Contact marks an alert as being followed up and refreshes the board.
// An error wrapping ErrRefreshFailed means the alert was updated anyway.
func (b *Board) Contact(ctx context.Context, id int64) error {
	if _, err := b.source.Contact(ctx, id); err != nil {
		return err
	}
	return b.refreshAfterAction(ctx)
}

// Resolve closes an alert with an outcome and refreshes the board.
// An error wrapping ErrRefreshFailed means the alert was resolved anyway.
func (b *Board) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) error {
	if _, err := b.source.Resolve(ctx, id, resolution, notes); err != nil {
		return err
	}
	return b.refreshAfterAction(ctx)
}

func (b *Board) refreshAfterAction(ctx context.Context) error {
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrRefreshFailed, err)
	}
	return nil
}
