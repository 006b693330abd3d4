package dashboard

import (
	"context"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

// StoreSource reads the alerts of one worker straight from an alert store.
// Alerts assigned to someone else are reported as not found.
type StoreSource struct {
	alerts   store.AlertStore
	workerID int64
}

func NewStoreSource(alerts store.AlertStore, workerID int64) *StoreSource {
	return &StoreSource{
		alerts:   alerts,
		workerID: workerID,
	}
}

func (s *StoreSource) ListAlerts(ctx context.Context) ([]schema.Alert, error) {
	return s.alerts.ListForWorker(ctx, s.workerID)
}

func (s *StoreSource) Contact(ctx context.Context, id int64) (*schema.Alert, error) {
	if err := s.checkOwner(ctx, id); err != nil {
		return nil, err
	}
	return s.alerts.UpdateStatus(ctx, id, schema.AlertContacting)
}

func (s *StoreSource) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error) {
	if err := s.checkOwner(ctx, id); err != nil {
		return nil, err
	}
	return s.alerts.Resolve(ctx, id, resolution, notes)
}

func (s *StoreSource) checkOwner(ctx context.Context, id int64) error {
	alert, err := s.alerts.Get(ctx, id)
	if err != nil {
		return err
	}
	if alert.AssignedWorker.ID != s.workerID {
		return store.ErrAlertNotFound
	}
	return nil
}
