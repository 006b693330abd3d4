package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bitmark-inc/triage-api/schema"
)

// MemoryAlertStore is an AlertStore backed by a map. It is safe for
// concurrent use and hands out copies, so callers never share memory with it.
type MemoryAlertStore struct {
	sync.RWMutex
	lastID int64
	alerts map[int64]*schema.Alert
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{
		alerts: make(map[int64]*schema.Alert),
	}
}

func (s *MemoryAlertStore) Create(ctx context.Context, n schema.NewAlert) (*schema.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	s.lastID++
	a := &schema.Alert{
		ID:              s.lastID,
		PatientPhone:    n.PatientPhone,
		PatientLocation: n.PatientLocation.Clone(),
		ResolvedAddress: n.ResolvedAddress,
		Symptoms:        n.Symptoms.Clone(),
		RiskTier:        schema.RiskHigh,
		Status:          schema.AlertNew,
		AssignedWorker:  n.AssignedWorker,
		CreatedAt:       now(),
	}
	s.alerts[a.ID] = a

	c := a.Clone()
	return &c, nil
}

func (s *MemoryAlertStore) Get(ctx context.Context, id int64) (*schema.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.RLock()
	defer s.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	c := a.Clone()
	return &c, nil
}

func (s *MemoryAlertStore) ListForWorker(ctx context.Context, workerID int64) ([]schema.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.RLock()
	alerts := make([]schema.Alert, 0)
	for _, a := range s.alerts {
		if a.AssignedWorker.ID == workerID {
			alerts = append(alerts, a.Clone())
		}
	}
	s.RUnlock()

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].ID > alerts[j].ID
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	return alerts, nil
}

func (s *MemoryAlertStore) UpdateStatus(ctx context.Context, id int64, status schema.AlertStatus) (*schema.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if err := checkStatusUpdate(a.Status, status); err != nil {
		return nil, err
	}
	a.Status = status

	c := a.Clone()
	return &c, nil
}

func (s *MemoryAlertStore) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, ErrAlertNotFound
	}
	if err := checkResolve(a.Status, resolution); err != nil {
		return nil, err
	}

	resolvedAt := now()
	a.Status = schema.AlertResolved
	a.Resolution = resolution
	a.Notes = notes
	a.ResolvedAt = &resolvedAt

	c := a.Clone()
	return &c, nil
}
