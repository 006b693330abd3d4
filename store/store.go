package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/triage-api/schema"
)

var (
	ErrAlertNotFound     = fmt.Errorf("alert not found")
	ErrInvalidTransition = fmt.Errorf("alert status can not move in that direction")
	ErrAlertResolved     = fmt.Errorf("alert is already resolved")
	ErrInvalidResolution = fmt.Errorf("resolution is not one of the accepted outcomes")

	ErrWorkerNotFound = fmt.Errorf("worker not found")
	ErrEmailTaken     = fmt.Errorf("email is already registered")
)

var now = time.Now

// AlertStore keeps the alerts created by high risk submissions
type AlertStore interface {
	Create(ctx context.Context, alert schema.NewAlert) (*schema.Alert, error)
	Get(ctx context.Context, id int64) (*schema.Alert, error)
	ListForWorker(ctx context.Context, workerID int64) ([]schema.Alert, error)
	UpdateStatus(ctx context.Context, id int64, status schema.AlertStatus) (*schema.Alert, error)
	Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error)
}

//go:generate mockgen -destination=mocks/store.go -package=mocks github.com/bitmark-inc/triage-api/store AlertStore,WorkerStore

// WorkerStore keeps worker accounts
type WorkerStore interface {
	CreateWorker(ctx context.Context, account *schema.WorkerAccount) error
	GetWorker(ctx context.Context, id int64) (*schema.WorkerAccount, error)
	GetWorkerByEmail(ctx context.Context, email string) (*schema.WorkerAccount, error)
	ListWorkers(ctx context.Context) ([]schema.Worker, error)
}

// Closer - close db connection
type Closer interface {
	Close()
}

// Pinger - ping database
type Pinger interface {
	Ping() error
}

// checkStatusUpdate validates a status update request against the current status
func checkStatusUpdate(current, next schema.AlertStatus) error {
	if current == schema.AlertResolved {
		return ErrAlertResolved
	}
	// only contacting is reachable through a status update, resolving needs an outcome
	if next != schema.AlertContacting || !current.CanMoveTo(next) {
		return ErrInvalidTransition
	}
	return nil
}

// checkResolve validates a resolve request against the current status
func checkResolve(current schema.AlertStatus, resolution schema.Resolution) error {
	if !resolution.Valid() {
		return ErrInvalidResolution
	}
	switch current {
	case schema.AlertResolved:
		return ErrAlertResolved
	case schema.AlertContacting:
		return nil
	default:
		return ErrInvalidTransition
	}
}
