package notify

import (
	"context"

	"go.uber.org/cadence/activity"
	"go.uber.org/zap"

	"github.com/bitmark-inc/triage-api/background"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

// NotifyAssignedWorkerActivity texts the worker of an alert which is still
// NEW. It returns false without sending when there is nothing to notify.
func (n *NotifyWorker) NotifyAssignedWorkerActivity(ctx context.Context, alertID int64, reminder int) (bool, error) {
	logger := activity.GetLogger(ctx)

	alert, err := n.alerts.Get(ctx, alertID)
	if err == store.ErrAlertNotFound {
		logger.Warn("alert not found", zap.Int64("alertID", alertID))
		return false, nil
	} else if err != nil {
		return false, err
	}

	if alert.Status != schema.AlertNew {
		return false, nil
	}

	messageID, err := n.NotifyWorkerOfAlert(ctx, n.lang, *alert, reminder)
	if err == background.ErrNoWorkerPhone {
		logger.Warn("skip notification", zap.Error(err), zap.Int64("workerID", alert.AssignedWorker.ID))
		return false, nil
	} else if err != nil {
		return false, err
	}

	logger.Info("worker notified",
		zap.Int64("alertID", alertID),
		zap.Int64("workerID", alert.AssignedWorker.ID),
		zap.Int("reminder", reminder),
		zap.String("messageID", messageID))
	return true, nil
}
