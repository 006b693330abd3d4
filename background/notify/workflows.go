package notify

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/cadence"
	"go.uber.org/cadence/workflow"
	"go.uber.org/zap"
)

const (
	ReminderInterval = 15 * time.Minute
	MaxReminders     = 3
)

var activityOptions = workflow.ActivityOptions{
	ScheduleToStartTimeout: time.Minute,
	StartToCloseTimeout:    time.Minute,
	RetryPolicy: &cadence.RetryPolicy{
		InitialInterval:    5 * time.Second,
		BackoffCoefficient: 2,
		MaximumInterval:    time.Minute,
		MaximumAttempts:    5,
	},
}

// AlertNotificationWorkflow texts the assigned worker about a new alert and
// reminds them every ReminderInterval while the alert is still NEW, at most
// MaxReminders times.
func (n *NotifyWorker) AlertNotificationWorkflow(ctx workflow.Context, alertID int64) error {
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	logger := workflow.GetLogger(ctx)

	for reminder := 0; reminder <= MaxReminders; reminder++ {
		if reminder > 0 {
			if err := workflow.Sleep(ctx, ReminderInterval); err != nil {
				return err
			}
		}

		var sent bool
		if err := workflow.ExecuteActivity(ctx, n.NotifyAssignedWorkerActivity, alertID, reminder).Get(ctx, &sent); err != nil {
			logger.Error("Fail to notify worker", zap.Error(err), zap.Int64("alertID", alertID))
			sentry.CaptureException(err)
			return err
		}

		if !sent {
			logger.Info("Alert no longer waits for contact", zap.Int64("alertID", alertID), zap.Int("reminder", reminder))
			return nil
		}
	}

	logger.Info("Stop reminding worker", zap.Int64("alertID", alertID))
	return nil
}
