package utils

import (
	"context"
	"fmt"
	"time"

	cadenceClient "go.uber.org/cadence/client"
	"go.uber.org/cadence/workflow"

	"github.com/bitmark-inc/triage-api/schema"
)

// FIXME: importing `github.com/bitmark-inc/triage-api/background/notify` here creates an import cycle
const (
	NotifyTaskListName            = "triage-notify-tasks"
	AlertNotificationWorkflowName = "AlertNotificationWorkflow"
)

// WorkflowStarter is satisfied by the cadence client
type WorkflowStarter interface {
	StartWorkflow(ctx context.Context, options cadenceClient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (*workflow.Execution, error)
}

// AlertDispatcher starts a notification workflow for every new alert
type AlertDispatcher struct {
	client  WorkflowStarter
	timeout time.Duration
}

func NewAlertDispatcher(client WorkflowStarter, timeout time.Duration) *AlertDispatcher {
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &AlertDispatcher{
		client:  client,
		timeout: timeout,
	}
}

// AlertWorkflowID is the id of the notification workflow of an alert
func AlertWorkflowID(alertID int64) string {
	return fmt.Sprintf("alert-notification-%d", alertID)
}

// Dispatch triggers the notification workflow of an alert. The workflow id
// is bound to the alert so a repeated dispatch will not notify twice.
func (d *AlertDispatcher) Dispatch(ctx context.Context, alert schema.Alert) error {
	_, err := d.client.StartWorkflow(ctx, cadenceClient.StartWorkflowOptions{
		ID:                           AlertWorkflowID(alert.ID),
		TaskList:                     NotifyTaskListName,
		ExecutionStartToCloseTimeout: d.timeout,
		WorkflowIDReusePolicy:        cadenceClient.WorkflowIDReusePolicyRejectDuplicate,
	}, AlertNotificationWorkflowName, alert.ID)
	return err
}
