package notify

import (
	"github.com/uber-go/tally"
	"go.uber.org/cadence/.gen/go/cadence/workflowserviceclient"
	"go.uber.org/cadence/activity"
	"go.uber.org/cadence/worker"
	"go.uber.org/cadence/workflow"
	"go.uber.org/zap"

	"github.com/bitmark-inc/triage-api/background"
	"github.com/bitmark-inc/triage-api/external/cadence"
	"github.com/bitmark-inc/triage-api/external/sms"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/utils"
)

const TaskListName = utils.NotifyTaskListName

// NotifyWorker tells workers about the alerts assigned to them
type NotifyWorker struct {
	background.Background
	domain string
	lang   string
	alerts store.AlertStore
}

func NewNotifyWorker(domain, lang string, sender sms.Sender, alerts store.AlertStore) *NotifyWorker {
	return &NotifyWorker{
		Background: background.Background{SMS: sender},
		domain:     domain,
		lang:       lang,
		alerts:     alerts,
	}
}

func (n *NotifyWorker) Register() {
	workflow.RegisterWithOptions(n.AlertNotificationWorkflow, workflow.RegisterOptions{Name: utils.AlertNotificationWorkflowName})

	activity.RegisterWithOptions(n.NotifyAssignedWorkerActivity, activity.RegisterOptions{Name: "NotifyAssignedWorkerActivity"})
}

// Start polls the task list in the background until the returned worker is stopped
func (n *NotifyWorker) Start(service workflowserviceclient.Interface, logger *zap.Logger) (worker.Worker, error) {
	workerOptions := worker.Options{
		Logger:        logger,
		MetricsScope:  tally.NewTestScope(TaskListName, map[string]string{}),
		DataConverter: cadence.NewMsgPackDataConverter(),
	}

	w := worker.New(
		service,
		n.domain,
		TaskListName,
		workerOptions)

	if err := w.Start(); err != nil {
		return nil, err
	}

	logger.Info("Started Worker.", zap.String("worker", TaskListName))
	return w, nil
}
