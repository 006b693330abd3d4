package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/cadence/testsuite"
	"go.uber.org/cadence/worker"
	"go.uber.org/zap"

	"github.com/bitmark-inc/triage-api/external/cadence"
)

type NotifyWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env    *testsuite.TestWorkflowEnvironment
	worker *NotifyWorker
}

func (ts *NotifyWorkflowTestSuite) SetupSuite() {
	ts.SetLogger(zap.NewNop())
	ts.worker = notifyWorker
}

func (ts *NotifyWorkflowTestSuite) SetupTest() {
	ts.env = ts.NewTestWorkflowEnvironment()
	ts.env.SetWorkerOptions(worker.Options{
		DataConverter: cadence.NewMsgPackDataConverter(),
	})
}

func (ts *NotifyWorkflowTestSuite) TestStopsOnceAlertIsContacted() {
	reminders := make([]int, 0)
	ts.env.OnActivity(ts.worker.NotifyAssignedWorkerActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, alertID int64, reminder int) (bool, error) {
			ts.Equal(int64(7), alertID)
			reminders = append(reminders, reminder)
			return reminder < 1, nil
		})

	ts.env.ExecuteWorkflow(ts.worker.AlertNotificationWorkflow, int64(7))

	ts.True(ts.env.IsWorkflowCompleted())
	ts.NoError(ts.env.GetWorkflowError())
	ts.Equal([]int{0, 1}, reminders)
}

func (ts *NotifyWorkflowTestSuite) TestRemindersAreBounded() {
	reminders := make([]int, 0)
	ts.env.OnActivity(ts.worker.NotifyAssignedWorkerActivity, mock.Anything, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, alertID int64, reminder int) (bool, error) {
			reminders = append(reminders, reminder)
			return true, nil
		})

	ts.env.ExecuteWorkflow(ts.worker.AlertNotificationWorkflow, int64(7))

	ts.True(ts.env.IsWorkflowCompleted())
	ts.NoError(ts.env.GetWorkflowError())
	ts.Equal([]int{0, 1, 2, 3}, reminders)
}

func (ts *NotifyWorkflowTestSuite) TestNothingToNotify() {
	ts.env.OnActivity(ts.worker.NotifyAssignedWorkerActivity, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil).Once()

	ts.env.ExecuteWorkflow(ts.worker.AlertNotificationWorkflow, int64(7))

	ts.True(ts.env.IsWorkflowCompleted())
	ts.NoError(ts.env.GetWorkflowError())
	ts.env.AssertExpectations(ts.T())
}

func (ts *NotifyWorkflowTestSuite) TestActivityFailure() {
	ts.env.OnActivity(ts.worker.NotifyAssignedWorkerActivity, mock.Anything, mock.Anything, mock.Anything).
		Return(false, fmt.Errorf("gateway down"))

	ts.env.ExecuteWorkflow(ts.worker.AlertNotificationWorkflow, int64(7))

	ts.True(ts.env.IsWorkflowCompleted())
	ts.Error(ts.env.GetWorkflowError())
}

func TestNotifyWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(NotifyWorkflowTestSuite))
}
