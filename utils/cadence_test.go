package utils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	cadenceClient "go.uber.org/cadence/client"
	"go.uber.org/cadence/workflow"

	"github.com/bitmark-inc/triage-api/schema"
)

type mockStarter struct {
	mock.Mock
}

func (m *mockStarter) StartWorkflow(ctx context.Context, options cadenceClient.StartWorkflowOptions, wf interface{}, args ...interface{}) (*workflow.Execution, error) {
	called := m.Called(ctx, options, wf, args)
	execution, _ := called.Get(0).(*workflow.Execution)
	return execution, called.Error(1)
}

func TestAlertDispatcher(t *testing.T) {
	starter := new(mockStarter)
	ctx := context.Background()

	starter.On("StartWorkflow", ctx, mock.MatchedBy(func(o cadenceClient.StartWorkflowOptions) bool {
		return o.ID == "alert-notification-7" &&
			o.TaskList == NotifyTaskListName &&
			o.ExecutionStartToCloseTimeout == time.Hour &&
			o.WorkflowIDReusePolicy == cadenceClient.WorkflowIDReusePolicyRejectDuplicate
	}), AlertNotificationWorkflowName, []interface{}{int64(7)}).
		Return(&workflow.Execution{ID: "alert-notification-7", RunID: "run"}, nil).Once()

	d := NewAlertDispatcher(starter, time.Hour)
	assert.NoError(t, d.Dispatch(ctx, schema.Alert{ID: 7}))
	starter.AssertExpectations(t)
}

func TestAlertDispatcherError(t *testing.T) {
	starter := new(mockStarter)
	starter.On("StartWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("cadence unavailable")).Once()

	d := NewAlertDispatcher(starter, 0)
	assert.Equal(t, 24*time.Hour, d.timeout)
	assert.EqualError(t, d.Dispatch(context.Background(), schema.Alert{ID: 1}), "cadence unavailable")
}
