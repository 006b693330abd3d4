package notify

import (
	"context"
	"fmt"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/cadence/testsuite"
	"go.uber.org/cadence/worker"
	"go.uber.org/zap"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/store/mocks"
)

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, to+": "+body)
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

type NotifyActivityTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env    *testsuite.TestActivityEnvironment
	alerts *store.MemoryAlertStore
	sender *fakeSender
	worker *NotifyWorker
}

func (ts *NotifyActivityTestSuite) SetupSuite() {
	ts.SetLogger(zap.NewNop())
}

func (ts *NotifyActivityTestSuite) SetupTest() {
	ts.env = ts.NewTestActivityEnvironment()
	ts.env.SetWorkerOptions(worker.Options{
		BackgroundActivityContext: context.Background(),
	})

	ts.alerts = store.NewMemoryAlertStore()
	ts.sender = &fakeSender{}
	ts.worker = notifyWorker
	ts.worker.alerts = ts.alerts
	ts.worker.SMS = ts.sender
}

func (ts *NotifyActivityTestSuite) createAlert(phone string) *schema.Alert {
	alert, err := ts.alerts.Create(context.Background(), schema.NewAlert{
		PatientPhone:    "+2348098765432",
		PatientLocation: schema.GPSLocation(6.5244, 3.3792),
		Symptoms:        schema.SymptomReport{MainSymptom: schema.SymptomChestPain},
		AssignedWorker:  schema.Worker{ID: 1, FullName: "Adebayo Akinwunmi", Phone: phone},
	})
	ts.Require().NoError(err)
	return alert
}

func (ts *NotifyActivityTestSuite) notify(alertID int64, reminder int) (bool, error) {
	values, err := ts.env.ExecuteActivity(ts.worker.NotifyAssignedWorkerActivity, alertID, reminder)
	if err != nil {
		return false, err
	}
	var sent bool
	ts.NoError(values.Get(&sent))
	return sent, nil
}

func (ts *NotifyActivityTestSuite) TestNotifyNewAlert() {
	alert := ts.createAlert("+2348012345678")

	sent, err := ts.notify(alert.ID, 0)
	ts.NoError(err)
	ts.True(sent)
	ts.Len(ts.sender.sent, 1)
	ts.Contains(ts.sender.sent[0], "+2348012345678: New HIGH risk alert #1")
	ts.Contains(ts.sender.sent[0], "https://maps.google.com/?q=6.5244,3.3792")
}

func (ts *NotifyActivityTestSuite) TestSkipContactedAlert() {
	alert := ts.createAlert("+2348012345678")
	_, err := ts.alerts.UpdateStatus(context.Background(), alert.ID, schema.AlertContacting)
	ts.NoError(err)

	sent, err := ts.notify(alert.ID, 1)
	ts.NoError(err)
	ts.False(sent)
	ts.Empty(ts.sender.sent)
}

func (ts *NotifyActivityTestSuite) TestSkipUnknownAlertAndMissingPhone() {
	sent, err := ts.notify(404, 0)
	ts.NoError(err)
	ts.False(sent)

	alert := ts.createAlert("")
	sent, err = ts.notify(alert.ID, 0)
	ts.NoError(err)
	ts.False(sent)
	ts.Empty(ts.sender.sent)
}

func (ts *NotifyActivityTestSuite) TestGatewayFailure() {
	alert := ts.createAlert("+2348012345678")
	ts.sender.err = fmt.Errorf("gateway down")

	_, err := ts.notify(alert.ID, 0)
	ts.Error(err)
}

func (ts *NotifyActivityTestSuite) TestStoreFailure() {
	ctrl := gomock.NewController(ts.T())
	defer ctrl.Finish()

	alerts := mocks.NewMockAlertStore(ctrl)
	alerts.EXPECT().Get(gomock.Any(), int64(3)).Return(nil, fmt.Errorf("mongo timeout")).Times(1)
	ts.worker.alerts = alerts

	_, err := ts.notify(3, 0)
	ts.Error(err)
	ts.Empty(ts.sender.sent)
}

func TestNotifyActivityTestSuite(t *testing.T) {
	suite.Run(t, new(NotifyActivityTestSuite))
}
