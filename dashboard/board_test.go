package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListAlerts(ctx context.Context) ([]schema.Alert, error) {
	args := m.Called(ctx)
	alerts, _ := args.Get(0).([]schema.Alert)
	return alerts, args.Error(1)
}

func (m *mockSource) Contact(ctx context.Context, id int64) (*schema.Alert, error) {
	args := m.Called(ctx, id)
	alert, _ := args.Get(0).(*schema.Alert)
	return alert, args.Error(1)
}

func (m *mockSource) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error) {
	args := m.Called(ctx, id, resolution, notes)
	alert, _ := args.Get(0).(*schema.Alert)
	return alert, args.Error(1)
}

func alertsWithStatus(statuses ...schema.AlertStatus) []schema.Alert {
	alerts := make([]schema.Alert, 0, len(statuses))
	for i, s := range statuses {
		alerts = append(alerts, schema.Alert{
			ID:           int64(len(statuses) - i),
			PatientPhone: "+2348012345678",
			RiskTier:     schema.RiskHigh,
			Status:       s,
		})
	}
	return alerts
}

type BoardTestSuite struct {
	suite.Suite
	source *mockSource
	board  *Board
	ctx    context.Context
}

func (s *BoardTestSuite) SetupTest() {
	s.source = new(mockSource)
	s.board = NewBoard(s.source, time.Minute)
	s.ctx = context.Background()
}

func (s *BoardTestSuite) TearDownTest() {
	s.source.AssertExpectations(s.T())
}

func (s *BoardTestSuite) TestDefaults() {
	s.Equal(DefaultPollInterval, NewBoard(s.source, 0).interval)
	s.Equal(schema.StatusFilter(schema.AlertNew), s.board.Filter())
	s.Empty(s.board.Alerts())
	s.NoError(s.board.Err())
}

func (s *BoardTestSuite) TestFilterAndCounts() {
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(
		schema.AlertNew, schema.AlertNew, schema.AlertContacting, schema.AlertResolved,
	), nil).Once()

	s.NoError(s.board.Refresh(s.ctx))

	counts := s.board.Counts()
	s.Equal(4, counts[schema.FilterAll])
	s.Equal(2, counts[schema.StatusFilter(schema.AlertNew)])
	s.Equal(1, counts[schema.StatusFilter(schema.AlertContacting)])
	s.Equal(1, counts[schema.StatusFilter(schema.AlertResolved)])

	s.Len(s.board.Alerts(), 2)

	s.NoError(s.board.SetFilter(schema.StatusFilter(schema.AlertResolved)))
	resolved := s.board.Alerts()
	s.Len(resolved, 1)
	s.Equal(schema.AlertResolved, resolved[0].Status)
	s.Equal(counts, s.board.Counts())

	s.NoError(s.board.SetFilter(schema.FilterAll))
	s.Len(s.board.Alerts(), 4)

	s.Equal(ErrInvalidFilter, s.board.SetFilter("CLOSED"))
	s.Equal(schema.FilterAll, s.board.Filter())
}

func (s *BoardTestSuite) TestRefreshFailureKeepsLastKnownList() {
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertNew), nil).Once()
	s.source.On("ListAlerts", s.ctx).Return(nil, fmt.Errorf("connection refused")).Once()
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertNew, schema.AlertNew), nil).Once()

	s.NoError(s.board.Refresh(s.ctx))
	s.Len(s.board.Alerts(), 1)

	s.EqualError(s.board.Refresh(s.ctx), "connection refused")
	s.Len(s.board.Alerts(), 1)
	s.EqualError(s.board.View().Err, "connection refused")

	s.NoError(s.board.Refresh(s.ctx))
	s.Len(s.board.Alerts(), 2)
	s.NoError(s.board.Err())
}

func (s *BoardTestSuite) TestAlertsAreCopies() {
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertNew), nil).Once()
	s.NoError(s.board.Refresh(s.ctx))

	alerts := s.board.Alerts()
	alerts[0].Status = schema.AlertResolved
	s.Equal(schema.AlertNew, s.board.Alerts()[0].Status)
}

func (s *BoardTestSuite) TestContactRefreshes() {
	s.source.On("Contact", s.ctx, int64(1)).Return(&schema.Alert{ID: 1, Status: schema.AlertContacting}, nil).Once()
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertContacting), nil).Once()

	s.NoError(s.board.Contact(s.ctx, 1))
	s.Equal(1, s.board.Counts()[schema.StatusFilter(schema.AlertContacting)])
}

func (s *BoardTestSuite) TestResolveRefreshes() {
	s.source.On("Resolve", s.ctx, int64(1), schema.ResolutionAdvisedToMonitor, "stable").
		Return(&schema.Alert{ID: 1, Status: schema.AlertResolved}, nil).Once()
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertResolved), nil).Once()

	s.NoError(s.board.Resolve(s.ctx, 1, schema.ResolutionAdvisedToMonitor, "stable"))
	s.Equal(1, s.board.Counts()[schema.StatusFilter(schema.AlertResolved)])
}

func (s *BoardTestSuite) TestActionDoneButRefreshFailed() {
	s.source.On("ListAlerts", s.ctx).Return(alertsWithStatus(schema.AlertNew), nil).Once()
	s.Require().NoError(s.board.Refresh(s.ctx))

	s.source.On("Contact", s.ctx, int64(1)).Return(&schema.Alert{ID: 1, Status: schema.AlertContacting}, nil).Once()
	s.source.On("ListAlerts", s.ctx).Return(nil, fmt.Errorf("connection reset")).Once()

	err := s.board.Contact(s.ctx, 1)
	s.True(errors.Is(err, ErrRefreshFailed))
	s.Error(s.board.Err())
	s.Len(s.board.Alerts(), 1)
}

func (s *BoardTestSuite) TestRejectedActionSkipsRefresh() {
	s.source.On("Resolve", s.ctx, int64(1), schema.ResolutionCouldNotReach, "").
		Return(nil, store.ErrInvalidTransition).Once()

	s.Equal(store.ErrInvalidTransition, s.board.Resolve(s.ctx, 1, schema.ResolutionCouldNotReach, ""))
	s.source.AssertNotCalled(s.T(), "ListAlerts", mock.Anything)
}

func (s *BoardTestSuite) TestRunPolls() {
	s.board = NewBoard(s.source, 10*time.Millisecond)
	s.source.On("ListAlerts", mock.Anything).Return(alertsWithStatus(schema.AlertNew), nil)

	ctx, cancel := context.WithCancel(s.ctx)
	var views int32
	done := make(chan struct{})
	go func() {
		s.board.Run(ctx, func(v View) {
			if atomic.AddInt32(&views, 1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cancel()
		s.Fail("board did not stop")
	}
	s.GreaterOrEqual(atomic.LoadInt32(&views), int32(3))
	s.Len(s.board.Alerts(), 1)
}

func TestBoardTestSuite(t *testing.T) {
	suite.Run(t, new(BoardTestSuite))
}
