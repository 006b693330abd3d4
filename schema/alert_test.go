package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAlertStatusCanMoveTo(t *testing.T) {
	assert.True(t, AlertNew.CanMoveTo(AlertContacting))
	assert.True(t, AlertContacting.CanMoveTo(AlertResolved))

	assert.False(t, AlertNew.CanMoveTo(AlertResolved), "contacting can not be skipped")
	assert.False(t, AlertNew.CanMoveTo(AlertNew))
	assert.False(t, AlertContacting.CanMoveTo(AlertNew))
	assert.False(t, AlertResolved.CanMoveTo(AlertResolved))
	assert.False(t, AlertResolved.CanMoveTo(AlertContacting))
}

func TestCountAlerts(t *testing.T) {
	alerts := []Alert{
		{ID: 1, Status: AlertNew},
		{ID: 2, Status: AlertNew},
		{ID: 3, Status: AlertContacting},
		{ID: 4, Status: AlertResolved},
	}

	counts := CountAlerts(alerts)
	assert.Equal(t, 4, counts[FilterAll])
	assert.Equal(t, 2, counts[StatusFilter(AlertNew)])
	assert.Equal(t, 1, counts[StatusFilter(AlertContacting)])
	assert.Equal(t, 1, counts[StatusFilter(AlertResolved)])

	empty := CountAlerts(nil)
	assert.Equal(t, 0, empty[FilterAll])
	assert.Len(t, empty, len(StatusFilters))
}

func TestStatusFilter(t *testing.T) {
	a := Alert{Status: AlertContacting}
	assert.True(t, FilterAll.Match(a))
	assert.True(t, StatusFilter(AlertContacting).Match(a))
	assert.False(t, StatusFilter(AlertNew).Match(a))

	assert.True(t, StatusFilter("ALL").Valid())
	assert.False(t, StatusFilter("OPEN").Valid())
}

func TestAlertClone(t *testing.T) {
	now := time.Now()
	a := Alert{
		ID:              1,
		PatientLocation: GPSLocation(6.5, 3.3),
		ResolvedAt:      &now,
	}
	c := a.Clone()
	*a.PatientLocation.Lat = 0
	*a.ResolvedAt = now.Add(time.Hour)

	assert.Equal(t, 6.5, *c.PatientLocation.Lat)
	assert.True(t, c.ResolvedAt.Equal(now))
}
