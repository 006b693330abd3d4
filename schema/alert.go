package schema

import "time"

const (
	AlertCollection   = "alerts"
	CounterCollection = "counters"
)

type AlertStatus string

const (
	AlertNew        AlertStatus = "NEW"
	AlertContacting AlertStatus = "CONTACTING"
	AlertResolved   AlertStatus = "RESOLVED"
)

// AlertStatuses is the lifecycle order of an alert
var AlertStatuses = []AlertStatus{AlertNew, AlertContacting, AlertResolved}

func (s AlertStatus) Valid() bool {
	return s == AlertNew || s == AlertContacting || s == AlertResolved
}

// CanMoveTo reports whether next is the single forward step from s
func (s AlertStatus) CanMoveTo(next AlertStatus) bool {
	switch s {
	case AlertNew:
		return next == AlertContacting
	case AlertContacting:
		return next == AlertResolved
	default:
		return false
	}
}

type Resolution string

const (
	ResolutionReferredToClinic         Resolution = "Referred to Clinic"
	ResolutionAdvisedToMonitor         Resolution = "Advised to Monitor"
	ResolutionEmergencyServicesAlerted Resolution = "Emergency Services Alerted"
	ResolutionCouldNotReach            Resolution = "Could Not Reach"
)

var Resolutions = []Resolution{
	ResolutionReferredToClinic,
	ResolutionAdvisedToMonitor,
	ResolutionEmergencyServicesAlerted,
	ResolutionCouldNotReach,
}

func (r Resolution) Valid() bool {
	for _, v := range Resolutions {
		if r == v {
			return true
		}
	}
	return false
}

// StatusFilter selects alerts on the dashboard. FilterAll matches every status.
type StatusFilter string

const FilterAll StatusFilter = "ALL"

var StatusFilters = []StatusFilter{
	FilterAll,
	StatusFilter(AlertNew),
	StatusFilter(AlertContacting),
	StatusFilter(AlertResolved),
}

func (f StatusFilter) Valid() bool {
	return f == FilterAll || AlertStatus(f).Valid()
}

func (f StatusFilter) Match(a Alert) bool {
	return f == FilterAll || AlertStatus(f) == a.Status
}

// Alert is a high risk submission waiting for a worker to follow up
type Alert struct {
	ID              int64         `json:"id" bson:"_id"`
	PatientPhone    string        `json:"patient_phone" bson:"patient_phone"`
	PatientLocation Location      `json:"patient_location" bson:"patient_location"`
	ResolvedAddress string        `json:"resolved_address,omitempty" bson:"resolved_address,omitempty"`
	Symptoms        SymptomReport `json:"symptoms" bson:"symptoms"`
	RiskTier        RiskTier      `json:"risk_tier" bson:"risk_tier"`
	Status          AlertStatus   `json:"status" bson:"status"`
	AssignedWorker  Worker        `json:"assigned_to" bson:"assigned_to"`
	Resolution      Resolution    `json:"resolution,omitempty" bson:"resolution,omitempty"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

// Clone returns a deep copy of the alert
func (a Alert) Clone() Alert {
	c := a
	c.PatientLocation = a.PatientLocation.Clone()
	c.Symptoms = a.Symptoms.Clone()
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		c.ResolvedAt = &t
	}
	return c
}

// NewAlert is the input for creating an alert. ID, status and timestamps are
// assigned by the store.
type NewAlert struct {
	PatientPhone    string
	PatientLocation Location
	ResolvedAddress string
	Symptoms        SymptomReport
	AssignedWorker  Worker
}

// AlertCounts holds the number of alerts per filter
type AlertCounts map[StatusFilter]int

// CountAlerts counts alerts for every dashboard filter
func CountAlerts(alerts []Alert) AlertCounts {
	counts := AlertCounts{}
	for _, f := range StatusFilters {
		counts[f] = 0
	}
	for _, a := range alerts {
		counts[FilterAll]++
		counts[StatusFilter(a.Status)]++
	}
	return counts
}
