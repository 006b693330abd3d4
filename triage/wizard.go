package triage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/triage-api/geo"
	"github.com/bitmark-inc/triage-api/risk"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

var log = logrus.WithField("prefix", "triage")

var now = time.Now

var (
	ErrAlreadySubmitted = fmt.Errorf("assessment is already submitted")
	ErrClosed           = fmt.Errorf("triage session is closed")
)

type Step int

const (
	StepMainSymptom Step = iota
	StepDetails
	StepDuration
	StepContact
	StepLocation
)

const lastStep = StepLocation

var stepNames = map[Step]string{
	StepMainSymptom: "main_symptom",
	StepDetails:     "details",
	StepDuration:    "duration",
	StepContact:     "contact",
	StepLocation:    "location",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// Options tunes the timers of a wizard. A negative advance delay turns auto
// advance off and a zero one advances at once. A zero grace or inactivity
// timeout turns that timer off.
type Options struct {
	AdvanceDelay      time.Duration
	InputAdvanceDelay time.Duration
	LocationGrace     time.Duration
	InactivityTimeout time.Duration
}

var DefaultOptions = Options{
	AdvanceDelay:      300 * time.Millisecond,
	InputAdvanceDelay: 500 * time.Millisecond,
	LocationGrace:     2 * time.Second,
	InactivityTimeout: 60 * time.Second,
}

// Dispatcher is told about every alert right after it is stored
type Dispatcher interface {
	Dispatch(context.Context, schema.Alert) error
}

// Dependencies are the collaborators a wizard submits through. Dispatcher
// and Geocoder are optional.
type Dependencies struct {
	Classifier risk.Classifier
	Alerts     store.AlertStore
	Assigner   Assigner
	Dispatcher Dispatcher
	Geocoder   geo.AddressResolver
}

// Result is the outcome of a submission
type Result struct {
	RiskTier    schema.RiskTier `json:"risk_tier"`
	Emergency   bool            `json:"emergency"`
	Alert       *schema.Alert   `json:"alert,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// State is a copy of everything a client needs to render the wizard
type State struct {
	ID             string               `json:"id"`
	Step           Step                 `json:"step"`
	StepName       string               `json:"step_name"`
	Status         Status               `json:"status"`
	Report         schema.SymptomReport `json:"report"`
	ManualLocation bool                 `json:"manual_location"`
	AutoSubmitting bool                 `json:"auto_submitting"`
	Errors         map[string]string    `json:"errors"`
	PositionError  geo.PositionError    `json:"position_error,omitempty"`
	Result         *Result              `json:"result,omitempty"`
	SubmitError    string               `json:"submit_error,omitempty"`
}

// Update carries the fields a client changes in one interaction. Nil fields
// are left untouched.
type Update struct {
	MainSymptom *schema.Symptom  `json:"main_symptom"`
	IsCrushing  *schema.TriState `json:"is_crushing"`
	DoesRadiate *schema.TriState `json:"does_radiate"`
	IsSweating  *schema.TriState `json:"is_sweating"`
	Duration    *schema.Duration `json:"duration"`
	Phone       *string          `json:"phone"`
	Location    *LocationUpdate  `json:"location"`
}

type LocationUpdate struct {
	State   *string `json:"state"`
	LGA     *string `json:"lga"`
	City    *string `json:"city"`
	Address *string `json:"address"`
}

// Wizard walks one patient through the assessment. All methods are safe for
// concurrent use.
type Wizard struct {
	sync.Mutex

	id   string
	deps Dependencies
	opts Options

	step          Step
	status        Status
	report        schema.SymptomReport
	manual        bool
	errors        map[string]string
	positionError geo.PositionError
	result        *Result
	submitErr     error

	generation uint64
	closed     bool
	lastSeen   time.Time

	timers   map[timerKind]pendingTimer
	timerSeq uint64
	watchdog *Watchdog
}

// NewWizard returns a wizard at the first step with its inactivity watchdog running
func NewWizard(id string, deps Dependencies, opts Options) *Wizard {
	w := &Wizard{
		id:       id,
		deps:     deps,
		opts:     opts,
		step:     StepMainSymptom,
		status:   StatusIdle,
		report:   schema.NewSymptomReport(),
		errors:   make(map[string]string),
		timers:   make(map[timerKind]pendingTimer),
		lastSeen: now(),
	}
	w.watchdog = NewWatchdog(opts.InactivityTimeout, w.onInactive)
	w.watchdog.Start()
	return w
}

func (w *Wizard) ID() string {
	return w.id
}

// State returns a snapshot of the wizard
func (w *Wizard) State() State {
	w.Lock()
	defer w.Unlock()
	return w.state()
}

func (w *Wizard) state() State {
	errors := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		errors[k] = v
	}

	s := State{
		ID:             w.id,
		Step:           w.step,
		StepName:       w.step.String(),
		Status:         w.status,
		Report:         w.report.Clone(),
		ManualLocation: w.manual,
		AutoSubmitting: w.hasTimer(timerGrace),
		Errors:         errors,
		PositionError:  w.positionError,
	}
	if w.result != nil {
		r := *w.result
		if r.Alert != nil {
			a := r.Alert.Clone()
			r.Alert = &a
		}
		s.Result = &r
	}
	if w.submitErr != nil {
		s.SubmitError = w.submitErr.Error()
	}
	return s
}

// Errors returns the field messages recorded by the last failed validation
func (w *Wizard) Errors() map[string]string {
	return w.State().Errors
}

// SubmitError returns the failure of the last submission, if any
func (w *Wizard) SubmitError() error {
	w.Lock()
	defer w.Unlock()
	return w.submitErr
}

// LastSeen is the time of the latest interaction
func (w *Wizard) LastSeen() time.Time {
	w.Lock()
	defer w.Unlock()
	return w.lastSeen
}

// Touch records an interaction and restarts the inactivity countdown
func (w *Wizard) Touch() {
	w.Lock()
	defer w.Unlock()
	w.touch()
}

func (w *Wizard) touch() {
	w.lastSeen = now()
	if w.status == StatusIdle && !w.closed {
		w.watchdog.Touch()
	}
}

// Apply changes the report and schedules the auto advance of the current step
func (w *Wizard) Apply(u Update) (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()

	if verr := w.checkUpdate(u); verr != nil {
		w.recordErrors(verr)
		return w.state(), verr
	}

	if u.MainSymptom != nil {
		w.report.MainSymptom = *u.MainSymptom
		delete(w.errors, FieldMainSymptom)
	}
	if u.IsCrushing != nil {
		w.report.IsCrushing = *u.IsCrushing
	}
	if u.DoesRadiate != nil {
		w.report.DoesRadiate = *u.DoesRadiate
	}
	if u.IsSweating != nil {
		w.report.IsSweating = *u.IsSweating
	}
	if u.IsCrushing != nil || u.DoesRadiate != nil || u.IsSweating != nil {
		delete(w.errors, FieldDetails)
	}
	if u.Duration != nil {
		w.report.Duration = *u.Duration
		delete(w.errors, FieldDuration)
	}
	if u.Phone != nil {
		w.report.Phone = *u.Phone
		delete(w.errors, FieldPhone)
	}
	if u.Location != nil {
		w.applyLocation(*u.Location)
		w.evaluateGrace()
	}

	w.scheduleAdvance(u)

	return w.state(), nil
}

// checkUpdate rejects values no option could produce
func (w *Wizard) checkUpdate(u Update) *ValidationError {
	if u.MainSymptom != nil && *u.MainSymptom != schema.SymptomUnset && !u.MainSymptom.Valid() {
		return newValidationError(StepMainSymptom, FieldMainSymptom, msgMainSymptom)
	}
	if u.Duration != nil && *u.Duration != schema.DurationUnset && !u.Duration.Valid() {
		return newValidationError(StepDuration, FieldDuration, msgDuration)
	}
	if u.Location == nil {
		return nil
	}

	state := w.report.Location.State
	if u.Location.State != nil {
		state = *u.Location.State
		if _, ok := schema.Regions[state]; state != "" && !ok {
			return newValidationError(StepLocation, FieldState, msgState)
		}
	}
	if u.Location.LGA != nil && *u.Location.LGA != "" && !schema.ValidLGA(state, *u.Location.LGA) {
		return newValidationError(StepLocation, FieldLGA, msgLGA)
	}
	return nil
}

func (w *Wizard) applyLocation(l LocationUpdate) {
	loc := &w.report.Location
	if l.State != nil && *l.State != loc.State {
		loc.State = *l.State
		loc.LGA = ""
	}
	if l.LGA != nil {
		loc.LGA = *l.LGA
	}
	if l.City != nil {
		loc.City = *l.City
	}
	if l.Address != nil {
		loc.Address = *l.Address
	}
	delete(w.errors, FieldLocation)
	delete(w.errors, FieldState)
	delete(w.errors, FieldLGA)
}

// SetGPS records a position fix. A fix turns manual entry off.
func (w *Wizard) SetGPS(lat, lng float64) (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()

	w.report.Location.Lat = &lat
	w.report.Location.Lng = &lng
	w.manual = false
	w.positionError = ""
	delete(w.errors, FieldLocation)

	w.evaluateGrace()
	return w.state(), nil
}

// SetPositionError records why the device could not report a position. It
// never blocks manual entry.
func (w *Wizard) SetPositionError(reason geo.PositionError) (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()
	w.positionError = reason
	return w.state(), nil
}

// SetManual shows or hides manual address entry
func (w *Wizard) SetManual(enabled bool) (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()
	w.manual = enabled
	w.evaluateGrace()
	return w.state(), nil
}

// Next validates the current step and moves forward when it passes
func (w *Wizard) Next() (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()

	if verr := w.next(); verr != nil {
		return w.state(), verr
	}
	return w.state(), nil
}

func (w *Wizard) next() *ValidationError {
	if verr := validateStep(w.step, w.report); verr != nil {
		w.recordErrors(verr)
		return verr
	}
	for _, f := range stepFields[w.step] {
		delete(w.errors, f)
	}
	if w.step < lastStep {
		w.moveTo(w.step + 1)
	}
	return nil
}

// Back moves to the previous step, stopping at the first one
func (w *Wizard) Back() (State, error) {
	w.Lock()
	defer w.Unlock()

	if err := w.editable(); err != nil {
		return w.state(), err
	}
	w.touch()

	if w.step > StepMainSymptom {
		w.moveTo(w.step - 1)
	}
	return w.state(), nil
}

func (w *Wizard) moveTo(step Step) {
	w.cancel(timerAdvance)
	w.step = step
	w.evaluateGrace()
}

func (w *Wizard) recordErrors(verr *ValidationError) {
	for f, msg := range verr.Fields {
		w.errors[f] = msg
	}
}

func (w *Wizard) editable() error {
	if w.closed {
		return ErrClosed
	}
	if w.status != StatusIdle {
		return ErrAlreadySubmitted
	}
	return nil
}

// Reset empties the wizard and starts over
func (w *Wizard) Reset() State {
	w.Lock()
	defer w.Unlock()

	w.generation++
	w.cancelAll()

	w.step = StepMainSymptom
	w.status = StatusIdle
	w.report = schema.NewSymptomReport()
	w.manual = false
	w.errors = make(map[string]string)
	w.positionError = ""
	w.result = nil
	w.submitErr = nil
	w.lastSeen = now()

	if !w.closed {
		w.watchdog.Start()
	}
	return w.state()
}

// Close stops every timer. A closed wizard never submits again.
func (w *Wizard) Close() {
	w.Lock()
	defer w.Unlock()

	w.closed = true
	w.generation++
	w.cancelAll()
	w.watchdog.Stop()
}

// hasNontrivialData tells whether an inactive patient left something a
// worker could act on
func (w *Wizard) hasNontrivialData() bool {
	return len(w.report.Phone) > len(schema.PhoneCountryPrefix) || w.report.Location.HasGPS()
}

func (w *Wizard) onInactive() {
	w.Lock()
	if w.closed || w.status != StatusIdle || !w.hasNontrivialData() {
		w.Unlock()
		return
	}
	// the check and the move to submitting share one critical section, so a
	// reset cannot empty the report in between
	report, generation, err := w.beginSubmit(true, true)
	w.Unlock()
	if err != nil {
		return
	}

	log.WithField("session", w.id).Info("inactivity timeout reached, submitting partial assessment")
	if _, err := w.finishSubmit(context.Background(), report, generation, true); err != nil {
		log.WithField("session", w.id).Errorf("inactivity submission failed: %s", err)
	}
}
