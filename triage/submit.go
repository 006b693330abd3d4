package triage

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"

	"github.com/bitmark-inc/triage-api/schema"
)

// Submit sends the report for assessment. Only the first call of a session
// does anything; later calls return ErrAlreadySubmitted. Unless it is an
// emergency the location step must validate first.
//
// A failure of the classifier or the alert store is returned and kept as
// SubmitError, and the wizard still ends submitted. Reset starts over.
func (w *Wizard) Submit(ctx context.Context, emergency bool) (*Result, error) {
	return w.submit(ctx, emergency, false)
}

func (w *Wizard) submit(ctx context.Context, emergency, inactive bool) (*Result, error) {
	w.Lock()
	report, generation, err := w.beginSubmit(emergency, inactive)
	w.Unlock()
	if err != nil {
		return nil, err
	}
	return w.finishSubmit(ctx, report, generation, emergency)
}

// beginSubmit moves an idle wizard to submitting and returns the report to
// assess. The caller holds the lock.
func (w *Wizard) beginSubmit(emergency, inactive bool) (schema.SymptomReport, uint64, error) {
	if w.closed {
		return schema.SymptomReport{}, 0, ErrClosed
	}
	if w.status != StatusIdle {
		return schema.SymptomReport{}, 0, ErrAlreadySubmitted
	}
	if !emergency {
		if verr := validateStep(StepLocation, w.report); verr != nil {
			w.recordErrors(verr)
			return schema.SymptomReport{}, 0, verr
		}
	}

	w.status = StatusSubmitting
	w.cancelAll()
	return w.snapshot(inactive), w.generation, nil
}

func (w *Wizard) finishSubmit(ctx context.Context, report schema.SymptomReport, generation uint64, emergency bool) (*Result, error) {
	log.WithField("session", w.id).WithField("emergency", emergency).Info("submitting assessment")
	result, err := w.process(ctx, report, emergency)

	w.Lock()
	defer w.Unlock()

	// a reset while the submission was in flight has already moved on
	if generation != w.generation {
		return result, err
	}
	w.status = StatusSubmitted
	w.result = result
	w.submitErr = err
	return result, err
}

// snapshot returns the report as submitted. GPS takes precedence over the
// manual address unless manual entry is on.
func (w *Wizard) snapshot(inactive bool) schema.SymptomReport {
	r := w.report.Clone()
	loc := r.Location
	switch {
	case w.manual && !inactive:
		loc.Lat, loc.Lng = nil, nil
		r.Location = loc
	case loc.HasGPS():
		r.Location = schema.GPSLocation(*loc.Lat, *loc.Lng)
	}
	return r
}

func (w *Wizard) process(ctx context.Context, report schema.SymptomReport, emergency bool) (*Result, error) {
	tier, err := w.deps.Classifier.Classify(ctx, report, emergency)
	if err != nil {
		return nil, fmt.Errorf("classify symptoms: %w", err)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("classifier returned unknown tier %q", tier)
	}

	result := &Result{
		RiskTier:    tier,
		Emergency:   emergency,
		SubmittedAt: now(),
	}
	if tier != schema.RiskHigh {
		return result, nil
	}

	worker, err := w.deps.Assigner.Assign(ctx)
	if err != nil {
		return result, fmt.Errorf("assign worker: %w", err)
	}

	n := schema.NewAlert{
		PatientPhone:    report.Phone,
		PatientLocation: report.Location.Clone(),
		Symptoms:        report,
		AssignedWorker:  worker,
	}
	if w.deps.Geocoder != nil && report.Location.HasGPS() && !report.Location.HasManual() {
		if addr, err := w.deps.Geocoder.ResolveAddress(ctx, report.Location); err != nil {
			log.WithField("session", w.id).Warnf("reverse geocoding failed: %s", err)
		} else {
			n.ResolvedAddress = addr
		}
	}

	alert, err := w.deps.Alerts.Create(ctx, n)
	if err != nil {
		return result, fmt.Errorf("create alert: %w", err)
	}
	result.Alert = alert
	log.WithField("session", w.id).Infof("alert %d created for worker %d", alert.ID, worker.ID)

	if w.deps.Dispatcher != nil {
		if err := w.deps.Dispatcher.Dispatch(ctx, *alert); err != nil {
			log.WithField("session", w.id).Errorf("dispatch alert %d: %s", alert.ID, err)
			sentry.CaptureException(err)
		}
	}

	return result, nil
}
