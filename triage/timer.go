package triage

import (
	"context"
	"time"
)

type timerKind int

const (
	timerAdvance timerKind = iota
	timerGrace
)

type pendingTimer struct {
	timer *time.Timer
	seq   uint64
}

// schedule runs fn after d unless the timer of the same kind is cancelled or
// replaced before. The caller holds the lock; fn runs without it.
func (w *Wizard) schedule(kind timerKind, d time.Duration, fn func()) {
	w.cancel(kind)

	w.timerSeq++
	seq := w.timerSeq
	t := time.AfterFunc(d, func() {
		w.Lock()
		p, ok := w.timers[kind]
		if !ok || p.seq != seq || w.closed {
			w.Unlock()
			return
		}
		delete(w.timers, kind)
		w.Unlock()

		fn()
	})
	w.timers[kind] = pendingTimer{timer: t, seq: seq}
}

func (w *Wizard) cancel(kind timerKind) {
	if p, ok := w.timers[kind]; ok {
		p.timer.Stop()
		delete(w.timers, kind)
	}
}

func (w *Wizard) cancelAll() {
	for kind := range w.timers {
		w.cancel(kind)
	}
	w.watchdog.Stop()
}

func (w *Wizard) hasTimer(kind timerKind) bool {
	_, ok := w.timers[kind]
	return ok
}

// scheduleAdvance moves past the current step once the update completed it
func (w *Wizard) scheduleAdvance(u Update) {
	var (
		delay   time.Duration
		touched bool
	)
	switch w.step {
	case StepMainSymptom:
		delay, touched = w.opts.AdvanceDelay, u.MainSymptom != nil
	case StepDetails:
		delay = w.opts.InputAdvanceDelay
		touched = u.IsCrushing != nil || u.DoesRadiate != nil || u.IsSweating != nil
	case StepDuration:
		delay, touched = w.opts.AdvanceDelay, u.Duration != nil
	case StepContact:
		delay, touched = w.opts.InputAdvanceDelay, u.Phone != nil
	}

	if !touched || delay < 0 {
		return
	}
	if validateStep(w.step, w.report) != nil {
		w.cancel(timerAdvance)
		return
	}

	if delay == 0 {
		w.next()
		return
	}

	from := w.step
	w.schedule(timerAdvance, delay, func() {
		w.Lock()
		defer w.Unlock()
		if w.closed || w.status != StatusIdle || w.step != from {
			return
		}
		w.next()
	})
}

// evaluateGrace arms the auto submission when the location step holds a
// usable location and cancels it otherwise
func (w *Wizard) evaluateGrace() {
	loc := w.report.Location
	ready := w.step == StepLocation &&
		w.status == StatusIdle &&
		!w.closed &&
		w.opts.LocationGrace > 0 &&
		((loc.HasGPS() && !w.manual) || (w.manual && loc.HasManual()))

	if !ready {
		w.cancel(timerGrace)
		return
	}

	w.schedule(timerGrace, w.opts.LocationGrace, func() {
		if _, err := w.Submit(context.Background(), false); err != nil && err != ErrAlreadySubmitted {
			log.WithField("session", w.id).Errorf("location auto submission failed: %s", err)
		}
	})
}
