package triage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = fmt.Errorf("triage session not found")

// Registry holds the wizards of every open session
type Registry struct {
	sync.RWMutex
	deps    Dependencies
	opts    Options
	wizards map[string]*Wizard
}

func NewRegistry(deps Dependencies, opts Options) *Registry {
	return &Registry{
		deps:    deps,
		opts:    opts,
		wizards: make(map[string]*Wizard),
	}
}

// Create opens a new session
func (r *Registry) Create() *Wizard {
	w := NewWizard(uuid.New().String(), r.deps, r.opts)

	r.Lock()
	r.wizards[w.ID()] = w
	r.Unlock()

	log.WithField("session", w.ID()).Debug("session created")
	return w
}

func (r *Registry) Get(id string) (*Wizard, error) {
	r.RLock()
	defer r.RUnlock()

	w, ok := r.wizards[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// Remove closes a session and forgets it
func (r *Registry) Remove(id string) error {
	r.Lock()
	w, ok := r.wizards[id]
	delete(r.wizards, id)
	r.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	w.Close()
	return nil
}

func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.wizards)
}

// Sweep removes the sessions idle for longer than maxIdle and returns how
// many were removed
func (r *Registry) Sweep(maxIdle time.Duration) int {
	deadline := now().Add(-maxIdle)

	r.Lock()
	stale := make([]*Wizard, 0)
	for id, w := range r.wizards {
		if w.LastSeen().Before(deadline) {
			stale = append(stale, w)
			delete(r.wizards, id)
		}
	}
	r.Unlock()

	for _, w := range stale {
		w.Close()
	}
	if len(stale) > 0 {
		log.Infof("swept %d idle sessions", len(stale))
	}
	return len(stale)
}

// CloseAll closes every session
func (r *Registry) CloseAll() {
	r.Lock()
	wizards := r.wizards
	r.wizards = make(map[string]*Wizard)
	r.Unlock()

	for _, w := range wizards {
		w.Close()
	}
}
