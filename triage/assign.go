package triage

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/bitmark-inc/triage-api/schema"
)

var ErrNoWorkers = fmt.Errorf("no worker is available for assignment")

// Assigner picks the worker who follows up on a new alert
type Assigner interface {
	Assign(context.Context) (schema.Worker, error)
}

// WorkerLister lists the workers an assigner chooses from
type WorkerLister interface {
	ListWorkers(context.Context) ([]schema.Worker, error)
}

// RoundRobinAssigner hands alerts to workers in turn, ordered by id
type RoundRobinAssigner struct {
	sync.Mutex
	workers WorkerLister
	next    int
}

func NewRoundRobinAssigner(workers WorkerLister) *RoundRobinAssigner {
	return &RoundRobinAssigner{workers: workers}
}

func (a *RoundRobinAssigner) Assign(ctx context.Context) (schema.Worker, error) {
	workers, err := a.workers.ListWorkers(ctx)
	if err != nil {
		return schema.Worker{}, err
	}
	if len(workers) == 0 {
		return schema.Worker{}, ErrNoWorkers
	}

	a.Lock()
	defer a.Unlock()
	w := workers[a.next%len(workers)]
	a.next = (a.next + 1) % len(workers)
	return w, nil
}

// RandomAssigner picks any worker with equal chance
type RandomAssigner struct {
	sync.Mutex
	workers WorkerLister
	rand    *rand.Rand
}

func NewRandomAssigner(workers WorkerLister, seed int64) *RandomAssigner {
	return &RandomAssigner{
		workers: workers,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAssigner) Assign(ctx context.Context) (schema.Worker, error) {
	workers, err := a.workers.ListWorkers(ctx)
	if err != nil {
		return schema.Worker{}, err
	}
	if len(workers) == 0 {
		return schema.Worker{}, ErrNoWorkers
	}

	a.Lock()
	defer a.Unlock()
	return workers[a.rand.Intn(len(workers))], nil
}

// NewAssigner returns the assigner of a policy name
func NewAssigner(policy string, workers WorkerLister, seed int64) (Assigner, error) {
	switch policy {
	case "", "round-robin":
		return NewRoundRobinAssigner(workers), nil
	case "random":
		return NewRandomAssigner(workers, seed), nil
	default:
		return nil, fmt.Errorf("unknown assignment policy %q", policy)
	}
}
