// Package tracker keeps an eventually-accurate view of backend backup/restore jobs. It polls job list and
// progress while any job is active, applies user actions (pause, resume, cancel, delete) optimistically
// and reconciles them with backend responses. Backend is the source of truth, the tracker owns only the cache.
package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
)

//go:generate moq -out mocks/backend.go -pkg mocks -skip-ensure -fmt goimports . Backend

// Backend defines jobs API used by tracker, implemented by backend.Client
type Backend interface {
	ListJobs(ctx context.Context) ([]backend.Job, error)
	Progress(ctx context.Context, ids []string) ([]backend.Progress, error)
	Start(ctx context.Context, req backend.StartRequest) (backend.Job, error)
	Pause(ctx context.Context, id string) (backend.Job, error)
	Resume(ctx context.Context, id string) (backend.Job, error)
	Cancel(ctx context.Context, id string) (backend.Job, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) (backend.Health, error)
}

// Tracker is the single owner of tracked jobs cache
type Tracker struct {
	backend      Backend
	interval     time.Duration
	idleInterval time.Duration

	mu         sync.Mutex
	jobs       map[string]*entry // job id -> cached state
	tombstones map[string]uint64 // deleted job id -> sequence of the delete
	seq        uint64
	lastErr    error
	lastPoll   time.Time
	health     *backend.Health
	subs       map[int]func(Event)
	subID      int

	pollMu     sync.Mutex    // single in-flight poll
	wakeCh     chan struct{} // signals new active job
	stopCtx    context.Context
	stopCancel context.CancelFunc
}

// Opts for tracker
type Opts struct {
	Interval     time.Duration // poll interval while any job is active, defaults to 3s
	IdleInterval time.Duration // poll interval with no active jobs, 0 disables idle polling
}

// JobView is a job with its latest progress, as shown to users
type JobView struct {
	backend.Job
	Progress      *backend.Progress // nil if no snapshot accepted yet
	PendingAction enums.Action      // user action in flight, zero value if none
}

// HasPendingAction reports whether a user action on the job waits for backend confirmation
func (v JobView) HasPendingAction() bool {
	return v.PendingAction != enums.Action{}
}

// Event is delivered to subscribers after each cache change
type Event struct {
	Type  enums.EventType
	JobID string
	Job   JobView // state after the change, last known state for removed jobs
	From  enums.JobStatus
	Err   error // set for EventTypePollerror
}

// Summary aggregates the state of all tracked jobs
type Summary struct {
	Total      int
	Active     int
	ByStatus   map[enums.JobStatus]int
	Percentage float64 // aggregated progress of active jobs, 0-100
	Speed      float64 // combined speed of running jobs, bytes/sec
	LastPoll   time.Time
	LastError  error
}

// New makes tracker for given backend. Polling is not started until Run.
func New(b Backend, opts Opts) *Tracker {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	stopCtx, stopCancel := context.WithCancel(context.Background())
	return &Tracker{
		backend:      b,
		interval:     opts.Interval,
		idleInterval: opts.IdleInterval,
		jobs:         make(map[string]*entry),
		tombstones:   make(map[string]uint64),
		subs:         make(map[int]func(Event)),
		wakeCh:       make(chan struct{}, 1),
		stopCtx:      stopCtx,
		stopCancel:   stopCancel,
	}
}

// Jobs returns cached jobs ordered by creation time, newest first. Never blocks on network.
func (t *Tracker) Jobs() []JobView {
	t.mu.Lock()
	res := make([]JobView, 0, len(t.jobs))
	for _, e := range t.jobs {
		res = append(res, e.view())
	}
	t.mu.Unlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res
}

// Get returns cached job by id
func (t *Tracker) Get(id string) (JobView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.jobs[id]
	if !ok {
		return JobView{}, false
	}
	return e.view(), true
}

// LastError returns the error of the last failed poll, nil after a successful one
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Summary aggregates counts and progress of tracked jobs.
// Progress of active jobs is weighted by total items if all of them know it, plain mean otherwise.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := Summary{Total: len(t.jobs), ByStatus: map[enums.JobStatus]int{}, LastPoll: t.lastPoll, LastError: t.lastErr}
	var sumPct, weighted float64
	var totalItems int64
	allSized := true
	for _, e := range t.jobs {
		v := e.view()
		res.ByStatus[v.Status]++
		if !v.Status.IsActive() {
			continue
		}
		res.Active++
		if v.Progress == nil || v.Progress.TotalItems <= 0 {
			allSized = false
		}
		if v.Progress == nil {
			continue
		}
		sumPct += v.Progress.Percentage
		weighted += v.Progress.Percentage * float64(v.Progress.TotalItems)
		totalItems += v.Progress.TotalItems
		if v.Status == enums.JobStatusRunning {
			res.Speed += v.Progress.Speed
		}
	}

	switch {
	case res.Active == 0:
	case allSized && totalItems > 0:
		res.Percentage = weighted / float64(totalItems)
	default:
		res.Percentage = sumPct / float64(res.Active)
	}
	res.Percentage = clampPercentage(res.Percentage)
	return res
}

// Health fetches backend health and keeps it as the last known one
func (t *Tracker) Health(ctx context.Context) (backend.Health, error) {
	ctx, cancel := t.bind(ctx)
	defer cancel()
	h, err := t.backend.Health(ctx)
	if err != nil {
		return backend.Health{}, err
	}
	t.mu.Lock()
	t.health = &h
	t.mu.Unlock()
	return h, nil
}

// LastHealth returns the last fetched health, false if never fetched
func (t *Tracker) LastHealth() (backend.Health, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.health == nil {
		return backend.Health{}, false
	}
	return *t.health, true
}

// Subscribe registers fn to receive events. Fn is called synchronously after the change and must not block.
// Returned func removes the subscription.
func (t *Tracker) Subscribe(fn func(Event)) (unsubscribe func()) {
	t.mu.Lock()
	t.subID++
	id := t.subID
	t.subs[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	t.mu.Lock()
	subs := make([]func(Event), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// bind makes ctx canceled on Stop, so outstanding requests are abandoned
func (t *Tracker) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	unregister := context.AfterFunc(t.stopCtx, cancel)
	return ctx, func() {
		unregister()
		cancel()
	}
}

func (t *Tracker) stopped() bool {
	return t.stopCtx.Err() != nil
}

// nextSeq returns sequence for a new request, caller must hold mu
func (t *Tracker) nextSeq() uint64 {
	t.seq++
	return t.seq
}
