package tracker

import (
	"context"
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
)

// Start asks backend to create a job and adds it to the cache. Polling wakes up if it was idle.
func (t *Tracker) Start(ctx context.Context, kind enums.JobKind, name string) (JobView, error) {
	if t.stopped() {
		return JobView{}, ErrStopped
	}
	ctx, cancel := t.bind(ctx)
	defer cancel()

	t.mu.Lock()
	seq := t.nextSeq()
	t.mu.Unlock()

	job, err := t.backend.Start(ctx, backend.StartRequest{Kind: kind, Name: name})
	if err != nil {
		if t.stopped() {
			return JobView{}, ErrStopped
		}
		return JobView{}, fmt.Errorf("failed to start %s job %q: %w", kind, name, err)
	}
	if job.ID == "" {
		return JobView{}, fmt.Errorf("failed to start %s job %q: %w: no job id in response", kind, name, backend.ErrTransport)
	}

	t.mu.Lock()
	if t.stopped() {
		t.mu.Unlock()
		return JobView{}, ErrStopped
	}
	e, ok := t.jobs[job.ID]
	switch {
	case !ok:
		e = &entry{job: job, seq: seq}
		t.jobs[job.ID] = e
	case seq >= e.seq: // a poll issued before start could have listed it already
		if _, err := e.applyJob(job, seq); err != nil {
			log.Printf("[WARN] ignore start response, %v", err)
		}
	}
	view := e.view()
	t.mu.Unlock()

	log.Printf("[INFO] started %s job %s %q, status %s", kind, job.ID, name, job.Status)
	t.emit(Event{Type: enums.EventTypeUpdated, JobID: job.ID, Job: view})
	t.wake()
	return view, nil
}

// Pause requests pause of a running job. The job shows paused until backend responds.
func (t *Tracker) Pause(ctx context.Context, id string) error {
	return t.act(ctx, id, enums.ActionPause, t.backend.Pause)
}

// Resume requests resume of a paused job. The job shows running until backend responds.
func (t *Tracker) Resume(ctx context.Context, id string) error {
	return t.act(ctx, id, enums.ActionResume, t.backend.Resume)
}

// Cancel requests cancellation of a running or paused job. The job keeps its status until backend
// reports cancelled. If backend doesn't know the job anymore it is removed from the cache and
// returned error matches backend.ErrNotFound.
func (t *Tracker) Cancel(ctx context.Context, id string) error {
	return t.act(ctx, id, enums.ActionCancel, t.backend.Cancel)
}

// Delete removes a finished job from backend and cache. Deleting a job already gone from backend is not an error.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	err := t.act(ctx, id, enums.ActionDelete, func(ctx context.Context, id string) (backend.Job, error) {
		return backend.Job{}, t.backend.Delete(ctx, id)
	})
	if errors.Is(err, backend.ErrNotFound) {
		return nil
	}
	return err
}

// act runs two-phase action: tentative state is set before the request, then either committed
// with the job returned by backend or rolled back on error.
func (t *Tracker) act(ctx context.Context, id string, action enums.Action,
	call func(ctx context.Context, id string) (backend.Job, error)) error {
	if t.stopped() {
		return ErrStopped
	}

	t.mu.Lock()
	e, ok := t.jobs[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	if e.tentative != nil {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s of job %s", ErrBusy, e.tentative.action, id)
	}
	if err := checkAction(id, e.job.Status, action); err != nil {
		t.mu.Unlock()
		return err
	}
	seq := t.nextSeq()
	e.tentative = &tentative{action: action, status: optimisticStatus(action), seq: seq}
	view := e.view()
	t.mu.Unlock()
	t.emit(Event{Type: enums.EventTypeUpdated, JobID: id, Job: view})

	ctx, cancel := t.bind(ctx)
	defer cancel()
	job, callErr := call(ctx, id)

	events, err := t.settle(id, action, seq, job, callErr)
	t.emit(events...)
	return err
}

// settle commits or rolls back tentative state of the action issued with seq
func (t *Tracker) settle(id string, action enums.Action, seq uint64, job backend.Job, callErr error) ([]Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped() {
		return nil, ErrStopped
	}

	e, ok := t.jobs[id]
	if !ok || e.tentative == nil || e.tentative.seq != seq {
		// removed meanwhile, nothing to reconcile
		if callErr != nil {
			return nil, fmt.Errorf("failed to %s job %s: %w", action, id, callErr)
		}
		return nil, nil
	}
	tent := e.tentative
	e.tentative = nil

	switch {
	case errors.Is(callErr, backend.ErrNotFound), callErr == nil && action == enums.ActionDelete:
		delete(t.jobs, id)
		t.tombstones[id] = seq
		log.Printf("[INFO] job %s removed from tracking after %s", id, action)
		ev := []Event{{Type: enums.EventTypeRemoved, JobID: id, Job: e.view()}}
		if callErr != nil {
			return ev, fmt.Errorf("failed to %s job %s: %w", action, id, callErr)
		}
		return ev, nil

	case callErr != nil:
		log.Printf("[WARN] %s of job %s rolled back, %v", action, id, callErr)
		return []Event{{Type: enums.EventTypeUpdated, JobID: id, Job: e.view()}},
			fmt.Errorf("failed to %s job %s: %w", action, id, callErr)
	}

	confirmed := job
	if confirmed.ID == "" { // empty response body, backend accepted the action as requested
		confirmed = e.job
		if tent.status != (enums.JobStatus{}) {
			confirmed.Status = tent.status
		}
	}

	applySeq := seq
	if seq < e.seq {
		// a poll issued after the action brought status the confirmation can't follow
		if e.job.Status.IsTerminal() || !canTransit(e.job.Status, confirmed.Status) {
			return []Event{{Type: enums.EventTypeUpdated, JobID: id, Job: e.view()}}, nil
		}
		applySeq = e.seq
	}

	from := e.job.Status
	terminal, err := e.applyJob(confirmed, applySeq)
	if err != nil {
		log.Printf("[WARN] ignore %s response, %v", action, err)
	}
	events := []Event{{Type: enums.EventTypeUpdated, JobID: id, Job: e.view()}}
	if terminal {
		events = append(events, Event{Type: enums.EventTypeTerminal, JobID: id, Job: e.view(), From: from})
	}
	return events, nil
}
