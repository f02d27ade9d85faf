package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
)

// Run polls backend until ctx is canceled or Stop is called. The first poll is made right away,
// next ones every interval while any job is active. With no active jobs polling sleeps
// (or uses idle interval if set) until Start or Refresh brings an active job.
func (t *Tracker) Run(ctx context.Context) {
	ctx, cancel := t.bind(ctx)
	defer cancel()
	log.Printf("[INFO] start jobs polling, interval %v, idle interval %v", t.interval, t.idleInterval)

	timer := time.NewTimer(0)
	defer timer.Stop()
	armed := true

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] jobs polling stopped, %v", ctx.Err())
			return
		case <-t.wakeCh:
			if !armed {
				log.Printf("[DEBUG] polling woke up")
				timer.Reset(t.interval)
				armed = true
			}
			continue
		case <-timer.C:
			armed = false
			err := t.tick(ctx)
			d := t.nextDelay()
			if err != nil && d == 0 {
				d = t.interval // retry failed poll on the next tick even with no known active jobs
			}
			if d > 0 {
				timer.Reset(d)
				armed = true
			}
		}
	}
}

// Stop cancels outstanding requests and terminates Run. Results arriving after Stop are ignored.
func (t *Tracker) Stop() {
	t.stopCancel()
}

// Refresh polls backend right away, waiting for an in-flight poll if any.
// On failure the cache stays as is and the error is returned and kept as the last error.
func (t *Tracker) Refresh(ctx context.Context) error {
	if t.stopped() {
		return ErrStopped
	}
	t.pollMu.Lock()
	defer t.pollMu.Unlock()
	return t.poll(ctx)
}

// tick makes a scheduled poll, skipped if another poll is in flight
func (t *Tracker) tick(ctx context.Context) error {
	if !t.pollMu.TryLock() {
		log.Printf("[DEBUG] skip poll, previous one still in flight")
		return nil
	}
	defer t.pollMu.Unlock()
	if err := t.poll(ctx); err != nil {
		log.Printf("[WARN] poll failed, %v", err)
		return err
	}
	return nil
}

// poll fetches the job list and progress of active jobs and applies both to the cache.
// Caller must hold pollMu.
func (t *Tracker) poll(ctx context.Context) error {
	ctx, cancel := t.bind(ctx)
	defer cancel()

	t.mu.Lock()
	seq := t.nextSeq()
	t.mu.Unlock()

	jobs, err := t.backend.ListJobs(ctx)
	if err != nil {
		return t.pollFailed(fmt.Errorf("failed to list jobs: %w", err))
	}

	ids := []string{}
	for _, j := range jobs {
		if j.Status.IsActive() {
			ids = append(ids, j.ID)
		}
	}

	var progress []backend.Progress
	if len(ids) > 0 {
		if progress, err = t.backend.Progress(ctx, ids); err != nil {
			return t.pollFailed(fmt.Errorf("failed to get progress of %d jobs: %w", len(ids), err))
		}
	}

	events, active := t.applyPoll(seq, jobs, progress)
	if t.stopped() {
		return ErrStopped
	}
	t.emit(events...)
	if active {
		t.wake()
	}
	log.Printf("[DEBUG] poll #%d done, %d jobs, %d active", seq, len(jobs), len(ids))
	return nil
}

// applyPoll reconciles cache with poll results issued with seq. Returns events to emit
// and whether any cached job is active after the update.
func (t *Tracker) applyPoll(seq uint64, jobs []backend.Job, progress []backend.Progress) (events []Event, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped() {
		return nil, false
	}

	changed := map[string]bool{}
	listed := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if j.ID == "" || j.Status == (enums.JobStatus{}) {
			log.Printf("[WARN] skip malformed job %q from poll #%d, id or status missing", j.ID, seq)
			continue
		}
		listed[j.ID] = true
		if delSeq, ok := t.tombstones[j.ID]; ok && seq < delSeq {
			log.Printf("[DEBUG] ignore deleted job %s from poll #%d", j.ID, seq)
			continue
		}

		e, ok := t.jobs[j.ID]
		if !ok {
			t.jobs[j.ID] = &entry{job: j, seq: seq}
			changed[j.ID] = true
			continue
		}
		if seq < e.seq {
			log.Printf("[DEBUG] ignore stale status of %s from poll #%d, have #%d", j.ID, seq, e.seq)
			continue
		}
		if e.job == j {
			e.seq = seq
			continue
		}
		from := e.job.Status
		terminal, err := e.applyJob(j, seq)
		if err != nil {
			log.Printf("[WARN] ignore reported status, %v", err)
			continue
		}
		changed[j.ID] = true
		if terminal {
			events = append(events, Event{Type: enums.EventTypeTerminal, JobID: j.ID, Job: e.view(), From: from})
		}
	}

	// jobs gone from backend list, unless added or acted on after this poll was issued
	for id, e := range t.jobs {
		if listed[id] || e.seq >= seq || e.tentative != nil {
			continue
		}
		log.Printf("[INFO] job %s %q disappeared from backend", id, e.job.Name)
		events = append(events, Event{Type: enums.EventTypeRemoved, JobID: id, Job: e.view()})
		delete(t.jobs, id)
		delete(changed, id)
	}

	for id, delSeq := range t.tombstones {
		if delSeq < seq && !listed[id] {
			delete(t.tombstones, id)
		}
	}

	for _, p := range progress {
		e, ok := t.jobs[p.JobID]
		if !ok {
			continue // deleted or unknown job
		}
		if e.applyProgress(p, seq) {
			changed[p.JobID] = true
		}
	}

	for id := range changed {
		events = append(events, Event{Type: enums.EventTypeUpdated, JobID: id, Job: t.jobs[id].view()})
	}
	for _, e := range t.jobs {
		if e.view().Status.IsActive() {
			active = true
			break
		}
	}

	t.lastErr = nil
	t.lastPoll = time.Now()
	return events, active
}

// pollFailed keeps err as the last error and notifies subscribers. Cache is not touched.
func (t *Tracker) pollFailed(err error) error {
	if t.stopped() {
		return ErrStopped
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
	t.emit(Event{Type: enums.EventTypePollerror, Err: err})
	return err
}

// nextDelay returns delay before the next scheduled poll, 0 means wait for wake up
func (t *Tracker) nextDelay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.jobs {
		if e.view().Status.IsActive() {
			return t.interval
		}
	}
	return t.idleInterval
}

// wake signals Run about a new active job, never blocks
func (t *Tracker) wake() {
	select {
	case t.wakeCh <- struct{}{}:
	default:
	}
}
