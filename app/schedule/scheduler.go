// Package schedule starts backup jobs on cron schedules loaded from a yaml file. Each scheduled job
// goes through the tracker, so a started job shows up in the job list and wakes polling right away.
// Jobs can be gated by host conditions and postponed until the conditions are met.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"reflect"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/schedule/conditions"
	"github.com/umputun/jobwatch/app/tracker"
)

//go:generate moq -out mocks/cron.go -pkg mocks -skip-ensure -fmt goimports . Cron
//go:generate moq -out mocks/starter.go -pkg mocks -skip-ensure -fmt goimports . Starter
//go:generate moq -out mocks/condition_checker.go -pkg mocks -skip-ensure -fmt goimports . ConditionChecker

// Scheduler wires cron, schedule loader and tracker together, Do is the blocking entry point
type Scheduler struct {
	Cron
	Starter          Starter
	Loader           Loader
	UpdatesEnabled   bool
	Jitter           time.Duration
	ConditionChecker ConditionChecker
	DeDup            Dedupper
	StartTimeout     time.Duration
}

// Cron interface defines basic robfig/cron methods used by scheduler
type Cron interface {
	Start()
	Stop() context.Context
	Entries() []cron.Entry
	Schedule(schedule cron.Schedule, cmd cron.Job) cron.EntryID
	Remove(id cron.EntryID)
}

// Starter starts jobs and reports known ones, implemented by tracker.Tracker
type Starter interface {
	Start(ctx context.Context, kind enums.JobKind, name string) (tracker.JobView, error)
	Jobs() []tracker.JobView
}

// Loader provides list of scheduled jobs and updates channel if the schedule changes
type Loader interface {
	String() string
	List() ([]JobSpec, error)
	Changes(ctx context.Context) (<-chan []JobSpec, error)
}

// ConditionChecker checks host conditions of a job
type ConditionChecker interface {
	Check(cfg conditions.Config) (bool, string)
}

// Dedupper prevents double start of the same job while previous start is still postponed or in flight
type Dedupper interface {
	Add(key string) bool
	Remove(key string)
}

// ErrSkipped returned by RunJob if the job was not started
var ErrSkipped = errors.New("job skipped")

// Do runs blocking scheduler. If updates enabled and the file fails to load,
// the scheduler starts with zero jobs and waits for updates.
func (s *Scheduler) Do(ctx context.Context) {
	if s.UpdatesEnabled {
		log.Printf("[INFO] schedule updater activated for %s", s.Loader.String())
		go s.reload(ctx)
	}

	if err := s.load(ctx); err != nil {
		if !s.UpdatesEnabled || !errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] can't load schedule, %v", err)
			return
		}
		log.Printf("[INFO] schedule file doesn't exist yet, running with zero jobs, waiting for updates")
	}
	s.Start()
	<-ctx.Done()
	log.Print("[DEBUG] scheduler terminated")
	<-s.Stop().Done()
}

// RunJob starts the job through the tracker. Conditions are checked first and may postpone the start.
func (s *Scheduler) RunJob(ctx context.Context, js JobSpec) (tracker.JobView, error) {
	desc := jobDescription(js)
	if s.DeDup != nil && !s.DeDup.Add(js.Name) {
		return tracker.JobView{}, fmt.Errorf("%w: %s, previous start still in progress", ErrSkipped, desc)
	}
	if s.DeDup != nil {
		defer s.DeDup.Remove(js.Name)
	}

	if js.Conditions != nil && !js.Conditions.IsEmpty() {
		if !s.waitForConditions(ctx, *js.Conditions, desc) {
			return tracker.JobView{}, fmt.Errorf("%w: %s, conditions not met", ErrSkipped, desc)
		}
	}

	name, err := NewNameTemplate(time.Now()).Expand(js.Name)
	if err != nil {
		return tracker.JobView{}, fmt.Errorf("can't start %s: %w", desc, err)
	}

	if js.SkipIfActive {
		if active, ok := s.activeJob(name); ok {
			return tracker.JobView{}, fmt.Errorf("%w: %s, job %s is %s", ErrSkipped, desc, active.ID, active.Status)
		}
	}

	if s.Jitter > 0 {
		select {
		case <-time.After(rand.N(s.Jitter)): //nolint:gosec // jitter doesn't need crypto rand
		case <-ctx.Done():
			return tracker.JobView{}, ctx.Err()
		}
	}

	startCtx := ctx
	if s.StartTimeout > 0 {
		var cancel context.CancelFunc
		startCtx, cancel = context.WithTimeout(ctx, s.StartTimeout)
		defer cancel()
	}
	v, err := s.Starter.Start(startCtx, js.JobKind(), name)
	if err != nil {
		return tracker.JobView{}, fmt.Errorf("can't start %s: %w", desc, err)
	}
	return v, nil
}

// schedule makes new cron job from JobSpec and adds it to cron
func (s *Scheduler) schedule(ctx context.Context, js JobSpec) error {
	sched, err := cron.ParseStandard(js.CronSpec())
	if err != nil {
		return fmt.Errorf("can't parse %s: %w", js.CronSpec(), err)
	}
	id := s.Schedule(sched, s.jobFunc(ctx, js, sched))
	log.Printf("[INFO] new cron, %s, first: %s (%v)", jobDescription(js), sched.Next(time.Now()).Format(time.RFC3339), id)
	return nil
}

func (s *Scheduler) jobFunc(ctx context.Context, js JobSpec, sched cron.Schedule) cron.FuncJob {
	return func() {
		desc := jobDescription(js)
		v, err := s.RunJob(ctx, js)
		switch {
		case errors.Is(err, ErrSkipped):
			log.Printf("[INFO] %v", err)
		case err != nil:
			log.Printf("[WARN] %v", err)
		default:
			log.Printf("[INFO] started %s, id %s, status %s", desc, v.ID, v.Status)
		}
		log.Printf("[INFO] next: %s, %s", sched.Next(time.Now()).Format(time.RFC3339), desc)
	}
}

func (s *Scheduler) activeJob(name string) (tracker.JobView, bool) {
	for _, v := range s.Starter.Jobs() {
		if v.Name == name && v.Status.IsActive() {
			return v, true
		}
	}
	return tracker.JobView{}, false
}

// load replaces all cron entries with jobs from the loader
func (s *Scheduler) load(ctx context.Context) error {
	for _, entry := range s.Entries() {
		s.Remove(entry.ID)
	}

	jobs, err := s.Loader.List()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.Loader.String(), err)
	}
	for _, js := range jobs {
		if err = s.schedule(ctx, js); err != nil {
			return fmt.Errorf("can't add %s: %w", jobDescription(js), err)
		}
	}
	return nil
}

// reload runs blocking loop reacting on schedule changes
func (s *Scheduler) reload(ctx context.Context) {
	ch, err := s.Loader.Changes(ctx)
	if err != nil {
		log.Printf("[WARN] can't watch schedule changes, %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case jobs, ok := <-ch:
			if !ok {
				return
			}
			log.Printf("[DEBUG] schedule update detected, %d jobs", len(jobs))
			if err = s.load(ctx); err != nil {
				log.Printf("[WARN] failed to update jobs, %v", err)
			}
		}
	}
}

// waitForConditions checks if conditions are met and optionally waits for them.
// Returns true if the job should start, false if it should be skipped.
func (s *Scheduler) waitForConditions(ctx context.Context, cond conditions.Config, desc string) bool {
	if s.ConditionChecker == nil || reflect.ValueOf(s.ConditionChecker).IsNil() {
		return true
	}

	met, reason := s.ConditionChecker.Check(cond)
	if met {
		return true
	}

	if cond.MaxPostpone == nil {
		log.Printf("[INFO] job skipped: %s, reason: %s", desc, reason)
		return false
	}

	deadline := time.Now().Add(*cond.MaxPostpone)
	log.Printf("[INFO] job postponed: %s, reason: %s, deadline: %s", desc, reason, deadline.Format(time.RFC3339))

	checkInterval := 30 * time.Second
	if cond.CheckInterval != nil {
		checkInterval = *cond.CheckInterval
	}
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	deadlineTimer := time.NewTimer(*cond.MaxPostpone)
	defer deadlineTimer.Stop()

	for {
		select {
		case <-ticker.C:
			if met, reason = s.ConditionChecker.Check(cond); met {
				log.Printf("[INFO] conditions met, starting postponed job: %s", desc)
				return true
			}
			log.Printf("[DEBUG] conditions not met yet: %s, reason: %s", desc, reason)
		case <-deadlineTimer.C:
			log.Printf("[WARN] max postpone reached, starting anyway: %s", desc)
			return true
		case <-ctx.Done():
			log.Printf("[INFO] postponed job canceled: %s", desc)
			return false
		}
	}
}

func jobDescription(js JobSpec) string {
	return fmt.Sprintf("%q (%s, %s)", js.Name, js.Kind, js.CronSpec())
}
