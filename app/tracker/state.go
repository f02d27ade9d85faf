package tracker

import (
	"fmt"
	"math"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
)

// transitions lists direct status edges. Terminal statuses have none.
var transitions = map[enums.JobStatus][]enums.JobStatus{
	enums.JobStatusPending: {enums.JobStatusRunning},
	enums.JobStatusRunning: {enums.JobStatusPaused, enums.JobStatusCancelled, enums.JobStatusCompleted, enums.JobStatusFailed},
	enums.JobStatusPaused:  {enums.JobStatusRunning, enums.JobStatusCancelled},
}

// actionSources lists statuses each user action is allowed from
var actionSources = map[enums.Action][]enums.JobStatus{
	enums.ActionPause:  {enums.JobStatusRunning},
	enums.ActionResume: {enums.JobStatusPaused},
	enums.ActionCancel: {enums.JobStatusRunning, enums.JobStatusPaused},
	enums.ActionDelete: {enums.JobStatusCompleted, enums.JobStatusFailed, enums.JobStatusCancelled},
}

// entry is the cached state of a single job
type entry struct {
	job         backend.Job       // last confirmed by backend
	progress    *backend.Progress // last accepted snapshot
	seq         uint64            // sequence of the request that produced job
	progressSeq uint64            // sequence of the request that produced progress
	tentative   *tentative        // in-flight user action
}

// tentative is an optimistic change waiting for backend confirmation
type tentative struct {
	action enums.Action
	status enums.JobStatus // status shown meanwhile, zero keeps the confirmed one
	seq    uint64
}

func (e *entry) view() JobView {
	res := JobView{Job: e.job}
	if e.progress != nil {
		p := *e.progress
		res.Progress = &p
	}
	if e.tentative == nil {
		return res
	}
	res.PendingAction = e.tentative.action
	// terminal status reported by backend wins over optimistic guess
	if e.tentative.status != (enums.JobStatus{}) && !e.job.Status.IsTerminal() {
		res.Status = e.tentative.status
	}
	return res
}

// canTransit reports whether status "to" is reachable from "from" following the edges.
// Polls may skip intermediate statuses, e.g. pending -> completed if running was never observed.
func canTransit(from, to enums.JobStatus) bool {
	if from == to {
		return true
	}
	visited := map[enums.JobStatus]bool{from: true}
	queue := []enums.JobStatus{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range transitions[cur] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// checkAction verifies user action is allowed for the job status
func checkAction(id string, status enums.JobStatus, action enums.Action) error {
	for _, st := range actionSources[action] {
		if st == status {
			return nil
		}
	}
	return &TransitionError{JobID: id, From: status, Action: action}
}

// optimisticStatus is what a job shows while the action is in flight. Cancel is a best-effort signal,
// the job keeps its status until backend reports a terminal one. Delete keeps it until removal.
func optimisticStatus(action enums.Action) enums.JobStatus {
	switch action {
	case enums.ActionPause:
		return enums.JobStatusPaused
	case enums.ActionResume:
		return enums.JobStatusRunning
	default:
		return enums.JobStatus{}
	}
}

// applyJob updates confirmed job state if the status change follows the state machine.
// Returns true if the job turned terminal with this update.
func (e *entry) applyJob(job backend.Job, seq uint64) (becameTerminal bool, err error) {
	from := e.job.Status
	if !canTransit(from, job.Status) {
		return false, &TransitionError{JobID: job.ID, From: from, To: job.Status}
	}
	e.job = job
	e.seq = seq
	return !from.IsTerminal() && job.Status.IsTerminal(), nil
}

// applyProgress accepts snapshot for running or paused job. Percentage is clamped to 0-100 and never goes down.
func (e *entry) applyProgress(p backend.Progress, seq uint64) bool {
	if seq < e.progressSeq {
		log.Printf("[DEBUG] stale progress for %s, seq %d < %d", e.job.ID, seq, e.progressSeq)
		return false
	}
	if e.job.Status != enums.JobStatusRunning && e.job.Status != enums.JobStatusPaused {
		return false
	}
	if err := validateProgress(p); err != nil {
		log.Printf("[WARN] rejected progress for %s, %v", e.job.ID, err)
		return false
	}

	p.Percentage = clampPercentage(p.Percentage)
	if e.progress != nil && p.Percentage < e.progress.Percentage {
		p.Percentage = e.progress.Percentage
	}
	e.progress = &p
	e.progressSeq = seq
	return true
}

func validateProgress(p backend.Progress) error {
	if math.IsNaN(p.Percentage) || math.IsInf(p.Percentage, 0) {
		return fmt.Errorf("invalid percentage %v", p.Percentage)
	}
	if p.ProcessedItems < 0 || p.TotalItems < 0 {
		return fmt.Errorf("negative items count %d/%d", p.ProcessedItems, p.TotalItems)
	}
	if p.TotalItems > 0 && p.ProcessedItems > p.TotalItems {
		return fmt.Errorf("processed %d exceeds total %d", p.ProcessedItems, p.TotalItems)
	}
	return nil
}

func clampPercentage(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
