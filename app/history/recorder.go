package history

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/tracker"
)

// Saver stores history records, implemented by Store
type Saver interface {
	Save(ctx context.Context, rec Record) error
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

// Recorder journals finished jobs reported by tracker events. OnEvent never blocks,
// records are written by Run in its own goroutine.
type Recorder struct {
	store     Saver
	retention time.Duration
	events    chan tracker.Event
}

// NewRecorder makes recorder with events buffer of given size. Retention 0 keeps records forever.
func NewRecorder(store Saver, bufSize int, retention time.Duration) *Recorder {
	if bufSize <= 0 {
		bufSize = 100
	}
	return &Recorder{store: store, retention: retention, events: make(chan tracker.Event, bufSize)}
}

// OnEvent accepts tracker event, to be passed to tracker.Subscribe
func (r *Recorder) OnEvent(ev tracker.Event) {
	if ev.Type != enums.EventTypeUpdated || !ev.Job.Status.IsTerminal() || ev.Job.HasPendingAction() {
		return
	}
	select {
	case r.events <- ev:
	default:
		log.Printf("[WARN] history event channel full, dropping job %s", ev.JobID)
	}
}

// Run writes queued records until ctx is canceled. Old records are removed hourly if retention is set.
func (r *Recorder) Run(ctx context.Context) {
	var cleanupCh <-chan time.Time
	if r.retention > 0 {
		r.cleanup(ctx)
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		cleanupCh = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			if err := r.store.Save(ctx, FromJob(ev.Job)); err != nil {
				log.Printf("[WARN] failed to record job %s, %v", ev.JobID, err)
				continue
			}
			log.Printf("[DEBUG] recorded %s job %s %q", ev.Job.Status, ev.JobID, ev.Job.Name)
		case <-cleanupCh:
			r.cleanup(ctx)
		}
	}
}

func (r *Recorder) cleanup(ctx context.Context) {
	n, err := r.store.Cleanup(ctx, time.Now().Add(-r.retention))
	if err != nil {
		log.Printf("[WARN] %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] removed %d history records older than %v", n, r.retention)
	}
}

// FromJob makes record of a finished job view
func FromJob(v tracker.JobView) Record {
	rec := Record{
		JobID:       v.ID,
		Name:        v.Name,
		Kind:        v.Kind,
		Status:      v.Status,
		Error:       v.Error,
		CreatedAt:   v.CreatedAt,
		StartedAt:   v.StartedAt,
		CompletedAt: v.CompletedAt,
	}
	if v.Progress != nil {
		rec.Percentage = v.Progress.Percentage
		rec.ProcessedItems = v.Progress.ProcessedItems
		rec.TotalItems = v.Progress.TotalItems
	}
	if v.Status == enums.JobStatusCompleted {
		rec.Percentage = 100
	}
	return rec
}
