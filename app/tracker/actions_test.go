package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/tracker/mocks"
)

// newTracked makes tracker with jobs loaded by a refresh
func newTracked(t *testing.T, jobs ...backend.Job) (*Tracker, *fakeBackend, *mocks.BackendMock) {
	t.Helper()
	fb := &fakeBackend{}
	fb.set(jobs...)
	be := fb.mock()
	tr := New(be, Opts{})
	require.NoError(t, tr.Refresh(context.Background()))
	return tr, fb, be
}

func TestTracker_PauseCompletedRejected(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusCompleted, baseTime))

	err := tr.Pause(context.Background(), "j1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrRejected))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, "Can't pause a completed job.", Describe(err))
	assert.Empty(t, be.PauseCalls(), "no request for invalid transition")

	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusCompleted, v.Status)
	assert.False(t, v.HasPendingAction())
}

func TestTracker_InvalidActions(t *testing.T) {
	tr, _, _ := newTracked(t,
		job("run", enums.JobStatusRunning, baseTime),
		job("pend", enums.JobStatusPending, baseTime),
	)
	ctx := context.Background()
	assert.ErrorIs(t, tr.Resume(ctx, "run"), ErrInvalidTransition)
	assert.ErrorIs(t, tr.Delete(ctx, "run"), ErrInvalidTransition)
	assert.ErrorIs(t, tr.Cancel(ctx, "pend"), ErrInvalidTransition)
	assert.ErrorIs(t, tr.Pause(ctx, "pend"), ErrInvalidTransition)
	assert.ErrorIs(t, tr.Pause(ctx, "missing"), ErrUnknownJob)
}

func TestTracker_CancelNotFound(t *testing.T) {
	tr, _, be := newTracked(t, job("J2", enums.JobStatusRunning, baseTime))
	be.CancelFunc = func(context.Context, string) (backend.Job, error) {
		return backend.Job{}, &backend.APIError{Method: "POST", Path: "/jobs/J2/cancel", StatusCode: 404}
	}
	var events []Event
	tr.Subscribe(func(ev Event) { events = append(events, ev) })

	err := tr.Cancel(context.Background(), "J2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrNotFound))
	assert.Equal(t, "Job no longer exists on the server, it was removed from the list.", Describe(err))
	_, ok := tr.Get("J2")
	assert.False(t, ok)
	assert.Empty(t, tr.Jobs())

	require.Len(t, events, 2)
	assert.Equal(t, enums.EventTypeUpdated, events[0].Type)
	assert.Equal(t, enums.ActionCancel, events[0].Job.PendingAction)
	assert.Equal(t, enums.EventTypeRemoved, events[1].Type)
}

func TestTracker_CancelConfirmedLater(t *testing.T) {
	tr, fb, be := newTracked(t, job("j1", enums.JobStatusRunning, baseTime))
	be.CancelFunc = func(_ context.Context, id string) (backend.Job, error) {
		inflight, _ := tr.Get(id)
		assert.Equal(t, enums.JobStatusRunning, inflight.Status, "cancel keeps last known status")
		assert.Equal(t, enums.ActionCancel, inflight.PendingAction)
		return job("j1", enums.JobStatusRunning, baseTime), nil
	}
	require.NoError(t, tr.Cancel(context.Background(), "j1"))
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusRunning, v.Status)
	assert.False(t, v.HasPendingAction())

	var terminal []Event
	tr.Subscribe(func(ev Event) {
		if ev.Type == enums.EventTypeTerminal {
			terminal = append(terminal, ev)
		}
	})
	fb.set(job("j1", enums.JobStatusCancelled, baseTime))
	require.NoError(t, tr.Refresh(context.Background()))
	v, _ = tr.Get("j1")
	assert.Equal(t, enums.JobStatusCancelled, v.Status)
	require.Len(t, terminal, 1)
	assert.Equal(t, enums.JobStatusRunning, terminal[0].From)
}

func TestTracker_CancelConfirmedRightAway(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusPaused, baseTime))
	be.CancelFunc = func(context.Context, string) (backend.Job, error) {
		return job("j1", enums.JobStatusCancelled, baseTime), nil
	}
	var types []enums.EventType
	tr.Subscribe(func(ev Event) { types = append(types, ev.Type) })

	require.NoError(t, tr.Cancel(context.Background(), "j1"))
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusCancelled, v.Status)
	assert.Equal(t, []enums.EventType{enums.EventTypeUpdated, enums.EventTypeUpdated, enums.EventTypeTerminal}, types)
}

func TestTracker_RollbackOnFailure(t *testing.T) {
	tbl := []struct {
		name  string
		err   error
		class error
		msg   string
	}{
		{"rejected", &backend.APIError{StatusCode: 409, Message: "job is finishing"}, backend.ErrRejected,
			"Server refused the request: job is finishing"},
		{"transport", &backend.APIError{StatusCode: 503}, backend.ErrTransport, "Server is unreachable, will retry."},
		{"timeout", context.DeadlineExceeded, context.DeadlineExceeded, "Server did not respond in time, will retry."},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			tr, _, be := newTracked(t, job("j1", enums.JobStatusRunning, baseTime))
			be.PauseFunc = func(context.Context, string) (backend.Job, error) { return backend.Job{}, tt.err }

			err := tr.Pause(context.Background(), "j1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.class))
			assert.Equal(t, tt.msg, Describe(err))

			v, _ := tr.Get("j1")
			assert.Equal(t, enums.JobStatusRunning, v.Status, "rolled back")
			assert.False(t, v.HasPendingAction())
		})
	}
}

func TestTracker_Busy(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusRunning, baseTime))
	be.PauseFunc = func(ctx context.Context, id string) (backend.Job, error) {
		err := tr.Cancel(ctx, id)
		assert.ErrorIs(t, err, ErrBusy)
		assert.Equal(t, "Another action on this job is still in progress, try again shortly.", Describe(err))
		return job("j1", enums.JobStatusPaused, baseTime), nil
	}
	require.NoError(t, tr.Pause(context.Background(), "j1"))
	assert.Len(t, be.CancelCalls(), 0)
}

func TestTracker_ResumeEmptyResponse(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusPaused, baseTime))
	be.ResumeFunc = func(context.Context, string) (backend.Job, error) { return backend.Job{}, nil }

	require.NoError(t, tr.Resume(context.Background(), "j1"))
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusRunning, v.Status, "accepted as requested")
}

func TestTracker_PollDuringAction(t *testing.T) {
	tr, fb, be := newTracked(t, job("j1", enums.JobStatusRunning, baseTime))
	be.PauseFunc = func(ctx context.Context, _ string) (backend.Job, error) {
		// backend finished the job before handling pause, poll issued after the action sees it
		fb.set(job("j1", enums.JobStatusCompleted, baseTime))
		require.NoError(t, tr.Refresh(ctx))
		v, _ := tr.Get("j1")
		assert.Equal(t, enums.JobStatusCompleted, v.Status, "terminal wins over tentative")
		return backend.Job{}, &backend.APIError{StatusCode: 409, Message: "already completed"}
	}
	err := tr.Pause(context.Background(), "j1")
	require.ErrorIs(t, err, backend.ErrRejected)
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusCompleted, v.Status)
	assert.False(t, v.HasPendingAction())
}

func TestTracker_PollDuringActionKeepsConfirmation(t *testing.T) {
	tr, fb, be := newTracked(t, job("j1", enums.JobStatusRunning, baseTime))
	be.PauseFunc = func(ctx context.Context, _ string) (backend.Job, error) {
		// poll issued after the action still sees the job running
		require.NoError(t, tr.Refresh(ctx))
		v, _ := tr.Get("j1")
		assert.Equal(t, enums.JobStatusPaused, v.Status, "tentative status shown while in flight")
		fb.set(job("j1", enums.JobStatusPaused, baseTime))
		return job("j1", enums.JobStatusPaused, baseTime), nil
	}
	require.NoError(t, tr.Pause(context.Background(), "j1"))
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusPaused, v.Status, "confirmed status applied")
	assert.False(t, v.HasPendingAction())

	// the next poll agrees with confirmation
	require.NoError(t, tr.Refresh(context.Background()))
	v, _ = tr.Get("j1")
	assert.Equal(t, enums.JobStatusPaused, v.Status)
}

func TestTracker_StaleActionResult(t *testing.T) {
	tr, fb, be := newTracked(t, job("j1", enums.JobStatusPaused, baseTime))
	be.ResumeFunc = func(ctx context.Context, _ string) (backend.Job, error) {
		fb.set(job("j1", enums.JobStatusFailed, baseTime))
		require.NoError(t, tr.Refresh(ctx))
		return job("j1", enums.JobStatusRunning, baseTime), nil // response prepared before the failure
	}
	require.NoError(t, tr.Resume(context.Background(), "j1"))
	v, _ := tr.Get("j1")
	assert.Equal(t, enums.JobStatusFailed, v.Status)
}

func TestTracker_DeleteAndStaleProgress(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusCompleted, baseTime), job("j2", enums.JobStatusRunning, baseTime))
	be.DeleteFunc = func(context.Context, string) error { return nil }

	// poll issued before delete, its response arrives after
	tr.mu.Lock()
	staleSeq := tr.nextSeq()
	tr.mu.Unlock()

	require.NoError(t, tr.Delete(context.Background(), "j1"))
	_, ok := tr.Get("j1")
	assert.False(t, ok)
	assert.Len(t, tr.Jobs(), 1)

	tr.applyPoll(staleSeq,
		[]backend.Job{job("j1", enums.JobStatusCompleted, baseTime), job("j2", enums.JobStatusRunning, baseTime)},
		[]backend.Progress{{JobID: "j1", Percentage: 100}, {JobID: "j2", Percentage: 5}})
	_, ok = tr.Get("j1")
	assert.False(t, ok, "stale poll does not bring deleted job back")
	assert.Len(t, tr.Jobs(), 1)
}

func TestTracker_DeleteNotFound(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusFailed, baseTime))
	be.DeleteFunc = func(context.Context, string) error { return &backend.APIError{StatusCode: 404} }

	require.NoError(t, tr.Delete(context.Background(), "j1"))
	assert.Empty(t, tr.Jobs())
}

func TestTracker_DeleteFailed(t *testing.T) {
	tr, _, be := newTracked(t, job("j1", enums.JobStatusFailed, baseTime))
	be.DeleteFunc = func(context.Context, string) error { return &backend.APIError{StatusCode: 500} }

	err := tr.Delete(context.Background(), "j1")
	require.ErrorIs(t, err, backend.ErrTransport)
	v, ok := tr.Get("j1")
	require.True(t, ok)
	assert.Equal(t, enums.JobStatusFailed, v.Status)
	assert.False(t, v.HasPendingAction())
}

func TestTracker_Start(t *testing.T) {
	tr, _, be := newTracked(t)
	be.StartFunc = func(_ context.Context, req backend.StartRequest) (backend.Job, error) {
		assert.Equal(t, enums.JobKindDifferential, req.Kind)
		return backend.Job{ID: "n1", Name: req.Name, Kind: req.Kind, Status: enums.JobStatusPending, CreatedAt: baseTime}, nil
	}
	v, err := tr.Start(context.Background(), enums.JobKindDifferential, "weekly")
	require.NoError(t, err)
	assert.Equal(t, "weekly", v.Name)
	got, ok := tr.Get("n1")
	require.True(t, ok)
	assert.Equal(t, enums.JobStatusPending, got.Status)

	be.StartFunc = func(context.Context, backend.StartRequest) (backend.Job, error) {
		return backend.Job{}, &backend.APIError{StatusCode: 400, Message: "unknown kind"}
	}
	_, err = tr.Start(context.Background(), enums.JobKindFull, "bad")
	require.ErrorIs(t, err, backend.ErrRejected)
	assert.Len(t, tr.Jobs(), 1)
}
