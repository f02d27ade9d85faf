package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/history"
	"github.com/umputun/jobwatch/app/tracker"
	"github.com/umputun/jobwatch/app/web/mocks"
)

var (
	runningJob = tracker.JobView{
		Job: backend.Job{ID: "j1", Name: "nightly", Kind: enums.JobKindFull, Status: enums.JobStatusRunning,
			CreatedAt: time.Now().Add(-2 * time.Hour), StartedAt: time.Now().Add(-time.Hour)},
		Progress: &backend.Progress{JobID: "j1", Percentage: 45.04, CurrentStep: "copying", ProcessedItems: 4500,
			TotalItems: 10000, Speed: 12_000_000, EstimatedTimeRemaining: 600},
	}
	doneJob = tracker.JobView{Job: backend.Job{ID: "j2", Name: "weekly", Kind: enums.JobKindIncremental,
		Status: enums.JobStatusCompleted, CreatedAt: time.Now().Add(-5 * time.Hour),
		StartedAt: time.Now().Add(-5 * time.Hour), CompletedAt: time.Now().Add(-5*time.Hour + 90*time.Minute)}}
)

func newTestServer(t *testing.T, tr *mocks.TrackerMock, hist History) *Server {
	t.Helper()
	srv, err := New(Config{Tracker: tr, History: hist, Version: "test", ActionTimeout: time.Second, ActionLimit: 1000})
	require.NoError(t, err)
	return srv
}

func request(t *testing.T, srv *Server, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, http.NoBody)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp["error"]
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	var nilTracker *tracker.Tracker
	_, err = New(Config{Tracker: nilTracker})
	require.Error(t, err, "typed nil tracker")

	var nilStore *history.Store
	srv, err := New(Config{Tracker: &mocks.TrackerMock{}, History: nilStore})
	require.NoError(t, err)
	assert.Nil(t, srv.history)
	assert.Equal(t, 30*time.Second, srv.actionTimeout)
	assert.InDelta(t, 10, srv.actionLimit, 0.001)
}

func TestServer_Ping(t *testing.T) {
	srv := newTestServer(t, &mocks.TrackerMock{}, nil)
	w := request(t, srv, "GET", "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "jobwatch", w.Header().Get("App-Name"))
}

func TestServer_Jobs(t *testing.T) {
	tr := &mocks.TrackerMock{JobsFunc: func() []tracker.JobView { return []tracker.JobView{runningJob, doneJob} }}
	srv := newTestServer(t, tr, nil)

	w := request(t, srv, "GET", "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var jobs []APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&jobs))
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, "running", jobs[0].Status)
	assert.Equal(t, "full", jobs[0].Kind)
	assert.Equal(t, "2 hours ago", jobs[0].Age)
	require.NotNil(t, jobs[0].Progress)
	assert.InDelta(t, 45.0, jobs[0].Progress.Percentage, 0.001)
	assert.Equal(t, "4,500 of 10,000", jobs[0].Progress.Items)
	assert.Equal(t, "12 MB/s", jobs[0].Progress.SpeedHuman)
	assert.Equal(t, "10 minutes", jobs[0].Progress.ETAHuman)
	assert.Empty(t, jobs[0].Duration)

	assert.Equal(t, "completed", jobs[1].Status)
	assert.Equal(t, "1h30m0s", jobs[1].Duration)
	assert.Nil(t, jobs[1].Progress)

	w = request(t, srv, "GET", "/api/v1/jobs?status=completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "j2", jobs[0].ID)

	w = request(t, srv, "GET", "/api/v1/jobs?status=sleeping", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Unknown status "sleeping".`, errorMessage(t, w))
}

func TestServer_JobsEmpty(t *testing.T) {
	srv := newTestServer(t, &mocks.TrackerMock{JobsFunc: func() []tracker.JobView { return nil }}, nil)
	w := request(t, srv, "GET", "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String(), "empty array, not null")
}

func TestServer_Job(t *testing.T) {
	paused := runningJob
	paused.PendingAction = enums.ActionPause
	tr := &mocks.TrackerMock{GetFunc: func(id string) (tracker.JobView, bool) {
		if id == "j1" {
			return paused, true
		}
		return tracker.JobView{}, false
	}}
	srv := newTestServer(t, tr, nil)

	w := request(t, srv, "GET", "/api/v1/jobs/j1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var job APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&job))
	assert.Equal(t, "pause", job.PendingAction)

	w = request(t, srv, "GET", "/api/v1/jobs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job is not tracked, refresh the list.", errorMessage(t, w))
}

func TestServer_Summary(t *testing.T) {
	lastPoll := time.Now().Add(-time.Minute)
	tr := &mocks.TrackerMock{SummaryFunc: func() tracker.Summary {
		return tracker.Summary{Total: 3, Active: 2, Percentage: 27.54, Speed: 2_500_000, LastPoll: lastPoll,
			ByStatus:  map[enums.JobStatus]int{enums.JobStatusRunning: 1, enums.JobStatusPaused: 1, enums.JobStatusFailed: 1},
			LastError: fmt.Errorf("poll: %w", backend.ErrTransport)}
	}}
	srv := newTestServer(t, tr, nil)

	w := request(t, srv, "GET", "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sum APISummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sum))
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Active)
	assert.Equal(t, map[string]int{"running": 1, "paused": 1, "failed": 1}, sum.ByStatus)
	assert.InDelta(t, 27.5, sum.Percentage, 0.001)
	assert.Equal(t, "2.5 MB/s", sum.SpeedHuman)
	assert.Equal(t, "1 minute ago", sum.LastPollAgo)
	assert.Equal(t, "Server is unreachable, will retry.", sum.LastError)
}

func TestServer_Health(t *testing.T) {
	healthy := backend.Health{Status: enums.HealthLevelWarning, Message: "storage almost full",
		Issues: []string{"disk 90%"}, Storage: &backend.StorageUsage{Used: 900_000_000, Total: 1_000_000_000}}

	t.Run("fresh", func(t *testing.T) {
		tr := &mocks.TrackerMock{HealthFunc: func(context.Context) (backend.Health, error) { return healthy, nil }}
		w := request(t, newTestServer(t, tr, nil), "GET", "/api/v1/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		var h APIHealth
		require.NoError(t, json.NewDecoder(w.Body).Decode(&h))
		assert.Equal(t, "warning", h.Status)
		assert.False(t, h.Stale)
		require.NotNil(t, h.Storage)
		assert.Equal(t, "900 MB", h.Storage.UsedHuman)
		assert.Equal(t, "1.0 GB", h.Storage.TotalHuman)
		assert.InDelta(t, 90, h.Storage.Percentage, 0.001)
	})

	t.Run("stale", func(t *testing.T) {
		tr := &mocks.TrackerMock{
			HealthFunc:     func(context.Context) (backend.Health, error) { return backend.Health{}, backend.ErrTransport },
			LastHealthFunc: func() (backend.Health, bool) { return healthy, true },
		}
		w := request(t, newTestServer(t, tr, nil), "GET", "/api/v1/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		var h APIHealth
		require.NoError(t, json.NewDecoder(w.Body).Decode(&h))
		assert.True(t, h.Stale)
		assert.Equal(t, "Server is unreachable, will retry.", h.Error)
	})

	t.Run("never fetched", func(t *testing.T) {
		tr := &mocks.TrackerMock{
			HealthFunc:     func(context.Context) (backend.Health, error) { return backend.Health{}, backend.ErrTransport },
			LastHealthFunc: func() (backend.Health, bool) { return backend.Health{}, false },
		}
		w := request(t, newTestServer(t, tr, nil), "GET", "/api/v1/health", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestServer_History(t *testing.T) {
	recs := []history.Record{{JobID: "j2", Name: "weekly", Kind: enums.JobKindIncremental, Status: enums.JobStatusCompleted}}
	hist := &mocks.HistoryMock{
		ListFunc: func(context.Context, history.Query) ([]history.Record, error) { return recs, nil },
		GetFunc: func(_ context.Context, id string) (history.Record, error) {
			if id == "j2" {
				return recs[0], nil
			}
			return history.Record{}, history.ErrNotFound
		},
	}
	srv := newTestServer(t, &mocks.TrackerMock{}, hist)

	w := request(t, srv, "GET", "/api/v1/history?status=completed&kind=incremental&since=24h&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []history.Record
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, recs, got)
	require.Len(t, hist.ListCalls(), 1)
	q := hist.ListCalls()[0].Q
	assert.Equal(t, enums.JobStatusCompleted, q.Status)
	assert.Equal(t, enums.JobKindIncremental, q.Kind)
	assert.Equal(t, 5, q.Limit)
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), q.Since, time.Minute)

	w = request(t, srv, "GET", "/api/v1/history?since=2026-10-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), hist.ListCalls()[1].Q.Since.UTC())

	for _, bad := range []string{"status=x", "kind=x", "since=yesterday", "limit=0", "limit=abc"} {
		w = request(t, srv, "GET", "/api/v1/history?"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w = request(t, srv, "GET", "/api/v1/history/j2", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, srv, "GET", "/api/v1/history/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	hist.ListFunc = func(context.Context, history.Query) ([]history.Record, error) { return nil, errors.New("db locked") }
	w = request(t, srv, "GET", "/api/v1/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to load history.", errorMessage(t, w))
}

func TestServer_HistoryDisabled(t *testing.T) {
	srv := newTestServer(t, &mocks.TrackerMock{}, nil)
	w := request(t, srv, "GET", "/api/v1/history", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "History is disabled.", errorMessage(t, w))
}

func TestServer_Refresh(t *testing.T) {
	tr := &mocks.TrackerMock{
		RefreshFunc: func(context.Context) error { return nil },
		JobsFunc:    func() []tracker.JobView { return []tracker.JobView{runningJob} },
	}
	srv := newTestServer(t, tr, nil)
	w := request(t, srv, "POST", "/api/v1/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&jobs))
	assert.Len(t, jobs, 1)
	_, hasDeadline := tr.RefreshCalls()[0].Ctx.Deadline()
	assert.True(t, hasDeadline)

	tr.RefreshFunc = func(context.Context) error { return &backend.APIError{StatusCode: 503, Message: "maintenance"} }
	w = request(t, srv, "POST", "/api/v1/refresh", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Server is unavailable: maintenance", errorMessage(t, w))

	w = request(t, srv, "GET", "/api/v1/refresh", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_Start(t *testing.T) {
	tr := &mocks.TrackerMock{StartFunc: func(_ context.Context, kind enums.JobKind, name string) (tracker.JobView, error) {
		return tracker.JobView{Job: backend.Job{ID: "j9", Name: name, Kind: kind, Status: enums.JobStatusPending}}, nil
	}}
	srv := newTestServer(t, tr, nil)

	w := request(t, srv, "POST", "/api/v1/jobs", `{"kind":"restore","name":" db restore "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var job APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&job))
	assert.Equal(t, "j9", job.ID)
	assert.Equal(t, "restore", job.Kind)
	assert.Equal(t, "pending", job.Status)
	require.Len(t, tr.StartCalls(), 1)
	assert.Equal(t, "db restore", tr.StartCalls()[0].Name)

	tbl := []struct {
		body string
		msg  string
	}{
		{`{bad json`, "Invalid request body."},
		{`{"kind":"snapshot","name":"x"}`, `Unknown job kind "snapshot".`},
		{`{"kind":"full","name":"  "}`, "Job name is required."},
	}
	for _, tt := range tbl {
		w = request(t, srv, "POST", "/api/v1/jobs", tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.body)
		assert.Equal(t, tt.msg, errorMessage(t, w))
	}
	assert.Len(t, tr.StartCalls(), 1, "no backend call for bad input")
}

func TestServer_Actions(t *testing.T) {
	tbl := []struct {
		name     string
		method   string
		url      string
		err      error
		tracked  bool
		code     int
		errMsg   string
		response string
	}{
		{name: "pause ok", method: "POST", url: "/api/v1/jobs/j1/pause", tracked: true, code: http.StatusOK},
		{name: "resume ok", method: "POST", url: "/api/v1/jobs/j1/resume", tracked: true, code: http.StatusOK},
		{name: "cancel ok", method: "POST", url: "/api/v1/jobs/j1/cancel", tracked: true, code: http.StatusOK},
		{name: "delete ok", method: "DELETE", url: "/api/v1/jobs/j1", code: http.StatusOK,
			response: `{"id":"j1","action":"delete","removed":true}`},
		{name: "invalid transition", method: "POST", url: "/api/v1/jobs/j1/pause", code: http.StatusConflict,
			err:    &tracker.TransitionError{JobID: "j1", From: enums.JobStatusCompleted, To: enums.JobStatusPaused, Action: enums.ActionPause},
			errMsg: "Can't pause a completed job."},
		{name: "busy", method: "POST", url: "/api/v1/jobs/j1/resume", err: tracker.ErrBusy, code: http.StatusConflict,
			errMsg: "Another action on this job is still in progress, try again shortly."},
		{name: "rejected", method: "POST", url: "/api/v1/jobs/j1/cancel", code: http.StatusConflict,
			err:    fmt.Errorf("failed: %w", &backend.APIError{StatusCode: 400, Message: "locked"}),
			errMsg: "Server refused the request: locked"},
		{name: "unknown", method: "POST", url: "/api/v1/jobs/j1/cancel", err: tracker.ErrUnknownJob, code: http.StatusNotFound},
		{name: "gone", method: "POST", url: "/api/v1/jobs/j1/cancel", code: http.StatusOK,
			err:      fmt.Errorf("failed to cancel job j1: %w", &backend.APIError{StatusCode: 404}),
			response: `{"id":"j1","action":"cancel","removed":true,
				"note":"Job no longer exists on the server, it was removed from the list."}`},
		{name: "transport", method: "DELETE", url: "/api/v1/jobs/j1", err: backend.ErrTransport, code: http.StatusBadGateway},
		{name: "timeout", method: "POST", url: "/api/v1/jobs/j1/pause", err: context.DeadlineExceeded, code: http.StatusBadGateway,
			errMsg: "Server did not respond in time, will retry."},
		{name: "stopped", method: "POST", url: "/api/v1/jobs/j1/pause", err: tracker.ErrStopped, code: http.StatusServiceUnavailable},
		{name: "other", method: "POST", url: "/api/v1/jobs/j1/pause", err: errors.New("boom"), code: http.StatusInternalServerError,
			errMsg: "boom"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			action := func(_ context.Context, id string) error {
				assert.Equal(t, "j1", id)
				return tt.err
			}
			tr := &mocks.TrackerMock{
				PauseFunc: action, ResumeFunc: action, CancelFunc: action, DeleteFunc: action,
				GetFunc: func(id string) (tracker.JobView, bool) {
					if !tt.tracked {
						return tracker.JobView{}, false
					}
					v := runningJob
					v.PendingAction = enums.ActionCancel
					return v, true
				},
			}
			w := request(t, newTestServer(t, tr, nil), tt.method, tt.url, "")
			assert.Equal(t, tt.code, w.Code)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, errorMessage(t, w))
			}
			if tt.response != "" {
				assert.JSONEq(t, tt.response, w.Body.String())
			}
			if tt.tracked && tt.err == nil {
				var job APIJob
				require.NoError(t, json.NewDecoder(w.Body).Decode(&job))
				assert.Equal(t, "j1", job.ID)
			}
			calls := len(tr.PauseCalls()) + len(tr.ResumeCalls()) + len(tr.CancelCalls()) + len(tr.DeleteCalls())
			assert.Equal(t, 1, calls)
		})
	}
}

func TestServer_ActionsRateLimited(t *testing.T) {
	tr := &mocks.TrackerMock{
		PauseFunc: func(context.Context, string) error { return nil },
		GetFunc:   func(string) (tracker.JobView, bool) { return runningJob, true },
		JobsFunc:  func() []tracker.JobView { return nil },
	}
	srv, err := New(Config{Tracker: tr, ActionLimit: 1})
	require.NoError(t, err)
	handler := srv.routes()

	codes := map[int]int{}
	for range 5 {
		req := httptest.NewRequest("POST", "/api/v1/jobs/j1/pause", http.NoBody)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes[w.Code]++
	}
	assert.Positive(t, codes[http.StatusTooManyRequests])
	assert.Less(t, len(tr.PauseCalls()), 5)

	// reads are not limited
	for range 5 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/jobs", http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestServer_Run(t *testing.T) {
	srv := newTestServer(t, &mocks.TrackerMock{JobsFunc: func() []tracker.JobView { return nil }}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:18731") }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18731/api/v1/jobs")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not stopped")
	}
}
