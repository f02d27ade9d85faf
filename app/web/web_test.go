package web

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/tracker"
	trmocks "github.com/umputun/jobwatch/app/tracker/mocks"
)

func TestServer_WithTracker(t *testing.T) {
	status := enums.JobStatusRunning
	be := &trmocks.BackendMock{
		ListJobsFunc: func(context.Context) ([]backend.Job, error) {
			return []backend.Job{{ID: "j1", Name: "nightly", Kind: enums.JobKindFull, Status: status}}, nil
		},
		ProgressFunc: func(context.Context, []string) ([]backend.Progress, error) {
			return []backend.Progress{{JobID: "j1", Percentage: 30, ProcessedItems: 3, TotalItems: 10}}, nil
		},
		PauseFunc: func(_ context.Context, id string) (backend.Job, error) {
			status = enums.JobStatusPaused
			return backend.Job{ID: id, Name: "nightly", Kind: enums.JobKindFull, Status: status}, nil
		},
	}
	tr := tracker.New(be, tracker.Opts{})
	defer tr.Stop()

	srv, err := New(Config{Tracker: tr, Version: "test"})
	require.NoError(t, err)

	w := request(t, srv, "GET", "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String(), "nothing polled yet")

	w = request(t, srv, "POST", "/api/v1/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "running", jobs[0].Status)
	require.NotNil(t, jobs[0].Progress)
	assert.Equal(t, "3 of 10", jobs[0].Progress.Items)

	w = request(t, srv, "POST", "/api/v1/jobs/j1/pause", "")
	require.Equal(t, http.StatusOK, w.Code)
	var job APIJob
	require.NoError(t, json.NewDecoder(w.Body).Decode(&job))
	assert.Equal(t, "paused", job.Status)
	assert.Empty(t, job.PendingAction)

	w = request(t, srv, "POST", "/api/v1/jobs/j1/pause", "")
	assert.Equal(t, http.StatusConflict, w.Code, "already paused")
	assert.Equal(t, "Can't pause a paused job.", errorMessage(t, w))
	assert.Len(t, be.PauseCalls(), 1, "invalid transition never reaches backend")

	w = request(t, srv, "POST", "/api/v1/jobs/j2/resume", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, srv, "GET", "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sum APISummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&sum))
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, map[string]int{"paused": 1}, sum.ByStatus)
}
