package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
	"github.com/umputun/jobwatch/app/history"
	"github.com/umputun/jobwatch/app/tracker"
)

// APIJob represents a job in JSON API response
type APIJob struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Kind              string       `json:"kind"`
	Status            string       `json:"status"`
	PendingAction     string       `json:"pending_action,omitempty"`
	CreatedAt         time.Time    `json:"created_at,omitzero"`
	StartedAt         time.Time    `json:"started_at,omitzero"`
	CompletedAt       time.Time    `json:"completed_at,omitzero"`
	Age               string       `json:"age,omitempty"` // humanized time since creation
	Duration          string       `json:"duration,omitempty"`
	EstimatedDuration int64        `json:"estimated_duration,omitempty"`
	Error             string       `json:"error,omitempty"`
	Progress          *APIProgress `json:"progress,omitempty"`
}

// APIProgress represents the latest progress snapshot of a job
type APIProgress struct {
	Percentage     float64 `json:"percentage"`
	CurrentStep    string  `json:"current_step,omitempty"`
	ProcessedItems int64   `json:"processed_items"`
	TotalItems     int64   `json:"total_items"`
	Items          string  `json:"items,omitempty"` // e.g. "4,500 of 10,000"
	Speed          float64 `json:"speed,omitempty"`
	SpeedHuman     string  `json:"speed_human,omitempty"` // e.g. "12 MB/s"
	ETA            int64   `json:"eta,omitempty"`
	ETAHuman       string  `json:"eta_human,omitempty"`
}

// APISummary is the JSON response for /api/v1/summary
type APISummary struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	ByStatus    map[string]int `json:"by_status"`
	Percentage  float64        `json:"percentage"`
	Speed       float64        `json:"speed"`
	SpeedHuman  string         `json:"speed_human,omitempty"`
	LastPoll    time.Time      `json:"last_poll,omitzero"`
	LastPollAgo string         `json:"last_poll_ago,omitempty"`
	LastError   string         `json:"last_error,omitempty"` // user-displayable message of the last failed poll
}

// APIHealth is the JSON response for /api/v1/health
type APIHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Issues  []string    `json:"issues,omitempty"`
	Storage *APIStorage `json:"storage,omitempty"`
	Stale   bool        `json:"stale,omitempty"` // last known health, backend didn't respond
	Error   string      `json:"error,omitempty"`
}

// APIStorage is storage usage with humanized sizes
type APIStorage struct {
	Used       uint64  `json:"used"`
	Total      uint64  `json:"total"`
	UsedHuman  string  `json:"used_human"`
	TotalHuman string  `json:"total_human"`
	Percentage float64 `json:"percentage"`
}

// APIStartRequest is the body of POST /api/v1/jobs
type APIStartRequest struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// APIActionResponse is returned by actions when the job is no longer tracked
type APIActionResponse struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Removed bool   `json:"removed"`
	Note    string `json:"note,omitempty"`
}

// handleJobs returns tracked jobs, newest first. Optional "status" query filters by status.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	var filter enums.JobStatus
	if st := r.URL.Query().Get("status"); st != "" {
		parsed, err := enums.ParseJobStatus(st)
		if err != nil {
			rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, fmt.Sprintf("Unknown status %q.", st))
			return
		}
		filter = parsed
	}

	jobs := s.tracker.Jobs()
	res := make([]APIJob, 0, len(jobs))
	for _, v := range jobs {
		if filter != (enums.JobStatus{}) && v.Status != filter {
			continue
		}
		res = append(res, toAPIJob(v))
	}
	rest.RenderJSON(w, res)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	v, ok := s.tracker.Get(r.PathValue("id"))
	if !ok {
		rest.SendErrorJSON(w, r, nil, http.StatusNotFound, tracker.ErrUnknownJob, tracker.Describe(tracker.ErrUnknownJob))
		return
	}
	rest.RenderJSON(w, toAPIJob(v))
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	sum := s.tracker.Summary()
	res := APISummary{
		Total:      sum.Total,
		Active:     sum.Active,
		ByStatus:   make(map[string]int, len(sum.ByStatus)),
		Percentage: round(sum.Percentage),
		Speed:      sum.Speed,
		LastPoll:   sum.LastPoll,
		LastError:  tracker.Describe(sum.LastError),
	}
	for st, n := range sum.ByStatus {
		res.ByStatus[st.String()] = n
	}
	if sum.Speed > 0 {
		res.SpeedHuman = speed(sum.Speed)
	}
	if !sum.LastPoll.IsZero() {
		res.LastPollAgo = humanize.Time(sum.LastPoll)
	}
	rest.RenderJSON(w, res)
}

// handleHealth asks backend for health. If backend fails, the last known health is returned marked as stale.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h, err := s.tracker.Health(r.Context())
	if err == nil {
		rest.RenderJSON(w, toAPIHealth(h))
		return
	}
	last, ok := s.tracker.LastHealth()
	if !ok {
		rest.SendErrorJSON(w, r, log.Default(), statusCode(err), err, tracker.Describe(err))
		return
	}
	res := toAPIHealth(last)
	res.Stale, res.Error = true, tracker.Describe(err)
	rest.RenderJSON(w, res)
}

// handleHistory lists finished jobs. Supports status, kind, since (RFC3339 or duration like 24h) and limit queries.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		rest.SendErrorJSON(w, r, nil, http.StatusNotFound, errors.New("history disabled"), "History is disabled.")
		return
	}
	q, err := historyQuery(r)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, err.Error())
		return
	}
	recs, err := s.history.List(r.Context(), q)
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "Failed to load history.")
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	rest.RenderJSON(w, recs)
}

func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		rest.SendErrorJSON(w, r, nil, http.StatusNotFound, errors.New("history disabled"), "History is disabled.")
		return
	}
	rec, err := s.history.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, history.ErrNotFound) {
		rest.SendErrorJSON(w, r, nil, http.StatusNotFound, err, "Job is not in history.")
		return
	}
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "Failed to load history.")
		return
	}
	rest.RenderJSON(w, rec)
}

// handleRefresh polls backend right away and returns updated job list
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.actionTimeout)
	defer cancel()
	if err := s.tracker.Refresh(ctx); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), statusCode(err), err, tracker.Describe(err))
		return
	}
	s.handleJobs(w, r)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req APIStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, err, "Invalid request body.")
		return
	}
	kind, err := enums.ParseJobKind(req.Kind)
	if err != nil {
		rest.SendErrorJSON(w, r, nil, http.StatusBadRequest, err, fmt.Sprintf("Unknown job kind %q.", req.Kind))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		rest.SendErrorJSON(w, r, nil, http.StatusBadRequest, errors.New("empty name"), "Job name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.actionTimeout)
	defer cancel()
	v, err := s.tracker.Start(ctx, kind, strings.TrimSpace(req.Name))
	if err != nil {
		rest.SendErrorJSON(w, r, log.Default(), statusCode(err), err, tracker.Describe(err))
		return
	}
	rest.RenderJSON(w, toAPIJob(v))
}

// handleAction makes handler of a user action. Responds with the job after the action,
// or with removed flag if the job is gone.
func (s *Server) handleAction(action enums.Action) http.HandlerFunc {
	do := map[enums.Action]func(ctx context.Context, id string) error{
		enums.ActionPause:  s.tracker.Pause,
		enums.ActionResume: s.tracker.Resume,
		enums.ActionCancel: s.tracker.Cancel,
		enums.ActionDelete: s.tracker.Delete,
	}[action]

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := context.WithTimeout(r.Context(), s.actionTimeout)
		defer cancel()
		if err := do(ctx, id); err != nil {
			if _, tracked := s.tracker.Get(id); errors.Is(err, backend.ErrNotFound) && !tracked {
				// gone from backend, the job is dropped from the list
				log.Printf("[INFO] %s of %s, %v", action, id, err)
				rest.RenderJSON(w, APIActionResponse{ID: id, Action: action.String(), Removed: true, Note: tracker.Describe(err)})
				return
			}
			rest.SendErrorJSON(w, r, log.Default(), statusCode(err), err, tracker.Describe(err))
			return
		}
		if v, ok := s.tracker.Get(id); ok {
			rest.RenderJSON(w, toAPIJob(v))
			return
		}
		rest.RenderJSON(w, APIActionResponse{ID: id, Action: action.String(), Removed: true})
	}
}

// statusCode maps tracker and backend errors to http status
func statusCode(err error) int {
	switch {
	case errors.Is(err, tracker.ErrInvalidTransition), errors.Is(err, tracker.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrUnknownJob), errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, backend.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	case errors.Is(err, tracker.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func historyQuery(r *http.Request) (history.Query, error) {
	var q history.Query
	params := r.URL.Query()
	if v := params.Get("status"); v != "" {
		st, err := enums.ParseJobStatus(v)
		if err != nil {
			return q, fmt.Errorf("unknown status %q", v)
		}
		q.Status = st
	}
	if v := params.Get("kind"); v != "" {
		kind, err := enums.ParseJobKind(v)
		if err != nil {
			return q, fmt.Errorf("unknown kind %q", v)
		}
		q.Kind = kind
	}
	if v := params.Get("since"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			q.Since = time.Now().Add(-d)
		} else if ts, err := time.Parse(time.RFC3339, v); err == nil {
			q.Since = ts
		} else {
			return q, fmt.Errorf("invalid since %q, expected duration or RFC3339 time", v)
		}
	}
	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return q, fmt.Errorf("invalid limit %q", v)
		}
		q.Limit = limit
	}
	return q, nil
}

func toAPIJob(v tracker.JobView) APIJob {
	res := APIJob{
		ID:                v.ID,
		Name:              v.Name,
		Kind:              v.Kind.String(),
		Status:            v.Status.String(),
		CreatedAt:         v.CreatedAt,
		StartedAt:         v.StartedAt,
		CompletedAt:       v.CompletedAt,
		EstimatedDuration: v.EstimatedDuration,
		Error:             v.Error,
	}
	if v.HasPendingAction() {
		res.PendingAction = v.PendingAction.String()
	}
	if !v.CreatedAt.IsZero() {
		res.Age = humanize.Time(v.CreatedAt)
	}
	if !v.StartedAt.IsZero() && v.CompletedAt.After(v.StartedAt) {
		res.Duration = v.CompletedAt.Sub(v.StartedAt).Round(time.Second).String()
	}
	if p := v.Progress; p != nil {
		res.Progress = &APIProgress{
			Percentage:     round(p.Percentage),
			CurrentStep:    p.CurrentStep,
			ProcessedItems: p.ProcessedItems,
			TotalItems:     p.TotalItems,
			Speed:          p.Speed,
			ETA:            p.EstimatedTimeRemaining,
		}
		if p.TotalItems > 0 {
			res.Progress.Items = humanize.Comma(p.ProcessedItems) + " of " + humanize.Comma(p.TotalItems)
		}
		if p.Speed > 0 {
			res.Progress.SpeedHuman = speed(p.Speed)
		}
		if p.EstimatedTimeRemaining > 0 {
			now := time.Now()
			eta := now.Add(time.Duration(p.EstimatedTimeRemaining) * time.Second)
			res.Progress.ETAHuman = strings.TrimSpace(humanize.RelTime(now, eta, "", ""))
		}
	}
	return res
}

func toAPIHealth(h backend.Health) APIHealth {
	res := APIHealth{Status: h.Status.String(), Message: h.Message, Issues: h.Issues}
	if st := h.Storage; st != nil {
		res.Storage = &APIStorage{Used: st.Used, Total: st.Total, UsedHuman: humanize.Bytes(st.Used),
			TotalHuman: humanize.Bytes(st.Total)}
		if st.Total > 0 {
			res.Storage.Percentage = round(float64(st.Used) / float64(st.Total) * 100)
		}
	}
	return res
}

func speed(bytesPerSec float64) string {
	return humanize.Bytes(uint64(bytesPerSec)) + "/s"
}

// round to one decimal
func round(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
