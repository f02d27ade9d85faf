// Package backend implements HTTP client for the REST backend running backup and restore jobs.
// All non-2xx responses are reported as *APIError, network and decoding failures wrap ErrTransport.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
	"github.com/google/uuid"

	"github.com/umputun/jobwatch/app/enums"
)

const maxResponseSize = 4 * 1024 * 1024

// Client talks to the backend jobs API
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	batchProgress bool
	concurrency   int
}

// Params for New
type Params struct {
	BaseURL       string        // e.g. https://backend.example.com/api/backups
	Token         string        // bearer token, optional
	Timeout       time.Duration // per-request timeout, defaults to 30s
	BatchProgress bool          // use GET /jobs/progress?ids=... instead of per-job requests
	Concurrency   int           // max parallel per-job progress requests, defaults to 4
	HTTPClient    *http.Client  // optional, overrides Timeout
}

// New makes backend client
func New(p Params) *Client {
	res := &Client{
		baseURL:       strings.TrimSuffix(p.BaseURL, "/"),
		token:         p.Token,
		httpClient:    p.HTTPClient,
		batchProgress: p.BatchProgress,
		concurrency:   p.Concurrency,
	}
	if res.httpClient == nil {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		res.httpClient = &http.Client{Timeout: timeout}
	}
	if res.concurrency <= 0 {
		res.concurrency = 4
	}
	return res
}

// ListJobs returns all jobs known to the backend
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var res []Job
	if err := c.do(ctx, http.MethodGet, "/jobs", nil, &res); err != nil {
		return nil, err
	}
	for i, j := range res {
		if err := checkJob(j); err != nil {
			return nil, fmt.Errorf("%w: malformed job #%d in GET /jobs: %w", ErrTransport, i, err)
		}
	}
	return res, nil
}

// Progress returns progress snapshots for given job ids. Jobs unknown to the backend are omitted.
func (c *Client) Progress(ctx context.Context, ids []string) ([]Progress, error) {
	if len(ids) == 0 {
		return []Progress{}, nil
	}
	if c.batchProgress {
		var res []Progress
		path := "/jobs/progress?ids=" + url.QueryEscape(strings.Join(ids, ","))
		if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
			return nil, err
		}
		return res, nil
	}
	return c.progressByID(ctx, ids)
}

// progressByID fetches progress one job at a time with limited concurrency
func (c *Client) progressByID(ctx context.Context, ids []string) ([]Progress, error) {
	var (
		mu       sync.Mutex
		res      = make([]Progress, 0, len(ids))
		firstErr error
	)

	gr := syncs.NewSizedGroup(c.concurrency, syncs.Preemptive)
	for _, id := range ids {
		gr.Go(func(context.Context) {
			var p Progress
			err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id)+"/progress", nil, &p)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrNotFound):
				log.Printf("[DEBUG] no progress for %s, job not found", id)
			case err != nil:
				if firstErr == nil {
					firstErr = err
				}
			default:
				if p.JobID == "" {
					p.JobID = id
				}
				res = append(res, p)
			}
		})
	}
	gr.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

// Start asks the backend to create a new job
func (c *Client) Start(ctx context.Context, req StartRequest) (Job, error) {
	var res Job
	if err := c.do(ctx, http.MethodPost, "/jobs", req, &res); err != nil {
		return Job{}, err
	}
	if err := checkJob(res); err != nil {
		return Job{}, fmt.Errorf("%w: malformed job in POST /jobs: %w", ErrTransport, err)
	}
	return res, nil
}

// Pause requests pause of a running job, returns the job as updated by the backend
func (c *Client) Pause(ctx context.Context, id string) (Job, error) {
	return c.jobAction(ctx, id, "pause")
}

// Resume requests resume of a paused job
func (c *Client) Resume(ctx context.Context, id string) (Job, error) {
	return c.jobAction(ctx, id, "resume")
}

// Cancel requests cancellation. The backend may confirm it later, the returned status can still be non-terminal.
func (c *Client) Cancel(ctx context.Context, id string) (Job, error) {
	return c.jobAction(ctx, id, "cancel")
}

// Delete removes a finished job from the backend
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, nil)
}

// Health returns backend health status
func (c *Client) Health(ctx context.Context) (Health, error) {
	var res Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return Health{}, err
	}
	return res, nil
}

func (c *Client) jobAction(ctx context.Context, id, action string) (Job, error) {
	var res Job
	if err := c.do(ctx, http.MethodPost, "/jobs/"+url.PathEscape(id)+"/"+action, nil, &res); err != nil {
		return Job{}, err
	}
	if res.ID == "" { // empty body, action accepted as requested
		return res, nil
	}
	if err := checkJob(res); err != nil {
		return Job{}, fmt.Errorf("%w: malformed job in %s response: %w", ErrTransport, action, err)
	}
	return res, nil
}

// checkJob rejects job objects without id or status
func checkJob(j Job) error {
	if j.ID == "" {
		return errors.New("no job id")
	}
	if j.Status == (enums.JobStatus{}) {
		return fmt.Errorf("no status of job %s", j.ID)
	}
	return nil
}

// do performs a single request, no retries. Body and result are JSON, result may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close response body: %v", closeErr)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response of %s %s: %w", ErrTransport, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: malformed response of %s %s: %w", ErrTransport, method, path, err)
	}
	return nil
}

// errorMessage extracts human message from the error body, json {"error": ...} or {"message": ...} or plain text
func errorMessage(body []byte) string {
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Error != "" {
			return resp.Error
		}
		if resp.Message != "" {
			return resp.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256] + "..."
	}
	return msg
}
