package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/jobwatch/app/backend"
	"github.com/umputun/jobwatch/app/enums"
)

var (
	// ErrInvalidTransition returned when an action or a reported status does not follow job state machine
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrBusy returned when another action on the same job is still in flight
	ErrBusy = errors.New("action in progress")
	// ErrStopped returned for requests made after Stop
	ErrStopped = errors.New("tracker stopped")
	// ErrUnknownJob returned for actions on a job not in cache
	ErrUnknownJob = errors.New("unknown job")
)

// TransitionError describes rejected state change. Action is set for user actions,
// To is set for status reported by backend.
type TransitionError struct {
	JobID  string
	From   enums.JobStatus
	To     enums.JobStatus
	Action enums.Action
}

func (e *TransitionError) Error() string {
	if e.Action != (enums.Action{}) {
		return fmt.Sprintf("can't %s job %s, status %s", e.Action, e.JobID, e.From)
	}
	return fmt.Sprintf("job %s can't change status from %s to %s", e.JobID, e.From, e.To)
}

// Unwrap makes TransitionError match ErrInvalidTransition
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Is makes TransitionError match backend.ErrRejected, local validation is a rejection that skipped the network
func (e *TransitionError) Is(target error) bool { return target == backend.ErrRejected }

// Describe makes user-displayable message for an error returned by tracker or backend
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var trErr *TransitionError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &trErr):
		if trErr.Action != (enums.Action{}) {
			return fmt.Sprintf("Can't %s a %s job.", trErr.Action, trErr.From)
		}
		return fmt.Sprintf("Job can't move from %s to %s.", trErr.From, trErr.To)
	case errors.Is(err, ErrBusy):
		return "Another action on this job is still in progress, try again shortly."
	case errors.Is(err, ErrStopped):
		return "Job tracking is stopped."
	case errors.Is(err, ErrUnknownJob):
		return "Job is not tracked, refresh the list."
	case errors.Is(err, backend.ErrNotFound):
		return "Job no longer exists on the server, it was removed from the list."
	case errors.Is(err, backend.ErrRejected):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "Server refused the request: " + apiErr.Message
		}
		return "Server refused the request."
	case errors.Is(err, context.DeadlineExceeded):
		return "Server did not respond in time, will retry."
	case errors.Is(err, backend.ErrTransport):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return "Server is unavailable: " + apiErr.Message
		}
		return "Server is unreachable, will retry."
	case errors.Is(err, context.Canceled):
		return "Request was canceled."
	default:
		return err.Error()
	}
}
