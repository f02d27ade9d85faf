package enums

// IsTerminal reports whether the status is final: completed, failed or cancelled
func (e JobStatus) IsTerminal() bool {
	return e == JobStatusCompleted || e == JobStatusFailed || e == JobStatusCancelled
}

// IsActive reports whether the job still needs polling, i.e. a known non-terminal status
func (e JobStatus) IsActive() bool {
	return e == JobStatusPending || e == JobStatusRunning || e == JobStatusPaused
}
