package backend

import (
	"time"

	"github.com/umputun/jobwatch/app/enums"
)

// Job is a backup or restore job as reported by the backend
type Job struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Kind              enums.JobKind   `json:"kind"`
	Status            enums.JobStatus `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	StartedAt         time.Time       `json:"started_at,omitzero"`
	CompletedAt       time.Time       `json:"completed_at,omitzero"`
	Error             string          `json:"error,omitempty"`
	EstimatedDuration int64           `json:"estimated_duration,omitempty"` // seconds, 0 if unknown
}

// Progress is a point-in-time measurement of a job's completion state
type Progress struct {
	JobID                  string  `json:"job_id"`
	Percentage             float64 `json:"percentage"`
	CurrentStep            string  `json:"current_step"`
	ProcessedItems         int64   `json:"processed_items"`
	TotalItems             int64   `json:"total_items"`                        // 0 if not known yet
	Speed                  float64 `json:"speed,omitempty"`                    // bytes per second
	EstimatedTimeRemaining int64   `json:"estimated_time_remaining,omitempty"` // seconds
}

// Health is the aggregate system-level indicator of the backend
type Health struct {
	Status  enums.HealthLevel `json:"status"`
	Message string            `json:"message"`
	Issues  []string          `json:"issues,omitempty"`
	Storage *StorageUsage     `json:"storage,omitempty"`
}

// StorageUsage summarizes backup storage consumption
type StorageUsage struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// StartRequest is the body of a new job request
type StartRequest struct {
	Kind enums.JobKind `json:"kind"`
	Name string        `json:"name"`
}
