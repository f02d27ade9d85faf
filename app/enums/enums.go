// Package enums provides type-safe enumeration types for tracked jobs.
//
// The enum types are defined as unexported integer types in this file and the go:generate
// directives invoke github.com/go-pkgz/enum to create the exported types (JobStatus, JobKind, ...)
// with String, Parse*, text marshaling and database Scan/Value methods in *_enum.go files.
//
// Usage:
//
//	status := enums.JobStatusRunning
//	fmt.Println(status.String()) // "running"
//
//	parsed, err := enums.ParseJobStatus("paused")
//	if err != nil {
//	    // handle invalid input
//	}
//
// To regenerate the enum types after modifications:
//
//	go generate ./app/enums
//
// Note: the unexported type definitions below are only used by the generator.
// All actual code should use the generated exported types.
package enums

//go:generate go run github.com/go-pkgz/enum@latest -type jobStatus -lower
//go:generate go run github.com/go-pkgz/enum@latest -type jobKind -lower
//go:generate go run github.com/go-pkgz/enum@latest -type healthLevel -lower
//go:generate go run github.com/go-pkgz/enum@latest -type action -lower
//go:generate go run github.com/go-pkgz/enum@latest -type eventType -lower

// jobStatus represents the lifecycle status of a backend job.
type jobStatus int

const (
	jobStatusPending jobStatus = iota
	jobStatusRunning
	jobStatusPaused
	jobStatusCompleted
	jobStatusFailed
	jobStatusCancelled
)

// jobKind represents the kind of backup or restore job.
type jobKind int

const (
	jobKindFull jobKind = iota
	jobKindIncremental
	jobKindDifferential
	jobKindRestore
)

// healthLevel represents the aggregate system health indicator reported by the backend.
type healthLevel int

const (
	healthLevelHealthy healthLevel = iota
	healthLevelWarning
	healthLevelCritical
)

// action represents a user-initiated lifecycle action on a job.
type action int

const (
	actionPause action = iota
	actionResume
	actionCancel
	actionDelete
)

// eventType represents tracker events delivered to subscribers.
type eventType int

const (
	eventTypeUpdated eventType = iota
	eventTypeRemoved
	eventTypeTerminal
	eventTypePollerror
)
