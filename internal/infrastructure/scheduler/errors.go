package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when submitting to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrUnknownJob is returned for job names without a registered task
	ErrUnknownJob = errors.New("unknown job")

	// ErrJobAlreadyRunning is returned when a job with the same name is in flight
	ErrJobAlreadyRunning = errors.New("job already running")
)
