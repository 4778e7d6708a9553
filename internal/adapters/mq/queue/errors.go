package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	// ErrFull signals backpressure: the queue rejected a job.
	ErrFull = errors.New("queue full")
)
