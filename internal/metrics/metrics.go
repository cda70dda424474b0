// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncSignup()
	IncLogin()
	IncUserDeleted()
	IncAuthFailure(reason string) // reason: "missing", "invalid", "expired", "revoked"

	// Task metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()

	// Public profile cache metrics
	IncProfileCacheHit()
	IncProfileCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
