package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups            uint64
	Logins             uint64
	UsersDeleted       uint64
	AuthFailures       uint64
	TasksCreated       uint64
	TasksUpdated       uint64
	TasksDeleted       uint64
	ProfileCacheHits   uint64
	ProfileCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signups            uint64
	logins             uint64
	usersDeleted       uint64
	authFailures       uint64
	tasksCreated       uint64
	tasksUpdated       uint64
	tasksDeleted       uint64
	profileCacheHits   uint64
	profileCacheMisses uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Signups:            atomic.LoadUint64(&m.signups),
		Logins:             atomic.LoadUint64(&m.logins),
		UsersDeleted:       atomic.LoadUint64(&m.usersDeleted),
		AuthFailures:       atomic.LoadUint64(&m.authFailures),
		TasksCreated:       atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:       atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:       atomic.LoadUint64(&m.tasksDeleted),
		ProfileCacheHits:   atomic.LoadUint64(&m.profileCacheHits),
		ProfileCacheMisses: atomic.LoadUint64(&m.profileCacheMisses),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncLogin increments the login counter.
func (m *InMemoryRecorder) IncLogin() {
	atomic.AddUint64(&m.logins, 1)
}

// IncUserDeleted increments the user deletion counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncAuthFailure increments the auth failure counter.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	atomic.AddUint64(&m.authFailures, 1)
}

// IncTaskCreated increments the task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments the task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncProfileCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncProfileCacheHit() {
	atomic.AddUint64(&m.profileCacheHits, 1)
}

// IncProfileCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncProfileCacheMiss() {
	atomic.AddUint64(&m.profileCacheMisses, 1)
}
