package jobs

import "sync"

// Registry is the process-wide job state service. Reads return snapshots;
// writes go through Update so progress stays monotonic and polls never see a
// half-written entry.
type Registry struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	inflight map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs:     make(map[string]*Job),
		inflight: make(map[string]string),
	}
}

// Put inserts or replaces a job entry.
func (r *Registry) Put(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := job
	r.jobs[job.Key] = &stored
}

// Get returns a snapshot of the job for key.
func (r *Registry) Get(key string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[key]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Update applies fn to the stored entry under the write lock. Progress never
// moves backwards: a lower value written by fn is discarded.
func (r *Registry) Update(key string, fn func(*Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[key]
	if !ok {
		return false
	}
	previous := job.Progress
	fn(job)
	if job.Progress < previous {
		job.Progress = previous
	}
	return true
}

// Remove deletes the entry for key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, key)
}

// Len reports the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// AcquireIdentity claims the single-flight slot for an identity. It returns
// false when another job for the same identity is still in flight.
func (r *Registry) AcquireIdentity(identity, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[identity]; busy {
		return false
	}
	r.inflight[identity] = key
	return true
}

// ReleaseIdentity frees the single-flight slot, but only if key still owns
// it. Safe to call more than once.
func (r *Registry) ReleaseIdentity(identity, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.inflight[identity]; ok && owner == key {
		delete(r.inflight, identity)
	}
}
