package cron

import "context"

// Job is a unit of scheduled maintenance work, such as the
// verification-code retention sweep.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle, in
// registration order.
type Registry struct {
	jobs []Job
}

// NewRegistry seeds a registry with the given jobs, skipping nils.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{jobs: make([]Job, 0, len(jobs))}
	for _, j := range jobs {
		r.Register(j)
	}
	return r
}

// Register appends a job to the schedule. Nil jobs are ignored.
func (r *Registry) Register(j Job) {
	if j != nil {
		r.jobs = append(r.jobs, j)
	}
}

// Jobs returns a copy so callers cannot mutate the schedule.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
