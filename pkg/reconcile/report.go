package reconcile

import (
	"fmt"
	"sync"
)

// Report accumulates per-task outcomes of one reconciliation run.
// Errors are isolated per task; the report records them and the batch
// continues.
type Report struct {
	mu sync.Mutex

	Created   int
	Pushed    int
	Pulled    int
	Unchanged int
	Forgotten int
	Skipped   int
	Failed    int
	Notes     []string
}

func (r *Report) add(f func(*Report)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f(r)
}

func (r *Report) created()   { r.add(func(r *Report) { r.Created++ }) }
func (r *Report) pushed()    { r.add(func(r *Report) { r.Pushed++ }) }
func (r *Report) pulled()    { r.add(func(r *Report) { r.Pulled++ }) }
func (r *Report) unchanged() { r.add(func(r *Report) { r.Unchanged++ }) }
func (r *Report) forgotten() { r.add(func(r *Report) { r.Forgotten++ }) }

func (r *Report) skip(format string, args ...any) {
	r.add(func(r *Report) {
		r.Skipped++
		r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
	})
}

func (r *Report) fail(format string, args ...any) {
	r.add(func(r *Report) {
		r.Failed++
		r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
	})
}

// String renders a one-line summary.
func (r *Report) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("created %d, pushed %d, pulled %d, unchanged %d, forgotten %d, skipped %d, failed %d",
		r.Created, r.Pushed, r.Pulled, r.Unchanged, r.Forgotten, r.Skipped, r.Failed)
}
