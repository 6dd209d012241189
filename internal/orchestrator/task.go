package orchestrator

import "context"

// Task is the handle for a run started in the background.
type Task struct {
	done   chan struct{}
	result *RunResult
	err    error
}

// Done is closed once the run has published or reported its failure.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the run finishes and returns its outcome.
func (t *Task) Wait() (*RunResult, error) {
	<-t.done
	return t.result, t.err
}

// Start runs Run on a new goroutine and returns immediately.
func (o *Orchestrator) Start(ctx context.Context) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.result, t.err = o.Run(ctx)
	}()
	return t
}
