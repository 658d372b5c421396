package parq

import (
	"golang.org/x/sync/errgroup"
)

// task is the completion handle of a group of goroutines launched by a
// pipeline stage. Waiting returns the first failure.
type task struct {
	g *errgroup.Group
}

func newTask() *task {
	return &task{g: &errgroup.Group{}}
}

func (t *task) Go(f func() error) {
	t.g.Go(f)
}

func (t *task) Wait() error {
	return t.g.Wait()
}
