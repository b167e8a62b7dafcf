package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/donutdate/pkg/graph"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// Fatal evaluation outcomes. Both are returned wrapped; test with errors.Is.
var (
	ErrTimeout    = errors.New("evaluation timed out")
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	graph  *graph.SceneGraph
	errors []EvalError
	err    error
}

// wait returns the result of evaluation gen from ch. A result that arrives
// after a newer Evaluate started is dropped with ErrSuperseded; none within
// e.timeout gives ErrTimeout and leaves the goroutine to finish on its own.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*graph.SceneGraph, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if gen != e.currentGeneration() {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
