// Package sweep runs batches of independent solver configurations, one
// solver instance per task. Each instance exclusively owns its state, so
// the batch parallelizes without locking.
package sweep

import (
	"context"
	"sync"

	"github.com/waterlab/aquasim/internal/solver"
)

// Task is one solve to run. Run must build its own solver instance;
// nothing is shared between tasks.
type Task struct {
	Name   string
	Params map[string]float64
	Run    func(ctx context.Context) (*solver.Result, error)
}

// Outcome pairs a task with what happened to it. A task error does not
// abort the batch.
type Outcome struct {
	Name   string
	Params map[string]float64
	Result *solver.Result
	Err    error
}

// Runner executes tasks on a bounded worker pool.
type Runner struct {
	Workers int // default 4
}

// Run executes every task and returns outcomes in task order. A canceled
// context surfaces as the error of the tasks that did not finish.
func (r Runner) Run(ctx context.Context, tasks []Task) []Outcome {
	workers := r.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	outcomes := make([]Outcome, len(tasks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				t := tasks[i]
				out := Outcome{Name: t.Name, Params: t.Params}
				if err := ctx.Err(); err != nil {
					out.Err = err
				} else {
					out.Result, out.Err = t.Run(ctx)
				}
				outcomes[i] = out
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// Expand builds the cartesian product of named parameter ranges, one map
// per combination, in lexicographic order of the given names.
func Expand(names []string, values [][]float64) []map[string]float64 {
	if len(names) == 0 || len(names) != len(values) {
		return nil
	}
	var out []map[string]float64
	expand(names, values, 0, map[string]float64{}, &out)
	return out
}

func expand(names []string, values [][]float64, depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(names) {
		combo := make(map[string]float64, len(current))
		for k, v := range current {
			combo[k] = v
		}
		*out = append(*out, combo)
		return
	}
	for _, v := range values[depth] {
		current[names[depth]] = v
		expand(names, values, depth+1, current, out)
	}
	delete(current, names[depth])
}
