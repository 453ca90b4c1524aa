package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/waterlab/aquasim/internal/solver"
)

func TestExpand(t *testing.T) {
	combos := Expand([]string{"d", "steps"}, [][]float64{{0.1, 0.2}, {100, 200, 400}})
	if len(combos) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(combos))
	}
	if combos[0]["d"] != 0.1 || combos[0]["steps"] != 100 {
		t.Errorf("first combo = %v", combos[0])
	}
	if combos[5]["d"] != 0.2 || combos[5]["steps"] != 400 {
		t.Errorf("last combo = %v", combos[5])
	}
}

func TestExpandDegenerate(t *testing.T) {
	if Expand(nil, nil) != nil {
		t.Error("empty input should give nil")
	}
	if Expand([]string{"a"}, [][]float64{{1}, {2}}) != nil {
		t.Error("mismatched names/values should give nil")
	}
}

func TestRunnerCollectsAllOutcomes(t *testing.T) {
	var calls atomic.Int64
	boom := errors.New("boom")

	tasks := make([]Task, 8)
	for i := range tasks {
		fail := i == 3
		tasks[i] = Task{
			Name: string(rune('a' + i)),
			Run: func(ctx context.Context) (*solver.Result, error) {
				calls.Add(1)
				if fail {
					return nil, boom
				}
				return &solver.Result{}, nil
			},
		}
	}

	outcomes := Runner{Workers: 3}.Run(context.Background(), tasks)
	if len(outcomes) != 8 {
		t.Fatalf("expected 8 outcomes, got %d", len(outcomes))
	}
	if calls.Load() != 8 {
		t.Errorf("expected 8 task invocations, got %d", calls.Load())
	}
	for i, o := range outcomes {
		if o.Name != string(rune('a'+i)) {
			t.Errorf("outcome %d out of order: %q", i, o.Name)
		}
		if i == 3 {
			if !errors.Is(o.Err, boom) {
				t.Errorf("task 3 error lost: %v", o.Err)
			}
			continue
		}
		if o.Err != nil || o.Result == nil {
			t.Errorf("task %d: err=%v result=%v", i, o.Err, o.Result)
		}
	}
}

func TestRunnerHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []Task{{
		Name: "never",
		Run: func(ctx context.Context) (*solver.Result, error) {
			t.Error("task ran despite canceled context")
			return nil, nil
		},
	}}
	outcomes := Runner{}.Run(ctx, tasks)
	if !errors.Is(outcomes[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", outcomes[0].Err)
	}
}
