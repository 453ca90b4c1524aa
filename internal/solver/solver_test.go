package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestBoundaryApplyDirichlet(t *testing.T) {
	row := []float64{1, 2, 3, 4}
	NewDirichlet(10, 20).Apply(row)
	if row[0] != 10 || row[3] != 20 {
		t.Errorf("endpoints not pinned: %v", row)
	}
	if row[1] != 2 || row[2] != 3 {
		t.Errorf("interior values touched: %v", row)
	}
}

func TestBoundaryApplyNeumann(t *testing.T) {
	row := []float64{99, 2, 3, 99}
	NewNeumann().Apply(row)
	if row[0] != 2 || row[3] != 3 {
		t.Errorf("endpoints not mirrored: %v", row)
	}
}

func TestParseBoundary(t *testing.T) {
	if _, err := ParseBoundary("periodic", 0, 0); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for unknown kind, got %v", err)
	}
	b, err := ParseBoundary("no-flux", 0, 0)
	if err != nil || b.Kind != Neumann {
		t.Errorf("no-flux should parse as Neumann, got %v %v", b, err)
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Kind: ExplicitDiffusionUnstable, Value: 0.75}
	if !strings.Contains(w.String(), "Fo=0.75") {
		t.Errorf("warning should carry the Fourier number: %q", w.String())
	}
	w = Warning{Kind: CourantExceeded, Value: 1.5}
	if !strings.Contains(w.String(), "Cr=1.5") {
		t.Errorf("warning should carry the Courant number: %q", w.String())
	}
}

func TestFieldIsFinite(t *testing.T) {
	f := NewField(2, 3)
	if !f.IsFinite() {
		t.Error("zero field should be finite")
	}
	f[1][2] = math.NaN()
	if f.IsFinite() {
		t.Error("NaN not detected")
	}
	f[1][2] = math.Inf(1)
	if f.IsFinite() {
		t.Error("Inf not detected")
	}
}

func TestResultAccessors(t *testing.T) {
	res := &Result{
		X:     []float64{0, 1, 2, 3},
		Times: []float64{0, 1},
		Field: Field{{0, 0, 0, 0}, {1, 4, 2, 1}},
	}
	if m := res.Mass(1, 0.5); math.Abs(m-4) > 1e-12 {
		t.Errorf("mass = %g, want 4", m)
	}
	x, c := res.Peak(1)
	if x != 1 || c != 4 {
		t.Errorf("peak = (%g, %g), want (1, 4)", x, c)
	}
	if s := res.Spread(1); s <= 0 {
		t.Errorf("spread should be positive, got %g", s)
	}
	if res.HasWarning(CourantExceeded) {
		t.Error("no warnings expected")
	}
}

func TestGaussianPulse(t *testing.T) {
	ic := GaussianPulse(50, 5, 100)
	if math.Abs(ic(50)-100) > 1e-12 {
		t.Errorf("pulse center = %g, want 100", ic(50))
	}
	if ic(40) >= ic(45) || ic(60) >= ic(55) {
		t.Error("pulse should fall away from the center")
	}
}

func TestStepFront(t *testing.T) {
	ic := StepFront(20, 100, 0)
	if ic(10) != 100 || ic(30) != 0 {
		t.Error("front sides wrong")
	}
}

// shiftStepper moves every value one node downstream, for exercising the
// run loop without a real scheme.
type shiftStepper struct {
	fail bool
}

func (s *shiftStepper) Advance(next, cur []float64) error {
	if s.fail {
		return fmt.Errorf("%w: forced", ErrSingular)
	}
	next[0] = 0
	for i := 1; i < len(cur); i++ {
		next[i] = cur[i-1]
	}
	return nil
}

func (s *shiftStepper) Diagnostics() Diagnostics { return Diagnostics{Cr: 1} }
func (s *shiftStepper) Warnings() []Warning      { return nil }

func TestRunRecordsEveryStep(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	init := []float64{5, 0, 0, 0}
	res, err := Run(&shiftStepper{}, x, 0.5, 3, init, NewDirichlet(5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Field) != 4 || len(res.Times) != 4 {
		t.Fatalf("expected 4 recorded levels, got %d/%d", len(res.Field), len(res.Times))
	}
	if res.Times[3] != 1.5 {
		t.Errorf("final time = %g, want 1.5", res.Times[3])
	}
	// the front should have marched downstream one node per step, with the
	// right endpoint pinned at 0 throughout
	if res.Field[2][2] != 5 {
		t.Errorf("level 2 row = %v", res.Field[2])
	}
	if res.Field[3][3] != 0 {
		t.Errorf("right endpoint not pinned: %v", res.Field[3])
	}
	// step n+1 must not have corrupted step n's record
	if res.Field[1][1] != 5 {
		t.Errorf("intermediate row overwritten: %v", res.Field[1])
	}
}

func TestRunPropagatesStepperError(t *testing.T) {
	x := []float64{0, 1}
	_, err := Run(&shiftStepper{fail: true}, x, 1, 2, []float64{0, 0}, NewNeumann())
	if !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}
