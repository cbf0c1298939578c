package sculpt

import (
	"errors"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// memTarget is an in-memory geometry source.
type memTarget struct {
	handle uint64
	verts  []rl.Vector3
	matrix rl.Matrix
	writes int
}

func newMemTarget(handle uint64, verts []rl.Vector3) *memTarget {
	return &memTarget{handle: handle, verts: verts, matrix: rl.MatrixIdentity()}
}

func (m *memTarget) Handle() uint64              { return m.handle }
func (m *memTarget) LocalVertices() []rl.Vector3 { return m.verts }
func (m *memTarget) WorldMatrix() rl.Matrix      { return m.matrix }
func (m *memTarget) SetLocalVertices(v []rl.Vector3) {
	m.verts = v
	m.writes++
}

func gridVertices(n int, spacing float32) []rl.Vector3 {
	verts := make([]rl.Vector3, 0, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			verts = append(verts, rl.Vector3{X: float32(x) * spacing, Z: float32(z) * spacing})
		}
	}
	return verts
}

func near(a, b rl.Vector3) bool {
	const eps = 1e-5
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func TestApplyStrokePullScenario(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{}, {X: 0.5}, {X: 2}})
	if err := e.Bind(target); err != nil {
		t.Fatal(err)
	}
	if err := e.SetMode("Pull"); err != nil {
		t.Fatal(err)
	}
	e.SetBrush(1.0, 0.5)

	if err := e.ApplyStroke(rl.Vector3{}); err != nil {
		t.Fatal(err)
	}

	got := target.verts
	if got[0] != (rl.Vector3{}) {
		t.Errorf("Vertex at the brush point should not move, got %v", got[0])
	}
	if got[1] != (rl.Vector3{X: 0.25}) {
		t.Errorf("Expected vertex 1 at (0.25,0,0), got %v", got[1])
	}
	if got[2] != (rl.Vector3{X: 2}) {
		t.Errorf("Vertex outside the radius should not move, got %v", got[2])
	}
}

func TestApplyStrokeFalloffBoundary(t *testing.T) {
	for _, m := range Modes() {
		e := New(0)
		verts := []rl.Vector3{{X: 1}, {Y: -1}, {Z: 1.5}, {X: 0.5}}
		target := newMemTarget(1, verts)
		e.Bind(target)
		e.SetModeValue(m)
		e.SetBrush(1, 1)

		e.ApplyStroke(rl.Vector3{})

		for i := 0; i < 3; i++ {
			if target.verts[i] != verts[i] {
				t.Errorf("%v: vertex %d at or beyond the radius moved to %v", m, i, target.verts[i])
			}
		}
	}
}

func TestPushMovesAway(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	e.Bind(target)
	e.SetBrush(1, 0.5)

	e.ApplyStroke(rl.Vector3{})

	if target.verts[0] != (rl.Vector3{X: 0.75}) {
		t.Errorf("Expected push to (0.75,0,0), got %v", target.verts[0])
	}
}

func TestPushPullSymmetry(t *testing.T) {
	verts := gridVertices(6, 0.2)
	brush := rl.Vector3{X: 0.45, Y: 0.1, Z: 0.55}

	push := New(0)
	pushTarget := newMemTarget(1, verts)
	push.Apply(pushTarget, Stroke{Point: brush, Mode: ModePush, Brush: Brush{Radius: 0.6, Strength: -0.3}})

	pull := New(0)
	pullTarget := newMemTarget(2, verts)
	pull.Apply(pullTarget, Stroke{Point: brush, Mode: ModePull, Brush: Brush{Radius: 0.6, Strength: 0.3}})

	moved := 0
	for i := range verts {
		if pushTarget.verts[i] != pullTarget.verts[i] {
			t.Errorf("Vertex %d: push %v != pull %v", i, pushTarget.verts[i], pullTarget.verts[i])
		}
		if pullTarget.verts[i] != verts[i] {
			moved++
		}
	}
	if moved == 0 {
		t.Error("Expected some vertices to move")
	}
}

func TestGrabMatchesPullAndPinchMatchesPush(t *testing.T) {
	verts := gridVertices(5, 0.25)
	brush := rl.Vector3{X: 0.5, Y: 0.2, Z: 0.5}
	b := Brush{Radius: 0.7, Strength: 0.4}

	run := func(m Mode) []rl.Vector3 {
		e := New(0)
		target := newMemTarget(1, verts)
		if err := e.Apply(target, Stroke{Point: brush, Mode: m, Brush: b}); err != nil {
			t.Fatal(err)
		}
		return target.verts
	}

	pull, grab := run(ModePull), run(ModeGrab)
	push, pinch := run(ModePush), run(ModePinch)
	for i := range verts {
		if pull[i] != grab[i] {
			t.Errorf("Vertex %d: grab %v != pull %v", i, grab[i], pull[i])
		}
		if push[i] != pinch[i] {
			t.Errorf("Vertex %d: pinch %v != push %v", i, pinch[i], push[i])
		}
	}
}

func TestDegenerateDirectionNoNaN(t *testing.T) {
	for _, m := range []Mode{ModePush, ModePull, ModeGrab, ModePinch} {
		e := New(0)
		p := rl.Vector3{X: 1, Y: 2, Z: 3}
		target := newMemTarget(1, []rl.Vector3{p})
		e.Apply(target, Stroke{Point: p, Mode: m, Brush: Brush{Radius: 1, Strength: 1}})

		if target.verts[0] != p {
			t.Errorf("%v: coincident vertex should not move, got %v", m, target.verts[0])
		}
	}
}

func TestSmoothAveragesNeighbors(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{}, {X: 0.2}, {X: 0.4}})
	e.Apply(target, Stroke{Mode: ModeSmooth, Brush: Brush{Radius: 0.5, Strength: 0.5}})

	// Vertex 1 averages in the already smoothed vertex 0; vertex 2 sees both.
	want := []rl.Vector3{{X: 0.15}, {X: 0.2225}, {X: 0.378625}}
	for i := range want {
		if !near(target.verts[i], want[i]) {
			t.Errorf("Vertex %d: expected %v, got %v", i, want[i], target.verts[i])
		}
	}
}

func TestSmoothUsesMovedNeighbors(t *testing.T) {
	verts := []rl.Vector3{{}, {X: 0.3}, {X: 0.6}}
	stroke := Stroke{Point: rl.Vector3{X: 0.3}, Mode: ModeSmooth, Brush: Brush{Radius: 0.35, Strength: 1}}

	for _, useGrid := range []bool{false, true} {
		e := New(0)
		e.UseSpatialIndex = useGrid
		target := newMemTarget(1, verts)
		if err := e.Apply(target, stroke); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		// Influences: 0.142857, 1, 0.142857. Vertex 0 -> mean of {0.3}.
		v0 := float32(0.3) * (float32(1) - float32(0.3)/0.35)
		if !near(target.verts[0], rl.Vector3{X: v0}) {
			t.Errorf("grid=%v vertex 0: expected %v, got %v", useGrid, v0, target.verts[0])
		}
		// Vertex 1 reads vertex 0 at its new position.
		v1 := (v0 + 0.6) / 2
		if !near(target.verts[1], rl.Vector3{X: v1}) {
			t.Errorf("grid=%v vertex 1: expected %v, got %v", useGrid, v1, target.verts[1])
		}
	}
}

func TestSmoothIsolatedVertex(t *testing.T) {
	e := New(0)
	p := rl.Vector3{X: 0.3}
	target := newMemTarget(1, []rl.Vector3{p})
	e.Apply(target, Stroke{Mode: ModeSmooth, Brush: Brush{Radius: 1, Strength: 1}})

	if target.verts[0] != p {
		t.Errorf("Isolated vertex should not move, got %v", target.verts[0])
	}
}

func TestSmoothSpatialIndexMatchesScan(t *testing.T) {
	verts := gridVertices(12, 0.1)
	for i := range verts {
		verts[i].Y = float32(math.Sin(float64(i))) * 0.05
	}
	stroke := Stroke{Point: rl.Vector3{X: 0.5, Z: 0.6}, Mode: ModeSmooth, Brush: Brush{Radius: 0.35, Strength: 0.8}}

	scan := New(0)
	scanTarget := newMemTarget(1, verts)
	scan.Apply(scanTarget, stroke)

	grid := New(0)
	grid.UseSpatialIndex = true
	gridTarget := newMemTarget(1, verts)
	grid.Apply(gridTarget, stroke)

	for i := range verts {
		if scanTarget.verts[i] != gridTarget.verts[i] {
			t.Errorf("Vertex %d: scan %v != grid %v", i, scanTarget.verts[i], gridTarget.verts[i])
		}
	}
}

func TestApplyStrokeTransformed(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	target.matrix = rl.MatrixMultiply(rl.MatrixScale(2, 2, 2), rl.MatrixTranslate(10, 0, 0))
	e.Bind(target)
	e.SetMode("Pull")
	e.SetBrush(2, 1)

	// World position of the vertex is (11,0,0): distance 1, influence 0.5,
	// world displacement 0.5 which is 0.25 in local units.
	e.ApplyStroke(rl.Vector3{X: 10})

	if !near(target.verts[0], rl.Vector3{X: 0.25}) {
		t.Errorf("Expected local (0.25,0,0), got %v", target.verts[0])
	}
}

func TestUndoRestoresExactly(t *testing.T) {
	e := New(0)
	verts := gridVertices(8, 0.15)
	target := newMemTarget(1, verts)
	e.Bind(target)
	e.SetBrush(0.5, 0.35)

	for _, m := range Modes() {
		e.SetModeValue(m)
		before := e.Buffer().Snapshot()

		if err := e.ApplyStroke(rl.Vector3{X: 0.5, Y: 0.1, Z: 0.5}); err != nil {
			t.Fatal(err)
		}
		if err := e.Undo(); err != nil {
			t.Fatal(err)
		}

		for i := range before {
			if target.verts[i] != before[i] {
				t.Fatalf("%v: vertex %d not restored: %v != %v", m, i, target.verts[i], before[i])
			}
		}
	}
}

func TestUndoPerSample(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	e.Bind(target)
	e.SetBrush(1, 0.1)

	var states []rl.Vector3
	for i := 0; i < 4; i++ {
		states = append(states, target.verts[0])
		e.ApplyStroke(rl.Vector3{})
	}
	if e.HistoryLen() != 4 {
		t.Fatalf("Expected one snapshot per sample, got %d", e.HistoryLen())
	}

	for i := 3; i >= 0; i-- {
		if err := e.Undo(); err != nil {
			t.Fatal(err)
		}
		if target.verts[0] != states[i] {
			t.Errorf("Undo %d: expected %v, got %v", i, states[i], target.verts[0])
		}
	}

	if err := e.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Expected ErrEmptyHistory, got %v", err)
	}
}

func TestTargetSwitchClearsHistory(t *testing.T) {
	e := New(0)
	a := newMemTarget(1, gridVertices(3, 0.5))
	b := newMemTarget(2, gridVertices(4, 0.5))

	e.Bind(a)
	for i := 0; i < 5; i++ {
		e.ApplyStroke(rl.Vector3{X: 0.5})
	}

	if err := e.Bind(b); err != nil {
		t.Fatal(err)
	}
	if e.HistoryLen() != 0 {
		t.Errorf("Expected empty history after switch, got %d", e.HistoryLen())
	}
	if err := e.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Expected ErrEmptyHistory after switch, got %v", err)
	}
	if e.Buffer().Len() != 16 {
		t.Errorf("Expected buffer for the new target, got %d vertices", e.Buffer().Len())
	}
}

func TestRebindSameTargetKeepsState(t *testing.T) {
	e := New(0)
	a := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	e.Bind(a)
	e.ApplyStroke(rl.Vector3{})
	moved := e.Buffer().At(0)

	if err := e.Bind(a); err != nil {
		t.Fatal(err)
	}
	if e.HistoryLen() != 1 {
		t.Errorf("Rebinding the same target should keep history, got %d", e.HistoryLen())
	}
	if e.Buffer().At(0) != moved {
		t.Error("Rebinding the same target should keep the working buffer")
	}
}

func TestBindNoGeometry(t *testing.T) {
	e := New(0)
	a := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	e.Bind(a)
	e.ApplyStroke(rl.Vector3{})

	err := e.Bind(newMemTarget(2, nil))
	if !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("Expected ErrNoGeometry, got %v", err)
	}
	if e.Bound() {
		t.Error("Failed bind should leave nothing bound")
	}
	if e.HistoryLen() != 0 {
		t.Errorf("Failed bind should clear history, got %d", e.HistoryLen())
	}
	if err := e.ApplyStroke(rl.Vector3{}); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected ErrNotBound, got %v", err)
	}
}

func TestBindSingularTransform(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{X: 1}})
	target.matrix = rl.MatrixScale(1, 0, 1)

	if err := e.Bind(target); !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}
}

func TestNotBound(t *testing.T) {
	e := New(0)
	if err := e.ApplyStroke(rl.Vector3{}); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected ErrNotBound from ApplyStroke, got %v", err)
	}
	if err := e.Undo(); !errors.Is(err, ErrNotBound) {
		t.Errorf("Expected ErrNotBound from Undo, got %v", err)
	}
}

func TestSetModeUnknownKeepsMode(t *testing.T) {
	e := New(0)
	if e.Mode() != ModePush {
		t.Errorf("Default mode should be Push, got %v", e.Mode())
	}
	e.SetMode("Smooth")

	if err := e.SetMode("Twist"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
	if e.Mode() != ModeSmooth {
		t.Errorf("Mode should stay Smooth, got %v", e.Mode())
	}
	if err := e.SetModeValue(Mode(42)); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode for out-of-range value, got %v", err)
	}
}

func TestApplyUsesStrokeParameters(t *testing.T) {
	e := New(0)
	e.SetBrush(0.1, 0.01)
	target := newMemTarget(1, []rl.Vector3{{X: 0.5}})

	err := e.Apply(target, Stroke{Mode: ModePull, Brush: Brush{Radius: 1, Strength: 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if target.verts[0] != (rl.Vector3{X: 0.25}) {
		t.Errorf("Expected stroke parameters to be used, got %v", target.verts[0])
	}
	if e.Mode() != ModePush || e.Brush().Radius != 0.1 {
		t.Error("Apply should not change the selected mode or brush")
	}
}

func TestRevert(t *testing.T) {
	e := New(0)
	verts := []rl.Vector3{{X: 0.5}, {X: -0.5}}
	target := newMemTarget(1, verts)
	e.Bind(target)
	e.ApplyStroke(rl.Vector3{})
	e.ApplyStroke(rl.Vector3{})
	sculpted := e.Buffer().Snapshot()

	if err := e.Revert(); err != nil {
		t.Fatal(err)
	}
	for i := range verts {
		if target.verts[i] != verts[i] {
			t.Errorf("Vertex %d not reverted: %v", i, target.verts[i])
		}
	}

	e.Undo()
	for i := range sculpted {
		if target.verts[i] != sculpted[i] {
			t.Errorf("Undoing a revert should restore vertex %d", i)
		}
	}
}

func TestMeshChangedEvent(t *testing.T) {
	e := New(0)
	target := newMemTarget(7, []rl.Vector3{{X: 0.5}})
	e.Bind(target)

	var kinds []ChangeKind
	e.MeshChanged.AddListener(func(c *Change) {
		if c.Handle != 7 {
			t.Errorf("Expected handle 7, got %d", c.Handle)
		}
		if len(c.Vertices) != 1 {
			t.Errorf("Expected 1 vertex, got %d", len(c.Vertices))
		}
		kinds = append(kinds, c.Kind)
	})

	e.ApplyStroke(rl.Vector3{})
	e.Undo()
	e.Undo()

	if len(kinds) != 2 || kinds[0] != ChangeStroke || kinds[1] != ChangeUndo {
		t.Errorf("Expected [stroke undo], got %v", kinds)
	}
	if target.writes != 2 {
		t.Errorf("Expected 2 write-backs, got %d", target.writes)
	}
}

func TestWriteBackIsNotAliased(t *testing.T) {
	e := New(0)
	target := newMemTarget(1, []rl.Vector3{{X: 0.5}})
	e.Bind(target)
	e.ApplyStroke(rl.Vector3{})

	target.verts[0] = rl.Vector3{X: 100}

	if e.Buffer().At(0).X == 100 {
		t.Error("Target write-back aliased the working buffer")
	}
}

func TestUndoTarget(t *testing.T) {
	e := New(0)
	a := newMemTarget(1, []rl.Vector3{{}, {X: 0.5}})
	b := newMemTarget(2, []rl.Vector3{{}, {X: 0.5}})
	stroke := Stroke{Point: rl.Vector3{X: 0.25}, Mode: ModePull, Brush: Brush{Radius: 1, Strength: 0.1}}

	if err := e.Apply(a, stroke); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := e.UndoTarget(a); err != nil {
		t.Fatalf("UndoTarget on the bound target failed: %v", err)
	}
	if a.verts[0] != (rl.Vector3{}) || a.verts[1] != (rl.Vector3{X: 0.5}) {
		t.Errorf("Expected original positions, got %v", a.verts)
	}

	if err := e.Apply(a, stroke); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := e.UndoTarget(b); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Expected ErrEmptyHistory after switching, got %v", err)
	}
	if e.BoundHandle() != 2 {
		t.Errorf("Expected target 2 bound, got %d", e.BoundHandle())
	}
	if err := e.UndoTarget(nil); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("Expected ErrNoGeometry for a nil target, got %v", err)
	}
}
