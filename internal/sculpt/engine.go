// Package sculpt deforms mesh vertices with brush strokes and keeps per-sample undo.
package sculpt

import (
	"fmt"

	"sculpt3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ChangeKind says what produced a mesh change.
type ChangeKind int

const (
	ChangeStroke ChangeKind = iota
	ChangeUndo
	ChangeRevert
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeStroke:
		return "stroke"
	case ChangeUndo:
		return "undo"
	case ChangeRevert:
		return "revert"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is passed to MeshChanged listeners after positions were written back
// to the target. The host regenerates normals, bounds and collision from it.
type Change struct {
	Handle   uint64
	Kind     ChangeKind
	Vertices []rl.Vector3
}

// Stroke is one stroke-sample with the parameters active when it was taken.
type Stroke struct {
	Point rl.Vector3
	Mode  Mode
	Brush Brush
}

// Engine applies strokes to the bound target and keeps its undo history.
// It is not safe for concurrent use; drive it from the frame loop.
type Engine struct {
	MeshChanged engine.EventWithArg[*Change]

	// UseSpatialIndex makes Smooth look up neighbors through a SpatialGrid
	// instead of scanning every vertex.
	UseSpatialIndex bool

	mode    Mode
	brush   Brush
	history *History
	binding *Binding
}

// New creates an engine in Push mode with the default brush.
func New(maxUndo int) *Engine {
	h := NewHistory(maxUndo)
	return &Engine{
		mode:    ModePush,
		brush:   DefaultBrush(),
		history: h,
		binding: NewBinding(h),
	}
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// SetMode selects a mode by name. An unknown name leaves the mode unchanged.
func (e *Engine) SetMode(name string) error {
	m, err := ParseMode(name)
	if err != nil {
		return err
	}
	e.mode = m
	return nil
}

func (e *Engine) SetModeValue(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%d: %w", int(m), ErrUnknownMode)
	}
	e.mode = m
	return nil
}

func (e *Engine) Brush() Brush {
	return e.brush
}

func (e *Engine) SetBrush(radius, strength float32) {
	e.brush = Brush{Radius: radius, Strength: strength}
}

// Bind makes t the sculpt target. See Binding.Bind.
func (e *Engine) Bind(t Target) error {
	if err := e.binding.Bind(t); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	return nil
}

func (e *Engine) Unbind() {
	e.binding.Release()
}

func (e *Engine) Bound() bool {
	return e.binding.Bound()
}

// BoundHandle returns the handle of the bound target, or 0.
func (e *Engine) BoundHandle() uint64 {
	return e.binding.Handle()
}

// Buffer exposes the bound vertex buffer, or nil.
func (e *Engine) Buffer() *VertexBuffer {
	return e.binding.Buffer()
}

func (e *Engine) HistoryLen() int {
	return e.history.Len()
}

// ApplyStroke applies one stroke-sample at point with the current mode and brush.
func (e *Engine) ApplyStroke(point rl.Vector3) error {
	return e.applyStroke(Stroke{Point: point, Mode: e.mode, Brush: e.brush})
}

// Apply binds t if it is not already bound and applies s with its own
// mode and brush. The engine's selected mode and brush are left alone.
func (e *Engine) Apply(t Target, s Stroke) error {
	if err := e.Bind(t); err != nil {
		return err
	}
	return e.applyStroke(s)
}

func (e *Engine) applyStroke(s Stroke) error {
	if !e.binding.Bound() {
		return fmt.Errorf("stroke: %w", ErrNotBound)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("stroke: %d: %w", int(s.Mode), ErrUnknownMode)
	}
	sp, err := newSpace(e.binding.Target().WorldMatrix())
	if err != nil {
		return fmt.Errorf("stroke: %w", err)
	}

	buf := e.binding.Buffer()
	e.history.Push(buf.Working())

	// The pass mutates the working array in place.
	surf := &Surface{
		Local: buf.Working(),
		space: sp,
	}
	surf.World = make([]rl.Vector3, len(surf.Local))
	for i, v := range surf.Local {
		surf.World[i] = sp.pointToWorld(v)
	}
	if s.Mode == ModeSmooth {
		surf.neighbors = e.neighborFinder(surf.World, s.Brush.Radius)
	}

	deformer := DeformerFor(s.Mode)
	for i := range surf.World {
		// Negative strength is allowed, so test the radius rather than the sign.
		if !s.Brush.Contains(surf.World[i], s.Point) {
			continue
		}
		influence := s.Brush.Influence(surf.World[i], s.Point)
		if influence == 0 {
			continue
		}
		surf.set(i, deformer.Deform(surf, Sample{
			Index:      i,
			Influence:  influence,
			BrushPoint: s.Point,
			Radius:     s.Brush.Radius,
		}))
	}

	e.commit(ChangeStroke)
	return nil
}

func (e *Engine) neighborFinder(world []rl.Vector3, radius float32) NeighborFinder {
	if e.UseSpatialIndex {
		return NewSpatialGrid(world, radius)
	}
	return LinearScan{}
}

// Undo restores the working buffer to the state before the last stroke-sample.
func (e *Engine) Undo() error {
	if !e.binding.Bound() {
		return fmt.Errorf("undo: %w", ErrNotBound)
	}
	snap, err := e.history.Pop()
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	if err := e.binding.Buffer().Restore(snap); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	e.commit(ChangeUndo)
	return nil
}

// UndoTarget binds t if it is not already bound, then undoes its last
// stroke-sample. Switching targets clears history, so undo right after a
// switch reports ErrEmptyHistory.
func (e *Engine) UndoTarget(t Target) error {
	if err := e.Bind(t); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	return e.Undo()
}

// Revert puts back the positions captured at bind time as a new undoable step.
func (e *Engine) Revert() error {
	if !e.binding.Bound() {
		return fmt.Errorf("revert: %w", ErrNotBound)
	}
	buf := e.binding.Buffer()
	e.history.Push(buf.Working())
	buf.Reset()
	e.commit(ChangeRevert)
	return nil
}

// commit writes the working buffer back to the target and notifies listeners.
func (e *Engine) commit(kind ChangeKind) {
	verts := e.binding.Buffer().Snapshot()
	e.binding.Target().SetLocalVertices(cloneVertices(verts))
	e.MeshChanged.Invoke(&Change{
		Handle:   e.binding.Handle(),
		Kind:     kind,
		Vertices: verts,
	})
}
