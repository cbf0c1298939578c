package sculpt

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Target is the geometry source for a sculptable mesh. The sculptor only ever
// owns its numeric copy of the positions; the render mesh stays with the host.
type Target interface {
	// Handle identifies the target. Rebinding the same handle keeps state.
	Handle() uint64
	// LocalVertices returns the current vertex positions in local space.
	LocalVertices() []rl.Vector3
	// WorldMatrix maps local space to world space.
	WorldMatrix() rl.Matrix
	// SetLocalVertices receives updated positions after every change.
	// The slice is a copy owned by the target. Topology never changes.
	SetLocalVertices(v []rl.Vector3)
}

// Binding tracks the active target and its vertex buffer.
// Switching targets discards the old buffer and clears the history.
type Binding struct {
	target  Target
	handle  uint64
	buffer  *VertexBuffer
	history *History
}

func NewBinding(history *History) *Binding {
	return &Binding{history: history}
}

// Bind makes t the active target. Binding the already-bound handle is a no-op.
// On failure the previous target is still released.
func (b *Binding) Bind(t Target) error {
	if t != nil && b.target != nil && t.Handle() == b.handle {
		return nil
	}
	b.Release()

	if t == nil {
		return ErrNoGeometry
	}
	verts := t.LocalVertices()
	if len(verts) == 0 {
		return ErrNoGeometry
	}
	if _, ok := invertMatrix(t.WorldMatrix()); !ok {
		return ErrSingularTransform
	}

	b.target = t
	b.handle = t.Handle()
	b.buffer = NewVertexBuffer(verts)
	return nil
}

// Release drops the current target, its buffer and the undo history.
func (b *Binding) Release() {
	b.target = nil
	b.handle = 0
	b.buffer = nil
	if b.history != nil {
		b.history.Clear()
	}
}

func (b *Binding) Bound() bool {
	return b.target != nil && b.buffer != nil
}

func (b *Binding) Target() Target {
	return b.target
}

func (b *Binding) Handle() uint64 {
	return b.handle
}

func (b *Binding) Buffer() *VertexBuffer {
	return b.buffer
}

// space converts between a target's local space and world space.
type space struct {
	toWorld rl.Matrix
	toLocal rl.Matrix
}

func newSpace(m rl.Matrix) (space, error) {
	inv, ok := invertMatrix(m)
	if !ok {
		return space{}, ErrSingularTransform
	}
	return space{toWorld: m, toLocal: inv}, nil
}

func (s space) pointToWorld(v rl.Vector3) rl.Vector3 {
	return rl.Vector3Transform(v, s.toWorld)
}

// vectorToLocal maps a world-space displacement into local space, ignoring translation.
func (s space) vectorToLocal(v rl.Vector3) rl.Vector3 {
	m := s.toLocal
	return rl.Vector3{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z,
	}
}

func invertMatrix(m rl.Matrix) (rl.Matrix, bool) {
	det := float64(rl.MatrixDeterminant(m))
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return rl.Matrix{}, false
	}
	return rl.MatrixInvert(m), true
}
