package sculpt

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// VertexBuffer holds the baseline and working positions of one bound mesh.
// Indices are stable for the lifetime of the buffer.
type VertexBuffer struct {
	original []rl.Vector3
	working  []rl.Vector3
}

// NewVertexBuffer copies positions into both the original and working arrays.
func NewVertexBuffer(positions []rl.Vector3) *VertexBuffer {
	return &VertexBuffer{
		original: cloneVertices(positions),
		working:  cloneVertices(positions),
	}
}

func (b *VertexBuffer) Len() int {
	return len(b.working)
}

// Original returns a copy of the positions captured at bind time.
func (b *VertexBuffer) Original() []rl.Vector3 {
	return cloneVertices(b.original)
}

// Working returns the live working array. Callers must not retain or mutate it.
func (b *VertexBuffer) Working() []rl.Vector3 {
	return b.working
}

func (b *VertexBuffer) At(i int) rl.Vector3 {
	return b.working[i]
}

func (b *VertexBuffer) Set(i int, v rl.Vector3) {
	b.working[i] = v
}

// Snapshot returns an independent copy of the working array.
func (b *VertexBuffer) Snapshot() []rl.Vector3 {
	return cloneVertices(b.working)
}

// Restore overwrites the working array with a copy of snapshot.
func (b *VertexBuffer) Restore(snapshot []rl.Vector3) error {
	if len(snapshot) != len(b.working) {
		return fmt.Errorf("restore %d vertices into %d: %w", len(snapshot), len(b.working), ErrSnapshotSize)
	}
	copy(b.working, snapshot)
	return nil
}

// Reset copies the original positions back into the working array.
func (b *VertexBuffer) Reset() {
	copy(b.working, b.original)
}

func cloneVertices(v []rl.Vector3) []rl.Vector3 {
	if v == nil {
		return nil
	}
	out := make([]rl.Vector3, len(v))
	copy(out, v)
	return out
}
