package sculpt

import rl "github.com/gen2brain/raylib-go/raylib"

// History is a LIFO stack of working-buffer snapshots, one per stroke-sample.
// MaxDepth caps the stack; the oldest snapshot is dropped when full. Zero means unbounded.
type History struct {
	MaxDepth  int
	snapshots [][]rl.Vector3
}

func NewHistory(maxDepth int) *History {
	return &History{MaxDepth: maxDepth}
}

// Push stores a copy of snapshot.
func (h *History) Push(snapshot []rl.Vector3) {
	if h.MaxDepth > 0 && len(h.snapshots) >= h.MaxDepth {
		drop := len(h.snapshots) - h.MaxDepth + 1
		clear(h.snapshots[:drop])
		h.snapshots = h.snapshots[drop:]
	}
	h.snapshots = append(h.snapshots, cloneVertices(snapshot))
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() ([]rl.Vector3, error) {
	if len(h.snapshots) == 0 {
		return nil, ErrEmptyHistory
	}
	last := len(h.snapshots) - 1
	snap := h.snapshots[last]
	h.snapshots[last] = nil
	h.snapshots = h.snapshots[:last]
	return snap, nil
}

func (h *History) Len() int {
	return len(h.snapshots)
}

func (h *History) Clear() {
	h.snapshots = nil
}
