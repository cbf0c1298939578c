package sculpt

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Surface is the live vertex state of one stroke-sample pass. Vertices are
// updated in index order, so a vertex sees every earlier vertex already moved.
type Surface struct {
	Local []rl.Vector3 // working positions, local space
	World []rl.Vector3 // same positions in world space

	space     space
	neighbors NeighborFinder
	scratch   []int
}

// set stores the new local position of vertex i and keeps the world view and
// neighbor index in step with it.
func (s *Surface) set(i int, local rl.Vector3) {
	s.Local[i] = local
	w := s.space.pointToWorld(local)
	if s.neighbors != nil {
		s.neighbors.Moved(i, s.World[i], w)
	}
	s.World[i] = w
}

// Sample is one vertex inside the brush.
type Sample struct {
	Index      int
	Influence  float32
	BrushPoint rl.Vector3
	Radius     float32
}

// Deformer computes the new local position of a vertex for one mode.
type Deformer interface {
	Deform(s *Surface, sample Sample) rl.Vector3
}

// DeformerFor returns the strategy for a mode. Grab shares Pull's math and
// Pinch shares Push's; only their names differ.
func DeformerFor(m Mode) Deformer {
	switch m {
	case ModePull, ModeGrab:
		return pullDeformer{}
	case ModeSmooth:
		return smoothDeformer{}
	default:
		return pushDeformer{}
	}
}

// brushDirection returns the world-space unit vector from the vertex toward the
// brush scaled by influence, already mapped into local space. A vertex sitting
// exactly on the brush point has no direction and gets no displacement.
func (s *Surface) brushDirection(sample Sample) (rl.Vector3, bool) {
	dir := rl.Vector3Subtract(sample.BrushPoint, s.World[sample.Index])
	length := rl.Vector3Length(dir)
	if length == 0 {
		return rl.Vector3{}, false
	}
	dir = rl.Vector3Scale(dir, 1/length)
	return s.space.vectorToLocal(rl.Vector3Scale(dir, sample.Influence)), true
}

type pushDeformer struct{}

func (pushDeformer) Deform(s *Surface, sample Sample) rl.Vector3 {
	v := s.Local[sample.Index]
	disp, ok := s.brushDirection(sample)
	if !ok {
		return v
	}
	return rl.Vector3Subtract(v, disp)
}

type pullDeformer struct{}

func (pullDeformer) Deform(s *Surface, sample Sample) rl.Vector3 {
	v := s.Local[sample.Index]
	disp, ok := s.brushDirection(sample)
	if !ok {
		return v
	}
	return rl.Vector3Add(v, disp)
}

type smoothDeformer struct{}

// Deform blends the vertex toward the mean of every other vertex within the
// brush radius of its current position. Neighbors already visited in this
// pass contribute their smoothed positions.
func (smoothDeformer) Deform(s *Surface, sample Sample) rl.Vector3 {
	v := s.Local[sample.Index]

	s.scratch = s.scratch[:0]
	s.neighbors.ForEachNeighbor(s.World, sample.Index, sample.Radius, func(j int) {
		s.scratch = append(s.scratch, j)
	})
	if len(s.scratch) == 0 {
		return v
	}
	// Sum in index order so every NeighborFinder produces the same float result.
	slices.Sort(s.scratch)

	var sum rl.Vector3
	for _, j := range s.scratch {
		sum = rl.Vector3Add(sum, s.Local[j])
	}
	avg := rl.Vector3Scale(sum, 1/float32(len(s.scratch)))

	t := sample.Influence
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return rl.Vector3Lerp(v, avg, t)
}
