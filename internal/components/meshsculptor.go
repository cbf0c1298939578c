package components

import (
	"errors"
	"log"

	"sculpt3d/internal/engine"
	"sculpt3d/internal/sculpt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// StrokeEvent is one sampled brush contact waiting to be applied. Mode and
// Brush are those active when the sample was taken.
type StrokeEvent struct {
	Target engine.GameObjectRef
	Point  rl.Vector3 // world space
	Seq    uint64     // samples apply in ascending Seq order
	Mode   sculpt.Mode
	Brush  sculpt.Brush
}

// MeshSculptor feeds queued stroke samples into a sculpt.Engine, one sample
// per Update. Targets are resolved through the sculptor's scene and must
// carry a SculptMesh.
type MeshSculptor struct {
	engine.BaseComponent
	Engine *sculpt.Engine

	pending []StrokeEvent
	nextSeq uint64
}

func NewMeshSculptor(e *sculpt.Engine) *MeshSculptor {
	return &MeshSculptor{Engine: e}
}

// Enqueue records a stroke sample on target at a world-space point with the
// engine's current mode and brush.
func (s *MeshSculptor) Enqueue(target *engine.GameObject, point rl.Vector3) {
	s.nextSeq++
	ev := StrokeEvent{
		Target: engine.RefTo(target),
		Point:  point,
		Seq:    s.nextSeq,
		Mode:   sculpt.ModePush,
		Brush:  sculpt.DefaultBrush(),
	}
	if s.Engine != nil {
		ev.Mode = s.Engine.Mode()
		ev.Brush = s.Engine.Brush()
	}
	s.EnqueueEvent(ev)
}

// EnqueueEvent inserts ev keeping the queue sorted by Seq.
func (s *MeshSculptor) EnqueueEvent(ev StrokeEvent) {
	if ev.Seq > s.nextSeq {
		s.nextSeq = ev.Seq
	}
	i := len(s.pending)
	for i > 0 && s.pending[i-1].Seq > ev.Seq {
		i--
	}
	s.pending = append(s.pending, StrokeEvent{})
	copy(s.pending[i+1:], s.pending[i:])
	s.pending[i] = ev
}

// Pending returns the number of samples not yet applied.
func (s *MeshSculptor) Pending() int {
	return len(s.pending)
}

// EndDrag drops samples that have not been applied. Applied samples stay;
// only Undo reverts them.
func (s *MeshSculptor) EndDrag() {
	s.pending = s.pending[:0]
}

func (s *MeshSculptor) Update(deltaTime float32) {
	if len(s.pending) == 0 || s.Engine == nil {
		return
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	s.apply(ev)
}

func (s *MeshSculptor) apply(ev StrokeEvent) {
	if !ev.Target.IsValid() {
		log.Println("Sculpt: stroke without a target")
		return
	}
	obj := ev.Target.Get(s.scene())
	if obj == nil {
		log.Printf("Sculpt: stroke target %d not found", ev.Target.UID)
		return
	}

	stroke := sculpt.Stroke{Point: ev.Point, Mode: ev.Mode, Brush: ev.Brush}
	if err := s.Engine.Apply(targetOf(obj), stroke); err != nil {
		log.Printf("Sculpt: %s: %v", obj.Name, err)
	}
}

func (s *MeshSculptor) scene() *engine.Scene {
	if g := s.GetGameObject(); g != nil {
		return g.Scene
	}
	return nil
}

// targetOf returns the SculptMesh on obj as a sculpt.Target, or nil so the
// engine reports missing geometry.
func targetOf(obj *engine.GameObject) sculpt.Target {
	if mesh := engine.GetComponent[*SculptMesh](obj); mesh != nil {
		return mesh
	}
	return nil
}

// Undo reverts the most recent stroke sample on target. A nil target undoes
// on whatever is bound.
func (s *MeshSculptor) Undo(target *engine.GameObject) bool {
	if s.Engine == nil {
		log.Println("Sculpt: no engine")
		return false
	}
	var err error
	if target != nil {
		err = s.Engine.UndoTarget(targetOf(target))
	} else {
		err = s.Engine.Undo()
	}
	switch {
	case err == nil:
		return true
	case errors.Is(err, sculpt.ErrEmptyHistory):
		log.Println("Sculpt: nothing to undo")
	default:
		log.Printf("Sculpt: %v", err)
	}
	return false
}

// SetMode selects a deformation mode by name, logging unknown names.
func (s *MeshSculptor) SetMode(name string) bool {
	if s.Engine == nil {
		log.Println("Sculpt: no engine")
		return false
	}
	if err := s.Engine.SetMode(name); err != nil {
		log.Printf("Sculpt: %v", err)
		return false
	}
	return true
}
