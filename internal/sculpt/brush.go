package sculpt

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	DefaultRadius   float32 = 1.0
	DefaultStrength float32 = 0.1
)

// Brush holds the size and strength of a stroke.
type Brush struct {
	Radius   float32
	Strength float32
}

func DefaultBrush() Brush {
	return Brush{Radius: DefaultRadius, Strength: DefaultStrength}
}

// Influence returns the linear-falloff weight of a vertex at vertexWorld for a
// brush centered on brushPoint. It is strength at the center and zero at or
// beyond radius. A non-positive radius never touches anything.
func Influence(vertexWorld, brushPoint rl.Vector3, radius, strength float32) float32 {
	if radius <= 0 {
		return 0
	}
	d := rl.Vector3Distance(vertexWorld, brushPoint)
	if d >= radius {
		return 0
	}
	return (1 - d/radius) * strength
}

// Influence evaluates the falloff with this brush's parameters.
func (b Brush) Influence(vertexWorld, brushPoint rl.Vector3) float32 {
	return Influence(vertexWorld, brushPoint, b.Radius, b.Strength)
}

// Contains reports whether vertexWorld is strictly inside the brush radius.
func (b Brush) Contains(vertexWorld, brushPoint rl.Vector3) bool {
	return b.Radius > 0 && rl.Vector3Distance(vertexWorld, brushPoint) < b.Radius
}
