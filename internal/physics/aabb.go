package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// EmptyAABB returns an inverted box that any Encapsulate call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: rl.Vector3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32},
		Max: rl.Vector3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32},
	}
}

// FromPoints returns the tightest box around points, or the zero box for none.
func FromPoints(points []rl.Vector3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := EmptyAABB()
	for _, p := range points {
		b = b.Encapsulate(p)
	}
	return b
}

func (a AABB) Encapsulate(p rl.Vector3) AABB {
	return AABB{
		Min: vector3Min(a.Min, p),
		Max: vector3Max(a.Max, p),
	}
}

func (a AABB) Union(b AABB) AABB {
	return a.Encapsulate(b.Min).Encapsulate(b.Max)
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

// Transform returns the world-space box enclosing all eight corners of a after m.
func (a AABB) Transform(m rl.Matrix) AABB {
	b := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := rl.Vector3{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z}
		if i&1 != 0 {
			corner.X = a.Max.X
		}
		if i&2 != 0 {
			corner.Y = a.Max.Y
		}
		if i&4 != 0 {
			corner.Z = a.Max.Z
		}
		b = b.Encapsulate(rl.Vector3Transform(corner, m))
	}
	return b
}

// RayIntersect returns the entry distance of a ray into the box using the slab test.
// invDir is 1/direction per axis.
func (a AABB) RayIntersect(origin, invDir rl.Vector3, maxDistance float32) (float32, bool) {
	tmin, tmax := float32(0), maxDistance
	for axis := 0; axis < 3; axis++ {
		o, inv := axisValue(origin, axis), axisValue(invDir, axis)
		t1 := (axisValue(a.Min, axis) - o) * inv
		t2 := (axisValue(a.Max, axis) - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		// NaN from 0*Inf means the ray is parallel and inside the slab.
		if t1 == t1 && t1 > tmin {
			tmin = t1
		}
		if t2 == t2 && t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// BoundingBox converts to raylib's type for drawing.
func (a AABB) BoundingBox() rl.BoundingBox {
	return rl.BoundingBox{Min: a.Min, Max: a.Max}
}

func axisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Min(float64(a.X), float64(b.X))),
		Y: float32(math.Min(float64(a.Y), float64(b.Y))),
		Z: float32(math.Min(float64(a.Z), float64(b.Z))),
	}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: float32(math.Max(float64(a.X), float64(b.X))),
		Y: float32(math.Max(float64(a.Y), float64(b.Y))),
		Z: float32(math.Max(float64(a.Z), float64(b.Z))),
	}
}
