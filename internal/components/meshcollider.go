package components

import (
	"math"

	"sculpt3d/internal/engine"
	"sculpt3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle represents a single world-space triangle with precomputed normal
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// BVHNode is a node in the bounding volume hierarchy
type BVHNode struct {
	Bounds    physics.AABB
	Left      *BVHNode
	Right     *BVHNode
	Triangles []int // indices into the triangle array (only for leaf nodes)
}

// RaycastHit describes the closest triangle hit by a ray.
type RaycastHit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
	Triangle int
}

// MeshCollider is the collision proxy of a sculpted mesh. It holds world-space
// triangles and must be rebuilt whenever the vertices or the transform change.
type MeshCollider struct {
	engine.BaseComponent
	Triangles []Triangle
	Root      *BVHNode
	built     bool
}

// NewMeshCollider creates an empty mesh collider (call Build after)
func NewMeshCollider() *MeshCollider {
	return &MeshCollider{}
}

// Build transforms the indexed triangles to world space and rebuilds the BVH.
// A nil indices slice means every three vertices form a triangle.
func (m *MeshCollider) Build(vertices []rl.Vector3, indices []uint16, transform rl.Matrix) {
	m.Triangles = m.Triangles[:0]

	triCount := len(vertices) / 3
	if indices != nil {
		triCount = len(indices) / 3
	}
	for i := 0; i < triCount; i++ {
		i0, i1, i2 := 3*i, 3*i+1, 3*i+2
		if indices != nil {
			i0, i1, i2 = int(indices[3*i]), int(indices[3*i+1]), int(indices[3*i+2])
		}

		v0 := rl.Vector3Transform(vertices[i0], transform)
		v1 := rl.Vector3Transform(vertices[i1], transform)
		v2 := rl.Vector3Transform(vertices[i2], transform)

		edge1 := rl.Vector3Subtract(v1, v0)
		edge2 := rl.Vector3Subtract(v2, v0)
		normal := rl.Vector3Normalize(rl.Vector3CrossProduct(edge1, edge2))

		m.Triangles = append(m.Triangles, Triangle{V0: v0, V1: v1, V2: v2, Normal: normal})
	}

	m.Root = nil
	m.buildBVH()
	m.built = true
}

// buildBVH constructs a bounding volume hierarchy for fast queries
func (m *MeshCollider) buildBVH() {
	if len(m.Triangles) == 0 {
		return
	}

	indices := make([]int, len(m.Triangles))
	for i := range indices {
		indices[i] = i
	}

	m.Root = m.buildBVHNode(indices, 0)
}

func (m *MeshCollider) buildBVHNode(indices []int, depth int) *BVHNode {
	node := &BVHNode{}

	// If few triangles or max depth, make leaf
	if len(indices) <= 4 || depth > 20 {
		node.Triangles = indices
		node.Bounds = m.computeBounds(indices)
		return node
	}

	// Split on the longest axis of the centroids
	centroids := make([]rl.Vector3, len(indices))
	for i, idx := range indices {
		centroids[i] = centroid(&m.Triangles[idx])
	}
	size := physics.FromPoints(centroids).Size()
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > getAxisValue(size, axis) {
		axis = 2
	}

	mid := m.partitionTriangles(indices, axis)
	if mid == 0 || mid == len(indices) {
		node.Triangles = indices
		node.Bounds = m.computeBounds(indices)
		return node
	}

	node.Left = m.buildBVHNode(indices[:mid], depth+1)
	node.Right = m.buildBVHNode(indices[mid:], depth+1)
	node.Bounds = node.Left.Bounds.Union(node.Right.Bounds)
	return node
}

func (m *MeshCollider) computeBounds(indices []int) physics.AABB {
	bounds := physics.EmptyAABB()
	for _, idx := range indices {
		tri := &m.Triangles[idx]
		bounds = bounds.Encapsulate(tri.V0).Encapsulate(tri.V1).Encapsulate(tri.V2)
	}
	return bounds
}

func centroid(tri *Triangle) rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(tri.V0, tri.V1), tri.V2), 1.0/3.0)
}

// partitionTriangles splits indices around the mean centroid on axis
func (m *MeshCollider) partitionTriangles(indices []int, axis int) int {
	center := float32(0)
	for _, idx := range indices {
		center += getAxisValue(centroid(&m.Triangles[idx]), axis)
	}
	center /= float32(len(indices))

	left := 0
	right := len(indices) - 1
	for left <= right {
		if getAxisValue(centroid(&m.Triangles[indices[left]]), axis) < center {
			left++
		} else {
			indices[left], indices[right] = indices[right], indices[left]
			right--
		}
	}
	return left
}

func getAxisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Raycast returns the closest triangle hit within maxDistance.
func (m *MeshCollider) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	if !m.IsBuilt() || m.Root == nil {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	if rl.Vector3Length(direction) == 0 {
		return RaycastHit{}, false
	}
	invDir := rl.Vector3{
		X: float32(1 / float64(direction.X)),
		Y: float32(1 / float64(direction.Y)),
		Z: float32(1 / float64(direction.Z)),
	}

	best := RaycastHit{Distance: maxDistance, Triangle: -1}
	m.raycastNode(m.Root, origin, direction, invDir, &best)
	if best.Triangle < 0 {
		return RaycastHit{}, false
	}
	best.Point = rl.Vector3Add(origin, rl.Vector3Scale(direction, best.Distance))
	best.Normal = m.Triangles[best.Triangle].Normal
	return best, true
}

func (m *MeshCollider) raycastNode(node *BVHNode, origin, dir, invDir rl.Vector3, best *RaycastHit) {
	if node == nil {
		return
	}
	if _, ok := node.Bounds.RayIntersect(origin, invDir, best.Distance); !ok {
		return
	}
	if node.Triangles != nil {
		for _, idx := range node.Triangles {
			if t, ok := rayTriangleIntersect(origin, dir, &m.Triangles[idx]); ok && t < best.Distance {
				best.Distance = t
				best.Triangle = idx
			}
		}
		return
	}
	m.raycastNode(node.Left, origin, dir, invDir, best)
	m.raycastNode(node.Right, origin, dir, invDir, best)
}

// rayTriangleIntersect is the Möller–Trumbore test. Both faces count as hits.
func rayTriangleIntersect(origin, dir rl.Vector3, tri *Triangle) (float32, bool) {
	const eps = 1e-7
	edge1 := rl.Vector3Subtract(tri.V1, tri.V0)
	edge2 := rl.Vector3Subtract(tri.V2, tri.V0)
	p := rl.Vector3CrossProduct(dir, edge2)
	det := rl.Vector3DotProduct(edge1, p)
	if math.Abs(float64(det)) < eps {
		return 0, false
	}
	invDet := 1 / det

	s := rl.Vector3Subtract(origin, tri.V0)
	u := rl.Vector3DotProduct(s, p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := rl.Vector3CrossProduct(s, edge1)
	v := rl.Vector3DotProduct(dir, q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := rl.Vector3DotProduct(edge2, q) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IsBuilt returns true if the BVH has been built
func (m *MeshCollider) IsBuilt() bool {
	return m.built
}

// TriangleCount returns the number of triangles in the collider
func (m *MeshCollider) TriangleCount() int {
	return len(m.Triangles)
}
