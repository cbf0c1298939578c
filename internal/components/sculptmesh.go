package components

import (
	"unsafe"

	"sculpt3d/internal/engine"
	"sculpt3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SculptMesh is the CPU-side geometry of a sculptable object. It implements
// sculpt.Target: positions come in and out in local space, and every write
// regenerates normals, bounds and the MeshCollider on the same GameObject.
type SculptMesh struct {
	engine.BaseComponent
	Vertices []rl.Vector3
	Normals  []rl.Vector3
	Indices  []uint16 // nil for non-indexed meshes
	Bounds   physics.AABB

	// Changed fires after SetLocalVertices has regenerated derived data.
	Changed engine.Event

	weld []int // first vertex sharing each vertex's original position
}

// NewSculptMesh copies the given geometry. Topology is fixed from here on.
func NewSculptMesh(vertices []rl.Vector3, indices []uint16) *SculptMesh {
	m := &SculptMesh{
		Vertices: append([]rl.Vector3(nil), vertices...),
		Normals:  make([]rl.Vector3, len(vertices)),
	}
	if indices != nil {
		m.Indices = append([]uint16(nil), indices...)
	}
	m.buildWeld()
	m.RecalculateNormals()
	m.RecalculateBounds()
	return m
}

// NewSculptMeshFromMesh reads vertex and index data from a raylib mesh.
func NewSculptMeshFromMesh(mesh rl.Mesh) *SculptMesh {
	var vertices []rl.Vector3
	if mesh.Vertices != nil && mesh.VertexCount > 0 {
		raw := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
		vertices = make([]rl.Vector3, mesh.VertexCount)
		for i := range vertices {
			vertices[i] = rl.Vector3{X: raw[i*3+0], Y: raw[i*3+1], Z: raw[i*3+2]}
		}
	}
	var indices []uint16
	if mesh.Indices != nil {
		indices = unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
	}
	return NewSculptMesh(vertices, indices)
}

// buildWeld groups vertices that start at the same position so split seams
// share one smooth normal.
func (m *SculptMesh) buildWeld() {
	m.weld = make([]int, len(m.Vertices))
	first := make(map[rl.Vector3]int, len(m.Vertices))
	for i, v := range m.Vertices {
		if j, ok := first[v]; ok {
			m.weld[i] = j
			continue
		}
		first[v] = i
		m.weld[i] = i
	}
}

// Handle implements sculpt.Target.
func (m *SculptMesh) Handle() uint64 {
	if g := m.GetGameObject(); g != nil {
		return g.UID
	}
	return 0
}

// LocalVertices implements sculpt.Target.
func (m *SculptMesh) LocalVertices() []rl.Vector3 {
	return m.Vertices
}

// WorldMatrix implements sculpt.Target.
func (m *SculptMesh) WorldMatrix() rl.Matrix {
	if g := m.GetGameObject(); g != nil {
		return g.WorldMatrix()
	}
	return rl.MatrixIdentity()
}

// SetLocalVertices implements sculpt.Target.
func (m *SculptMesh) SetLocalVertices(v []rl.Vector3) {
	if len(v) != len(m.Vertices) {
		return
	}
	m.Vertices = v
	m.RecalculateNormals()
	m.RecalculateBounds()
	m.RebuildCollider()
	m.Changed.Invoke()
}

// TriangleCount returns the number of triangles in the topology.
func (m *SculptMesh) TriangleCount() int {
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

func (m *SculptMesh) triangle(i int) (int, int, int) {
	if m.Indices != nil {
		return int(m.Indices[3*i]), int(m.Indices[3*i+1]), int(m.Indices[3*i+2])
	}
	return 3 * i, 3*i + 1, 3*i + 2
}

// RecalculateNormals rebuilds smooth vertex normals by accumulating
// area-weighted face normals over welded vertices.
func (m *SculptMesh) RecalculateNormals() {
	if len(m.Normals) != len(m.Vertices) {
		m.Normals = make([]rl.Vector3, len(m.Vertices))
	}
	acc := make([]rl.Vector3, len(m.Vertices))
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.triangle(t)
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		// Unnormalized cross product weights each face by its area.
		face := rl.Vector3CrossProduct(rl.Vector3Subtract(v1, v0), rl.Vector3Subtract(v2, v0))
		for _, i := range [3]int{i0, i1, i2} {
			w := m.weld[i]
			acc[w] = rl.Vector3Add(acc[w], face)
		}
	}
	for i := range m.Normals {
		m.Normals[i] = rl.Vector3Normalize(acc[m.weld[i]])
	}
}

// RecalculateBounds refreshes the local-space bounding box.
func (m *SculptMesh) RecalculateBounds() {
	m.Bounds = physics.FromPoints(m.Vertices)
}

// WorldBounds returns the bounding box in world space.
func (m *SculptMesh) WorldBounds() physics.AABB {
	return m.Bounds.Transform(m.WorldMatrix())
}

// RebuildCollider refreshes the MeshCollider on the same GameObject, if any.
func (m *SculptMesh) RebuildCollider() {
	g := m.GetGameObject()
	if g == nil {
		return
	}
	if c := engine.GetComponent[*MeshCollider](g); c != nil {
		c.Build(m.Vertices, m.Indices, m.WorldMatrix())
	}
}

// Start builds the collider once the GameObject has its components.
func (m *SculptMesh) Start() {
	m.RebuildCollider()
}

// CopyTo writes positions and normals into a raylib mesh's CPU arrays.
// The mesh must have been created from the same topology.
func (m *SculptMesh) CopyTo(mesh rl.Mesh) {
	if int(mesh.VertexCount) != len(m.Vertices) || mesh.Vertices == nil {
		return
	}
	verts := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
	for i, v := range m.Vertices {
		verts[i*3+0], verts[i*3+1], verts[i*3+2] = v.X, v.Y, v.Z
	}
	if mesh.Normals == nil {
		return
	}
	normals := unsafe.Slice(mesh.Normals, mesh.VertexCount*3)
	for i, n := range m.Normals {
		normals[i*3+0], normals[i*3+1], normals[i*3+2] = n.X, n.Y, n.Z
	}
}
