package sculpt

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NeighborFinder enumerates every vertex j != i whose world position is
// strictly closer than radius to vertex i. Moved is called whenever vertex j
// changes position during a pass.
type NeighborFinder interface {
	ForEachNeighbor(world []rl.Vector3, i int, radius float32, fn func(j int))
	Moved(j int, from, to rl.Vector3)
}

// LinearScan checks every vertex. O(n) per query, O(n²) per Smooth stroke.
type LinearScan struct{}

func (LinearScan) ForEachNeighbor(world []rl.Vector3, i int, radius float32, fn func(j int)) {
	if radius <= 0 {
		return
	}
	p := world[i]
	for j := range world {
		if j != i && rl.Vector3Distance(world[j], p) < radius {
			fn(j)
		}
	}
}

func (LinearScan) Moved(int, rl.Vector3, rl.Vector3) {}

type cellKey struct {
	X, Y, Z int64
}

// SpatialGrid buckets world positions into cubic cells one radius wide so a
// query only visits the 27 cells around the vertex. Positions that change
// must be reported through Moved; a new radius needs a new grid.
type SpatialGrid struct {
	cellSize float64
	radius   float32
	cells    map[cellKey][]int
}

// NewSpatialGrid indexes world for queries with the given radius.
func NewSpatialGrid(world []rl.Vector3, radius float32) *SpatialGrid {
	g := &SpatialGrid{
		radius: radius,
		cells:  make(map[cellKey][]int),
	}
	if radius <= 0 {
		return g
	}
	// Slightly oversized cells keep rounding in the cell lookup from pushing
	// an in-range neighbor two cells away.
	g.cellSize = float64(radius) * (1 + 1e-4)
	for j, p := range world {
		k := g.key(p)
		g.cells[k] = append(g.cells[k], j)
	}
	return g
}

func (g *SpatialGrid) key(p rl.Vector3) cellKey {
	return cellKey{
		X: int64(math.Floor(float64(p.X) / g.cellSize)),
		Y: int64(math.Floor(float64(p.Y) / g.cellSize)),
		Z: int64(math.Floor(float64(p.Z) / g.cellSize)),
	}
}

// Moved rebuckets vertex j after its position changed from one point to another.
func (g *SpatialGrid) Moved(j int, from, to rl.Vector3) {
	if g.cellSize == 0 {
		return
	}
	src, dst := g.key(from), g.key(to)
	if src == dst {
		return
	}
	cell := g.cells[src]
	for k, idx := range cell {
		if idx == j {
			cell = append(cell[:k], cell[k+1:]...)
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, src)
	} else {
		g.cells[src] = cell
	}
	g.cells[dst] = append(g.cells[dst], j)
}

// ForEachNeighbor falls back to a linear scan if asked for a radius larger
// than the grid was built for.
func (g *SpatialGrid) ForEachNeighbor(world []rl.Vector3, i int, radius float32, fn func(j int)) {
	if radius <= 0 {
		return
	}
	if radius > g.radius {
		LinearScan{}.ForEachNeighbor(world, i, radius, fn)
		return
	}
	p := world[i]
	c := g.key(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, j := range g.cells[cellKey{c.X + dx, c.Y + dy, c.Z + dz}] {
					if j != i && rl.Vector3Distance(world[j], p) < radius {
						fn(j)
					}
				}
			}
		}
	}
}
