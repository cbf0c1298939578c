package game

import (
	"fmt"
	"log"
	"unsafe"

	"sculpt3d/internal/camera"
	"sculpt3d/internal/components"
	"sculpt3d/internal/config"
	"sculpt3d/internal/engine"
	"sculpt3d/internal/sculpt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxRayDistance = 1000
	turnSpeed      = 90 // degrees per second
)

// Game hosts one sculptable mesh: it owns the window, camera, picking and
// GPU upload, and drives the sculptor once per frame.
type Game struct {
	Prefs     config.Prefs
	PrefsPath string

	Scene     *engine.Scene
	Camera    *camera.OrbitCamera
	Turntable *engine.GameObject
	Target    *engine.GameObject
	Mesh      *components.SculptMesh
	Collider  *components.MeshCollider
	Sculptor  *components.MeshSculptor

	model      rl.Model
	hover      components.RaycastHit
	hovering   bool
	dragging   bool
	showBounds bool
	panel      rl.Rectangle

	msg     string
	msgTime float64
}

func New(prefs config.Prefs, prefsPath string) *Game {
	g := &Game{
		Prefs:     prefs,
		PrefsPath: prefsPath,
		Scene:     engine.NewScene("Sculpt"),
		Camera:    camera.New(rl.Vector3{}, 4),
	}

	tool := engine.NewGameObject("Sculptor")
	g.Sculptor = components.NewMeshSculptor(prefs.NewEngine())
	tool.AddComponent(g.Sculptor)
	g.Scene.AddGameObject(tool)

	g.Sculptor.Engine.MeshChanged.AddListener(func(c *sculpt.Change) {
		if c.Kind != sculpt.ChangeStroke {
			g.setMsg("%s (%d steps left)", c.Kind, g.Sculptor.Engine.HistoryLen())
		}
	})
	return g
}

func (g *Game) Run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(g.Prefs.WindowWidth, g.Prefs.WindowHeight, "Sculpt")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	setupStyle()

	// Mesh generation uploads to the GPU, so it needs the GL context.
	g.createTarget(rl.GenMeshSphere(1, 32, 32))
	defer rl.UnloadModel(g.model)

	g.Scene.Start()
	g.Camera.Target = g.Mesh.WorldBounds().Center()

	for !rl.WindowShouldClose() {
		g.Update(rl.GetFrameTime())
		g.Draw()
	}

	g.Sculptor.Engine.Unbind()
	g.Prefs.Capture(g.Sculptor.Engine)
	if err := config.Save(g.PrefsPath, g.Prefs); err != nil {
		log.Printf("Failed to save prefs: %v", err)
	}
}

// createTarget places the mesh on a turntable so it can be spun without
// touching its local vertices.
func (g *Game) createTarget(mesh rl.Mesh) {
	g.model = rl.LoadModelFromMesh(mesh)

	g.Turntable = engine.NewGameObject("Turntable")
	g.Target = engine.NewGameObject("Sphere")
	g.Turntable.AddChild(g.Target)

	g.Mesh = components.NewSculptMeshFromMesh(g.gpuMesh())
	g.Collider = components.NewMeshCollider()
	g.Target.AddComponent(g.Mesh)
	g.Target.AddComponent(g.Collider)
	g.Mesh.Changed.AddListener(g.upload)

	g.Scene.AddGameObject(g.Turntable)
	g.Scene.AddGameObject(g.Target)

	if err := g.Sculptor.Engine.Bind(g.Mesh); err != nil {
		log.Printf("Sculpt: %v", err)
	}
	log.Printf("Sculpt: %s bound, %d vertices, %d triangles",
		g.Target.Name, len(g.Mesh.Vertices), g.Mesh.TriangleCount())
}

func (g *Game) gpuMesh() rl.Mesh {
	return unsafe.Slice(g.model.Meshes, g.model.MeshCount)[0]
}

func (g *Game) setMode(m sculpt.Mode) {
	if err := g.Sculptor.Engine.SetModeValue(m); err != nil {
		log.Printf("Sculpt: %v", err)
		return
	}
	g.setMsg("Mode: %s", m)
}

func (g *Game) Update(deltaTime float32) {
	e := g.Sculptor.Engine
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper)

	if ctrl && rl.IsKeyPressed(rl.KeyZ) {
		g.Sculptor.Undo(g.Target)
	}
	if ctrl && rl.IsKeyPressed(rl.KeyR) {
		if err := e.Revert(); err != nil {
			log.Printf("Sculpt: %v", err)
		}
	}
	for i, m := range sculpt.Modes() {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			g.setMode(m)
		}
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		b := e.Brush()
		e.SetBrush(b.Radius*0.9, b.Strength)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		b := e.Brush()
		e.SetBrush(b.Radius*1.1, b.Strength)
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.showBounds = !g.showBounds
	}

	turn := float32(0)
	if rl.IsKeyDown(rl.KeyQ) {
		turn -= turnSpeed * deltaTime
	}
	if rl.IsKeyDown(rl.KeyE) {
		turn += turnSpeed * deltaTime
	}
	if turn != 0 {
		g.Turntable.Transform.Rotation.Y += turn
		// The collider lives in world space.
		g.Mesh.RebuildCollider()
	}

	mouse := rl.GetMousePosition()
	overUI := rl.CheckCollisionPointRec(mouse, g.panel)
	if !overUI {
		g.Camera.Update(deltaTime)
	}
	g.pick(mouse)

	// One sample per frame while the button is held.
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !overUI {
		g.dragging = true
	}
	if g.dragging && g.hovering && rl.IsMouseButtonDown(rl.MouseLeftButton) {
		g.Sculptor.Enqueue(g.Target, g.hover.Point)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		g.dragging = false
		g.Sculptor.EndDrag()
	}

	g.Scene.Update(deltaTime)
}

// pick finds the brush contact point under the mouse. Rays that miss the
// mesh bounds skip the triangle test.
func (g *Game) pick(mouse rl.Vector2) {
	g.hovering = false
	ray := rl.GetScreenToWorldRay(mouse, g.Camera.GetRaylibCamera())
	invDir := rl.Vector3{
		X: 1 / ray.Direction.X,
		Y: 1 / ray.Direction.Y,
		Z: 1 / ray.Direction.Z,
	}
	if _, ok := g.Mesh.WorldBounds().RayIntersect(ray.Position, invDir, maxRayDistance); !ok {
		return
	}
	g.hover, g.hovering = g.Collider.Raycast(ray.Position, ray.Direction, maxRayDistance)
}

// upload pushes positions and normals to the GPU buffers of the model.
func (g *Game) upload() {
	mesh := g.gpuMesh()
	g.Mesh.CopyTo(mesh)

	size := int(mesh.VertexCount) * 3 * 4
	rl.UpdateMeshBuffer(mesh, 0, unsafe.Slice((*byte)(unsafe.Pointer(mesh.Vertices)), size), 0)
	if mesh.Normals != nil {
		rl.UpdateMeshBuffer(mesh, 2, unsafe.Slice((*byte)(unsafe.Pointer(mesh.Normals)), size), 0)
	}
}

func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBgDark)

	rl.BeginMode3D(g.Camera.GetRaylibCamera())
	rl.DrawGrid(20, 0.5)

	g.model.Transform = g.Target.WorldMatrix()
	rl.DrawModel(g.model, rl.Vector3Zero(), 1, rl.LightGray)
	rl.DrawModelWires(g.model, rl.Vector3Zero(), 1, rl.Fade(rl.DarkGray, 0.5))

	if g.showBounds {
		rl.DrawBoundingBox(g.Mesh.WorldBounds().BoundingBox(), colorTextSecondary)
	}
	if g.hovering {
		b := g.Sculptor.Engine.Brush()
		rl.DrawSphereWires(g.hover.Point, b.Radius, 8, 12, colorAccent)
		tip := rl.Vector3Add(g.hover.Point, rl.Vector3Scale(g.hover.Normal, b.Radius*0.5))
		rl.DrawLine3D(g.hover.Point, tip, colorAccent)
	}
	rl.EndMode3D()

	g.panel = g.drawPanel()
	g.drawMsg()

	rl.EndDrawing()
}

func (g *Game) setMsg(format string, args ...any) {
	g.msg = fmt.Sprintf(format, args...)
	g.msgTime = rl.GetTime()
}
