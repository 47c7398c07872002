package world

import (
	"fmt"
	"math"
	"math/rand"

	"manipulators/internal/engine"
	"manipulators/internal/manipulators"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const FloorSize = 60.0

type World struct {
	Scene *engine.Scene
}

func New(name string) *World {
	return &World{Scene: engine.NewScene(name)}
}

// NewDemo lays out a ring of cubes, the default scene when no file is given.
// The same seed always yields the same layout.
func NewDemo(seed int64) *World {
	w := New("Demo")
	w.createCubes(rand.New(rand.NewSource(seed)))
	return w
}

func (w *World) createCubes(rng *rand.Rand) {
	numCubes := 15
	colors := []rl.Color{
		rl.Red, rl.Blue, rl.Green, rl.Purple, rl.Orange,
		rl.Yellow, rl.Pink, rl.SkyBlue, rl.Lime, rl.Magenta,
	}

	for i := range numCubes {
		angle := float32(i) * (2 * math.Pi / float32(numCubes))
		radius := float32(8 + rng.Float64()*5)

		pos := rl.Vector3{
			X: float32(math.Cos(float64(angle))) * radius,
			Y: float32(2 + rng.Float64()*3),
			Z: float32(math.Sin(float64(angle))) * radius,
		}

		cube := engine.NewGameObject(fmt.Sprintf("Cube_%d", i))
		cube.Tags = []string{"cube"}
		cube.Transform.Position = pos
		cube.Transform.Rotation = rl.Vector3{Y: float32(rng.Float64() * 90)}
		cube.Size = rl.Vector3{X: 1.5, Y: 1.5, Z: 1.5}
		cube.Color = colors[i%len(colors)]

		w.Scene.AddGameObject(cube)
	}
}

// RaycastHit is the nearest object box a ray passes through.
type RaycastHit struct {
	GameObject *engine.GameObject
	Point      rl.Vector3
	Distance   float32
}

// Bounds returns the world-space oriented box of g: center, unit axes and
// half extents (Size scaled by world scale).
func Bounds(g *engine.GameObject) (rl.Vector3, [3]rl.Vector3, rl.Vector3) {
	scale := g.WorldScale()
	half := rl.Vector3{
		X: float32(math.Abs(float64(g.Size.X*scale.X))) / 2,
		Y: float32(math.Abs(float64(g.Size.Y*scale.Y))) / 2,
		Z: float32(math.Abs(float64(g.Size.Z*scale.Z))) / 2,
	}
	return g.WorldPosition(), g.WorldAxes(), half
}

// Raycast checks the ray against every active object and returns the closest hit
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = rl.Vector3Normalize(direction)
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, g := range w.Scene.GameObjects {
		if !g.Active {
			continue
		}
		center, axes, half := Bounds(g)
		dist, ok := manipulators.RayBox(origin, direction, center, axes, half)
		if !ok || dist >= closestHit.Distance {
			continue
		}
		closestHit = RaycastHit{
			GameObject: g,
			Point:      rl.Vector3Add(origin, rl.Vector3Scale(direction, dist)),
			Distance:   dist,
		}
		hit = true
	}

	return closestHit, hit
}

// Visible returns the active objects whose bounding spheres touch the frustum.
func (w *World) Visible(f Frustum) []*engine.GameObject {
	var result []*engine.GameObject
	for _, g := range w.Scene.GameObjects {
		if !g.Active {
			continue
		}
		center, _, half := Bounds(g)
		if f.ContainsSphere(center, rl.Vector3Length(half)) {
			result = append(result, g)
		}
	}
	return result
}
