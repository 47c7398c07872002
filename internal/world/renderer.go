package world

import (
	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws the scene boxes with flat colors. Must be called between
// rl.BeginMode3D and rl.EndMode3D.
type Renderer struct {
	ShowGrid    bool
	GridSlices  int32
	GridSpacing float32
	WireColor   rl.Color
	SelectColor rl.Color

	// Counts from the last Draw.
	LastDrawn  int
	LastCulled int
}

func NewRenderer() *Renderer {
	return &Renderer{
		ShowGrid:    true,
		GridSlices:  int32(FloorSize / 2),
		GridSpacing: 2,
		WireColor:   rl.DarkGray,
		SelectColor: rl.Orange,
	}
}

// Draw renders every visible object and outlines the selected one.
func (r *Renderer) Draw(w *World, f Frustum, selected *engine.GameObject) {
	if r.ShowGrid {
		rl.DrawGrid(r.GridSlices, r.GridSpacing)
	}

	visible := w.Visible(f)
	r.LastDrawn = len(visible)
	r.LastCulled = 0
	for _, g := range w.Scene.GameObjects {
		if g.Active {
			r.LastCulled++
		}
	}
	r.LastCulled -= r.LastDrawn

	for _, g := range visible {
		wire := r.WireColor
		if g == selected {
			wire = r.SelectColor
		}
		drawBox(g, wire)
	}
}

// drawBox pushes the object's world transform onto the rlgl stack. Rotations
// are issued Z, Y, X so vertices see X first, matching engine.RotationMatrix.
func drawBox(g *engine.GameObject, wire rl.Color) {
	pos := g.WorldPosition()
	rot := g.WorldRotation()
	scale := g.WorldScale()

	rl.PushMatrix()
	rl.Translatef(pos.X, pos.Y, pos.Z)
	rl.Rotatef(rot.Z, 0, 0, 1)
	rl.Rotatef(rot.Y, 0, 1, 0)
	rl.Rotatef(rot.X, 1, 0, 0)
	rl.Scalef(scale.X, scale.Y, scale.Z)
	rl.DrawCube(rl.Vector3{}, g.Size.X, g.Size.Y, g.Size.Z, g.Color)
	rl.DrawCubeWires(rl.Vector3{}, g.Size.X, g.Size.Y, g.Size.Z, wire)
	rl.PopMatrix()
}
