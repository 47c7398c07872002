package editor

import (
	"fmt"
	"math"

	"manipulators/internal/manipulators"
	"manipulators/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const toolbarHeight = 36

// Theme colors
var (
	colorBgDark      = rl.NewColor(10, 10, 15, 255)
	colorBgElement   = rl.NewColor(28, 28, 38, 255)
	colorBgHover     = rl.NewColor(38, 38, 52, 255)
	colorAccent      = rl.NewColor(108, 99, 255, 255)
	colorAccentLight = rl.NewColor(167, 139, 250, 255)

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)

	colorBorder = rl.NewColor(255, 255, 255, 13)
)

// InitStyle sets up the raygui dark theme. Call once after the window opens.
func InitStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// Draw3D renders the scene and the active handles. Must be called between
// rl.BeginMode3D and rl.EndMode3D.
func (e *Editor) Draw3D() {
	cam := e.CameraState()
	e.renderer.Draw(e.world, world.NewFrustum(cam), e.Selected)

	handles := e.transform.Current()
	if len(handles) == 0 {
		return
	}

	// Disable depth testing so handles always draw on top
	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()
	for _, m := range handles {
		base := m.Base()
		if !base.Visible() {
			continue
		}
		for _, v := range m.Views(cam) {
			color := v.Color
			if base.PerformingOperation() {
				color = e.style.ActiveColor
			} else if base.Hovered() {
				color = e.style.HoverColor
			}
			drawView(v, color)
		}
	}
	rl.DrawRenderBatchActive()
	rl.EnableDepthTest()
}

func drawView(v manipulators.View, color rl.Color) {
	switch v.Shape {
	case manipulators.ShapeCylinder:
		end := rl.Vector3Add(v.Center, rl.Vector3Scale(v.Axis, v.Length))
		rl.DrawCylinderEx(v.Center, end, v.Radius, v.Radius, 8, color)
	case manipulators.ShapeCone:
		tip := rl.Vector3Add(v.Center, rl.Vector3Scale(v.Axis, v.Length))
		rl.DrawCylinderEx(v.Center, tip, v.Radius, 0, 12, color)
	case manipulators.ShapeBox:
		a3 := rl.Vector3Normalize(rl.Vector3CrossProduct(v.Axis, v.Axis2))
		drawOrientedBox(v.Center, [3]rl.Vector3{v.Axis, v.Axis2, a3}, v.HalfExtents, color)
	case manipulators.ShapeQuad:
		u := rl.Vector3Scale(v.Axis, v.HalfExtents.X)
		w := rl.Vector3Scale(v.Axis2, v.HalfExtents.Y)
		drawQuad(corner(v.Center, u, w, -1, -1), corner(v.Center, u, w, 1, -1),
			corner(v.Center, u, w, 1, 1), corner(v.Center, u, w, -1, 1), color)
	case manipulators.ShapeTorus:
		drawRing(v.Center, v.Axis, v.Radius, v.MinorRadius, color)
	case manipulators.ShapeSphere:
		rl.DrawSphere(v.Center, v.Radius, color)
	}
}

func corner(c, u, w rl.Vector3, su, sw float32) rl.Vector3 {
	return rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(u, su), rl.Vector3Scale(w, sw)))
}

// drawQuad draws both windings so the face is visible from either side.
func drawQuad(a, b, c, d rl.Vector3, color rl.Color) {
	rl.DrawTriangle3D(a, b, c, color)
	rl.DrawTriangle3D(a, c, d, color)
	rl.DrawTriangle3D(a, c, b, color)
	rl.DrawTriangle3D(a, d, c, color)
}

func drawOrientedBox(center rl.Vector3, axes [3]rl.Vector3, half rl.Vector3, color rl.Color) {
	x := rl.Vector3Scale(axes[0], half.X)
	y := rl.Vector3Scale(axes[1], half.Y)
	z := rl.Vector3Scale(axes[2], half.Z)
	for _, f := range [3][3]rl.Vector3{{x, y, z}, {y, z, x}, {z, x, y}} {
		n, u, w := f[0], f[1], f[2]
		for _, side := range []float32{-1, 1} {
			c := rl.Vector3Add(center, rl.Vector3Scale(n, side))
			drawQuad(corner(c, u, w, -1, -1), corner(c, u, w, 1, -1),
				corner(c, u, w, 1, 1), corner(c, u, w, -1, 1), color)
		}
	}
}

// drawRing draws a torus as a loop of thin cylinders.
func drawRing(center, axis rl.Vector3, radius, thickness float32, color rl.Color) {
	u := rl.Vector3CrossProduct(axis, rl.Vector3{Y: 1})
	if rl.Vector3Length(u) < 1e-3 {
		u = rl.Vector3CrossProduct(axis, rl.Vector3{X: 1})
	}
	u = rl.Vector3Normalize(u)
	w := rl.Vector3CrossProduct(axis, u)

	const segments = 48
	point := func(s int) rl.Vector3 {
		t := float64(s) / segments * 2 * math.Pi
		return corner(center, rl.Vector3Scale(u, radius), rl.Vector3Scale(w, radius),
			float32(math.Cos(t)), float32(math.Sin(t)))
	}
	for s := range segments {
		rl.DrawCylinderEx(point(s), point(s+1), thickness, thickness, 6, color)
	}
}

func (e *Editor) mouseInToolbar(m rl.Vector2) bool {
	return m.Y <= toolbarHeight
}

// DrawUI draws the toolbar: handle mode, reference space, snapping controls
// and the selected object's transform.
func (e *Editor) DrawUI() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenW, toolbarHeight, colorBgDark)
	rl.DrawRectangle(0, toolbarHeight-1, screenW, 1, colorBorder)
	rl.DrawText("EDITOR", 12, 9, 20, colorAccent)

	modeNames := [3]string{"[W] Move", "[E] Rotate", "[R] Scale"}
	for i, name := range modeNames {
		color := colorTextMuted
		if manipulators.Mode(i) == e.transform.Mode() {
			color = colorAccentLight
		}
		rl.DrawText(name, int32(110+i*100), 11, 16, color)
	}

	space := "[X] World"
	if e.transform.ReferenceSpace() == manipulators.SpaceLocal {
		space = "[X] Local"
	}
	rl.DrawText(space, 420, 11, 16, colorTextSecondary)

	snap := e.transform.Snapping()
	snap.Enabled = gui.CheckBox(rl.Rectangle{X: 530, Y: 10, Width: 16, Height: 16}, "Snap", snap.Enabled)
	snap.GridSize = gui.Slider(rl.Rectangle{X: 640, Y: 10, Width: 100, Height: 16}, "Grid",
		fmt.Sprintf("%.2f", snap.GridSize), snap.GridSize, 0.05, 5)
	snap.AngleDegrees = gui.Slider(rl.Rectangle{X: 830, Y: 10, Width: 100, Height: 16}, "Angle",
		fmt.Sprintf("%.0f", snap.AngleDegrees), snap.AngleDegrees, 1, 90)
	if snap != e.transform.Snapping() {
		e.transform.SetSnapping(snap)
	}

	rl.DrawText(fmt.Sprintf("Speed: %.0f", e.camera.MoveSpeed), screenW-110, 11, 16, colorTextMuted)

	if e.saveMsg != "" && rl.GetTime()-e.saveMsgTime < 2.0 {
		rl.DrawText(e.saveMsg, screenW/2-60, toolbarHeight+10, 16, colorAccentLight)
	}

	if g := e.Selected; g != nil {
		t := g.Transform
		status := fmt.Sprintf("%s  pos (%.2f, %.2f, %.2f)  rot (%.1f, %.1f, %.1f)  scale (%.2f, %.2f, %.2f)",
			g.Name,
			t.Position.X, t.Position.Y, t.Position.Z,
			t.Rotation.X, t.Rotation.Y, t.Rotation.Z,
			t.Scale.X, t.Scale.Y, t.Scale.Z)
		rl.DrawRectangle(0, screenH-26, screenW, 26, colorBgDark)
		rl.DrawText(status, 12, screenH-20, 14, colorTextSecondary)
	}

	if r := e.renderer; r != nil {
		rl.DrawText(fmt.Sprintf("%d drawn, %d culled", r.LastDrawn, r.LastCulled), screenW-170, screenH-20, 14, colorTextMuted)
	}
}
