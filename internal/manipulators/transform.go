package manipulators

import (
	"fmt"

	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "translate", "move":
		return ModeTranslate, nil
	case "rotate":
		return ModeRotate, nil
	case "scale":
		return ModeScale, nil
	}
	return ModeTranslate, fmt.Errorf("unknown manipulator mode %q", s)
}

// ReferenceSpace selects whether translation and rotation handles follow the
// target's orientation. Scale handles always use the target's local axes.
type ReferenceSpace int

const (
	SpaceWorld ReferenceSpace = iota
	SpaceLocal
)

var unitAxes = [3]rl.Vector3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

var axisNames = [3]string{"X", "Y", "Z"}

// TransformManipulator composes linear, planar and angular manipulators into
// the familiar move/rotate/scale handles for one GameObject. Only the
// handles for the current mode are registered with the manager.
type TransformManipulator struct {
	manager *Manager
	target  *engine.GameObject

	mode     Mode
	refSpace ReferenceSpace
	snapping Snapping

	// ScaleSensitivity maps drag distance to scale factor (factor = 1 + offset*sensitivity).
	ScaleSensitivity float32
	// MinScaleFactor clamps how far a single drag can shrink the target.
	MinScaleFactor float32

	translateAxes   [3]*LinearManipulator
	translatePlanes [3]*PlanarManipulator
	rotateRings     [3]*AngularManipulator
	scaleAxes       [3]*LinearManipulator
	scaleUniform    *LinearManipulator

	initLocalPos rl.Vector3
	initWorldRot rl.Vector3
	initScale    rl.Vector3

	// TransformChanged fires after every drag step that edits the target.
	TransformChanged engine.EventWithArg[*engine.GameObject]
}

func NewTransformManipulator(manager *Manager, style Style) *TransformManipulator {
	t := &TransformManipulator{
		manager:          manager,
		ScaleSensitivity: 0.5,
		MinScaleFactor:   0.1,
	}

	planePairs := [3][2]int{{0, 1}, {0, 2}, {1, 2}}
	planeNames := [3]string{"XY", "XZ", "YZ"}

	for i, axis := range unitAxes {
		lin := NewLinearManipulator(axis, style)
		lin.Color = style.AxisColors[i]
		lin.ActionName = "Translate " + axisNames[i]
		lin.OnDragBegin = func(LinearAction) { t.snapshot() }
		lin.OnDrag = func(a LinearAction) { t.translate(a.WorldDelta) }
		t.translateAxes[i] = lin

		pair := planePairs[i]
		plane := NewPlanarManipulator(unitAxes[pair[0]], unitAxes[pair[1]], style)
		plane.ActionName = "Translate " + planeNames[i]
		plane.OnDragBegin = func(PlanarAction) { t.snapshot() }
		plane.OnDrag = func(a PlanarAction) { t.translate(a.WorldDelta) }
		t.translatePlanes[i] = plane

		ring := NewAngularManipulator(axis, style)
		ring.Color = style.AxisColors[i]
		ring.ActionName = "Rotate " + axisNames[i]
		ring.OnDragBegin = func(AngularAction) { t.snapshot() }
		ring.OnDrag = func(a AngularAction) { t.rotate(a.DeltaRotation) }
		ring.OnRightClick = func(MouseInteraction) { t.resetRotationAxis(i) }
		t.rotateRings[i] = ring

		sc := NewLinearManipulator(axis, style)
		sc.Color = style.AxisColors[i]
		sc.Head = ShapeBox
		sc.ActionName = "Scale " + axisNames[i]
		sc.OnDragBegin = func(LinearAction) { t.snapshot() }
		sc.OnDrag = func(a LinearAction) { t.scale(axisComponent(a.ScaleOffset, i), i) }
		sc.OnRightClick = func(MouseInteraction) { t.resetScaleAxis(i) }
		t.scaleAxes[i] = sc
	}

	uni := NewLinearManipulator(rl.Vector3{X: 1, Y: 1, Z: 1}, style)
	uni.Color = style.UniformColor
	uni.Head = ShapeBox
	uni.ActionName = "Scale Uniform"
	uni.OnDragBegin = func(LinearAction) { t.snapshot() }
	uni.OnDrag = func(a LinearAction) { t.scale(a.Offset, -1) }
	uni.OnRightClick = func(MouseInteraction) { t.resetScaleAxis(-1) }
	// Keep the uniform handle short so it sits inside the axis handles.
	uni.Style.AxisLength = style.AxisLength * 0.5
	uni.Style.ScreenSizePixels = style.ScreenSizePixels * 0.5
	t.scaleUniform = uni

	return t
}

func (t *TransformManipulator) Mode() Mode { return t.mode }

func (t *TransformManipulator) ReferenceSpace() ReferenceSpace { return t.refSpace }

func (t *TransformManipulator) Target() *engine.GameObject { return t.target }

func (t *TransformManipulator) Snapping() Snapping { return t.snapping }

// Dragging reports whether one of this manipulator's handles owns the active slot.
func (t *TransformManipulator) Dragging() bool {
	for _, m := range t.modeManipulators(t.mode) {
		if m.Base().PerformingOperation() {
			return true
		}
	}
	return false
}

// Current returns the handles registered for the current mode.
func (t *TransformManipulator) Current() []Manipulator {
	if t.target == nil {
		return nil
	}
	return t.modeManipulators(t.mode)
}

func (t *TransformManipulator) modeManipulators(mode Mode) []Manipulator {
	switch mode {
	case ModeRotate:
		return []Manipulator{t.rotateRings[0], t.rotateRings[1], t.rotateRings[2]}
	case ModeScale:
		return []Manipulator{t.scaleAxes[0], t.scaleAxes[1], t.scaleAxes[2], t.scaleUniform}
	default:
		return []Manipulator{
			t.translateAxes[0], t.translateAxes[1], t.translateAxes[2],
			t.translatePlanes[0], t.translatePlanes[1], t.translatePlanes[2],
		}
	}
}

// SetTarget binds the handles to g. Passing nil unregisters them.
func (t *TransformManipulator) SetTarget(g *engine.GameObject) error {
	if t.Dragging() {
		return ErrOperationInProgress
	}
	t.target = g
	if g == nil {
		return t.unregisterMode(t.mode)
	}
	for _, m := range t.allManipulators() {
		m.Base().ClearEntityIDs()
		m.Base().AddEntityID(g.UID)
	}
	t.Sync()
	return t.registerMode(t.mode)
}

func (t *TransformManipulator) SetMode(mode Mode) error {
	if mode == t.mode {
		return nil
	}
	if t.Dragging() {
		return ErrOperationInProgress
	}
	if err := t.unregisterMode(t.mode); err != nil {
		return err
	}
	t.mode = mode
	if t.target == nil {
		return nil
	}
	t.Sync()
	return t.registerMode(mode)
}

func (t *TransformManipulator) SetReferenceSpace(s ReferenceSpace) {
	t.refSpace = s
	t.Sync()
}

// SetSnapping updates snapping on every handle.
func (t *TransformManipulator) SetSnapping(s Snapping) {
	t.snapping = s
	for i := range 3 {
		t.translateAxes[i].Snapping = s
		t.translatePlanes[i].Snapping = s
		t.rotateRings[i].Snapping = s
		t.scaleAxes[i].Snapping = s
	}
	t.scaleUniform.Snapping = s
}

// SetVisible hides every handle, e.g. while the camera is being flown.
func (t *TransformManipulator) SetVisible(visible bool) {
	for _, m := range t.allManipulators() {
		m.Base().SetVisible(visible)
	}
}

func (t *TransformManipulator) allManipulators() []Manipulator {
	all := t.modeManipulators(ModeTranslate)
	all = append(all, t.modeManipulators(ModeRotate)...)
	return append(all, t.modeManipulators(ModeScale)...)
}

func (t *TransformManipulator) registerMode(mode Mode) error {
	for _, m := range t.modeManipulators(mode) {
		if m.Base().Registered() {
			continue
		}
		if _, err := t.manager.Register(m); err != nil {
			return fmt.Errorf("register %s handles: %w", mode, err)
		}
	}
	return nil
}

func (t *TransformManipulator) unregisterMode(mode Mode) error {
	for _, m := range t.modeManipulators(mode) {
		if !m.Base().Registered() {
			continue
		}
		if err := m.Base().Unregister(); err != nil {
			return fmt.Errorf("unregister %s handles: %w", mode, err)
		}
	}
	return nil
}

// Unregister removes every handle from the manager.
func (t *TransformManipulator) Unregister() error {
	for _, mode := range []Mode{ModeTranslate, ModeRotate, ModeScale} {
		if err := t.unregisterMode(mode); err != nil {
			return err
		}
	}
	return nil
}

// Sync moves the handles to the target's current world transform. Call it
// after the target is edited outside a drag (undo, inspector, scripts).
func (t *TransformManipulator) Sync() {
	if t.target == nil {
		return
	}
	pos := t.target.WorldPosition()
	local := Space{Position: pos, Orientation: engine.OrientationQuaternion(t.target.WorldRotation())}
	world := WorldSpace(pos)

	oriented := world
	if t.refSpace == SpaceLocal {
		oriented = local
	}
	for i := range 3 {
		t.translateAxes[i].SetSpace(oriented)
		t.translatePlanes[i].SetSpace(oriented)
		t.rotateRings[i].SetSpace(oriented)
		t.scaleAxes[i].SetSpace(local)
	}
	t.scaleUniform.SetSpace(local)
}

func (t *TransformManipulator) snapshot() {
	if t.target == nil {
		return
	}
	t.initLocalPos = t.target.Transform.Position
	t.initWorldRot = t.target.WorldRotation()
	t.initScale = t.target.Transform.Scale
}

func (t *TransformManipulator) changed() {
	t.Sync()
	t.TransformChanged.Invoke(t.target)
}

func (t *TransformManipulator) translate(worldDelta rl.Vector3) {
	if t.target == nil {
		return
	}
	t.target.Transform.Position = rl.Vector3Add(t.initLocalPos, t.target.WorldToLocalDelta(worldDelta))
	t.changed()
}

func (t *TransformManipulator) rotate(delta rl.Quaternion) {
	if t.target == nil {
		return
	}
	world := engine.RotateWorld(t.initWorldRot, delta)
	if p := t.target.Parent; p != nil {
		world = rl.Vector3Subtract(world, p.WorldRotation())
	}
	t.target.Transform.Rotation = world
	t.changed()
}

// scale applies a drag offset to one axis, or all of them when axis is -1.
func (t *TransformManipulator) scale(offset float32, axis int) {
	if t.target == nil {
		return
	}
	factor := 1 + offset*t.ScaleSensitivity
	if factor < t.MinScaleFactor {
		factor = t.MinScaleFactor
	}
	s := t.initScale
	switch axis {
	case 0:
		s.X = t.initScale.X * factor
	case 1:
		s.Y = t.initScale.Y * factor
	case 2:
		s.Z = t.initScale.Z * factor
	default:
		s = rl.Vector3Scale(t.initScale, factor)
	}
	t.target.Transform.Scale = s
	t.changed()
}

func axisComponent(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func (t *TransformManipulator) withUndo(name string, edit func()) {
	if t.target == nil {
		return
	}
	if u := t.manager.undo; u != nil {
		u.BeginUndoBatch(name, []uint64{t.target.UID})
		defer u.EndUndoBatch()
	}
	edit()
	t.changed()
}

func (t *TransformManipulator) resetScaleAxis(axis int) {
	t.withUndo("Reset Scale", func() {
		s := &t.target.Transform.Scale
		switch axis {
		case 0:
			s.X = 1
		case 1:
			s.Y = 1
		case 2:
			s.Z = 1
		default:
			*s = rl.Vector3{X: 1, Y: 1, Z: 1}
		}
	})
}

func (t *TransformManipulator) resetRotationAxis(axis int) {
	t.withUndo("Reset Rotation", func() {
		r := &t.target.Transform.Rotation
		switch axis {
		case 0:
			r.X = 0
		case 1:
			r.Y = 0
		case 2:
			r.Z = 0
		}
	})
}
