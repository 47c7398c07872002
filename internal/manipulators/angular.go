package manipulators

import (
	"math"

	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// edgeOnThreshold is the |cos| between view and ring axis below which the
// ring plane is too oblique to intersect reliably.
const edgeOnThreshold = 0.1

// AngularAction describes a rotation about one axis.
type AngularAction struct {
	Axis          rl.Vector3 // world space, unit length
	Center        rl.Vector3
	DeltaRadians  float32 // right-handed about Axis, snapped if enabled
	DeltaRotation rl.Quaternion
	Modifiers     Modifiers
}

type angularStart struct {
	center       rl.Vector3
	axis         rl.Vector3
	prevVec      rl.Vector3 // last ring-plane direction, unit
	havePrevVec  bool
	screenCenter rl.Vector2
	prevMouse    rl.Vector2
	towardCamera bool
	accumulated  float32
}

// AngularManipulator rotates about an axis using a ring handle. The angle is
// accumulated from successive plane hits so turns beyond half a revolution
// keep their sign; when the ring is seen edge-on the screen-space angle
// around the projected centre is used instead.
type AngularManipulator struct {
	BaseManipulator

	Style    Style
	Snapping Snapping
	Color    rl.Color

	OnDragBegin func(AngularAction)
	OnDrag      func(AngularAction)
	OnDragEnd   func(AngularAction)

	space     Space
	localAxis rl.Vector3

	start angularStart
	last  AngularAction
}

func NewAngularManipulator(localAxis rl.Vector3, style Style) *AngularManipulator {
	return &AngularManipulator{
		Style:     style,
		Color:     style.AxisColors[0],
		space:     WorldSpace(rl.Vector3{}),
		localAxis: rl.Vector3Normalize(localAxis),
	}
}

func (a *AngularManipulator) Register(m *Manager) error {
	_, err := m.Register(a)
	return err
}

func (a *AngularManipulator) Space() Space { return a.space }

func (a *AngularManipulator) SetSpace(s Space) {
	a.space = s
	a.SetBoundsDirty()
}

func (a *AngularManipulator) WorldAxis() rl.Vector3 {
	return a.space.TransformDirection(a.localAxis)
}

func (a *AngularManipulator) Views(cam camera.State) []View {
	center := a.space.Position
	s := a.Style
	scale := s.ScaleAt(cam, center)
	return []View{{
		Shape:       ShapeTorus,
		Center:      center,
		Axis:        a.WorldAxis(),
		Radius:      s.RingRadius * scale,
		MinorRadius: s.RingMinorRadius * scale,
		HitPadding:  s.RingHitPadding * scale,
		Color:       a.Color,
	}}
}

func (a *AngularManipulator) edgeOn(cam camera.State) bool {
	view := cam.DirectionTo(a.start.center)
	return math.Abs(float64(rl.Vector3DotProduct(view, a.start.axis))) < edgeOnThreshold
}

func (a *AngularManipulator) ringVector(ray rl.Ray) (rl.Vector3, bool) {
	hit, _, ok := RayPlaneIntersect(ray.Position, ray.Direction, a.start.center, a.start.axis)
	if !ok {
		return rl.Vector3{}, false
	}
	v := rl.Vector3Subtract(hit, a.start.center)
	if rl.Vector3Length(v) < epsilon {
		return rl.Vector3{}, false
	}
	return rl.Vector3Normalize(v), true
}

func (a *AngularManipulator) OnLeftMouseDown(mi MouseInteraction) {
	center := a.space.Position
	axis := a.WorldAxis()

	a.start = angularStart{
		center:    center,
		axis:      axis,
		prevMouse: mi.Screen,
		// The axis points at the viewer when it opposes the view direction.
		towardCamera: rl.Vector3DotProduct(axis, mi.Camera.DirectionTo(center)) < 0,
	}
	if sc, ok := mi.Camera.WorldToScreen(center); ok {
		a.start.screenCenter = sc
	}
	if v, ok := a.ringVector(mi.Ray); ok {
		a.start.prevVec = v
		a.start.havePrevVec = true
	}

	a.last = AngularAction{
		Axis:          axis,
		Center:        center,
		DeltaRotation: rl.QuaternionIdentity(),
		Modifiers:     mi.Modifiers,
	}
	if a.OnDragBegin != nil {
		a.OnDragBegin(a.last)
	}
}

func (a *AngularManipulator) OnMouseMove(mi MouseInteraction) {
	if !a.performingOperation {
		return
	}

	var step float32
	usedPlane := false
	if !a.edgeOn(mi.Camera) {
		if v, ok := a.ringVector(mi.Ray); ok {
			if a.start.havePrevVec {
				step = SignedAngle(a.start.prevVec, v, a.start.axis)
			}
			a.start.prevVec = v
			a.start.havePrevVec = true
			usedPlane = true
		}
	}
	if !usedPlane {
		ref := rl.Vector2Subtract(a.start.prevMouse, a.start.screenCenter)
		step = wrapAngle(AngleDelta(a.start.screenCenter, ref, mi.Screen, a.start.towardCamera))
		// Re-seed the plane reference once the ring is usable again.
		a.start.havePrevVec = false
	}
	a.start.prevMouse = mi.Screen
	a.start.accumulated += step

	delta := a.Snapping.Angle(a.start.accumulated, mi.Modifiers)
	a.last = AngularAction{
		Axis:          a.start.axis,
		Center:        a.start.center,
		DeltaRadians:  delta,
		DeltaRotation: rl.QuaternionFromAxisAngle(a.start.axis, delta),
		Modifiers:     mi.Modifiers,
	}
	if a.OnDrag != nil {
		a.OnDrag(a.last)
	}
}

func (a *AngularManipulator) OnLeftMouseUp(mi MouseInteraction) {
	a.last.Modifiers = mi.Modifiers
	if a.OnDragEnd != nil {
		a.OnDragEnd(a.last)
	}
}
