package manipulators

import (
	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LinearAction describes a drag along one axis.
type LinearAction struct {
	Axis          rl.Vector3 // world space, unit length
	StartPosition rl.Vector3 // manipulator origin when the drag began
	Offset        float32    // signed distance along Axis, snapped if enabled
	WorldDelta    rl.Vector3 // Axis * Offset

	// LocalPositionOffset is WorldDelta expressed in the manipulator's space.
	LocalPositionOffset rl.Vector3
	// ScaleOffset is Offset spread over the local axis components; a handle on
	// local X only moves the X component.
	ScaleOffset rl.Vector3

	Modifiers Modifiers
}

func (a LinearAction) CurrentPosition() rl.Vector3 {
	return rl.Vector3Add(a.StartPosition, a.WorldDelta)
}

type linearStart struct {
	origin      rl.Vector3
	axis        rl.Vector3
	localAxis   rl.Vector3
	orientation rl.Quaternion
	planeNormal rl.Vector3
	offset      float32
	valid       bool
}

// LinearManipulator constrains a drag to a single axis. The mouse ray is
// intersected with a plane that contains the axis and faces the camera as
// much as possible; the hit is projected back onto the axis.
type LinearManipulator struct {
	BaseManipulator

	Style    Style
	Snapping Snapping
	Color    rl.Color
	Head     Shape // ShapeCone or ShapeBox

	OnDragBegin func(LinearAction)
	OnDrag      func(LinearAction)
	OnDragEnd   func(LinearAction)

	space       Space
	localAxis   rl.Vector3
	localOffset rl.Vector3

	start linearStart
	last  LinearAction
}

func NewLinearManipulator(localAxis rl.Vector3, style Style) *LinearManipulator {
	return &LinearManipulator{
		Style:     style,
		Color:     style.AxisColors[0],
		Head:      ShapeCone,
		space:     WorldSpace(rl.Vector3{}),
		localAxis: rl.Vector3Normalize(localAxis),
	}
}

func (l *LinearManipulator) Register(m *Manager) error {
	_, err := m.Register(l)
	return err
}

func (l *LinearManipulator) Space() Space { return l.space }

func (l *LinearManipulator) SetSpace(s Space) {
	l.space = s
	l.SetBoundsDirty()
}

// SetLocalOffset moves the handle away from the space origin.
func (l *LinearManipulator) SetLocalOffset(offset rl.Vector3) {
	l.localOffset = offset
	l.SetBoundsDirty()
}

func (l *LinearManipulator) SetAxis(localAxis rl.Vector3) {
	l.localAxis = rl.Vector3Normalize(localAxis)
	l.SetBoundsDirty()
}

func (l *LinearManipulator) WorldAxis() rl.Vector3 {
	return l.space.TransformDirection(l.localAxis)
}

func (l *LinearManipulator) WorldOrigin() rl.Vector3 {
	return l.space.TransformPoint(l.localOffset)
}

func (l *LinearManipulator) Views(cam camera.State) []View {
	origin := l.WorldOrigin()
	axis := l.WorldAxis()
	s := l.Style
	scale := s.ScaleAt(cam, origin)
	length := s.AxisLength * scale

	views := make([]View, 0, 2)
	switch l.Head {
	case ShapeBox:
		half := s.ScaleBoxSize * 0.5 * scale
		views = append(views,
			View{
				Shape:      ShapeCylinder,
				Center:     origin,
				Axis:       axis,
				Length:     length - half,
				Radius:     s.ShaftRadius * scale,
				HitPadding: s.HitPadding * scale,
				Color:      l.Color,
			},
			View{
				Shape:       ShapeBox,
				Center:      rl.Vector3Add(origin, rl.Vector3Scale(axis, length)),
				Axis:        axis,
				Axis2:       anyPerpendicular(axis),
				HalfExtents: rl.Vector3{X: half, Y: half, Z: half},
				HitPadding:  s.HitPadding * 0.5 * scale,
				Color:       l.Color,
			})
	default:
		cone := s.ConeLength * scale
		views = append(views,
			View{
				Shape:      ShapeCylinder,
				Center:     origin,
				Axis:       axis,
				Length:     length - cone,
				Radius:     s.ShaftRadius * scale,
				HitPadding: s.HitPadding * scale,
				Color:      l.Color,
			},
			View{
				Shape:      ShapeCone,
				Center:     rl.Vector3Add(origin, rl.Vector3Scale(axis, length-cone)),
				Axis:       axis,
				Length:     cone,
				Radius:     s.ConeRadius * scale,
				HitPadding: s.HitPadding * 0.5 * scale,
				Color:      l.Color,
			})
	}
	return views
}

// dragPlaneNormal returns the normal of the plane containing axis that is
// closest to facing the viewer.
func dragPlaneNormal(axis, viewDir, fallback rl.Vector3) rl.Vector3 {
	side := rl.Vector3CrossProduct(viewDir, axis)
	if rl.Vector3Length(side) < 1e-4 {
		side = rl.Vector3CrossProduct(fallback, axis)
	}
	if rl.Vector3Length(side) < 1e-4 {
		side = anyPerpendicular(axis)
	}
	return rl.Vector3Normalize(rl.Vector3CrossProduct(axis, side))
}

func (l *LinearManipulator) OnLeftMouseDown(mi MouseInteraction) {
	origin := l.WorldOrigin()
	axis := l.WorldAxis()

	l.start = linearStart{
		origin:      origin,
		axis:        axis,
		localAxis:   l.localAxis,
		orientation: l.space.orientation(),
		planeNormal: dragPlaneNormal(axis, mi.Camera.DirectionTo(origin), mi.Camera.Up),
	}
	if pt, _, ok := RayPlaneIntersect(mi.Ray.Position, mi.Ray.Direction, origin, l.start.planeNormal); ok {
		l.start.offset = rl.Vector3DotProduct(rl.Vector3Subtract(pt, origin), axis)
		l.start.valid = true
	}

	l.last = LinearAction{Axis: axis, StartPosition: origin, Modifiers: mi.Modifiers}
	if l.OnDragBegin != nil {
		l.OnDragBegin(l.last)
	}
}

func (l *LinearManipulator) OnMouseMove(mi MouseInteraction) {
	if !l.performingOperation {
		return
	}
	pt, _, ok := RayPlaneIntersect(mi.Ray.Position, mi.Ray.Direction, l.start.origin, l.start.planeNormal)
	if !ok {
		return
	}

	along := rl.Vector3DotProduct(rl.Vector3Subtract(pt, l.start.origin), l.start.axis)
	if !l.start.valid {
		// The press missed the drag plane; anchor on the first usable hit.
		l.start.offset = along
		l.start.valid = true
	}
	offset := l.Snapping.Distance(along-l.start.offset, mi.Modifiers)
	worldDelta := rl.Vector3Scale(l.start.axis, offset)

	l.last = LinearAction{
		Axis:                l.start.axis,
		StartPosition:       l.start.origin,
		Offset:              offset,
		WorldDelta:          worldDelta,
		LocalPositionOffset: rl.Vector3RotateByQuaternion(worldDelta, rl.QuaternionInvert(l.start.orientation)),
		ScaleOffset:         rl.Vector3Scale(l.start.localAxis, offset),
		Modifiers:           mi.Modifiers,
	}
	if l.OnDrag != nil {
		l.OnDrag(l.last)
	}
}

func (l *LinearManipulator) OnLeftMouseUp(mi MouseInteraction) {
	l.last.Modifiers = mi.Modifiers
	if l.OnDragEnd != nil {
		l.OnDragEnd(l.last)
	}
}
