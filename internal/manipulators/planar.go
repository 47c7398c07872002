package manipulators

import (
	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PlanarAction describes a drag within the plane spanned by two axes.
type PlanarAction struct {
	Axis1, Axis2  rl.Vector3 // world space, unit length
	StartPosition rl.Vector3
	Offset1       float32 // distance along Axis1, snapped if enabled
	Offset2       float32 // distance along Axis2, snapped if enabled
	WorldDelta    rl.Vector3
	Modifiers     Modifiers
}

func (a PlanarAction) CurrentPosition() rl.Vector3 {
	return rl.Vector3Add(a.StartPosition, a.WorldDelta)
}

type planarStart struct {
	origin       rl.Vector3
	axis1, axis2 rl.Vector3
	normal       rl.Vector3
	hit          rl.Vector3
	valid        bool
}

// PlanarManipulator drags freely inside a plane. Its handle is a small quad
// offset from the origin along both axes.
type PlanarManipulator struct {
	BaseManipulator

	Style    Style
	Snapping Snapping
	Color    rl.Color

	OnDragBegin func(PlanarAction)
	OnDrag      func(PlanarAction)
	OnDragEnd   func(PlanarAction)

	space      Space
	localAxis1 rl.Vector3
	localAxis2 rl.Vector3

	start planarStart
	last  PlanarAction
}

func NewPlanarManipulator(localAxis1, localAxis2 rl.Vector3, style Style) *PlanarManipulator {
	return &PlanarManipulator{
		Style:      style,
		Color:      style.PlanarColor,
		space:      WorldSpace(rl.Vector3{}),
		localAxis1: rl.Vector3Normalize(localAxis1),
		localAxis2: rl.Vector3Normalize(localAxis2),
	}
}

func (p *PlanarManipulator) Register(m *Manager) error {
	_, err := m.Register(p)
	return err
}

func (p *PlanarManipulator) Space() Space { return p.space }

func (p *PlanarManipulator) SetSpace(s Space) {
	p.space = s
	p.SetBoundsDirty()
}

func (p *PlanarManipulator) WorldAxes() (rl.Vector3, rl.Vector3) {
	return p.space.TransformDirection(p.localAxis1), p.space.TransformDirection(p.localAxis2)
}

func (p *PlanarManipulator) WorldNormal() rl.Vector3 {
	a1, a2 := p.WorldAxes()
	return rl.Vector3Normalize(rl.Vector3CrossProduct(a1, a2))
}

func (p *PlanarManipulator) Views(cam camera.State) []View {
	origin := p.space.Position
	a1, a2 := p.WorldAxes()
	s := p.Style
	scale := s.ScaleAt(cam, origin)

	half := s.PlanarSize * 0.5 * scale
	along := (s.PlanarOffset + s.PlanarSize*0.5) * scale
	center := rl.Vector3Add(origin, rl.Vector3Add(rl.Vector3Scale(a1, along), rl.Vector3Scale(a2, along)))

	return []View{{
		Shape:       ShapeQuad,
		Center:      center,
		Axis:        a1,
		Axis2:       a2,
		HalfExtents: rl.Vector3{X: half, Y: half},
		Color:       p.Color,
	}}
}

func (p *PlanarManipulator) OnLeftMouseDown(mi MouseInteraction) {
	a1, a2 := p.WorldAxes()
	p.start = planarStart{
		origin: p.space.Position,
		axis1:  a1,
		axis2:  a2,
		normal: p.WorldNormal(),
	}
	if hit, _, ok := RayPlaneIntersect(mi.Ray.Position, mi.Ray.Direction, p.start.origin, p.start.normal); ok {
		p.start.hit = hit
		p.start.valid = true
	}

	p.last = PlanarAction{Axis1: a1, Axis2: a2, StartPosition: p.start.origin, Modifiers: mi.Modifiers}
	if p.OnDragBegin != nil {
		p.OnDragBegin(p.last)
	}
}

func (p *PlanarManipulator) OnMouseMove(mi MouseInteraction) {
	if !p.performingOperation {
		return
	}
	hit, _, ok := RayPlaneIntersect(mi.Ray.Position, mi.Ray.Direction, p.start.origin, p.start.normal)
	if !ok {
		return
	}
	if !p.start.valid {
		// The press missed the plane (edge-on); anchor on the first usable hit.
		p.start.hit = hit
		p.start.valid = true
	}

	delta := rl.Vector3Subtract(hit, p.start.hit)
	o1 := p.Snapping.Distance(rl.Vector3DotProduct(delta, p.start.axis1), mi.Modifiers)
	o2 := p.Snapping.Distance(rl.Vector3DotProduct(delta, p.start.axis2), mi.Modifiers)

	p.last = PlanarAction{
		Axis1:         p.start.axis1,
		Axis2:         p.start.axis2,
		StartPosition: p.start.origin,
		Offset1:       o1,
		Offset2:       o2,
		WorldDelta:    rl.Vector3Add(rl.Vector3Scale(p.start.axis1, o1), rl.Vector3Scale(p.start.axis2, o2)),
		Modifiers:     mi.Modifiers,
	}
	if p.OnDrag != nil {
		p.OnDrag(p.last)
	}
}

func (p *PlanarManipulator) OnLeftMouseUp(mi MouseInteraction) {
	p.last.Modifiers = mi.Modifiers
	if p.OnDragEnd != nil {
		p.OnDragEnd(p.last)
	}
}
