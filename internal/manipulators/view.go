package manipulators

import rl "github.com/gen2brain/raylib-go/raylib"

type Shape int

const (
	ShapeCylinder Shape = iota
	ShapeCone
	ShapeBox
	ShapeQuad
	ShapeTorus
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeCylinder:
		return "cylinder"
	case ShapeCone:
		return "cone"
	case ShapeBox:
		return "box"
	case ShapeQuad:
		return "quad"
	case ShapeTorus:
		return "torus"
	case ShapeSphere:
		return "sphere"
	}
	return "unknown"
}

// View is one drawable, pickable piece of a manipulator in world space.
// The editor draws views; the Manager caches their bounds for picking.
type View struct {
	Shape Shape

	// Center is the base of a cylinder or cone and the centre of everything else.
	Center rl.Vector3
	// Axis is the cylinder/cone direction, torus normal, or first quad/box axis.
	Axis rl.Vector3
	// Axis2 is the second quad/box axis.
	Axis2 rl.Vector3

	Length      float32    // cylinder length, cone height
	Radius      float32    // cylinder, cone, sphere radius; torus major radius
	MinorRadius float32    // torus tube radius
	HalfExtents rl.Vector3 // box half size; quads use X and Y

	// HitPadding grows the pick volume beyond what is drawn.
	HitPadding float32

	Color rl.Color
}

// Bound converts the view into the volume used for ray picking.
func (v View) Bound() Bound {
	p := v.HitPadding
	switch v.Shape {
	case ShapeCylinder:
		return BoundCylinder{Base: v.Center, Axis: v.Axis, Length: v.Length, Radius: v.Radius + p}
	case ShapeCone:
		return BoundCone{Base: v.Center, Axis: v.Axis, Height: v.Length, Radius: v.Radius + p}
	case ShapeBox:
		return BoundBox{
			Center:      v.Center,
			Axes:        [3]rl.Vector3{v.Axis, v.Axis2, rl.Vector3Normalize(rl.Vector3CrossProduct(v.Axis, v.Axis2))},
			HalfExtents: rl.Vector3{X: v.HalfExtents.X + p, Y: v.HalfExtents.Y + p, Z: v.HalfExtents.Z + p},
		}
	case ShapeQuad:
		return BoundQuad{Center: v.Center, Axis1: v.Axis, Axis2: v.Axis2, HalfWidth: v.HalfExtents.X + p, HalfHeight: v.HalfExtents.Y + p}
	case ShapeTorus:
		return BoundTorus{Center: v.Center, Axis: v.Axis, MajorRadius: v.Radius, MinorRadius: v.MinorRadius + p}
	case ShapeSphere:
		return BoundSphere{Center: v.Center, Radius: v.Radius + p}
	}
	return nil
}

func boundsFromViews(views []View) []Bound {
	bounds := make([]Bound, 0, len(views))
	for _, v := range views {
		if b := v.Bound(); b != nil {
			bounds = append(bounds, b)
		}
	}
	return bounds
}
