package manipulators

import rl "github.com/gen2brain/raylib-go/raylib"

// Bound is a pickable volume cached by the Manager for one manipulator.
// Ray directions passed to IntersectRay are unit length.
type Bound interface {
	IntersectRay(origin, dir rl.Vector3) (float32, bool)
}

type BoundCylinder struct {
	Base   rl.Vector3
	Axis   rl.Vector3
	Length float32
	Radius float32
}

func (b BoundCylinder) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RayCylinder(origin, dir, b.Base, b.Axis, b.Length, b.Radius)
}

type BoundCone struct {
	Base   rl.Vector3
	Axis   rl.Vector3
	Height float32
	Radius float32
}

func (b BoundCone) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RayCone(origin, dir, b.Base, b.Axis, b.Height, b.Radius)
}

type BoundQuad struct {
	Center     rl.Vector3
	Axis1      rl.Vector3
	Axis2      rl.Vector3
	HalfWidth  float32
	HalfHeight float32
}

func (b BoundQuad) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RayQuad(origin, dir, b.Center, b.Axis1, b.Axis2, b.HalfWidth, b.HalfHeight)
}

type BoundTorus struct {
	Center      rl.Vector3
	Axis        rl.Vector3
	MajorRadius float32
	MinorRadius float32
}

func (b BoundTorus) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RayTorus(origin, dir, b.Center, b.Axis, b.MajorRadius, b.MinorRadius)
}

type BoundSphere struct {
	Center rl.Vector3
	Radius float32
}

func (b BoundSphere) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RaySphere(origin, dir, b.Center, b.Radius)
}

type BoundBox struct {
	Center      rl.Vector3
	Axes        [3]rl.Vector3
	HalfExtents rl.Vector3
}

func (b BoundBox) IntersectRay(origin, dir rl.Vector3) (float32, bool) {
	return RayBox(origin, dir, b.Center, b.Axes, b.HalfExtents)
}

// intersectBounds returns the nearest hit over a manipulator's bounds.
func intersectBounds(bounds []Bound, origin, dir rl.Vector3) (float32, bool) {
	var best nearestPositive
	for _, b := range bounds {
		if t, ok := b.IntersectRay(origin, dir); ok {
			best.offer(t)
		}
	}
	return best.t, best.ok
}
