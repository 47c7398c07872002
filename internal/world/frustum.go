package world

import (
	"math"

	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// planeThrough builds a plane with an inward normal through point p.
func planeThrough(normal, p rl.Vector3) Plane {
	return normalizePlane(Plane{normal: normal, distance: -rl.Vector3DotProduct(normal, p)})
}

// NewFrustum builds the view volume of a camera directly from its basis, so
// it works without an open window.
func NewFrustum(cam camera.State) Frustum {
	var f Frustum
	pos := cam.Position
	aspect := cam.ViewportWidth / cam.ViewportHeight

	nearPoint := rl.Vector3Add(pos, rl.Vector3Scale(cam.Forward, cam.Near))
	farPoint := rl.Vector3Add(pos, rl.Vector3Scale(cam.Forward, cam.Far))
	f.planes[4] = planeThrough(cam.Forward, nearPoint)
	f.planes[5] = planeThrough(rl.Vector3Negate(cam.Forward), farPoint)

	if cam.Orthographic {
		halfH := cam.OrthoHeight / 2
		halfW := halfH * aspect
		f.planes[0] = planeThrough(cam.Right, rl.Vector3Subtract(pos, rl.Vector3Scale(cam.Right, halfW)))
		f.planes[1] = planeThrough(rl.Vector3Negate(cam.Right), rl.Vector3Add(pos, rl.Vector3Scale(cam.Right, halfW)))
		f.planes[2] = planeThrough(cam.Up, rl.Vector3Subtract(pos, rl.Vector3Scale(cam.Up, halfH)))
		f.planes[3] = planeThrough(rl.Vector3Negate(cam.Up), rl.Vector3Add(pos, rl.Vector3Scale(cam.Up, halfH)))
		return f
	}

	tanH := float32(math.Tan(float64(cam.Fovy) * math.Pi / 360))
	tanW := tanH * aspect
	fwdW := rl.Vector3Scale(cam.Forward, tanW)
	fwdH := rl.Vector3Scale(cam.Forward, tanH)

	f.planes[0] = planeThrough(rl.Vector3Add(cam.Right, fwdW), pos)
	f.planes[1] = planeThrough(rl.Vector3Subtract(fwdW, cam.Right), pos)
	f.planes[2] = planeThrough(rl.Vector3Add(cam.Up, fwdH), pos)
	f.planes[3] = planeThrough(rl.Vector3Subtract(fwdH, cam.Up), pos)
	return f
}

// normalizePlane normalizes a plane equation
func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := 0; i < 6; i++ {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		if dist < -radius {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum
func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	for i := 0; i < 6; i++ {
		dist := rl.Vector3DotProduct(f.planes[i].normal, point) + f.planes[i].distance
		if dist < 0 {
			return false
		}
	}
	return true
}
