package manipulators

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	epsilon = 1e-6

	// noHitDistance is returned by ClosestPointBetweenRays for parallel rays.
	noHitDistance float32 = math.MaxFloat32
)

// RayPlaneIntersect returns where a ray hits a plane (defined by point + normal)
// and the ray parameter of the hit. Hits behind the origin are rejected.
func RayPlaneIntersect(rayOrigin, rayDir, planePoint, planeNormal rl.Vector3) (rl.Vector3, float32, bool) {
	denom := rl.Vector3DotProduct(rayDir, planeNormal)
	if math.Abs(float64(denom)) < epsilon {
		return rl.Vector3{}, 0, false
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(planePoint, rayOrigin), planeNormal) / denom
	if t < 0 {
		return rl.Vector3{}, 0, false
	}
	return rl.Vector3Add(rayOrigin, rl.Vector3Scale(rayDir, t)), t, true
}

// ClosestPointBetweenRays finds the closest approach between two lines.
// Returns (t1, t2, distance) where t1/t2 are parameters along each line.
func ClosestPointBetweenRays(a, u, b, v rl.Vector3) (t1, t2, dist float32) {
	w := rl.Vector3Subtract(a, b)
	uu := rl.Vector3DotProduct(u, u)
	uv := rl.Vector3DotProduct(u, v)
	vv := rl.Vector3DotProduct(v, v)
	uw := rl.Vector3DotProduct(u, w)
	vw := rl.Vector3DotProduct(v, w)

	denom := uu*vv - uv*uv
	if denom < epsilon {
		return 0, 0, noHitDistance
	}

	t1 = (uv*vw - vv*uw) / denom
	t2 = (uu*vw - uv*uw) / denom

	p1 := rl.Vector3Add(a, rl.Vector3Scale(u, t1))
	p2 := rl.Vector3Add(b, rl.Vector3Scale(v, t2))
	dist = rl.Vector3Length(rl.Vector3Subtract(p1, p2))
	return
}

// nearestPositive keeps the smallest non-negative candidate.
type nearestPositive struct {
	t  float32
	ok bool
}

func (n *nearestPositive) offer(t float32) {
	if t < 0 {
		return
	}
	if !n.ok || t < n.t {
		n.t = t
		n.ok = true
	}
}

// rayDisc intersects a ray with a filled circle.
func rayDisc(origin, dir, center, normal rl.Vector3, radius float32) (float32, bool) {
	p, t, ok := RayPlaneIntersect(origin, dir, center, normal)
	if !ok {
		return 0, false
	}
	if rl.Vector3Distance(p, center) > radius {
		return 0, false
	}
	return t, true
}

// RayCylinder intersects a ray with a capped cylinder starting at base and
// extending length along the unit axis.
func RayCylinder(origin, dir, base, axis rl.Vector3, length, radius float32) (float32, bool) {
	var best nearestPositive

	o := rl.Vector3Subtract(origin, base)
	dPerp := rl.Vector3Subtract(dir, rl.Vector3Scale(axis, rl.Vector3DotProduct(dir, axis)))
	oPerp := rl.Vector3Subtract(o, rl.Vector3Scale(axis, rl.Vector3DotProduct(o, axis)))

	a := rl.Vector3DotProduct(dPerp, dPerp)
	b := 2 * rl.Vector3DotProduct(oPerp, dPerp)
	c := rl.Vector3DotProduct(oPerp, oPerp) - radius*radius

	if a > epsilon {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := float32(math.Sqrt(float64(disc)))
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				h := rl.Vector3DotProduct(rl.Vector3Add(o, rl.Vector3Scale(dir, t)), axis)
				if h >= 0 && h <= length {
					best.offer(t)
				}
			}
		}
	}

	if t, ok := rayDisc(origin, dir, base, axis, radius); ok {
		best.offer(t)
	}
	top := rl.Vector3Add(base, rl.Vector3Scale(axis, length))
	if t, ok := rayDisc(origin, dir, top, axis, radius); ok {
		best.offer(t)
	}
	return best.t, best.ok
}

// RayCone intersects a ray with a solid cone whose base disc sits at base and
// whose apex is height along the unit axis.
func RayCone(origin, dir, base, axis rl.Vector3, height, radius float32) (float32, bool) {
	var best nearestPositive

	apex := rl.Vector3Add(base, rl.Vector3Scale(axis, height))
	down := rl.Vector3Negate(axis)
	cos2 := (height * height) / (height*height + radius*radius)

	o := rl.Vector3Subtract(origin, apex)
	dv := rl.Vector3DotProduct(dir, down)
	ov := rl.Vector3DotProduct(o, down)

	a := dv*dv - cos2*rl.Vector3DotProduct(dir, dir)
	b := 2 * (dv*ov - cos2*rl.Vector3DotProduct(dir, o))
	c := ov*ov - cos2*rl.Vector3DotProduct(o, o)

	inSlab := func(t float32) bool {
		h := rl.Vector3DotProduct(rl.Vector3Add(o, rl.Vector3Scale(dir, t)), down)
		return h >= 0 && h <= height
	}

	if math.Abs(float64(a)) < epsilon {
		if math.Abs(float64(b)) > epsilon {
			if t := -c / b; inSlab(t) {
				best.offer(t)
			}
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := float32(math.Sqrt(float64(disc)))
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if inSlab(t) {
					best.offer(t)
				}
			}
		}
	}

	if t, ok := rayDisc(origin, dir, base, axis, radius); ok {
		best.offer(t)
	}
	return best.t, best.ok
}

// RayQuad intersects a ray with a double-sided rectangle spanned by two unit axes.
func RayQuad(origin, dir, center, axis1, axis2 rl.Vector3, halfWidth, halfHeight float32) (float32, bool) {
	normal := rl.Vector3Normalize(rl.Vector3CrossProduct(axis1, axis2))
	p, t, ok := RayPlaneIntersect(origin, dir, center, normal)
	if !ok {
		return 0, false
	}
	rel := rl.Vector3Subtract(p, center)
	if abs(rl.Vector3DotProduct(rel, axis1)) > halfWidth || abs(rl.Vector3DotProduct(rel, axis2)) > halfHeight {
		return 0, false
	}
	return t, true
}

// RaySphere returns the first non-negative hit with a sphere.
func RaySphere(origin, dir, center rl.Vector3, radius float32) (float32, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(dir, dir)
	b := 2.0 * rl.Vector3DotProduct(oc, dir)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	t := (-b - float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	if t < 0 {
		t = (-b + float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// RayBox intersects a ray with an oriented box given its unit axes and half extents.
func RayBox(origin, dir, center rl.Vector3, axes [3]rl.Vector3, half rl.Vector3) (float32, bool) {
	rel := rl.Vector3Subtract(origin, center)
	halves := [3]float32{half.X, half.Y, half.Z}

	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for i, axis := range axes {
		o := rl.Vector3DotProduct(rel, axis)
		d := rl.Vector3DotProduct(dir, axis)
		h := abs(halves[i])

		if math.Abs(float64(d)) < epsilon {
			if o < -h || o > h {
				return 0, false
			}
			continue
		}
		t1 := (-h - o) / d
		t2 := (h - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true // origin inside the box
	}
	return tmin, true
}

// RayTorus reports whether a ray passes within minor of the circle of radius
// major around center in the plane orthogonal to the unit axis.
//
// The closest approach between the ray and the circle is found by alternating
// projection: the nearest circle point to the current ray point, then the
// nearest ray point to that circle point. Several seeds are tried so edge-on
// views still find the near side of the ring.
func RayTorus(origin, dir, center, axis rl.Vector3, major, minor float32) (float32, bool) {
	seeds := make([]float32, 0, 4)
	if _, t, ok := RayPlaneIntersect(origin, dir, center, axis); ok {
		seeds = append(seeds, t)
	}
	tc := rl.Vector3DotProduct(rl.Vector3Subtract(center, origin), dir)
	seeds = append(seeds, max(tc, 0))

	closest := rl.Vector3Add(origin, rl.Vector3Scale(dir, tc))
	d2 := rl.Vector3LengthSqr(rl.Vector3Subtract(closest, center))
	if r2 := major * major; d2 < r2 {
		half := float32(math.Sqrt(float64(r2 - d2)))
		seeds = append(seeds, max(tc-half, 0), max(tc+half, 0))
	}

	var best nearestPositive
	for _, seed := range seeds {
		t, dist := torusDescend(origin, dir, center, axis, major, seed)
		if dist > minor {
			continue
		}
		// Back up to where the ray enters the tube.
		entry := t - float32(math.Sqrt(float64(minor*minor-dist*dist)))
		best.offer(max(entry, 0))
	}
	return best.t, best.ok
}

func torusDescend(origin, dir, center, axis rl.Vector3, major, t float32) (float32, float32) {
	var ring rl.Vector3
	for range 16 {
		ring = nearestRingPoint(rl.Vector3Add(origin, rl.Vector3Scale(dir, t)), center, axis, major)
		next := max(rl.Vector3DotProduct(rl.Vector3Subtract(ring, origin), dir), 0)
		if abs(next-t) < 1e-5 {
			t = next
			break
		}
		t = next
	}
	ring = nearestRingPoint(rl.Vector3Add(origin, rl.Vector3Scale(dir, t)), center, axis, major)
	return t, rl.Vector3Distance(rl.Vector3Add(origin, rl.Vector3Scale(dir, t)), ring)
}

func nearestRingPoint(p, center, axis rl.Vector3, major float32) rl.Vector3 {
	q := rl.Vector3Subtract(p, center)
	q = rl.Vector3Subtract(q, rl.Vector3Scale(axis, rl.Vector3DotProduct(q, axis)))
	if rl.Vector3Length(q) < epsilon {
		q = anyPerpendicular(axis)
	}
	return rl.Vector3Add(center, rl.Vector3Scale(rl.Vector3Normalize(q), major))
}

func anyPerpendicular(v rl.Vector3) rl.Vector3 {
	other := rl.Vector3{X: 1}
	if math.Abs(float64(v.X)) > 0.9 {
		other = rl.Vector3{Y: 1}
	}
	return rl.Vector3Normalize(rl.Vector3CrossProduct(v, other))
}

// AngleDelta returns the angle in [0, 2π) swept from the screen-space
// reference vector radius to the vector from center to mouse. Screen Y grows
// downwards. When towardCamera is set (the rotation axis points at the
// viewer) a visually counter-clockwise sweep is positive; otherwise the sense
// is mirrored so the result always matches a right-handed rotation about the axis.
func AngleDelta(center, radius, mouse rl.Vector2, towardCamera bool) float32 {
	a := rl.Vector2Normalize(radius)
	b := rl.Vector2Normalize(rl.Vector2Subtract(mouse, center))
	if rl.Vector2Length(a) < epsilon || rl.Vector2Length(b) < epsilon {
		return 0
	}

	dot := clamp(rl.Vector2DotProduct(a, b), -1, 1)
	angle := float32(math.Acos(float64(dot)))
	cross := a.X*b.Y - a.Y*b.X

	// cross > 0 is a clockwise sweep on a Y-down screen.
	if (cross > 0) == towardCamera && cross != 0 {
		angle = 2*math.Pi - angle
	}
	if angle >= 2*math.Pi {
		angle = 0
	}
	return angle
}

// SignedAngle returns the signed angle from a to b around axis, in (-π, π].
func SignedAngle(a, b, axis rl.Vector3) float32 {
	cross := rl.Vector3CrossProduct(a, b)
	return float32(math.Atan2(float64(rl.Vector3DotProduct(cross, axis)), float64(rl.Vector3DotProduct(a, b))))
}

// wrapAngle maps an angle in [0, 2π) to (-π, π].
func wrapAngle(a float32) float32 {
	if a > math.Pi {
		return a - 2*math.Pi
	}
	return a
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
