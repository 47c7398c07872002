package engine

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestEulerFromMatrixRoundTrip(t *testing.T) {
	cases := []rl.Vector3{
		{},
		{X: 30},
		{Y: -45},
		{Z: 120},
		{X: 10, Y: 20, Z: 30},
		{X: -170, Y: 60, Z: 95},
	}

	for _, rot := range cases {
		got := EulerFromMatrix(RotationMatrix(rot))
		if !nearlyEqual(got, rot) {
			t.Errorf("EulerFromMatrix(RotationMatrix(%+v)) = %+v", rot, got)
		}
	}
}

func TestEulerFromMatrixGimbal(t *testing.T) {
	rot := rl.Vector3{X: 25, Y: 90}
	got := EulerFromMatrix(RotationMatrix(rot))

	// Different angles are fine at the pole as long as they describe the same rotation.
	a := RotationMatrix(rot)
	b := RotationMatrix(got)
	v := rl.Vector3{X: 0.3, Y: -1, Z: 2}
	if !nearlyEqual(rl.Vector3Transform(v, a), rl.Vector3Transform(v, b)) {
		t.Errorf("Gimbal decomposition %+v does not reproduce %+v", got, rot)
	}
}

func TestRotateWorldAboutY(t *testing.T) {
	q := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 30*math.Pi/180)
	got := RotateWorld(rl.Vector3{}, q)

	if !nearlyEqual(got, rl.Vector3{Y: 30}) {
		t.Errorf("Expected 30 degrees about Y, got %+v", got)
	}
}

func TestRotateWorldMatchesQuaternion(t *testing.T) {
	start := rl.Vector3{X: 15, Y: -20, Z: 40}
	q := rl.QuaternionFromAxisAngle(rl.Vector3Normalize(rl.Vector3{X: 1, Y: 1}), 0.7)

	result := RotateWorld(start, q)

	v := rl.Vector3{X: 1, Y: 2, Z: 3}
	want := rl.Vector3RotateByQuaternion(rl.Vector3Transform(v, RotationMatrix(start)), q)
	got := rl.Vector3Transform(v, RotationMatrix(result))
	if !nearlyEqual(got, want) {
		t.Errorf("Rotated vector %+v, want %+v", got, want)
	}
}

func TestOrientationQuaternionMatchesMatrix(t *testing.T) {
	rot := rl.Vector3{X: 33, Y: 12, Z: -70}
	q := OrientationQuaternion(rot)

	v := rl.Vector3{X: -1, Y: 0.5, Z: 2}
	want := rl.Vector3Transform(v, RotationMatrix(rot))
	got := rl.Vector3RotateByQuaternion(v, q)
	if !nearlyEqual(got, want) {
		t.Errorf("Quaternion rotates to %+v, matrix to %+v", got, want)
	}
}
