package engine

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// EulerFromMatrix recovers degrees such that RotationMatrix(result) == m.
// At ±90° around Y the Z angle is folded into X.
func EulerFromMatrix(m rl.Matrix) rl.Vector3 {
	sy := -float64(m.M2)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(sy)

	var x, z float64
	if math.Abs(math.Cos(y)) > 1e-6 {
		x = math.Atan2(float64(m.M6), float64(m.M10))
		z = math.Atan2(float64(m.M1), float64(m.M0))
	} else {
		x = math.Atan2(-float64(m.M9), float64(m.M5))
	}

	return rl.Vector3{
		X: float32(x * 180 / math.Pi),
		Y: float32(y * 180 / math.Pi),
		Z: float32(z * 180 / math.Pi),
	}
}

// RotateWorld applies a world-space rotation on top of the Euler rotation start.
func RotateWorld(start rl.Vector3, delta rl.Quaternion) rl.Vector3 {
	m := rl.MatrixMultiply(RotationMatrix(start), rl.QuaternionToMatrix(delta))
	return EulerFromMatrix(m)
}

// OrientationQuaternion converts Euler degrees to the equivalent quaternion.
func OrientationQuaternion(rotation rl.Vector3) rl.Quaternion {
	return rl.QuaternionNormalize(rl.QuaternionFromMatrix(RotationMatrix(rotation)))
}
