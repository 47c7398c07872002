package manipulators

import (
	"math"

	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

type Modifiers struct {
	Shift bool `yaml:"shift" json:"shift"`
	Ctrl  bool `yaml:"ctrl" json:"ctrl"`
	Alt   bool `yaml:"alt" json:"alt"`
}

// MouseInteraction is one mouse event in viewport terms.
type MouseInteraction struct {
	Ray       rl.Ray
	Screen    rl.Vector2
	Camera    camera.State
	Modifiers Modifiers
}

// NewMouseInteraction builds the pick ray for a screen position.
func NewMouseInteraction(cam camera.State, screen rl.Vector2, mods Modifiers) MouseInteraction {
	return MouseInteraction{
		Ray:       cam.ScreenToRay(screen),
		Screen:    screen,
		Camera:    cam,
		Modifiers: mods,
	}
}

// Space is the frame a manipulator lives in: usually the bound entity's
// world position plus either identity (world space) or its orientation.
type Space struct {
	Position    rl.Vector3
	Orientation rl.Quaternion
}

func WorldSpace(pos rl.Vector3) Space {
	return Space{Position: pos, Orientation: rl.QuaternionIdentity()}
}

func (s Space) orientation() rl.Quaternion {
	if s.Orientation == (rl.Quaternion{}) {
		return rl.QuaternionIdentity()
	}
	return s.Orientation
}

// TransformDirection rotates a local direction into world space.
func (s Space) TransformDirection(v rl.Vector3) rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3RotateByQuaternion(v, s.orientation()))
}

// TransformPoint maps a local offset into world space.
func (s Space) TransformPoint(v rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(s.Position, rl.Vector3RotateByQuaternion(v, s.orientation()))
}

// Snapping configures grid and angle snapping. Holding Ctrl inverts Enabled
// for the current drag.
type Snapping struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	GridSize     float32 `yaml:"grid_size" json:"gridSize"`
	AngleDegrees float32 `yaml:"angle_degrees" json:"angleDegrees"`
}

func (s Snapping) active(m Modifiers) bool {
	return s.Enabled != m.Ctrl
}

// Distance rounds d to the grid when snapping applies.
func (s Snapping) Distance(d float32, m Modifiers) float32 {
	if !s.active(m) || s.GridSize <= 0 {
		return d
	}
	return snapTo(d, s.GridSize)
}

// Angle rounds radians to the angle step when snapping applies.
func (s Snapping) Angle(rad float32, m Modifiers) float32 {
	if !s.active(m) || s.AngleDegrees <= 0 {
		return rad
	}
	return snapTo(rad, s.AngleDegrees*rl.Deg2rad)
}

func snapTo(v, step float32) float32 {
	return float32(math.Round(float64(v/step))) * step
}
