package camera

import (
	"errors"
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrInvalidCamera is returned by Validate.
var ErrInvalidCamera = errors.New("invalid camera state")

// FlyCamera is the editor's free-look camera (right mouse + WASD).
type FlyCamera struct {
	Position  rl.Vector3 `json:"position"`
	Yaw       float32    `json:"yaw"`
	Pitch     float32    `json:"pitch"`
	MoveSpeed float32    `json:"moveSpeed"`
	Fovy      float32    `json:"fovy"`
}

func NewFlyCamera(pos rl.Vector3) *FlyCamera {
	return &FlyCamera{
		Position:  pos,
		Yaw:       -135.0,
		Pitch:     -30.0,
		MoveSpeed: 10.0,
		Fovy:      45.0,
	}
}

// Look applies a mouse delta to yaw and pitch, clamping pitch short of the poles.
func (c *FlyCamera) Look(dx, dy, sensitivity float32) {
	c.Yaw += dx * sensitivity
	c.Pitch -= dy * sensitivity
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

func (c *FlyCamera) Directions() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180

	forward = rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Y: 0,
		Z: float32(math.Cos(yawRad)),
	}
	return
}

// LookAt points the camera at target without moving it.
func (c *FlyCamera) LookAt(target rl.Vector3) {
	dir := rl.Vector3Normalize(rl.Vector3Subtract(target, c.Position))
	c.Pitch = float32(math.Asin(float64(dir.Y))) * rl.Rad2deg
	c.Yaw = float32(math.Atan2(float64(dir.Z), float64(dir.X))) * rl.Rad2deg
}

// State snapshots the camera for a viewport of the given size.
func (c *FlyCamera) State(width, height int) State {
	forward, right := c.Directions()
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(right, forward))
	fovy := c.Fovy
	if fovy == 0 {
		fovy = 45
	}
	return State{
		Position:       c.Position,
		Forward:        forward,
		Right:          right,
		Up:             up,
		Fovy:           fovy,
		Near:           0.1,
		Far:            1000,
		ViewportWidth:  float32(width),
		ViewportHeight: float32(height),
	}
}

// State is everything the manipulators need to know about the viewport camera.
// Forward, Right and Up must form an orthonormal right-handed basis.
type State struct {
	Position rl.Vector3 `yaml:"position" json:"position"`
	Forward  rl.Vector3 `yaml:"forward" json:"forward"`
	Right    rl.Vector3 `yaml:"right" json:"right"`
	Up       rl.Vector3 `yaml:"up" json:"up"`

	Fovy float32 `yaml:"fovy" json:"fovy"` // vertical, degrees
	Near float32 `yaml:"near" json:"near"`
	Far  float32 `yaml:"far" json:"far"`

	ViewportWidth  float32 `yaml:"viewportWidth" json:"viewportWidth"`
	ViewportHeight float32 `yaml:"viewportHeight" json:"viewportHeight"`

	Orthographic bool    `yaml:"orthographic" json:"orthographic"`
	OrthoHeight  float32 `yaml:"orthoHeight" json:"orthoHeight"` // world units covered vertically
}

// LookAtState builds a perspective camera state at pos looking at target.
func LookAtState(pos, target rl.Vector3, fovy float32, width, height int) State {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(target, pos))
	worldUp := rl.Vector3{Y: 1}
	if math.Abs(float64(rl.Vector3DotProduct(forward, worldUp))) > 0.999 {
		worldUp = rl.Vector3{Z: -1}
	}
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, worldUp))
	up := rl.Vector3CrossProduct(right, forward)
	return State{
		Position:       pos,
		Forward:        forward,
		Right:          right,
		Up:             up,
		Fovy:           fovy,
		Near:           0.1,
		Far:            1000,
		ViewportWidth:  float32(width),
		ViewportHeight: float32(height),
	}
}

func (s State) Validate() error {
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("%w: viewport %.0fx%.0f", ErrInvalidCamera, s.ViewportWidth, s.ViewportHeight)
	}
	if rl.Vector3Length(s.Forward) < 1e-6 || rl.Vector3Length(s.Right) < 1e-6 || rl.Vector3Length(s.Up) < 1e-6 {
		return fmt.Errorf("%w: degenerate basis", ErrInvalidCamera)
	}
	if s.Orthographic {
		if s.OrthoHeight <= 0 {
			return fmt.Errorf("%w: ortho height %f", ErrInvalidCamera, s.OrthoHeight)
		}
		return nil
	}
	if s.Near <= 0 {
		return fmt.Errorf("%w: near clip %f", ErrInvalidCamera, s.Near)
	}
	if s.Fovy <= 0 || s.Fovy >= 180 {
		return fmt.Errorf("%w: fovy %f", ErrInvalidCamera, s.Fovy)
	}
	return nil
}

func (s State) Camera3D() rl.Camera3D {
	cam := rl.Camera3D{
		Position:   s.Position,
		Target:     rl.Vector3Add(s.Position, s.Forward),
		Up:         s.Up,
		Fovy:       s.Fovy,
		Projection: rl.CameraPerspective,
	}
	if s.Orthographic {
		cam.Fovy = s.OrthoHeight
		cam.Projection = rl.CameraOrthographic
	}
	return cam
}

func (s State) aspect() float32 {
	return s.ViewportWidth / s.ViewportHeight
}

// halfExtentsAt returns the half width and half height of the view volume
// at the given depth along Forward.
func (s State) halfExtentsAt(depth float32) (float32, float32) {
	var halfH float32
	if s.Orthographic {
		halfH = s.OrthoHeight / 2
	} else {
		halfH = depth * float32(math.Tan(float64(s.Fovy)*math.Pi/360))
	}
	return halfH * s.aspect(), halfH
}

// WorldToScreen projects p into viewport pixels (origin top-left, +Y down).
// ok is false when a perspective camera sees p behind its near plane.
func (s State) WorldToScreen(p rl.Vector3) (rl.Vector2, bool) {
	rel := rl.Vector3Subtract(p, s.Position)
	depth := rl.Vector3DotProduct(rel, s.Forward)
	if !s.Orthographic && depth < s.Near {
		return rl.Vector2{}, false
	}
	halfW, halfH := s.halfExtentsAt(depth)

	ndcX := rl.Vector3DotProduct(rel, s.Right) / halfW
	ndcY := rl.Vector3DotProduct(rel, s.Up) / halfH

	return rl.Vector2{
		X: (ndcX + 1) * 0.5 * s.ViewportWidth,
		Y: (1 - ndcY) * 0.5 * s.ViewportHeight,
	}, true
}

// ScreenToRay is the inverse of WorldToScreen. The direction is normalized.
func (s State) ScreenToRay(screen rl.Vector2) rl.Ray {
	ndcX := 2*screen.X/s.ViewportWidth - 1
	ndcY := 1 - 2*screen.Y/s.ViewportHeight

	if s.Orthographic {
		halfW, halfH := s.halfExtentsAt(0)
		origin := rl.Vector3Add(s.Position, rl.Vector3Scale(s.Right, ndcX*halfW))
		origin = rl.Vector3Add(origin, rl.Vector3Scale(s.Up, ndcY*halfH))
		origin = rl.Vector3Add(origin, rl.Vector3Scale(s.Forward, s.Near))
		return rl.Ray{Position: origin, Direction: rl.Vector3Normalize(s.Forward)}
	}

	halfW, halfH := s.halfExtentsAt(1)
	dir := s.Forward
	dir = rl.Vector3Add(dir, rl.Vector3Scale(s.Right, ndcX*halfW))
	dir = rl.Vector3Add(dir, rl.Vector3Scale(s.Up, ndcY*halfH))
	return rl.Ray{Position: s.Position, Direction: rl.Vector3Normalize(dir)}
}

// ScreenScale returns the world length that spans referencePixels on screen at p.
// Manipulators multiply their sizes by it to keep a constant on-screen size.
func (s State) ScreenScale(p rl.Vector3, referencePixels float32) float32 {
	depth := rl.Vector3DotProduct(rl.Vector3Subtract(p, s.Position), s.Forward)
	if !s.Orthographic && depth < s.Near {
		depth = s.Near
	}
	_, halfH := s.halfExtentsAt(depth)
	return referencePixels * (2 * halfH / s.ViewportHeight)
}

// DirectionTo returns the unit vector the camera looks along to see p.
func (s State) DirectionTo(p rl.Vector3) rl.Vector3 {
	if s.Orthographic {
		return rl.Vector3Normalize(s.Forward)
	}
	return rl.Vector3Normalize(rl.Vector3Subtract(p, s.Position))
}
