package manipulators

import (
	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Style holds manipulator sizes (in world units at scale 1) and colors.
type Style struct {
	AxisLength   float32
	ShaftRadius  float32
	ConeLength   float32
	ConeRadius   float32
	ScaleBoxSize float32

	PlanarSize   float32
	PlanarOffset float32

	RingRadius      float32
	RingMinorRadius float32

	// HitPadding widens linear and planar bounds; RingHitPadding widens rings.
	HitPadding     float32
	RingHitPadding float32

	// ScreenSizePixels keeps AxisLength this many pixels long on screen.
	// Zero draws at a fixed world size.
	ScreenSizePixels float32

	AxisColors   [3]rl.Color
	PlanarColor  rl.Color
	UniformColor rl.Color
	HoverColor   rl.Color
	ActiveColor  rl.Color
}

func DefaultStyle() Style {
	return Style{
		AxisLength:      2.0,
		ShaftRadius:     0.06,
		ConeLength:      0.4,
		ConeRadius:      0.15,
		ScaleBoxSize:    0.25,
		PlanarSize:      0.5,
		PlanarOffset:    0.3,
		RingRadius:      1.6,
		RingMinorRadius: 0.04,
		HitPadding:      0.24,
		RingHitPadding:  0.2,
		AxisColors:      [3]rl.Color{rl.Red, rl.Green, rl.Blue},
		PlanarColor:     rl.NewColor(253, 249, 0, 128),
		UniformColor:    rl.White,
		HoverColor:      rl.Yellow,
		ActiveColor:     rl.Gold,
	}
}

// ScaleAt returns the factor applied to every size for a manipulator at origin.
func (s Style) ScaleAt(cam camera.State, origin rl.Vector3) float32 {
	if s.ScreenSizePixels <= 0 || s.AxisLength <= 0 {
		return 1
	}
	return cam.ScreenScale(origin, s.ScreenSizePixels) / s.AxisLength
}
