package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"manipulators/internal/camera"
	"manipulators/internal/engine"
	"manipulators/internal/manipulators"

	"go.uber.org/zap"
)

// Prefs is the editor state restored between sessions.
type Prefs struct {
	Camera   camera.FlyCamera      `json:"camera"`
	Mode     string                `json:"mode"`
	Space    string                `json:"space"`
	Snapping manipulators.Snapping `json:"snapping"`
	Selected engine.GameObjectRef  `json:"selected"`
}

func (e *Editor) Prefs() Prefs {
	p := Prefs{
		Camera:   *e.camera,
		Mode:     e.transform.Mode().String(),
		Space:    "world",
		Snapping: e.transform.Snapping(),
	}
	if e.transform.ReferenceSpace() == manipulators.SpaceLocal {
		p.Space = "local"
	}
	p.Selected.Set(e.Selected)
	return p
}

// ApplyPrefs restores camera, handle mode, space, snapping and selection.
func (e *Editor) ApplyPrefs(p Prefs) error {
	mode, err := manipulators.ParseMode(p.Mode)
	if err != nil {
		return fmt.Errorf("apply prefs: %w", err)
	}
	if err := e.SetMode(mode); err != nil {
		return fmt.Errorf("apply prefs: %w", err)
	}

	cam := p.Camera
	if cam.MoveSpeed <= 0 {
		cam.MoveSpeed = e.camera.MoveSpeed
	}
	*e.camera = cam

	if p.Space == "local" {
		e.transform.SetReferenceSpace(manipulators.SpaceLocal)
	} else {
		e.transform.SetReferenceSpace(manipulators.SpaceWorld)
	}
	e.transform.SetSnapping(p.Snapping)

	if g := p.Selected.Get(e.world.Scene); g != nil {
		return e.Select(g)
	}
	return nil
}

// SavePrefs writes the current prefs as JSON to the configured path.
func (e *Editor) SavePrefs() error {
	if e.prefsPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(e.Prefs(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(e.prefsPath, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	e.logger.Info("Prefs saved", zap.String("path", e.prefsPath))
	return nil
}

// LoadPrefs restores prefs from the configured path. A missing file is not
// an error.
func (e *Editor) LoadPrefs() error {
	if e.prefsPath == "" {
		return nil
	}
	data, err := os.ReadFile(e.prefsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse prefs %s: %w", e.prefsPath, err)
	}
	if err := e.ApplyPrefs(p); err != nil {
		return err
	}
	e.logger.Info("Prefs loaded", zap.String("path", e.prefsPath))
	return nil
}
