package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"manipulators/internal/config"
	"manipulators/internal/editor"
	"manipulators/internal/manipulators"
	"manipulators/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Script is a recorded viewport session: a scene, a camera, and the mouse
// and keyboard events to feed the editor.
type Script struct {
	Scene    string                 `yaml:"scene"` // relative to the script; empty = demo scene
	Viewport Viewport               `yaml:"viewport"`
	Camera   CameraDef              `yaml:"camera"`
	Select   string                 `yaml:"select"`
	Mode     string                 `yaml:"mode"`
	Space    string                 `yaml:"space"`
	Snapping *manipulators.Snapping `yaml:"snapping"`
	Events   []Event                `yaml:"events"`
}

type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CameraDef struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Fovy     float32    `yaml:"fovy"`
}

// Event is one step. Pointer events take a screen position (at) or a world
// point (world) that is projected through the camera.
type Event struct {
	Type    string      `yaml:"type"` // down, move, up, drag, mode, space, select, undo
	At      *[2]float32 `yaml:"at"`
	World   *[3]float32 `yaml:"world"`
	To      *[2]float32 `yaml:"to"`       // drag end
	ToWorld *[3]float32 `yaml:"to_world"` // drag end
	Button  string      `yaml:"button"`   // left (default), right

	manipulators.Modifiers `yaml:",inline"`

	Mode  string `yaml:"mode"`
	Space string `yaml:"space"`
	Name  string `yaml:"name"`
}

// StepResult records what the editor did with one event.
type StepResult struct {
	Index    int    `yaml:"index"`
	Type     string `yaml:"type"`
	Consumed bool   `yaml:"consumed"`
	Detail   string `yaml:"detail,omitempty"`
}

type ObjectState struct {
	UID      uint64     `yaml:"uid"`
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	Scale    [3]float32 `yaml:"scale"`
}

// Report is the outcome of a replay.
type Report struct {
	Selected  string        `yaml:"selected,omitempty"`
	Mode      string        `yaml:"mode"`
	UndoDepth int           `yaml:"undo_depth"`
	Steps     []StepResult  `yaml:"steps"`
	Objects   []ObjectState `yaml:"objects"`
}

// LoadScript reads a replay script. A relative scene path is resolved
// against the script's directory.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if s.Scene != "" && !filepath.IsAbs(s.Scene) {
		s.Scene = filepath.Join(filepath.Dir(path), s.Scene)
	}
	return &s, nil
}

func vec3(v [3]float32) rl.Vector3 { return rl.Vector3{X: v[0], Y: v[1], Z: v[2]} }

func arr3(v rl.Vector3) [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

// setupEditor builds a headless editor for the script's scene and camera.
func setupEditor(s *Script, base *config.Config, logger *zap.Logger) (*editor.Editor, error) {
	cfg := *base
	cfg.Editor.PrefsPath = ""
	cfg.Editor.ScenePath = s.Scene
	if s.Viewport.Width > 0 && s.Viewport.Height > 0 {
		cfg.Editor.WindowWidth = s.Viewport.Width
		cfg.Editor.WindowHeight = s.Viewport.Height
	}
	if s.Mode != "" {
		cfg.Manipulators.Mode = s.Mode
	}
	if s.Space != "" {
		cfg.Manipulators.Space = s.Space
	}
	if s.Snapping != nil {
		cfg.Snapping = *s.Snapping
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var w *world.World
	if s.Scene == "" {
		w = world.NewDemo(cfg.Editor.DemoSeed)
	} else {
		var err error
		if w, err = world.Load(s.Scene); err != nil {
			return nil, err
		}
	}

	e, err := editor.New(w, &cfg, logger)
	if err != nil {
		return nil, err
	}

	cam := e.Camera()
	cam.Position = vec3(s.Camera.Position)
	if s.Camera.Fovy > 0 {
		cam.Fovy = s.Camera.Fovy
	}
	if s.Camera.Target != s.Camera.Position {
		cam.LookAt(vec3(s.Camera.Target))
	}
	if err := e.CameraState().Validate(); err != nil {
		return nil, err
	}

	if s.Select != "" {
		g := w.Scene.FindByName(s.Select)
		if g == nil {
			return nil, fmt.Errorf("select: no object named %q", s.Select)
		}
		if err := e.Select(g); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func parseButton(name string) (manipulators.MouseButton, error) {
	switch name {
	case "", "left":
		return manipulators.MouseLeft, nil
	case "right":
		return manipulators.MouseRight, nil
	}
	return manipulators.MouseLeft, fmt.Errorf("unknown mouse button %q", name)
}

func screenPoint(e *editor.Editor, at *[2]float32, wp *[3]float32) (rl.Vector2, error) {
	switch {
	case at != nil:
		return rl.Vector2{X: at[0], Y: at[1]}, nil
	case wp != nil:
		p, ok := e.CameraState().WorldToScreen(vec3(*wp))
		if !ok {
			return rl.Vector2{}, fmt.Errorf("world point %v is behind the camera", *wp)
		}
		return p, nil
	}
	return rl.Vector2{}, errors.New("missing position (at or world)")
}

// Replay runs every event of s and reports the final scene state.
func Replay(s *Script, cfg *config.Config, logger *zap.Logger) (*Report, *editor.Editor, error) {
	e, err := setupEditor(s, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{}
	for i, ev := range s.Events {
		step, err := applyEvent(e, ev)
		if err != nil {
			return nil, nil, fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
		step.Index = i
		step.Type = ev.Type
		report.Steps = append(report.Steps, step)
		logger.Debug("Replayed event",
			zap.Int("index", i),
			zap.String("type", ev.Type),
			zap.Bool("consumed", step.Consumed))
	}

	if e.Selected != nil {
		report.Selected = e.Selected.Name
	}
	report.Mode = e.Mode().String()
	report.UndoDepth = e.UndoCount()
	for _, g := range e.World().Scene.GameObjects {
		report.Objects = append(report.Objects, ObjectState{
			UID:      g.UID,
			Name:     g.Name,
			Position: arr3(g.Transform.Position),
			Rotation: arr3(g.Transform.Rotation),
			Scale:    arr3(g.Transform.Scale),
		})
	}
	return report, e, nil
}

func applyEvent(e *editor.Editor, ev Event) (StepResult, error) {
	var step StepResult
	switch ev.Type {
	case "down", "move", "up", "drag":
		button, err := parseButton(ev.Button)
		if err != nil {
			return step, err
		}
		at, err := screenPoint(e, ev.At, ev.World)
		if err != nil {
			return step, err
		}
		switch ev.Type {
		case "down":
			step.Consumed = e.HandleMouseDown(at, button, ev.Modifiers)
		case "move":
			step.Consumed = e.HandleMouseMove(at, ev.Modifiers)
		case "up":
			step.Consumed = e.HandleMouseUp(at, button, ev.Modifiers)
		case "drag":
			to, err := screenPoint(e, ev.To, ev.ToWorld)
			if err != nil {
				return step, fmt.Errorf("drag end: %w", err)
			}
			step.Consumed = e.HandleMouseDown(at, button, ev.Modifiers)
			e.HandleMouseMove(to, ev.Modifiers)
			e.HandleMouseUp(to, button, ev.Modifiers)
		}
		if m := e.Manager().HoveredManipulator(); m != nil && ev.Type == "move" {
			step.Detail = "hover " + m.Base().ActionName
		}
	case "mode":
		mode, err := manipulators.ParseMode(ev.Mode)
		if err != nil {
			return step, err
		}
		if err := e.SetMode(mode); err != nil {
			return step, err
		}
	case "space":
		switch ev.Space {
		case "world":
			e.Transform().SetReferenceSpace(manipulators.SpaceWorld)
		case "local":
			e.Transform().SetReferenceSpace(manipulators.SpaceLocal)
		default:
			return step, fmt.Errorf("unknown space %q", ev.Space)
		}
	case "select":
		g := e.World().Scene.FindByName(ev.Name)
		if ev.Name != "" && g == nil {
			return step, fmt.Errorf("no object named %q", ev.Name)
		}
		if err := e.Select(g); err != nil {
			return step, err
		}
	case "undo":
		name, ok := e.Undo()
		step.Consumed = ok
		step.Detail = name
	default:
		return step, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return step, nil
}
