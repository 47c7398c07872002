package editor

import (
	"fmt"
	"math"

	"manipulators/internal/camera"
	"manipulators/internal/config"
	"manipulators/internal/engine"
	"manipulators/internal/manipulators"
	"manipulators/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const raycastDistance = 1000

// Editor hosts one viewport: a fly camera, the selected object, and the
// transform handles bound to it. Mouse input enters through the Handle*
// methods so the whole interaction runs without a window.
type Editor struct {
	world    *world.World
	camera   *camera.FlyCamera
	Selected *engine.GameObject

	manager   *manipulators.Manager
	transform *manipulators.TransformManipulator
	style     manipulators.Style
	renderer  *world.Renderer
	logger    *zap.Logger

	scenePath string
	prefsPath string

	viewportWidth  int
	viewportHeight int

	// Undo stack
	undoStack []UndoState
	pending   *UndoState

	// Camera flight (right mouse held)
	flying bool

	// Save feedback
	saveMsg     string
	saveMsgTime float64

	// SelectionChanged fires with the new selection, nil when cleared.
	SelectionChanged engine.EventWithArg[*engine.GameObject]
	// SceneSaved fires after a successful SaveScene.
	SceneSaved engine.Event

	// Camera zoom animation
	zoomingToTarget bool
	zoomTargetPos   rl.Vector3
	zoomStartPos    rl.Vector3
	zoomProgress    float32
}

// New builds an editor over w using the manipulator, snapping and editor
// sections of cfg.
func New(w *world.World, cfg *config.Config, logger *zap.Logger) (*Editor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	style, err := cfg.Style()
	if err != nil {
		return nil, err
	}
	mode, err := manipulators.ParseMode(cfg.Manipulators.Mode)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		world:          w,
		camera:         camera.NewFlyCamera(rl.Vector3{X: 10, Y: 8, Z: 10}),
		manager:        manipulators.NewManager(logger),
		style:          style,
		renderer:       world.NewRenderer(),
		logger:         logger.Named("editor"),
		scenePath:      cfg.Editor.ScenePath,
		prefsPath:      cfg.Editor.PrefsPath,
		viewportWidth:  cfg.Editor.WindowWidth,
		viewportHeight: cfg.Editor.WindowHeight,
	}
	e.camera.LookAt(rl.Vector3{})
	e.manager.SetUndoRecorder(e)

	e.transform = manipulators.NewTransformManipulator(e.manager, style)
	e.transform.ScaleSensitivity = cfg.Manipulators.ScaleSensitivity
	e.transform.MinScaleFactor = cfg.Manipulators.MinScaleFactor
	e.transform.SetReferenceSpace(cfg.ReferenceSpace())
	e.transform.SetSnapping(cfg.Snapping)
	if err := e.transform.SetMode(mode); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Editor) World() *world.World { return e.world }

func (e *Editor) Camera() *camera.FlyCamera { return e.camera }

func (e *Editor) Manager() *manipulators.Manager { return e.manager }

func (e *Editor) Transform() *manipulators.TransformManipulator { return e.transform }

// SetViewport records the viewport size used to build pick rays.
func (e *Editor) SetViewport(width, height int) {
	e.viewportWidth = width
	e.viewportHeight = height
}

// CameraState snapshots the fly camera for the current viewport.
func (e *Editor) CameraState() camera.State {
	return e.camera.State(e.viewportWidth, e.viewportHeight)
}

func (e *Editor) GetRaylibCamera() rl.Camera3D {
	return e.CameraState().Camera3D()
}

// Select moves the transform handles to g. Nil clears the selection.
func (e *Editor) Select(g *engine.GameObject) error {
	if err := e.transform.SetTarget(g); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if g == e.Selected {
		return nil
	}
	e.Selected = g
	if g != nil {
		e.logger.Debug("Selected", zap.String("name", g.Name), zap.Uint64("uid", g.UID))
	}
	e.SelectionChanged.Invoke(g)
	return nil
}

func (e *Editor) Mode() manipulators.Mode { return e.transform.Mode() }

// SetMode switches between move, rotate and scale handles. It fails while a
// handle is being dragged.
func (e *Editor) SetMode(mode manipulators.Mode) error {
	if err := e.transform.SetMode(mode); err != nil {
		return fmt.Errorf("set mode %s: %w", mode, err)
	}
	return nil
}

// ToggleReferenceSpace flips the handles between world and local orientation.
func (e *Editor) ToggleReferenceSpace() {
	if e.transform.ReferenceSpace() == manipulators.SpaceWorld {
		e.transform.SetReferenceSpace(manipulators.SpaceLocal)
	} else {
		e.transform.SetReferenceSpace(manipulators.SpaceWorld)
	}
}

func (e *Editor) SetSnapping(s manipulators.Snapping) {
	e.transform.SetSnapping(s)
}

// HandleMouseDown offers the click to the manipulators first. A left click
// they do not consume selects the nearest object under the cursor, or
// clears the selection. It returns true when a manipulator took the event.
func (e *Editor) HandleMouseDown(screen rl.Vector2, button manipulators.MouseButton, mods manipulators.Modifiers) bool {
	mi := manipulators.NewMouseInteraction(e.CameraState(), screen, mods)
	if e.manager.ConsumeMouseDown(mi, button) {
		return true
	}
	if button != manipulators.MouseLeft {
		return false
	}

	var target *engine.GameObject
	if hit, ok := e.world.Raycast(mi.Ray.Position, mi.Ray.Direction, raycastDistance); ok {
		target = hit.GameObject
	}
	if err := e.Select(target); err != nil {
		e.logger.Warn("Selection change rejected", zap.Error(err))
	}
	return false
}

func (e *Editor) HandleMouseMove(screen rl.Vector2, mods manipulators.Modifiers) bool {
	return e.manager.ConsumeMouseMove(manipulators.NewMouseInteraction(e.CameraState(), screen, mods))
}

func (e *Editor) HandleMouseUp(screen rl.Vector2, button manipulators.MouseButton, mods manipulators.Modifiers) bool {
	return e.manager.ConsumeMouseUp(manipulators.NewMouseInteraction(e.CameraState(), screen, mods), button)
}

// SaveScene writes the scene to the configured path.
func (e *Editor) SaveScene() error {
	if e.scenePath == "" {
		return fmt.Errorf("save scene: no scene path configured")
	}
	if err := e.world.SaveScene(e.scenePath); err != nil {
		return err
	}
	e.logger.Info("Scene saved", zap.String("path", e.scenePath), zap.Int("objects", len(e.world.Scene.GameObjects)))
	e.SceneSaved.Invoke()
	return nil
}

// FocusSelected starts a smooth camera move that frames the selected object.
func (e *Editor) FocusSelected() {
	obj := e.Selected
	if obj == nil {
		return
	}

	targetPos := obj.WorldPosition()
	_, _, half := world.Bounds(obj)
	objectRadius := max(half.X, half.Y, half.Z)

	// 3x the radius, at least 3 units
	distance := max(objectRadius*3, 3)

	forward, _ := e.camera.Directions()
	e.zoomingToTarget = true
	e.zoomStartPos = e.camera.Position
	e.zoomTargetPos = rl.Vector3Subtract(targetPos, rl.Vector3Scale(forward, distance))
	e.zoomProgress = 0
}

// updateCameraZoom advances the focus animation.
func (e *Editor) updateCameraZoom(deltaTime float32) {
	if !e.zoomingToTarget {
		return
	}

	// ~0.25 seconds
	e.zoomProgress += deltaTime * 4

	if e.zoomProgress >= 1.0 {
		e.zoomProgress = 1.0
		e.zoomingToTarget = false
		e.camera.Position = e.zoomTargetPos
		return
	}

	// ease-out cubic
	t := e.zoomProgress
	ease := 1 - (1-t)*(1-t)*(1-t)
	e.camera.Position = rl.Vector3Lerp(e.zoomStartPos, e.zoomTargetPos, ease)
}

// flyCamera applies one frame of right-mouse fly movement.
func (e *Editor) flyCamera(look rl.Vector2, move rl.Vector3, deltaTime float32) {
	e.zoomingToTarget = false
	e.camera.Look(look.X, look.Y, 0.1)

	forward, right := e.camera.Directions()
	speed := e.camera.MoveSpeed * deltaTime
	step := rl.Vector3Add(rl.Vector3Scale(forward, move.Z), rl.Vector3Scale(right, move.X))
	step.Y += move.Y
	e.camera.Position = rl.Vector3Add(e.camera.Position, rl.Vector3Scale(step, speed))
}

// adjustMoveSpeed changes fly speed by scroll, clamped to [1, 100].
func (e *Editor) adjustMoveSpeed(scroll float32) {
	e.camera.MoveSpeed = float32(math.Max(1, math.Min(100, float64(e.camera.MoveSpeed+scroll*2))))
}

func (e *Editor) setMsg(format string, args ...any) {
	e.saveMsg = fmt.Sprintf(format, args...)
	e.saveMsgTime = rl.GetTime()
}
