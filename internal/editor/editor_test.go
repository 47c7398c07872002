package editor

import (
	"path/filepath"
	"testing"

	"manipulators/internal/config"
	"manipulators/internal/engine"
	"manipulators/internal/manipulators"
	"manipulators/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var noMods manipulators.Modifiers

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Manipulators.ScreenSizePixels = 0
	cfg.Editor.PrefsPath = filepath.Join(t.TempDir(), "prefs.json")
	cfg.Editor.ScenePath = filepath.Join(t.TempDir(), "scene.json")
	return cfg
}

// newTestEditor looks down -Z at the origin from z=10 over an 800x600 viewport.
func newTestEditor(t *testing.T, cfg *config.Config, logger *zap.Logger) (*Editor, *engine.GameObject) {
	t.Helper()
	w := world.New("Test")
	cube := engine.NewGameObject("Cube")
	w.Scene.AddGameObject(cube)

	e, err := New(w, cfg, logger)
	require.NoError(t, err)
	e.SetViewport(800, 600)
	e.Camera().Position = rl.Vector3{Z: 10}
	e.Camera().LookAt(rl.Vector3{})
	return e, cube
}

func screenOf(t *testing.T, e *Editor, p rl.Vector3) rl.Vector2 {
	t.Helper()
	s, ok := e.CameraState().WorldToScreen(p)
	require.True(t, ok, "point %+v is not visible", p)
	return s
}

func dragFrom(t *testing.T, e *Editor, from, to rl.Vector3) {
	t.Helper()
	require.True(t, e.HandleMouseDown(screenOf(t, e, from), manipulators.MouseLeft, noMods), "press at %+v missed", from)
	e.HandleMouseMove(screenOf(t, e, to), noMods)
	e.HandleMouseUp(screenOf(t, e, to), manipulators.MouseLeft, noMods)
}

func TestClickSelectsAndClears(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)

	assert.False(t, e.HandleMouseDown(rl.Vector2{X: 400, Y: 300}, manipulators.MouseLeft, noMods))
	assert.Equal(t, cube, e.Selected)
	assert.Equal(t, cube, e.Transform().Target())
	assert.Len(t, e.Manager().Manipulators(), 6)

	e.HandleMouseUp(rl.Vector2{X: 400, Y: 300}, manipulators.MouseLeft, noMods)
	assert.False(t, e.HandleMouseDown(rl.Vector2{X: 10, Y: 590}, manipulators.MouseLeft, noMods))
	assert.Nil(t, e.Selected)
	assert.Empty(t, e.Manager().Manipulators())
}

func TestRightClickOnEmptySpaceKeepsSelection(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)
	require.NoError(t, e.Select(cube))

	assert.False(t, e.HandleMouseDown(rl.Vector2{X: 10, Y: 590}, manipulators.MouseRight, noMods))
	assert.Equal(t, cube, e.Selected)
}

func TestDragAndUndo(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)
	require.NoError(t, e.Select(cube))

	dragFrom(t, e, rl.Vector3{X: 1}, rl.Vector3{X: 2.5})
	assertVec(t, rl.Vector3{X: 1.5}, cube.Transform.Position)
	require.Equal(t, 1, e.UndoCount())

	name, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, "Translate X", name)
	assertVec(t, rl.Vector3{}, cube.Transform.Position)

	lin := e.Transform().Current()[0].(*manipulators.LinearManipulator)
	assertVec(t, rl.Vector3{}, lin.WorldOrigin())

	_, ok = e.Undo()
	assert.False(t, ok)
}

func TestClickWithoutMoveRecordsNothing(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)
	require.NoError(t, e.Select(cube))

	dragFrom(t, e, rl.Vector3{X: 1}, rl.Vector3{X: 1})
	assert.Zero(t, e.UndoCount())
}

func TestUndoStackIsCapped(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)

	for i := range maxUndoStack + 5 {
		e.BeginUndoBatch("Nudge", []uint64{cube.UID})
		cube.Transform.Position.X = float32(i + 1)
		e.EndUndoBatch()
	}
	assert.Equal(t, maxUndoStack, e.UndoCount())

	_, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, float32(maxUndoStack+4), cube.Transform.Position.X)
	assert.Equal(t, cube, e.Selected, "undo selects the restored object")
}

func TestUndoBatchIgnoresUnknownEntities(t *testing.T) {
	e, _ := newTestEditor(t, testConfig(t), nil)

	e.BeginUndoBatch("Ghost", []uint64{999999})
	e.EndUndoBatch()
	e.EndUndoBatch()
	assert.Zero(t, e.UndoCount())
}

func TestRightClickResetsScaleWithUndo(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)
	require.NoError(t, e.Select(cube))
	require.NoError(t, e.SetMode(manipulators.ModeScale))
	cube.Transform.Scale = rl.Vector3{X: 3, Y: 2, Z: 2}
	e.Transform().Sync()

	assert.True(t, e.HandleMouseDown(screenOf(t, e, rl.Vector3{X: 1}), manipulators.MouseRight, noMods))
	assertVec(t, rl.Vector3{X: 1, Y: 2, Z: 2}, cube.Transform.Scale)

	name, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, "Reset Scale", name)
	assertVec(t, rl.Vector3{X: 3, Y: 2, Z: 2}, cube.Transform.Scale)
}

func TestModeLockedDuringDrag(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e, cube := newTestEditor(t, testConfig(t), zap.New(core))
	require.NoError(t, e.Select(cube))

	press := screenOf(t, e, rl.Vector3{X: 1})
	require.True(t, e.HandleMouseDown(press, manipulators.MouseLeft, noMods))
	assert.ErrorIs(t, e.SetMode(manipulators.ModeRotate), manipulators.ErrOperationInProgress)
	assert.ErrorIs(t, e.Select(nil), manipulators.ErrOperationInProgress)

	// A second press during the drag is swallowed and never reaches selection.
	assert.True(t, e.HandleMouseDown(rl.Vector2{X: 10, Y: 590}, manipulators.MouseLeft, noMods))
	assert.Equal(t, cube, e.Selected)
	assert.Equal(t, 1, logs.FilterMessageSnippet("already dragging").Len())

	_, ok := e.Undo()
	assert.False(t, ok, "undo waits for the drag to finish")

	e.HandleMouseUp(press, manipulators.MouseLeft, noMods)
	assert.NoError(t, e.SetMode(manipulators.ModeRotate))
	assert.Equal(t, manipulators.ModeRotate, e.Mode())
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Manipulators.Mode = "scale"
	cfg.Manipulators.Space = "local"
	cfg.Snapping.Enabled = true

	e, _ := newTestEditor(t, cfg, nil)
	assert.Equal(t, manipulators.ModeScale, e.Mode())
	assert.Equal(t, manipulators.SpaceLocal, e.Transform().ReferenceSpace())
	assert.True(t, e.Transform().Snapping().Enabled)

	e.ToggleReferenceSpace()
	assert.Equal(t, manipulators.SpaceWorld, e.Transform().ReferenceSpace())
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Manipulators.HoverColor = "Chartreuse"
	_, err := New(world.New("Test"), cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestPrefsRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	e, cube := newTestEditor(t, cfg, nil)
	require.NoError(t, e.Select(cube))
	require.NoError(t, e.SetMode(manipulators.ModeRotate))
	e.ToggleReferenceSpace()
	e.SetSnapping(manipulators.Snapping{Enabled: true, GridSize: 0.25, AngleDegrees: 30})
	e.Camera().MoveSpeed = 25
	require.NoError(t, e.SavePrefs())

	restored, err := New(e.World(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, restored.LoadPrefs())

	assert.Equal(t, manipulators.ModeRotate, restored.Mode())
	assert.Equal(t, manipulators.SpaceLocal, restored.Transform().ReferenceSpace())
	assert.Equal(t, manipulators.Snapping{Enabled: true, GridSize: 0.25, AngleDegrees: 30}, restored.Transform().Snapping())
	assert.Equal(t, cube, restored.Selected)
	assertVec(t, rl.Vector3{Z: 10}, restored.Camera().Position)
	assert.Equal(t, float32(25), restored.Camera().MoveSpeed)
}

func TestLoadPrefsMissingFile(t *testing.T) {
	e, _ := newTestEditor(t, testConfig(t), nil)
	assert.NoError(t, e.LoadPrefs())
	assert.Equal(t, manipulators.ModeTranslate, e.Mode())
}

func TestApplyPrefsRejectsUnknownMode(t *testing.T) {
	e, _ := newTestEditor(t, testConfig(t), nil)
	assert.Error(t, e.ApplyPrefs(Prefs{Mode: "shear"}))
}

func TestSaveScene(t *testing.T) {
	cfg := testConfig(t)
	e, cube := newTestEditor(t, cfg, nil)
	cube.Transform.Position = rl.Vector3{X: 3}
	require.NoError(t, e.SaveScene())

	w, err := world.Load(cfg.Editor.ScenePath)
	require.NoError(t, err)
	loaded := w.Scene.FindByUID(cube.UID)
	require.NotNil(t, loaded)
	assertVec(t, rl.Vector3{X: 3}, loaded.Transform.Position)

	cfg.Editor.ScenePath = ""
	e2, err := New(w, cfg, nil)
	require.NoError(t, err)
	assert.Error(t, e2.SaveScene())
}

func TestFocusSelected(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)
	cube.Transform.Position = rl.Vector3{X: 5}

	e.FocusSelected()
	assert.False(t, e.zoomingToTarget, "nothing selected")

	require.NoError(t, e.Select(cube))
	e.FocusSelected()
	e.updateCameraZoom(0.1)
	assert.True(t, e.zoomingToTarget)
	e.updateCameraZoom(1)
	assert.False(t, e.zoomingToTarget)
	assertVec(t, rl.Vector3{X: 5, Z: 3}, e.Camera().Position)
}

func TestFlyCameraAndSpeed(t *testing.T) {
	e, _ := newTestEditor(t, testConfig(t), nil)
	e.Camera().MoveSpeed = 10

	e.flyCamera(rl.Vector2{}, rl.Vector3{Z: 1}, 0.5)
	assertVec(t, rl.Vector3{Z: 5}, e.Camera().Position)

	e.adjustMoveSpeed(100)
	assert.Equal(t, float32(100), e.Camera().MoveSpeed)
	e.adjustMoveSpeed(-100)
	assert.Equal(t, float32(1), e.Camera().MoveSpeed)
}

func TestEditorEvents(t *testing.T) {
	e, cube := newTestEditor(t, testConfig(t), nil)

	var selections []*engine.GameObject
	e.SelectionChanged.AddListener(func(g *engine.GameObject) { selections = append(selections, g) })
	saves := 0
	e.SceneSaved.AddListener(func() { saves++ })

	require.NoError(t, e.Select(cube))
	require.NoError(t, e.Select(cube))
	require.NoError(t, e.Select(nil))
	assert.Equal(t, []*engine.GameObject{cube, nil}, selections)

	require.NoError(t, e.SaveScene())
	assert.Equal(t, 1, saves)
}
