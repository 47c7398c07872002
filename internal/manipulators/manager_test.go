package manipulators

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegisterAssignsIncreasingIDs(t *testing.T) {
	m := NewManager(nil)
	a, b := newSphere(rl.Vector3{}, 1), newSphere(rl.Vector3{X: 3}, 1)

	idA, err := m.Register(a)
	require.NoError(t, err)
	idB, err := m.Register(b)
	require.NoError(t, err)

	assert.NotEqual(t, InvalidID, idA)
	assert.Greater(t, idB, idA)
	assert.Equal(t, idA, a.ID())
	assert.Same(t, m, a.Manager())
	assert.Equal(t, []Manipulator{a, b}, m.Manipulators())
}

func TestRegisterTwiceFails(t *testing.T) {
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 1)
	_, err := m.Register(a)
	require.NoError(t, err)

	_, err = m.Register(a)
	assert.True(t, errors.Is(err, ErrAlreadyRegistered), "got %v", err)

	_, err = NewManager(nil).Register(a)
	assert.ErrorIs(t, err, ErrAlreadyRegistered, "belongs to another manager")
}

func TestUnregister(t *testing.T) {
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 1)
	id, err := m.Register(a)
	require.NoError(t, err)

	require.NoError(t, m.Unregister(id))
	assert.False(t, a.Registered())
	assert.Equal(t, InvalidID, a.ID())
	assert.Nil(t, m.Manipulator(id))
	assert.Empty(t, m.Manipulators())

	assert.ErrorIs(t, m.Unregister(id), ErrNotRegistered)
	assert.ErrorIs(t, a.Unregister(), ErrNotRegistered)

	// Unregistered manipulators can join again.
	_, err = m.Register(a)
	assert.NoError(t, err)
}

func TestPickNearest(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	far, near := newSphere(rl.Vector3{}, 0.5), newSphere(rl.Vector3{Z: 3}, 0.5)
	_, _ = m.Register(far)
	_, _ = m.Register(near)
	m.Refresh(cam)

	got, dist, ok := m.Pick(cam.ScreenToRay(rl.Vector2{X: 400, Y: 300}))
	require.True(t, ok)
	assert.Same(t, near, got)
	assert.InDelta(t, 6.5, dist, 1e-3)

	_, _, ok = m.Pick(cam.ScreenToRay(rl.Vector2{X: 10, Y: 10}))
	assert.False(t, ok)
}

func TestPickTieGoesToFirstRegistered(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	first, second := newSphere(rl.Vector3{}, 0.5), newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(first)
	_, _ = m.Register(second)
	m.Refresh(cam)

	got, _, ok := m.Pick(cam.ScreenToRay(rl.Vector2{X: 400, Y: 300}))
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestPickSkipsHidden(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	near, far := newSphere(rl.Vector3{Z: 3}, 0.5), newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(near)
	_, _ = m.Register(far)
	near.SetVisible(false)
	m.Refresh(cam)

	got, _, ok := m.Pick(cam.ScreenToRay(rl.Vector2{X: 400, Y: 300}))
	require.True(t, ok)
	assert.Same(t, far, got)
}

func TestRefreshCachesBounds(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 1)
	_, _ = m.Register(a)

	m.Refresh(cam)
	m.Refresh(cam)
	assert.Equal(t, 1, a.views, "clean bounds and unchanged camera")

	a.SetBoundsDirty()
	m.Refresh(cam)
	assert.Equal(t, 2, a.views)

	cam.Position.Z = 12
	m.Refresh(cam)
	assert.Equal(t, 3, a.views, "camera moved")
	assert.Len(t, m.Bounds(a.ID()), 1)
}

func TestDragLifecycle(t *testing.T) {
	cam := frontCamera()
	undo := &fakeUndo{}
	m := NewManager(nil)
	m.SetUndoRecorder(undo)

	a := newSphere(rl.Vector3{}, 0.5)
	a.ActionName = "Move"
	a.AddEntityID(42)
	id, _ := m.Register(a)

	var changes []ID
	m.ActiveChanged.AddListener(func(id ID) { changes = append(changes, id) })

	mi := mouseAt(t, cam, rl.Vector3{}, Modifiers{})
	require.True(t, m.ConsumeMouseDown(mi, MouseLeft))
	assert.Same(t, a, m.ActiveManipulator())
	assert.Equal(t, Dragging, a.State())
	assert.Equal(t, 1, a.downs)
	require.Len(t, undo.batches, 1)
	assert.Equal(t, recordedBatch{name: "Move", entities: []uint64{42}}, undo.batches[0])

	// Moves go to the active manipulator even off its bounds.
	assert.True(t, m.ConsumeMouseMove(NewMouseInteraction(cam, rl.Vector2{X: 5, Y: 5}, Modifiers{})))
	assert.Equal(t, 1, a.moves)

	assert.True(t, m.ConsumeMouseUp(mi, MouseRight), "other buttons are swallowed mid-drag")
	assert.Equal(t, Dragging, a.State())

	require.True(t, m.ConsumeMouseUp(mi, MouseLeft))
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 1, a.ups)
	assert.Nil(t, m.ActiveManipulator())
	assert.True(t, undo.batches[0].ended)
	assert.Equal(t, []ID{id, InvalidID}, changes)

	assert.False(t, m.ConsumeMouseUp(mi, MouseLeft), "nothing active")
}

func TestMouseDownMissIsNotConsumed(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{X: 3}, 0.5)
	_, _ = m.Register(a)

	assert.False(t, m.ConsumeMouseDown(mouseAt(t, cam, rl.Vector3{}, Modifiers{}), MouseLeft))
	assert.Nil(t, m.ActiveManipulator())
	assert.Zero(t, a.downs)
}

func TestReentrantMouseDownRejected(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cam := frontCamera()
	m := NewManager(zap.New(core))

	a, b := newSphere(rl.Vector3{}, 0.5), newSphere(rl.Vector3{X: 2}, 0.5)
	_, _ = m.Register(a)
	_, _ = m.Register(b)

	require.True(t, m.ConsumeMouseDown(mouseAt(t, cam, rl.Vector3{}, Modifiers{}), MouseLeft))
	assert.True(t, m.ConsumeMouseDown(mouseAt(t, cam, rl.Vector3{X: 2}, Modifiers{}), MouseLeft))

	assert.Same(t, a, m.ActiveManipulator())
	assert.Equal(t, 1, a.downs)
	assert.Zero(t, b.downs)
	assert.Equal(t, Idle, b.State())

	entries := logs.FilterMessage("Mouse down ignored, a manipulator is already dragging").All()
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(a.ID()), entries[0].ContextMap()["active"])
}

func TestUnregisterMidDrag(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cam := frontCamera()
	undo := &fakeUndo{}
	m := NewManager(zap.New(core))
	m.SetUndoRecorder(undo)

	a := newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(a)
	require.True(t, m.ConsumeMouseDown(mouseAt(t, cam, rl.Vector3{}, Modifiers{}), MouseLeft))

	require.NoError(t, a.Unregister())
	assert.Nil(t, m.ActiveManipulator())
	assert.Equal(t, Idle, a.State())
	assert.Zero(t, a.ups, "no mouse-up callback")
	require.Len(t, undo.batches, 1)
	assert.True(t, undo.batches[0].ended)
	assert.Equal(t, 1, logs.FilterMessage("Unregistering manipulator mid-drag").Len())

	assert.False(t, m.ConsumeMouseMove(mouseAt(t, cam, rl.Vector3{}, Modifiers{})))
}

func TestUnregisterFromMouseUpCallback(t *testing.T) {
	cam := frontCamera()
	undo := &fakeUndo{}
	m := NewManager(nil)
	m.SetUndoRecorder(undo)

	a := newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(a)
	a.onUp = func() { _ = a.Unregister() }

	mi := mouseAt(t, cam, rl.Vector3{}, Modifiers{})
	require.True(t, m.ConsumeMouseDown(mi, MouseLeft))
	require.True(t, m.ConsumeMouseUp(mi, MouseLeft))

	assert.Nil(t, m.ActiveManipulator())
	assert.Empty(t, m.Manipulators())
	require.Len(t, undo.batches, 1)
	assert.True(t, undo.batches[0].ended)
}

func TestHover(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(a)

	assert.False(t, m.ConsumeMouseMove(mouseAt(t, cam, rl.Vector3{}, Modifiers{})), "hover is never consumed")
	assert.True(t, a.Hovered())
	assert.Same(t, a, m.HoveredManipulator())

	m.ConsumeMouseMove(mouseAt(t, cam, rl.Vector3{X: 3}, Modifiers{}))
	assert.False(t, a.Hovered())
	assert.Nil(t, m.HoveredManipulator())
}

func TestRightClick(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 0.5)
	_, _ = m.Register(a)

	clicks := 0
	a.OnRightClick = func(MouseInteraction) { clicks++ }

	assert.True(t, m.ConsumeMouseDown(mouseAt(t, cam, rl.Vector3{}, Modifiers{}), MouseRight))
	assert.Equal(t, 1, clicks)
	assert.Nil(t, m.ActiveManipulator(), "right click does not start a drag")
	assert.Zero(t, a.downs)
}

func TestSetAndClearBounds(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 0.5)
	id, err := m.Register(a)
	require.NoError(t, err)
	assert.Equal(t, m.ID(), a.ManagerID())
	m.Refresh(cam)

	// Move the pickable volume off to the side without touching the views.
	require.NoError(t, m.SetBounds(id, []Bound{BoundSphere{Center: rl.Vector3{X: 2}, Radius: 0.5}}))
	side, ok := cam.WorldToScreen(rl.Vector3{X: 2})
	require.True(t, ok)
	got, _, ok := m.Pick(cam.ScreenToRay(side))
	require.True(t, ok)
	assert.Same(t, a, got)
	_, _, ok = m.Pick(cam.ScreenToRay(rl.Vector2{X: 400, Y: 300}))
	assert.False(t, ok)

	m.Refresh(cam)
	assert.Equal(t, 1, a.views, "set bounds survive a refresh with the same camera")

	m.ClearBounds(id)
	assert.Empty(t, m.Bounds(id))
	_, _, ok = m.Pick(cam.ScreenToRay(side))
	assert.False(t, ok)

	assert.ErrorIs(t, m.SetBounds(id+1, nil), ErrNotRegistered)
}

func TestVisibilityClearsAndRebuildsBounds(t *testing.T) {
	cam := frontCamera()
	m := NewManager(nil)
	a := newSphere(rl.Vector3{}, 0.5)
	id, err := m.Register(a)
	require.NoError(t, err)
	m.Refresh(cam)
	require.Len(t, m.Bounds(id), 1)

	a.SetVisible(false)
	assert.Empty(t, m.Bounds(id))
	cam.Position.Z = 12
	m.Refresh(cam)
	assert.Empty(t, m.Bounds(id), "hidden manipulators are not rebuilt")

	a.SetVisible(true)
	m.Refresh(cam)
	assert.Len(t, m.Bounds(id), 1)

	require.NoError(t, m.Unregister(id))
	assert.Empty(t, m.Bounds(id))
	assert.Equal(t, uuid.Nil, a.ManagerID())
}
