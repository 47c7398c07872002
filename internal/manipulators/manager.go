package manipulators

import (
	"fmt"

	"manipulators/internal/camera"
	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager owns a set of manipulators for one viewport. It caches their pick
// bounds, routes mouse events, and holds the single active-drag slot: at most
// one manipulator is Dragging at any time.
type Manager struct {
	id     uuid.UUID
	logger *zap.Logger
	undo   UndoRecorder

	nextID       ID
	manipulators map[ID]Manipulator
	order        []ID
	bounds       map[ID][]Bound

	camera     camera.State
	haveCamera bool

	active  Manipulator
	hovered Manipulator

	// ActiveChanged fires with the new active id, or InvalidID when a drag ends.
	ActiveChanged engine.EventWithArg[ID]
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &Manager{
		id:           id,
		logger:       logger.With(zap.String("manager", id.String())),
		manipulators: make(map[ID]Manipulator),
		bounds:       make(map[ID][]Bound),
	}
}

func (m *Manager) ID() uuid.UUID { return m.id }

// SetUndoRecorder installs the recorder that brackets every drag.
func (m *Manager) SetUndoRecorder(r UndoRecorder) {
	m.undo = r
}

func (m *Manager) Register(man Manipulator) (ID, error) {
	base := man.Base()
	if base.manager != nil {
		return InvalidID, fmt.Errorf("register manipulator %d: %w", base.id, ErrAlreadyRegistered)
	}

	m.nextID++
	base.id = m.nextID
	base.manager = m
	base.boundsDirty = true

	m.manipulators[base.id] = man
	m.order = append(m.order, base.id)

	m.logger.Debug("Registered manipulator", zap.Uint64("id", uint64(base.id)), zap.String("action", base.ActionName))
	return base.id, nil
}

// Unregister removes a manipulator. A drag in progress is ended without a
// mouse-up callback and the active slot is released.
func (m *Manager) Unregister(id ID) error {
	man, ok := m.manipulators[id]
	if !ok {
		return fmt.Errorf("unregister manipulator %d: %w", id, ErrNotRegistered)
	}
	base := man.Base()

	if m.active == man {
		m.logger.Warn("Unregistering manipulator mid-drag", zap.Uint64("id", uint64(id)))
		base.endAction()
		m.active = nil
		m.ActiveChanged.Invoke(InvalidID)
	}
	if m.hovered == man {
		m.hovered = nil
	}

	m.ClearBounds(id)
	delete(m.manipulators, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	base.manager = nil
	base.id = InvalidID
	base.hovered = false

	m.logger.Debug("Unregistered manipulator", zap.Uint64("id", uint64(id)))
	return nil
}

func (m *Manager) Manipulator(id ID) Manipulator {
	return m.manipulators[id]
}

// Manipulators returns the registered manipulators in registration order.
func (m *Manager) Manipulators() []Manipulator {
	result := make([]Manipulator, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.manipulators[id])
	}
	return result
}

func (m *Manager) ActiveManipulator() Manipulator { return m.active }

func (m *Manager) HoveredManipulator() Manipulator { return m.hovered }

// Bounds returns the cached bounds for a manipulator.
func (m *Manager) Bounds(id ID) []Bound {
	return m.bounds[id]
}

// SetBounds replaces the cached bounds of a manipulator. They are used for
// picking until the manipulator is marked dirty or the camera changes.
func (m *Manager) SetBounds(id ID, bounds []Bound) error {
	man, ok := m.manipulators[id]
	if !ok {
		return fmt.Errorf("set bounds of manipulator %d: %w", id, ErrNotRegistered)
	}
	m.bounds[id] = append([]Bound(nil), bounds...)
	man.Base().boundsDirty = false
	return nil
}

// ClearBounds drops the cached bounds of a manipulator so it cannot be picked
// until its bounds are set or rebuilt.
func (m *Manager) ClearBounds(id ID) {
	delete(m.bounds, id)
}

// Refresh rebuilds bounds that are dirty, or all of them if the camera moved.
func (m *Manager) Refresh(cam camera.State) {
	cameraChanged := !m.haveCamera || cam != m.camera
	m.camera = cam
	m.haveCamera = true

	for _, id := range m.order {
		man := m.manipulators[id]
		base := man.Base()
		if base.hidden || (!cameraChanged && !base.boundsDirty) {
			continue
		}
		m.bounds[id] = boundsFromViews(man.Views(cam))
		base.boundsDirty = false
	}
}

// Pick returns the visible manipulator whose cached bounds the ray hits first.
// Ties go to the manipulator registered first.
func (m *Manager) Pick(ray rl.Ray) (Manipulator, float32, bool) {
	dir := rl.Vector3Normalize(ray.Direction)

	var best Manipulator
	var bestT float32
	for _, id := range m.order {
		man := m.manipulators[id]
		if !man.Base().Visible() {
			continue
		}
		t, ok := intersectBounds(m.bounds[id], ray.Position, dir)
		if !ok {
			continue
		}
		if best == nil || t < bestT {
			best = man
			bestT = t
		}
	}
	return best, bestT, best != nil
}

// ConsumeMouseDown starts a drag on the picked manipulator. It returns true
// when the event belongs to the manipulators and should not reach selection.
// A mouse-down while another drag is active is rejected with a warning.
func (m *Manager) ConsumeMouseDown(mi MouseInteraction, button MouseButton) bool {
	if m.active != nil {
		m.logger.Warn("Mouse down ignored, a manipulator is already dragging",
			zap.Uint64("active", uint64(m.active.Base().id)),
			zap.Int("button", int(button)))
		return true
	}

	m.Refresh(mi.Camera)
	man, _, ok := m.Pick(mi.Ray)
	if !ok {
		return false
	}
	base := man.Base()

	if button == MouseRight {
		if base.OnRightClick != nil {
			base.OnRightClick(mi)
		}
		return true
	}

	if base.performingOperation {
		m.logger.Warn("Mouse down ignored, manipulator is mid-operation", zap.Uint64("id", uint64(base.id)))
		return true
	}

	m.active = man
	base.beginAction()
	man.OnLeftMouseDown(mi)
	m.ActiveChanged.Invoke(base.id)
	return true
}

// ConsumeMouseMove drives the active drag, or updates hover when idle.
func (m *Manager) ConsumeMouseMove(mi MouseInteraction) bool {
	if m.active != nil {
		m.active.OnMouseMove(mi)
		return true
	}

	m.Refresh(mi.Camera)
	man, _, _ := m.Pick(mi.Ray)
	if m.hovered != nil && m.hovered != man {
		m.hovered.Base().hovered = false
	}
	m.hovered = man
	if man != nil {
		man.Base().hovered = true
	}
	return false
}

// ConsumeMouseUp ends the active drag and frees the slot.
func (m *Manager) ConsumeMouseUp(mi MouseInteraction, button MouseButton) bool {
	if m.active == nil {
		return false
	}
	if button != MouseLeft {
		return true
	}

	man := m.active
	man.OnLeftMouseUp(mi)
	// The callback may have unregistered the manipulator, which ends the drag itself.
	if m.active == man {
		m.active = nil
		man.Base().endAction()
		m.ActiveChanged.Invoke(InvalidID)
	}
	return true
}
