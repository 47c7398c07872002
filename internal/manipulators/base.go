package manipulators

import (
	"errors"

	"manipulators/internal/camera"

	"github.com/google/uuid"
)

var (
	ErrAlreadyRegistered   = errors.New("manipulator already registered")
	ErrNotRegistered       = errors.New("manipulator not registered")
	ErrOperationInProgress = errors.New("manipulator operation in progress")
)

// ID identifies a manipulator within its Manager. Zero is never assigned.
type ID uint64

const InvalidID ID = 0

type InteractionState int

const (
	Idle InteractionState = iota
	Dragging
)

func (s InteractionState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Manipulator is what a Manager drives. Concrete manipulators embed
// BaseManipulator and describe themselves through Views.
type Manipulator interface {
	Base() *BaseManipulator
	Views(cam camera.State) []View

	OnLeftMouseDown(mi MouseInteraction)
	OnMouseMove(mi MouseInteraction)
	OnLeftMouseUp(mi MouseInteraction)
}

// UndoRecorder receives one batch per drag. The editor implements it.
type UndoRecorder interface {
	BeginUndoBatch(name string, entityIDs []uint64)
	EndUndoBatch()
}

// BaseManipulator carries the state shared by every manipulator: its id,
// owning manager, hover and drag flags, and the entities it edits.
type BaseManipulator struct {
	id      ID
	manager *Manager

	performingOperation bool
	hovered             bool
	hidden              bool
	boundsDirty         bool

	entityIDs []uint64

	// ActionName labels undo batches ("Translate X", ...).
	ActionName string

	// OnRightClick runs when the right mouse button goes down over the manipulator.
	OnRightClick func(mi MouseInteraction)
}

func (b *BaseManipulator) Base() *BaseManipulator { return b }

func (b *BaseManipulator) ID() ID { return b.id }

func (b *BaseManipulator) Registered() bool { return b.manager != nil }

func (b *BaseManipulator) Manager() *Manager { return b.manager }

// ManagerID is the id of the owning manager, or uuid.Nil when unregistered.
func (b *BaseManipulator) ManagerID() uuid.UUID {
	if b.manager == nil {
		return uuid.Nil
	}
	return b.manager.id
}

// PerformingOperation is true between an accepted mouse-down and its mouse-up.
func (b *BaseManipulator) PerformingOperation() bool { return b.performingOperation }

func (b *BaseManipulator) State() InteractionState {
	if b.performingOperation {
		return Dragging
	}
	return Idle
}

func (b *BaseManipulator) Hovered() bool { return b.hovered }

func (b *BaseManipulator) Visible() bool { return !b.hidden }

// SetVisible hides or shows the manipulator. Hidden manipulators are never
// picked and lose their cached bounds; showing one again rebuilds them.
func (b *BaseManipulator) SetVisible(visible bool) {
	b.hidden = !visible
	if !b.hidden {
		b.boundsDirty = true
		return
	}
	b.hovered = false
	if b.manager != nil {
		b.manager.ClearBounds(b.id)
	}
}

// SetBoundsDirty asks the manager to rebuild cached bounds before the next pick.
func (b *BaseManipulator) SetBoundsDirty() {
	b.boundsDirty = true
}

// AddEntityID binds an entity so drags are recorded against it for undo.
func (b *BaseManipulator) AddEntityID(uid uint64) {
	for _, id := range b.entityIDs {
		if id == uid {
			return
		}
	}
	b.entityIDs = append(b.entityIDs, uid)
}

func (b *BaseManipulator) ClearEntityIDs() {
	b.entityIDs = nil
}

func (b *BaseManipulator) EntityIDs() []uint64 {
	return append([]uint64(nil), b.entityIDs...)
}

// Unregister removes the manipulator from its manager, ending any drag.
func (b *BaseManipulator) Unregister() error {
	if b.manager == nil {
		return ErrNotRegistered
	}
	return b.manager.Unregister(b.id)
}

func (b *BaseManipulator) beginAction() {
	b.performingOperation = true
	if b.manager != nil && b.manager.undo != nil {
		b.manager.undo.BeginUndoBatch(b.ActionName, b.EntityIDs())
	}
}

func (b *BaseManipulator) endAction() {
	if !b.performingOperation {
		return
	}
	b.performingOperation = false
	if b.manager != nil && b.manager.undo != nil {
		b.manager.undo.EndUndoBatch()
	}
}
