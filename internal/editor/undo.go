package editor

import (
	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const maxUndoStack = 50

// TransformSnapshot is one object's local transform before an edit.
type TransformSnapshot struct {
	Object   *engine.GameObject
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
}

func snapshotOf(g *engine.GameObject) TransformSnapshot {
	return TransformSnapshot{
		Object:   g,
		Position: g.Transform.Position,
		Rotation: g.Transform.Rotation,
		Scale:    g.Transform.Scale,
	}
}

func (s TransformSnapshot) changed() bool {
	t := s.Object.Transform
	return t.Position != s.Position || t.Rotation != s.Rotation || t.Scale != s.Scale
}

func (s TransformSnapshot) restore() {
	s.Object.Transform.Position = s.Position
	s.Object.Transform.Rotation = s.Rotation
	s.Object.Transform.Scale = s.Scale
}

// UndoState is one undoable edit, named after the handle that made it.
type UndoState struct {
	Name    string
	Objects []TransformSnapshot
}

// BeginUndoBatch snapshots the transforms of the given entities. The batch
// is pushed by EndUndoBatch only if one of them actually changed.
func (e *Editor) BeginUndoBatch(name string, entityIDs []uint64) {
	if e.pending != nil {
		e.logger.Warn("Undo batch already open, discarding", zap.String("open", e.pending.Name), zap.String("new", name))
	}
	state := &UndoState{Name: name}
	for _, uid := range entityIDs {
		if g := e.world.Scene.FindByUID(uid); g != nil {
			state.Objects = append(state.Objects, snapshotOf(g))
		}
	}
	e.pending = state
}

func (e *Editor) EndUndoBatch() {
	state := e.pending
	e.pending = nil
	if state == nil {
		return
	}
	for _, s := range state.Objects {
		if s.changed() {
			e.addUndoState(*state)
			return
		}
	}
}

func (e *Editor) addUndoState(state UndoState) {
	// Cap stack size
	if len(e.undoStack) >= maxUndoStack {
		e.undoStack = e.undoStack[1:]
	}
	e.undoStack = append(e.undoStack, state)
}

// UndoCount is the number of edits that can be undone.
func (e *Editor) UndoCount() int { return len(e.undoStack) }

// Undo restores the last recorded edit and returns its name. Nothing is
// undone while a handle is being dragged.
func (e *Editor) Undo() (string, bool) {
	if len(e.undoStack) == 0 || e.transform.Dragging() {
		return "", false
	}
	// Pop last state
	state := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]

	for _, s := range state.Objects {
		s.restore()
	}
	if len(state.Objects) > 0 && state.Objects[0].Object != e.Selected {
		if err := e.Select(state.Objects[0].Object); err != nil {
			e.logger.Warn("Undo could not select object", zap.Error(err))
		}
	}
	e.transform.Sync()
	e.logger.Debug("Undo", zap.String("action", state.Name))
	return state.Name, true
}
