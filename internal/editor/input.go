package editor

import (
	"manipulators/internal/manipulators"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func currentModifiers() manipulators.Modifiers {
	return manipulators.Modifiers{
		Shift: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
		Ctrl:  ctrlDown(),
		Alt:   rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt),
	}
}

// Update reads raylib input for one frame and forwards mouse events to the
// manipulators. Must be called with a window open.
func (e *Editor) Update(deltaTime float32) {
	e.SetViewport(rl.GetScreenWidth(), rl.GetScreenHeight())
	e.updateCameraZoom(deltaTime)

	mods := currentModifiers()
	mouse := rl.GetMousePosition()

	// Ctrl+Z or Cmd+Z: undo
	if mods.Ctrl && rl.IsKeyPressed(rl.KeyZ) {
		if name, ok := e.Undo(); ok {
			e.setMsg("Undo %s", name)
		}
	}

	// Ctrl+S: save scene and prefs
	if mods.Ctrl && rl.IsKeyPressed(rl.KeyS) {
		if err := e.SaveScene(); err != nil {
			e.logger.Error("Save failed", zap.Error(err))
			e.setMsg("Save failed: %v", err)
		} else {
			e.setMsg("Scene saved!")
		}
		if err := e.SavePrefs(); err != nil {
			e.logger.Error("Saving prefs failed", zap.Error(err))
		}
	}

	// Right mouse: reset the handle under the cursor, otherwise fly.
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		e.flying = !e.HandleMouseDown(mouse, manipulators.MouseRight, mods)
		if e.flying {
			e.transform.SetVisible(false)
		}
	}
	if e.flying {
		if !rl.IsMouseButtonDown(rl.MouseRightButton) {
			e.flying = false
			e.transform.SetVisible(true)
		} else {
			var move rl.Vector3
			if rl.IsKeyDown(rl.KeyW) {
				move.Z++
			}
			if rl.IsKeyDown(rl.KeyS) {
				move.Z--
			}
			if rl.IsKeyDown(rl.KeyD) {
				move.X++
			}
			if rl.IsKeyDown(rl.KeyA) {
				move.X--
			}
			if rl.IsKeyDown(rl.KeyE) {
				move.Y++
			}
			if rl.IsKeyDown(rl.KeyQ) {
				move.Y--
			}
			e.flyCamera(rl.GetMouseDelta(), move, deltaTime)
			return
		}
	}

	// Scroll wheel + Shift adjusts fly speed
	if scroll := rl.GetMouseWheelMove(); scroll != 0 && mods.Shift {
		e.adjustMoveSpeed(scroll)
	}

	if !mods.Ctrl {
		e.handleHotkeys()
	}

	if e.mouseInToolbar(mouse) && !e.transform.Dragging() {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		e.HandleMouseDown(mouse, manipulators.MouseLeft, mods)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		e.HandleMouseUp(mouse, manipulators.MouseLeft, mods)
	}
	e.HandleMouseMove(mouse, mods)
}

func (e *Editor) handleHotkeys() {
	var mode manipulators.Mode
	switch {
	case rl.IsKeyPressed(rl.KeyW):
		mode = manipulators.ModeTranslate
	case rl.IsKeyPressed(rl.KeyE):
		mode = manipulators.ModeRotate
	case rl.IsKeyPressed(rl.KeyR):
		mode = manipulators.ModeScale
	case rl.IsKeyPressed(rl.KeyX):
		e.ToggleReferenceSpace()
		return
	case rl.IsKeyPressed(rl.KeyF):
		e.FocusSelected()
		return
	case rl.IsKeyPressed(rl.KeyEscape):
		if err := e.Select(nil); err != nil {
			e.logger.Debug("Deselect ignored", zap.Error(err))
		}
		return
	default:
		return
	}
	if err := e.SetMode(mode); err != nil {
		e.logger.Debug("Mode change ignored", zap.Error(err))
	}
}
