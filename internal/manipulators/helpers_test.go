package manipulators

import (
	"testing"

	"manipulators/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var approx = cmpopts.EquateApprox(0, 1e-3)

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

// frontCamera looks down -Z at the origin from z=10. +X is screen right, +Y screen up.
func frontCamera() camera.State {
	return camera.LookAtState(rl.Vector3{Z: 10}, rl.Vector3{}, 45, 800, 600)
}

// mouseAt builds an interaction aimed at a world point.
func mouseAt(t *testing.T, cam camera.State, p rl.Vector3, mods Modifiers) MouseInteraction {
	t.Helper()
	screen, ok := cam.WorldToScreen(p)
	if !ok {
		t.Fatalf("point %+v is not visible", p)
	}
	return NewMouseInteraction(cam, screen, mods)
}

type recordedBatch struct {
	name     string
	entities []uint64
	ended    bool
}

type fakeUndo struct {
	batches []recordedBatch
}

func (u *fakeUndo) BeginUndoBatch(name string, entityIDs []uint64) {
	u.batches = append(u.batches, recordedBatch{name: name, entities: entityIDs})
}

func (u *fakeUndo) EndUndoBatch() {
	if n := len(u.batches); n > 0 {
		u.batches[n-1].ended = true
	}
}

// sphereManipulator is a minimal manipulator used to exercise the Manager.
type sphereManipulator struct {
	BaseManipulator

	center rl.Vector3
	radius float32

	views, downs, moves, ups int
	onUp                     func()
}

func newSphere(center rl.Vector3, radius float32) *sphereManipulator {
	return &sphereManipulator{center: center, radius: radius}
}

func (s *sphereManipulator) Views(camera.State) []View {
	s.views++
	return []View{{Shape: ShapeSphere, Center: s.center, Radius: s.radius}}
}

func (s *sphereManipulator) OnLeftMouseDown(MouseInteraction) { s.downs++ }

func (s *sphereManipulator) OnMouseMove(MouseInteraction) { s.moves++ }

func (s *sphereManipulator) OnLeftMouseUp(MouseInteraction) {
	s.ups++
	if s.onUp != nil {
		s.onUp()
	}
}
