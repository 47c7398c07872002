package engine

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func nearlyEqual(a, b rl.Vector3) bool {
	const eps = 1e-4
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}

	if obj.UID == 0 {
		t.Error("UID should not be 0")
	}

	if obj.Transform.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Expected unit scale, got %+v", obj.Transform.Scale)
	}
}

func TestGameObjectUniqueUIDs(t *testing.T) {
	obj1 := NewGameObject("First")
	obj2 := NewGameObject("Second")
	obj3 := NewGameObject("Third")

	if obj1.UID == obj2.UID || obj2.UID == obj3.UID || obj1.UID == obj3.UID {
		t.Error("GameObjects should have unique UIDs")
	}
}

func TestNewGameObjectWithUIDReservesCounter(t *testing.T) {
	loaded := NewGameObjectWithUID("Loaded", 1_000_000)
	if loaded.UID != 1_000_000 {
		t.Fatalf("Expected UID 1000000, got %d", loaded.UID)
	}

	fresh := NewGameObject("Fresh")
	if fresh.UID <= loaded.UID {
		t.Errorf("Fresh UID %d should be above loaded UID %d", fresh.UID, loaded.UID)
	}
}

func TestGameObjectHasTag(t *testing.T) {
	obj := NewGameObject("Test")
	obj.Tags = []string{"enemy", "ai", "dangerous"}

	if !obj.HasTag("enemy") {
		t.Error("HasTag should return true for existing tag")
	}

	if obj.HasTag("player") {
		t.Error("HasTag should return false for non-existent tag")
	}

	obj2 := NewGameObject("Test2")
	if obj2.HasTag("anything") {
		t.Error("HasTag should return false when Tags is nil/empty")
	}
}

func TestGameObjectParentChild(t *testing.T) {
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")

	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("Child.Parent should be set")
	}

	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Error("Child not added to parent's Children slice")
	}
}

func TestGameObjectReparent(t *testing.T) {
	a := NewGameObject("A")
	b := NewGameObject("B")
	child := NewGameObject("Child")

	a.AddChild(child)
	b.AddChild(child)

	if len(a.Children) != 0 {
		t.Errorf("Old parent should lose the child, has %d children", len(a.Children))
	}
	if child.Parent != b {
		t.Error("Child.Parent should point at the new parent")
	}
}

func TestGameObjectRemoveChild(t *testing.T) {
	parent := NewGameObject("Parent")
	child1 := NewGameObject("Child1")
	child2 := NewGameObject("Child2")

	parent.AddChild(child1)
	parent.AddChild(child2)

	parent.RemoveChild(child1)

	if len(parent.Children) != 1 {
		t.Errorf("Expected 1 child after removal, got %d", len(parent.Children))
	}

	if parent.Children[0] != child2 {
		t.Error("Wrong child removed")
	}

	if child1.Parent != nil {
		t.Error("Removed child should have nil parent")
	}
}

func TestWorldPositionWithScaledParent(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.Transform.Position = rl.Vector3{X: 10}
	parent.Transform.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	child := NewGameObject("Child")
	child.Transform.Position = rl.Vector3{Y: 1}
	parent.AddChild(child)

	got := child.WorldPosition()
	want := rl.Vector3{X: 10, Y: 2}
	if !nearlyEqual(got, want) {
		t.Errorf("Expected world position %+v, got %+v", want, got)
	}
}

func TestWorldToLocalDeltaMovesByWorldDelta(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.Transform.Rotation = rl.Vector3{Y: 90, Z: 30}
	parent.Transform.Scale = rl.Vector3{X: 2, Y: 0.5, Z: 3}

	child := NewGameObject("Child")
	child.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	parent.AddChild(child)

	before := child.WorldPosition()
	worldDelta := rl.Vector3{X: 1.5, Y: -2, Z: 0.25}
	child.Transform.Position = rl.Vector3Add(child.Transform.Position, child.WorldToLocalDelta(worldDelta))
	after := child.WorldPosition()

	if !nearlyEqual(rl.Vector3Subtract(after, before), worldDelta) {
		t.Errorf("Expected world move %+v, got %+v", worldDelta, rl.Vector3Subtract(after, before))
	}
}

func TestWorldToLocalDeltaWithoutParent(t *testing.T) {
	obj := NewGameObject("Root")
	d := rl.Vector3{X: 1, Y: 2, Z: 3}
	if got := obj.WorldToLocalDelta(d); got != d {
		t.Errorf("Root objects should pass deltas through, got %+v", got)
	}
}

func TestWorldAxesAreOrthonormal(t *testing.T) {
	obj := NewGameObject("Rotated")
	obj.Transform.Rotation = rl.Vector3{X: 20, Y: 45, Z: -10}

	axes := obj.WorldAxes()
	for i := range axes {
		if l := rl.Vector3Length(axes[i]); math.Abs(float64(l-1)) > 1e-4 {
			t.Errorf("Axis %d should be unit length, got %f", i, l)
		}
		for j := i + 1; j < len(axes); j++ {
			if d := rl.Vector3DotProduct(axes[i], axes[j]); math.Abs(float64(d)) > 1e-4 {
				t.Errorf("Axes %d and %d should be orthogonal, dot=%f", i, j, d)
			}
		}
	}
}
