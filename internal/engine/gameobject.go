package engine

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

type GameObject struct {
	UID       uint64
	Name      string
	Tags      []string
	Transform Transform
	Active    bool
	Scene     *Scene
	Parent    *GameObject
	Children  []*GameObject

	// Size is the local box used for selection picking and the editor wireframe.
	Size  rl.Vector3
	Color rl.Color
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID(),
		Name:   name,
		Active: true,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.Vector3{},
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		Children: make([]*GameObject, 0),
		Size:     rl.Vector3{X: 1, Y: 1, Z: 1},
		Color:    rl.LightGray,
	}
}

// NewGameObjectWithUID is used when restoring a saved scene.
func NewGameObjectWithUID(name string, uid uint64) *GameObject {
	g := NewGameObject(name)
	if uid != 0 {
		g.UID = uid
		reserveUID(uid)
	}
	return g
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentPos := g.Parent.WorldPosition()
	parentScale := g.Parent.WorldScale()

	// Scale local position by parent's world scale
	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}

	rotated := rl.Vector3Transform(scaled, RotationMatrix(g.Parent.WorldRotation()))
	return rl.Vector3Add(parentPos, rotated)
}

func (g *GameObject) WorldRotation() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return rl.Vector3Add(g.Parent.WorldRotation(), g.Transform.Rotation)
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}

// WorldToLocalDelta converts a world-space translation into the parent's
// local space so it can be added to Transform.Position.
func (g *GameObject) WorldToLocalDelta(worldDelta rl.Vector3) rl.Vector3 {
	if g.Parent == nil {
		return worldDelta
	}
	local := rl.Vector3Transform(worldDelta, InverseRotationMatrix(g.Parent.WorldRotation()))

	parentScale := g.Parent.WorldScale()
	if parentScale.X != 0 {
		local.X /= parentScale.X
	}
	if parentScale.Y != 0 {
		local.Y /= parentScale.Y
	}
	if parentScale.Z != 0 {
		local.Z /= parentScale.Z
	}
	return local
}

// WorldAxes returns the object's X, Y and Z axes in world space.
func (g *GameObject) WorldAxes() [3]rl.Vector3 {
	m := RotationMatrix(g.WorldRotation())
	return [3]rl.Vector3{
		rl.Vector3Normalize(rl.Vector3Transform(rl.Vector3{X: 1}, m)),
		rl.Vector3Normalize(rl.Vector3Transform(rl.Vector3{Y: 1}, m)),
		rl.Vector3Normalize(rl.Vector3Transform(rl.Vector3{Z: 1}, m)),
	}
}

// RotationMatrix builds the X then Y then Z rotation used for every transform.
func RotationMatrix(rotation rl.Vector3) rl.Matrix {
	rx := float64(rotation.X) * math.Pi / 180
	ry := float64(rotation.Y) * math.Pi / 180
	rz := float64(rotation.Z) * math.Pi / 180
	rotX := rl.MatrixRotateX(float32(rx))
	rotY := rl.MatrixRotateY(float32(ry))
	rotZ := rl.MatrixRotateZ(float32(rz))
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

// InverseRotationMatrix undoes RotationMatrix: Z, Y, X with negated angles.
func InverseRotationMatrix(rotation rl.Vector3) rl.Matrix {
	rx := float64(-rotation.X) * math.Pi / 180
	ry := float64(-rotation.Y) * math.Pi / 180
	rz := float64(-rotation.Z) * math.Pi / 180
	rotZ := rl.MatrixRotateZ(float32(rz))
	rotY := rl.MatrixRotateY(float32(ry))
	rotX := rl.MatrixRotateX(float32(rx))
	return rl.MatrixMultiply(rl.MatrixMultiply(rotZ, rotY), rotX)
}
