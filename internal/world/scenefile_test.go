package world

import (
	"os"
	"path/filepath"
	"testing"

	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScene = `{
  "name": "Sample",
  "objects": [
    {"uid": 9001, "parent": 9000, "name": "Child", "position": [1, 0, 0], "rotation": [0, 0, 0], "scale": [0, 0, 0], "color": "#10203040"},
    {"uid": 9000, "name": "Root", "tags": ["prop"], "position": [0, 2, 0], "rotation": [0, 45, 0], "scale": [2, 2, 2], "size": [1, 3, 1], "color": "Red"}
  ]
}`

func TestDecodeScene(t *testing.T) {
	w, err := Decode([]byte(sampleScene))
	require.NoError(t, err)
	assert.Equal(t, "Sample", w.Scene.Name)

	root := w.Scene.FindByUID(9000)
	child := w.Scene.FindByUID(9001)
	require.NotNil(t, root)
	require.NotNil(t, child)

	assert.Same(t, root, child.Parent, "parent declared after the child")
	assert.True(t, root.HasTag("prop"))
	assert.Equal(t, rl.Red, root.Color)
	assert.Equal(t, rl.Vector3{X: 1, Y: 3, Z: 1}, root.Size)
	assert.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, child.Transform.Scale, "zero scale defaults to one")
	assert.Equal(t, rl.NewColor(0x10, 0x20, 0x30, 0x40), child.Color)

	// New objects never reuse loaded uids.
	assert.Greater(t, engine.NewGameObject("Fresh").UID, uint64(9001))
}

func TestDecodeSceneErrors(t *testing.T) {
	tests := map[string]string{
		"bad json":       `{`,
		"unknown parent": `{"objects": [{"uid": 1, "parent": 77, "name": "A"}]}`,
		"unknown color":  `{"objects": [{"name": "A", "color": "Chartreuse"}]}`,
		"duplicate uid":  `{"objects": [{"uid": 5, "name": "A"}, {"uid": 5, "name": "B"}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadScene(t *testing.T) {
	w, err := Decode([]byte(sampleScene))
	require.NoError(t, err)
	w.Scene.FindByUID(9000).Transform.Position = rl.Vector3{X: -3, Y: 1, Z: 4}
	w.Scene.FindByUID(9001).Active = false

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, w.SaveScene(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Scene.GameObjects, 2)

	for _, orig := range w.Scene.GameObjects {
		got := loaded.Scene.FindByUID(orig.UID)
		require.NotNil(t, got, orig.Name)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Transform, got.Transform)
		assert.Equal(t, orig.Color, got.Color)
		assert.Equal(t, orig.Active, got.Active)
	}
	assert.Equal(t, uint64(9000), loaded.Scene.FindByUID(9001).Parent.UID)
}

func TestLoadMissingScene(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestColorNames(t *testing.T) {
	c, ok := LookupColor("SkyBlue")
	assert.True(t, ok)
	assert.Equal(t, "SkyBlue", ColorName(c))

	c, ok = LookupColor("#ff000080")
	assert.True(t, ok)
	assert.Equal(t, "#ff000080", ColorName(c))

	c, ok = LookupColor("#00ff00")
	assert.True(t, ok)
	assert.Equal(t, uint8(255), c.A)

	_, ok = LookupColor("#xyz")
	assert.False(t, ok)
}
