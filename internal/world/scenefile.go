package world

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"manipulators/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type SceneFile struct {
	Name    string      `json:"name,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	UID      uint64     `json:"uid,omitempty"`
	Parent   uint64     `json:"parent,omitempty"`
	Name     string     `json:"name"`
	Tags     []string   `json:"tags,omitempty"`
	Inactive bool       `json:"inactive,omitempty"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
	Size     [3]float32 `json:"size,omitempty"`
	Color    string     `json:"color,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Pink":      rl.Pink,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"Magenta":   rl.Magenta,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

// LookupColor resolves a raylib color name or a #rrggbb / #rrggbbaa hex string.
func LookupColor(name string) (rl.Color, bool) {
	if c, ok := colorByName[name]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(name, "#")
	if !ok {
		return rl.White, false
	}
	var r, g, b, a uint8
	switch len(hex) {
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return rl.White, false
		}
		a = 255
	case 8:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return rl.White, false
		}
	default:
		return rl.White, false
	}
	return rl.NewColor(r, g, b, a), true
}

// ColorName is the inverse of LookupColor.
func ColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func vec(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func arr(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

// Load reads a scene file into a new World.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	w, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// Decode builds a World from scene JSON. Parents are resolved after every
// object exists, so their order in the file does not matter.
func Decode(data []byte) (*World, error) {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	name := sf.Name
	if name == "" {
		name = "Main"
	}
	w := New(name)

	for _, objDef := range sf.Objects {
		if objDef.UID != 0 && w.Scene.FindByUID(objDef.UID) != nil {
			return nil, fmt.Errorf("parse scene: duplicate uid %d", objDef.UID)
		}
		g := engine.NewGameObjectWithUID(objDef.Name, objDef.UID)
		g.Tags = objDef.Tags
		g.Active = !objDef.Inactive
		g.Transform.Position = vec(objDef.Position)
		g.Transform.Rotation = vec(objDef.Rotation)

		// Default scale to 1 if zero
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = vec(objDef.Scale)
		}
		if objDef.Size != [3]float32{} {
			g.Size = vec(objDef.Size)
		}
		if objDef.Color != "" {
			c, ok := LookupColor(objDef.Color)
			if !ok {
				return nil, fmt.Errorf("parse scene: object %q: unknown color %q", objDef.Name, objDef.Color)
			}
			g.Color = c
		}

		w.Scene.AddGameObject(g)
	}

	for i, objDef := range sf.Objects {
		if objDef.Parent == 0 {
			continue
		}
		parent := w.Scene.FindByUID(objDef.Parent)
		if parent == nil {
			return nil, fmt.Errorf("parse scene: object %q: unknown parent %d", objDef.Name, objDef.Parent)
		}
		parent.AddChild(w.Scene.GameObjects[i])
	}

	return w, nil
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

func (w *World) Encode() ([]byte, error) {
	sf := SceneFile{Name: w.Scene.Name}

	for _, g := range w.Scene.GameObjects {
		objDef := ObjectDef{
			UID:      g.UID,
			Name:     g.Name,
			Tags:     g.Tags,
			Inactive: !g.Active,
			Position: arr(g.Transform.Position),
			Rotation: arr(g.Transform.Rotation),
			Scale:    arr(g.Transform.Scale),
			Size:     arr(g.Size),
			Color:    ColorName(g.Color),
		}
		if g.Parent != nil {
			objDef.Parent = g.Parent.UID
		}
		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}
