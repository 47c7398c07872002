package engine

// GameObjectRef is a serializable reference to a GameObject by UID.
// The editor uses it to persist the selection across restarts.
type GameObjectRef struct {
	UID uint64 `json:"uid,omitempty"` // 0 = none
}

// Get resolves the reference. Returns nil if it is empty or the object is gone.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set points the reference at g; nil clears it.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

func (r *GameObjectRef) Clear() {
	r.UID = 0
}
