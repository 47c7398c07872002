package engine

import "sync/atomic"

var lastUID atomic.Uint64

func nextUID() uint64 {
	return lastUID.Add(1)
}

// reserveUID makes sure freshly created objects never collide with a UID
// that was loaded from disk.
func reserveUID(uid uint64) {
	for {
		cur := lastUID.Load()
		if uid <= cur || lastUID.CompareAndSwap(cur, uid) {
			return
		}
	}
}
