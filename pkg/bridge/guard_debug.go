//go:build pqbridge_debug

package bridge

import "sync/atomic"

// guard detects two callers using the same handle at once.
type guard struct {
	busy atomic.Bool
}

func (g *guard) enter(op string, h Handle) error {
	if !g.busy.CompareAndSwap(false, true) {
		return newError(KindNullHandle, op, "handle %s is in use by another caller", h)
	}
	return nil
}

func (g *guard) exit() {
	g.busy.Store(false)
}
