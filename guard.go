package goVault

import "sync/atomic"

// callGuard is the call-scoped exclusive guard acquired by every state-mutating
// vault operation for its full duration, including external ledger callouts.
// A second entry while the guard is held is rejected, never queued: an external
// transfer target that calls back into the vault during its own execution must
// observe ErrReentrantCall rather than deadlock or interleave.
type callGuard struct {
	busy atomic.Bool
}

func (g *callGuard) acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *callGuard) release() {
	g.busy.Store(false)
}
