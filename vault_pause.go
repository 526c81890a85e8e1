package goVault

import "context"

// Pause trips the circuit breaker, blocking deposits and withdrawals until
// [Vault.Unpause]. Any operator may pause: anyone trusted enough to halt the
// system may do so. Pausing an already-paused vault is a silent no-op.
// Administrative operations and emergency withdrawal remain available while
// paused.
func (v *Vault) Pause(ctx context.Context, caller string) error {
	if v == nil {
		return ErrVaultNotReady
	}
	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return ErrReentrantCall
	}
	defer v.guard.release()

	v.mu.Lock()
	authorized := caller != "" && (caller == v.owner || hasKey(v.operators, caller))
	if !authorized {
		v.mu.Unlock()
		return ErrUnauthorized
	}
	if v.paused {
		v.mu.Unlock()
		return nil
	}
	v.paused = true
	v.mu.Unlock()

	v.metricInc(MetricPause)
	v.emitAudit(ctx, auditEventPaused, caller, nil, v.now(), nil)
	return nil
}

// Unpause resumes deposits and withdrawals. Only the owner may unpause; the
// resume authority is deliberately narrower than the halt authority.
// Unpausing an active vault is a silent no-op.
func (v *Vault) Unpause(ctx context.Context, caller string) error {
	if v == nil {
		return ErrVaultNotReady
	}
	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return ErrReentrantCall
	}
	defer v.guard.release()

	v.mu.Lock()
	if caller != v.owner {
		v.mu.Unlock()
		return ErrUnauthorized
	}
	if !v.paused {
		v.mu.Unlock()
		return nil
	}
	v.paused = false
	v.mu.Unlock()

	v.metricInc(MetricUnpause)
	v.emitAudit(ctx, auditEventUnpaused, caller, nil, v.now(), nil)
	return nil
}

// Paused reports whether the pause gate is tripped.
func (v *Vault) Paused() bool {
	if v == nil {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.paused
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
