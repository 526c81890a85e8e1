package goVault

import (
	"context"
	"sort"
	"strings"
)

// AddOperator grants target the operator role. Owner only. The owner is
// implicitly an operator and cannot be added; an existing member fails with
// [ErrAlreadyOperator].
func (v *Vault) AddOperator(ctx context.Context, caller, target string) error {
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
	if strings.TrimSpace(target) == "" {
		v.mu.Unlock()
		return ErrInvalidAddress
	}
	if target == v.owner {
		v.mu.Unlock()
		return ErrAlreadyOperator
	}
	if _, ok := v.operators[target]; ok {
		v.mu.Unlock()
		return ErrAlreadyOperator
	}
	v.operators[target] = struct{}{}
	v.mu.Unlock()

	v.metricInc(MetricOperatorAdded)
	v.emitAudit(ctx, auditEventOperatorAdded, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"operator": target,
		}
	})
	return nil
}

// RemoveOperator revokes target’s operator role. Owner only. The owner can
// never be removed, even by itself ([ErrCannotRemoveOwner]); a non-member
// fails with [ErrNotOperator].
func (v *Vault) RemoveOperator(ctx context.Context, caller, target string) error {
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
	if target == v.owner {
		v.mu.Unlock()
		return ErrCannotRemoveOwner
	}
	if _, ok := v.operators[target]; !ok {
		v.mu.Unlock()
		return ErrNotOperator
	}
	delete(v.operators, target)
	v.mu.Unlock()

	v.metricInc(MetricOperatorRemoved)
	v.emitAudit(ctx, auditEventOperatorRemoved, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"operator": target,
		}
	})
	return nil
}

// IsOperator reports whether addr holds the operator role. The owner is
// always implicitly an operator.
func (v *Vault) IsOperator(addr string) bool {
	if v == nil || addr == "" {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if addr == v.owner {
		return true
	}
	_, ok := v.operators[addr]
	return ok
}

// IsOwner reports whether addr is the vault owner.
func (v *Vault) IsOwner(addr string) bool {
	if v == nil || addr == "" {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return addr == v.owner
}

// Owner returns the current owner identity.
func (v *Vault) Owner() string {
	if v == nil {
		return ""
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.owner
}

// Operators returns the explicit operator set, sorted. The owner is not
// listed; its operator status is implicit.
func (v *Vault) Operators() []string {
	if v == nil {
		return nil
	}

	v.mu.RLock()
	out := make([]string, 0, len(v.operators))
	for op := range v.operators {
		out = append(out, op)
	}
	v.mu.RUnlock()

	sort.Strings(out)
	return out
}
