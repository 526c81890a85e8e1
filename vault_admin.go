package goVault

import (
	"context"
	"math/big"
	"strings"
	"time"
)

// SetFeePercentage updates the withdrawal fee rate in basis points. Owner
// only. Fails with [ErrFeeExceedsMaximum] above [MaxFeeBasisPoints]; on
// success the vault version advances by exactly one.
func (v *Vault) SetFeePercentage(ctx context.Context, caller string, feeBasisPoints uint16) error {
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
	if feeBasisPoints > MaxFeeBasisPoints {
		v.mu.Unlock()
		return ErrFeeExceedsMaximum
	}
	old := v.feeBasisPoints
	v.feeBasisPoints = feeBasisPoints
	v.version++
	v.mu.Unlock()

	v.metricInc(MetricConfigUpdate)
	v.emitAudit(ctx, auditEventFeeUpdated, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"old": formatUint16(old),
			"new": formatUint16(feeBasisPoints),
		}
	})
	return nil
}

// SetFeeCollector updates the identity that receives withdrawal fees. Owner
// only; the collector must be non-empty. Advances the vault version.
func (v *Vault) SetFeeCollector(ctx context.Context, caller, collector string) error {
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
	if strings.TrimSpace(collector) == "" {
		v.mu.Unlock()
		return ErrInvalidAddress
	}
	old := v.feeCollector
	v.feeCollector = collector
	v.version++
	v.mu.Unlock()

	v.metricInc(MetricConfigUpdate)
	v.emitAudit(ctx, auditEventFeeCollectorUpdated, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"old": old,
			"new": collector,
		}
	})
	return nil
}

// SetWithdrawalLimit updates the per-withdrawal cap. Owner only. A zero limit
// is legal and fully restrictive; nil is treated as zero. Advances the vault
// version.
func (v *Vault) SetWithdrawalLimit(ctx context.Context, caller string, limit *big.Int) error {
	if v == nil {
		return ErrVaultNotReady
	}
	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return ErrReentrantCall
	}
	defer v.guard.release()

	next := new(big.Int)
	if limit != nil {
		if limit.Sign() < 0 {
			return ErrInvalidAmount
		}
		next.Set(limit)
	}

	v.mu.Lock()
	if caller != v.owner {
		v.mu.Unlock()
		return ErrUnauthorized
	}
	old := v.withdrawalLimit
	v.withdrawalLimit = next
	v.version++
	v.mu.Unlock()

	v.metricInc(MetricConfigUpdate)
	v.emitAudit(ctx, auditEventLimitUpdated, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"old": old.String(),
			"new": next.String(),
		}
	})
	return nil
}

// SetWithdrawalTimelock updates the minimum interval between two withdrawals
// by the same depositor. Owner only. Advances the vault version.
func (v *Vault) SetWithdrawalTimelock(ctx context.Context, caller string, timelock time.Duration) error {
	if v == nil {
		return ErrVaultNotReady
	}
	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return ErrReentrantCall
	}
	defer v.guard.release()

	if timelock < 0 {
		return ErrInvalidAmount
	}

	v.mu.Lock()
	if caller != v.owner {
		v.mu.Unlock()
		return ErrUnauthorized
	}
	old := v.withdrawalTimelock
	v.withdrawalTimelock = timelock
	v.version++
	v.mu.Unlock()

	v.metricInc(MetricConfigUpdate)
	v.emitAudit(ctx, auditEventTimelockUpdated, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"old": old.String(),
			"new": timelock.String(),
		}
	})
	return nil
}

// TransferOwnership reassigns the top-level administrator in a single step.
// Owner only; the new owner must be non-empty. The new owner is implicitly an
// operator through the isOwner-implies-isOperator rule, with no separate
// registry entry. Ownership transfer is not one of the administrative setters
// and does not advance the vault version.
func (v *Vault) TransferOwnership(ctx context.Context, caller, newOwner string) error {
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
	if strings.TrimSpace(newOwner) == "" {
		v.mu.Unlock()
		return ErrInvalidAddress
	}
	old := v.owner
	v.owner = newOwner
	v.mu.Unlock()

	v.metricInc(MetricOwnershipTransferred)
	v.emitAudit(ctx, auditEventOwnershipTransferred, caller, nil, v.now(), func() map[string]string {
		return map[string]string{
			"old": old,
			"new": newOwner,
		}
	})
	return nil
}
