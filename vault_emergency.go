package goVault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
)

// EmergencyWithdraw is the owner-only recovery path. It bypasses the pause
// gate, the per-withdrawal limit, and the depositor timelock, transfers the
// full amount (no fee) to the owner, and shrinks the custodied total.
//
// The amount must not exceed the vault’s actual balance on the external
// ledger ([ErrInsufficientBalance] otherwise). The custodied total is clamped
// at zero: the external balance can exceed it when tokens were moved to the
// vault’s account outside of Deposit, and recovering that surplus must not
// drive the counter negative.
func (v *Vault) EmergencyWithdraw(ctx context.Context, caller string, amount *big.Int) error {
	_, err := v.emergencyWithdraw(ctx, caller, amount, false)
	return err
}

// EmergencyWithdrawWithReceipt behaves like [Vault.EmergencyWithdraw] and
// additionally returns a signed operation receipt.
func (v *Vault) EmergencyWithdrawWithReceipt(ctx context.Context, caller string, amount *big.Int) (string, error) {
	return v.emergencyWithdraw(ctx, caller, amount, true)
}

func (v *Vault) emergencyWithdraw(ctx context.Context, caller string, amount *big.Int, wantReceipt bool) (string, error) {
	if v == nil || v.tokens == nil {
		return "", ErrVaultNotReady
	}
	if wantReceipt && v.receipts == nil {
		return "", ErrReceiptsDisabled
	}

	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return "", ErrReentrantCall
	}
	defer v.guard.release()

	v.mu.RLock()
	owner := v.owner
	v.mu.RUnlock()
	if caller != owner {
		return "", ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return "", ErrInvalidAmount
	}

	balance, err := v.tokens.BalanceOf(ctx, v.account)
	if err != nil {
		return "", fmt.Errorf("vault balance: %w", err)
	}
	if amount.Cmp(balance) > 0 {
		return "", ErrInsufficientBalance
	}

	amt := new(big.Int).Set(amount)
	now := v.now()

	v.mu.Lock()
	prevTotal := new(big.Int).Set(v.totalDeposited)
	v.totalDeposited.Sub(v.totalDeposited, amt)
	if v.totalDeposited.Sign() < 0 {
		v.totalDeposited.SetInt64(0)
	}
	version := v.version
	v.mu.Unlock()

	if err := v.tokens.Transfer(ctx, v.account, owner, amt); err != nil {
		v.mu.Lock()
		v.totalDeposited.Set(prevTotal)
		v.mu.Unlock()
		return "", errors.Join(ErrTransferFailed, err)
	}

	v.metricInc(MetricEmergencyWithdrawal)
	v.emitAudit(ctx, auditEventEmergencyWithdrawal, caller, amt, now, nil)

	if !wantReceipt {
		return "", nil
	}
	return v.issueReceipt(auditEventEmergencyWithdrawal, caller, amt, nil, version, now)
}
