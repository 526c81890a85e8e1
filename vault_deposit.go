package goVault

import (
	"context"
	"errors"
	"math/big"
)

// Deposit moves amount from caller’s ledger account into the vault’s custody
// and grows the custodied total. The caller must have approved the vault’s
// account as a spender on the external ledger beforehand.
//
// Deposit fails with [ErrPaused] while the vault is paused and with
// [ErrInvalidAmount] for a nil or non-positive amount. If the external
// transfer fails (insufficient balance or allowance), the whole operation
// fails atomically with no ledger mutation.
func (v *Vault) Deposit(ctx context.Context, caller string, amount *big.Int) error {
	_, err := v.deposit(ctx, caller, amount, false)
	return err
}

// DepositWithReceipt behaves like [Vault.Deposit] and additionally returns a
// signed operation receipt. Fails with [ErrReceiptsDisabled] when the vault
// was built without receipt signing.
func (v *Vault) DepositWithReceipt(ctx context.Context, caller string, amount *big.Int) (string, error) {
	return v.deposit(ctx, caller, amount, true)
}

func (v *Vault) deposit(ctx context.Context, caller string, amount *big.Int, wantReceipt bool) (string, error) {
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

	if caller == "" {
		v.metricInc(MetricDepositFailure)
		return "", ErrInvalidAddress
	}

	v.mu.RLock()
	paused := v.paused
	v.mu.RUnlock()
	if paused {
		v.metricInc(MetricPausedRejection)
		return "", ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		v.metricInc(MetricDepositFailure)
		return "", ErrInvalidAmount
	}

	amt := new(big.Int).Set(amount)

	// External transfer first: the custodied total only grows once the
	// tokens are actually in the vault's account.
	if err := v.tokens.TransferFrom(ctx, v.account, caller, v.account, amt); err != nil {
		v.metricInc(MetricDepositFailure)
		return "", errors.Join(ErrTransferFailed, err)
	}

	now := v.now()
	v.mu.Lock()
	v.totalDeposited.Add(v.totalDeposited, amt)
	version := v.version
	v.mu.Unlock()

	v.metricInc(MetricDepositSuccess)
	v.emitAudit(ctx, auditEventDeposited, caller, amt, now, nil)

	if !wantReceipt {
		return "", nil
	}
	return v.issueReceipt(auditEventDeposited, caller, amt, nil, version, now)
}
