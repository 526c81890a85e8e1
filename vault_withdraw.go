package goVault

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/MrEthical07/goVault/ledger"
)

// Withdraw releases amount from the vault’s custody to caller, splitting the
// gross amount into a fee leg (to the fee collector) and a net leg (to the
// caller) by the configured basis-point rate.
//
// Preconditions are checked in order: the pause gate, amount > 0, the
// per-withdrawal limit, the per-depositor timelock, and finally the custodied
// total. Vault state is mutated before the external transfer legs run; any
// failure in the transfer rolls the mutation back, so the call is
// all-or-nothing at its boundary. The audit event records the gross amount.
func (v *Vault) Withdraw(ctx context.Context, caller string, amount *big.Int) error {
	_, err := v.withdraw(ctx, caller, amount, false)
	return err
}

// WithdrawWithReceipt behaves like [Vault.Withdraw] and additionally returns
// a signed operation receipt carrying the gross amount and the fee.
func (v *Vault) WithdrawWithReceipt(ctx context.Context, caller string, amount *big.Int) (string, error) {
	return v.withdraw(ctx, caller, amount, true)
}

func (v *Vault) withdraw(ctx context.Context, caller string, amount *big.Int, wantReceipt bool) (string, error) {
	if v == nil || v.tokens == nil {
		return "", ErrVaultNotReady
	}
	if wantReceipt && v.receipts == nil {
		return "", ErrReceiptsDisabled
	}

	started := time.Now()

	if !v.guard.acquire() {
		v.metricInc(MetricGuardRejection)
		return "", ErrReentrantCall
	}
	defer v.guard.release()

	if caller == "" {
		v.metricInc(MetricWithdrawFailure)
		return "", ErrInvalidAddress
	}

	now := v.now()

	v.mu.Lock()
	if v.paused {
		v.mu.Unlock()
		v.metricInc(MetricPausedRejection)
		return "", ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		v.mu.Unlock()
		v.metricInc(MetricWithdrawFailure)
		return "", ErrInvalidAmount
	}
	if amount.Cmp(v.withdrawalLimit) > 0 {
		v.mu.Unlock()
		v.metricInc(MetricWithdrawLimitExceeded)
		return "", ErrWithdrawalLimitExceeded
	}
	// A depositor who never withdrew anchors at the Unix epoch, so under a
	// wall clock the first withdrawal is never timelock-blocked; the
	// timelock applies only between withdrawals.
	last, withdrewBefore := v.lastWithdrawal[caller]
	if !withdrewBefore {
		last = time.Unix(0, 0)
	}
	if v.withdrawalTimelock > 0 && now.Sub(last) < v.withdrawalTimelock {
		v.mu.Unlock()
		v.metricInc(MetricWithdrawTooSoon)
		return "", ErrWithdrawalTooSoon
	}
	if amount.Cmp(v.totalDeposited) > 0 {
		v.mu.Unlock()
		v.metricInc(MetricWithdrawFailure)
		return "", ErrInsufficientBalance
	}

	amt := new(big.Int).Set(amount)

	// Effects before interactions: the custodied total and the depositor's
	// timing state are updated before the external transfer runs, and
	// restored if it fails.
	v.totalDeposited.Sub(v.totalDeposited, amt)
	v.lastWithdrawal[caller] = now

	fee, net := ComputeFee(amt, v.feeBasisPoints)
	collector := v.feeCollector
	account := v.account
	version := v.version
	v.mu.Unlock()

	entries := make([]ledger.Entry, 0, 2)
	if fee.Sign() > 0 {
		entries = append(entries, ledger.Entry{From: account, To: collector, Amount: fee})
	}
	entries = append(entries, ledger.Entry{From: account, To: caller, Amount: net})

	if err := v.tokens.TransferBatch(ctx, entries); err != nil {
		v.mu.Lock()
		v.totalDeposited.Add(v.totalDeposited, amt)
		if withdrewBefore {
			v.lastWithdrawal[caller] = last
		} else {
			delete(v.lastWithdrawal, caller)
		}
		v.mu.Unlock()

		v.metricInc(MetricWithdrawFailure)
		return "", errors.Join(ErrTransferFailed, err)
	}

	v.metricInc(MetricWithdrawSuccess)
	v.metricObserve(MetricWithdrawLatency, time.Since(started))
	v.emitAudit(ctx, auditEventWithdrawn, caller, amt, now, func() map[string]string {
		return map[string]string{
			"fee": fee.String(),
			"net": net.String(),
		}
	})

	if !wantReceipt {
		return "", nil
	}
	return v.issueReceipt(auditEventWithdrawn, caller, amt, fee, version, now)
}
