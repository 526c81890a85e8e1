package goVault

import (
	"context"
	"math/big"
	"time"
)

// VaultInfo is a read-only snapshot of the vault’s configuration and ledger
// state, returned by [Vault.Info].
type VaultInfo struct {
	Name               string
	Account            string
	Owner              string
	FeeCollector       string
	FeeBasisPoints     uint16
	WithdrawalLimit    *big.Int
	WithdrawalTimelock time.Duration
	TotalDeposited     *big.Int
	Version            uint64
	Paused             bool
}

// Info returns a consistent snapshot of every configuration field, the
// custodied total, the version counter, and the pause state.
func (v *Vault) Info() VaultInfo {
	if v == nil {
		return VaultInfo{}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return VaultInfo{
		Name:               v.name,
		Account:            v.account,
		Owner:              v.owner,
		FeeCollector:       v.feeCollector,
		FeeBasisPoints:     v.feeBasisPoints,
		WithdrawalLimit:    new(big.Int).Set(v.withdrawalLimit),
		WithdrawalTimelock: v.withdrawalTimelock,
		TotalDeposited:     new(big.Int).Set(v.totalDeposited),
		Version:            v.version,
		Paused:             v.paused,
	}
}

// VaultBalance returns the balance the external token ledger records for the
// vault’s account. The custodied total is always at most this value.
func (v *Vault) VaultBalance(ctx context.Context) (*big.Int, error) {
	if v == nil || v.tokens == nil {
		return nil, ErrVaultNotReady
	}
	return v.tokens.BalanceOf(ctx, v.account)
}

// TotalDeposited returns the running balance custodied on behalf of all
// depositors collectively.
func (v *Vault) TotalDeposited() *big.Int {
	if v == nil {
		return new(big.Int)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return new(big.Int).Set(v.totalDeposited)
}

// CanWithdrawNow reports whether depositor’s timelock has elapsed. A
// depositor who has never withdrawn anchors at the Unix epoch, so under a
// wall clock they are always eligible; the timelock applies only between
// withdrawals. The pause gate is queried separately via [Vault.Paused].
func (v *Vault) CanWithdrawNow(depositor string) bool {
	return v.TimeUntilWithdrawal(depositor) == 0
}

// TimeUntilWithdrawal returns how long depositor must still wait before the
// next withdrawal, or zero if eligible now.
func (v *Vault) TimeUntilWithdrawal(depositor string) time.Duration {
	if v == nil || depositor == "" {
		return 0
	}

	v.mu.RLock()
	last, withdrewBefore := v.lastWithdrawal[depositor]
	timelock := v.withdrawalTimelock
	v.mu.RUnlock()

	if timelock <= 0 {
		return 0
	}
	if !withdrewBefore {
		last = time.Unix(0, 0)
	}

	remaining := timelock - v.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LastWithdrawal returns the timestamp of depositor’s most recent withdrawal.
// A depositor who has never withdrawn reports the Unix epoch and false; that
// default is what makes the first withdrawal eligible under a wall clock
// regardless of the configured timelock.
func (v *Vault) LastWithdrawal(depositor string) (time.Time, bool) {
	if v == nil {
		return time.Unix(0, 0), false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	last, ok := v.lastWithdrawal[depositor]
	if !ok {
		return time.Unix(0, 0), false
	}
	return last, true
}

// Name returns the vault’s immutable name.
func (v *Vault) Name() string {
	if v == nil {
		return ""
	}
	return v.name
}

// Account returns the ledger account holding the custodied tokens.
func (v *Vault) Account() string {
	if v == nil {
		return ""
	}
	return v.account
}

// FeeCollector returns the identity currently receiving withdrawal fees.
func (v *Vault) FeeCollector() string {
	if v == nil {
		return ""
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.feeCollector
}

// FeeBasisPoints returns the current withdrawal fee rate.
func (v *Vault) FeeBasisPoints() uint16 {
	if v == nil {
		return 0
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.feeBasisPoints
}

// WithdrawalLimit returns the current per-withdrawal cap.
func (v *Vault) WithdrawalLimit() *big.Int {
	if v == nil {
		return new(big.Int)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return new(big.Int).Set(v.withdrawalLimit)
}

// WithdrawalTimelock returns the current inter-withdrawal interval.
func (v *Vault) WithdrawalTimelock() time.Duration {
	if v == nil {
		return 0
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.withdrawalTimelock
}

// Version returns the administrative version counter. It advances by exactly
// one per administrative mutation and is untouched by deposits, withdrawals,
// and pause transitions.
func (v *Vault) Version() uint64 {
	if v == nil {
		return 0
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.version
}

// VerifyReceipt checks a receipt issued by this vault and returns its claims.
// Fails with [ErrReceiptsDisabled] when the vault was built without receipt
// signing.
func (v *Vault) VerifyReceipt(receiptToken string) (ReceiptClaims, error) {
	if v == nil {
		return ReceiptClaims{}, ErrVaultNotReady
	}
	if v.receipts == nil {
		return ReceiptClaims{}, ErrReceiptsDisabled
	}

	claims, err := v.receipts.Verify(receiptToken)
	if err != nil {
		return ReceiptClaims{}, err
	}
	return ReceiptClaims{
		ID:      claims.ID,
		Op:      claims.Op,
		Actor:   claims.Actor,
		Vault:   claims.Vault,
		Amount:  claims.Amount,
		Fee:     claims.Fee,
		Version: claims.Version,
	}, nil
}

// ReceiptClaims is the verified payload of an operation receipt.
type ReceiptClaims struct {
	ID      string
	Op      string
	Actor   string
	Vault   string
	Amount  string
	Fee     string
	Version uint64
}
