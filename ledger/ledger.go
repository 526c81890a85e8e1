package ledger

import (
	"context"
	"errors"
	"math/big"
)

var (
	// ErrInsufficientFunds is an exported constant or variable used by the vault engine.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientAllowance is an exported constant or variable used by the vault engine.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrInvalidAmount is an exported constant or variable used by the vault engine.
	ErrInvalidAmount = errors.New("invalid ledger amount")
	// ErrInvalidAccount is an exported constant or variable used by the vault engine.
	ErrInvalidAccount = errors.New("invalid ledger account")
	// ErrUnavailable is an exported constant or variable used by the vault engine.
	ErrUnavailable = errors.New("ledger backend unavailable")
)

// Entry is one leg of a multi-leg transfer.
type Entry struct {
	From   string
	To     string
	Amount *big.Int
}

// Ledger is the transfer primitive the vault custodies tokens through.
// Implementations must make every method atomic: a failed call leaves
// balances and allowances exactly as they were.
type Ledger interface {
	// BalanceOf returns the balance of account. Unknown accounts hold zero.
	BalanceOf(ctx context.Context, account string) (*big.Int, error)

	// Transfer moves amount from one account to another. Fails with
	// ErrInsufficientFunds when the source balance is too small.
	Transfer(ctx context.Context, from, to string, amount *big.Int) error

	// TransferFrom moves amount from `from` to `to` on behalf of spender,
	// consuming spender's allowance granted by `from`. Fails with
	// ErrInsufficientAllowance or ErrInsufficientFunds.
	TransferFrom(ctx context.Context, spender, from, to string, amount *big.Int) error

	// TransferBatch applies every entry or none of them.
	TransferBatch(ctx context.Context, entries []Entry) error

	// Approve grants spender the right to move up to amount from owner's
	// balance via TransferFrom. A new approval replaces the previous one.
	Approve(ctx context.Context, owner, spender string, amount *big.Int) error

	// Allowance returns the remaining amount spender may move from owner.
	Allowance(ctx context.Context, owner, spender string) (*big.Int, error)
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func validAccount(account string) error {
	if account == "" {
		return ErrInvalidAccount
	}
	return nil
}

func validEntries(entries []Entry) error {
	if len(entries) == 0 {
		return ErrInvalidAmount
	}
	for _, e := range entries {
		if err := validAccount(e.From); err != nil {
			return err
		}
		if err := validAccount(e.To); err != nil {
			return err
		}
		if err := validAmount(e.Amount); err != nil {
			return err
		}
	}
	return nil
}
