package goVault

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/MrEthical07/goVault/ledger"
)

func TestDepositMovesTokensIntoCustody(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 1000)

	if err := f.vault.Deposit(ctx, "alice", tokenAmount(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	equalAmount(t, f.vault.TotalDeposited(), tokenAmount(1000), "total deposited")
	equalAmount(t, f.balance(t, "alice"), big.NewInt(0), "alice balance")
	equalAmount(t, f.balance(t, f.vault.Account()), tokenAmount(1000), "vault balance")

	event := f.waitEvent(t, auditEventDeposited)
	if event.Actor != "alice" {
		t.Fatalf("event actor = %q, want alice", event.Actor)
	}
	if event.Amount != tokenAmount(1000).String() {
		t.Fatalf("event amount = %q, want %s", event.Amount, tokenAmount(1000))
	}
}

func TestDepositAccumulatesAcrossDepositors(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 600)
	f.fund(t, "bob", 400)

	if err := f.vault.Deposit(ctx, "alice", tokenAmount(600)); err != nil {
		t.Fatalf("alice deposit failed: %v", err)
	}
	if err := f.vault.Deposit(ctx, "bob", tokenAmount(400)); err != nil {
		t.Fatalf("bob deposit failed: %v", err)
	}

	equalAmount(t, f.vault.TotalDeposited(), tokenAmount(1000), "total deposited")
}

func TestDepositRejectsInvalidAmount(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 100)

	cases := []*big.Int{nil, big.NewInt(0), big.NewInt(-1)}
	for _, amount := range cases {
		if err := f.vault.Deposit(ctx, "alice", amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("deposit(%v) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if f.vault.TotalDeposited().Sign() != 0 {
		t.Fatalf("total deposited = %s, want 0", f.vault.TotalDeposited())
	}
}

func TestDepositRejectsWhilePaused(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 100)

	if err := f.vault.Pause(ctx, "owner"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := f.vault.Deposit(ctx, "alice", tokenAmount(100)); !errors.Is(err, ErrPaused) {
		t.Fatalf("deposit error = %v, want ErrPaused", err)
	}
	if got := f.vault.MetricsSnapshot().Counters[MetricPausedRejection]; got != 1 {
		t.Fatalf("paused rejections = %d, want 1", got)
	}
}

func TestDepositFailsAtomicallyWithoutAllowance(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	// Mint without approving the vault as spender.
	if err := f.tokens.Mint(ctx, "alice", tokenAmount(100)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	err := f.vault.Deposit(ctx, "alice", tokenAmount(100))
	if !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("deposit error = %v, want ErrTransferFailed", err)
	}
	if !errors.Is(err, ledger.ErrInsufficientAllowance) {
		t.Fatalf("deposit error = %v, want wrapped ErrInsufficientAllowance", err)
	}

	if f.vault.TotalDeposited().Sign() != 0 {
		t.Fatalf("total deposited = %s, want 0 after failed deposit", f.vault.TotalDeposited())
	}
	equalAmount(t, f.balance(t, "alice"), tokenAmount(100), "alice balance")
	f.assertNoEvent(t, auditEventDeposited)
}

func TestDepositFailsAtomicallyWithoutFunds(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 50)
	if err := f.tokens.Approve(ctx, "alice", f.vault.Account(), tokenAmount(100)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	err := f.vault.Deposit(ctx, "alice", tokenAmount(100))
	if !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("deposit error = %v, want ErrTransferFailed", err)
	}
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("deposit error = %v, want wrapped ErrInsufficientFunds", err)
	}
	if f.vault.TotalDeposited().Sign() != 0 {
		t.Fatalf("total deposited = %s, want 0 after failed deposit", f.vault.TotalDeposited())
	}
}

func TestDepositRejectsEmptyCaller(t *testing.T) {
	f := newTestVault(t, nil)

	if err := f.vault.Deposit(context.Background(), "", tokenAmount(1)); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("deposit error = %v, want ErrInvalidAddress", err)
	}
}

func TestDepositDoesNotMutateCallerAmount(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 100)

	amount := tokenAmount(100)
	want := new(big.Int).Set(amount)
	if err := f.vault.Deposit(ctx, "alice", amount); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	equalAmount(t, amount, want, "caller amount")
}

func TestDepositDoesNotArmTimelock(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 100)

	if err := f.vault.Deposit(ctx, "alice", tokenAmount(100)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, ok := f.vault.LastWithdrawal("alice"); ok {
		t.Fatal("deposit recorded a withdrawal timestamp")
	}
}
