package goVault

import (
	"context"
	"errors"
	"testing"
)

func TestPauseByOwner(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)

	if err := f.vault.Pause(ctx, "owner"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if !f.vault.Paused() {
		t.Fatal("vault should be paused")
	}
	f.waitEvent(t, auditEventPaused)
}

func TestPauseByOperator(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	if err := f.vault.AddOperator(ctx, "owner", "carol"); err != nil {
		t.Fatalf("add operator failed: %v", err)
	}

	if err := f.vault.Pause(ctx, "carol"); err != nil {
		t.Fatalf("operator pause failed: %v", err)
	}
	if !f.vault.Paused() {
		t.Fatal("vault should be paused")
	}
}

func TestPauseRejectsStranger(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)

	if err := f.vault.Pause(ctx, "mallory"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if err := f.vault.Pause(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty caller error = %v, want ErrUnauthorized", err)
	}
	if f.vault.Paused() {
		t.Fatal("vault should not be paused")
	}
}

func TestPauseTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)

	if err := f.vault.Pause(ctx, "owner"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	f.waitEvent(t, auditEventPaused)

	if err := f.vault.Pause(ctx, "owner"); err != nil {
		t.Fatalf("second pause failed: %v", err)
	}
	// Only the first transition emits an event.
	f.assertNoEvent(t, auditEventPaused)
}

func TestUnpauseOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	if err := f.vault.AddOperator(ctx, "owner", "carol"); err != nil {
		t.Fatalf("add operator failed: %v", err)
	}
	if err := f.vault.Pause(ctx, "carol"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	// The operator who halted the system cannot resume it.
	if err := f.vault.Unpause(ctx, "carol"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("operator unpause error = %v, want ErrUnauthorized", err)
	}
	if err := f.vault.Unpause(ctx, "owner"); err != nil {
		t.Fatalf("owner unpause failed: %v", err)
	}
	if f.vault.Paused() {
		t.Fatal("vault should be unpaused")
	}
}

func TestUnpauseActiveVaultIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)

	if err := f.vault.Unpause(ctx, "owner"); err != nil {
		t.Fatalf("unpause failed: %v", err)
	}
	f.assertNoEvent(t, auditEventUnpaused)
}

func TestPauseBlocksFlowsButNotAdmin(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 100)

	if err := f.vault.Pause(ctx, "owner"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	if err := f.vault.Deposit(ctx, "alice", tokenAmount(10)); !errors.Is(err, ErrPaused) {
		t.Fatalf("deposit error = %v, want ErrPaused", err)
	}
	if err := f.vault.Withdraw(ctx, "alice", tokenAmount(10)); !errors.Is(err, ErrPaused) {
		t.Fatalf("withdraw error = %v, want ErrPaused", err)
	}
	// Administration stays available while paused.
	if err := f.vault.SetFeePercentage(ctx, "owner", 50); err != nil {
		t.Fatalf("set fee while paused failed: %v", err)
	}
	if err := f.vault.AddOperator(ctx, "owner", "carol"); err != nil {
		t.Fatalf("add operator while paused failed: %v", err)
	}
}
