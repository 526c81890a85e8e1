package goVault

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goVault/ledger"
)

// reentrantLedger calls back into the vault from inside a transfer, the way
// a malicious token contract would.
type reentrantLedger struct {
	*ledger.MemoryLedger
	vault   *Vault
	reentry error
	entered bool
}

func (l *reentrantLedger) TransferBatch(ctx context.Context, entries []ledger.Entry) error {
	if !l.entered {
		l.entered = true
		l.reentry = l.vault.Withdraw(ctx, "alice", tokenAmount(1))
	}
	return l.MemoryLedger.TransferBatch(ctx, entries)
}

func TestGuardRejectsReentrantCall(t *testing.T) {
	ctx := context.Background()
	tokens := &reentrantLedger{MemoryLedger: ledger.NewMemoryLedger()}
	clock := newTestClock(time.Unix(0, 0))

	cfg := Config{}
	cfg.Vault.Name = "test-vault"
	cfg.Vault.FeeCollector = "treasury"
	cfg.Vault.WithdrawalLimit = tokenAmount(10000)
	cfg.Vault.WithdrawalTimelock = 24 * time.Hour
	cfg.Audit = AuditConfig{Enabled: false}
	cfg.Metrics = MetricsConfig{Enabled: true}

	vault, err := New().
		WithConfig(cfg).
		WithOwner("owner").
		WithLedger(tokens).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer vault.Close()
	tokens.vault = vault

	if err := tokens.Mint(ctx, "alice", tokenAmount(1000)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := tokens.Approve(ctx, "alice", vault.Account(), tokenAmount(1000)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := vault.Deposit(ctx, "alice", tokenAmount(1000)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	clock.Advance(25 * time.Hour)

	// The outer withdrawal succeeds; the nested one is rejected, not queued.
	if err := vault.Withdraw(ctx, "alice", tokenAmount(100)); err != nil {
		t.Fatalf("outer withdraw failed: %v", err)
	}
	if !tokens.entered {
		t.Fatal("reentrant callback never ran")
	}
	if !errors.Is(tokens.reentry, ErrReentrantCall) {
		t.Fatalf("nested call error = %v, want ErrReentrantCall", tokens.reentry)
	}
	if got := vault.MetricsSnapshot().Counters[MetricGuardRejection]; got != 1 {
		t.Fatalf("guard rejections = %d, want 1", got)
	}
	equalAmount(t, vault.TotalDeposited(), tokenAmount(900), "total after outer withdraw")
}

func TestGuardSerializesConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, func(cfg *Config) {
		cfg.Vault.WithdrawalTimelock = 0
		cfg.Vault.FeeBasisPoints = 0
	})
	f.fund(t, "alice", 1000)
	f.deposit(t, "alice", 1000)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := f.vault.Withdraw(ctx, "alice", tokenAmount(10))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrReentrantCall) {
				t.Errorf("withdraw error = %v, want nil or ErrReentrantCall", err)
			}
		}()
	}
	wg.Wait()

	if succeeded == 0 {
		t.Fatal("no withdrawal got through")
	}
	want := tokenAmount(int64(1000 - 10*succeeded))
	equalAmount(t, f.vault.TotalDeposited(), want, "total after concurrent withdrawals")
}

func TestGuardReleasedAfterFailure(t *testing.T) {
	ctx := context.Background()
	f := newTestVault(t, nil)
	f.fund(t, "alice", 1000)
	f.deposit(t, "alice", 1000)

	// A rejected call must release the guard for the next one.
	if err := f.vault.Withdraw(ctx, "alice", tokenAmount(99999)); err == nil {
		t.Fatal("expected over-limit withdraw to fail")
	}
	f.clock.Advance(25 * time.Hour)
	if err := f.vault.Withdraw(ctx, "alice", tokenAmount(100)); err != nil {
		t.Fatalf("withdraw after failed call: %v", err)
	}
}

func TestGuardAcquireRelease(t *testing.T) {
	var g callGuard

	if !g.acquire() {
		t.Fatal("first acquire should succeed")
	}
	if g.acquire() {
		t.Fatal("second acquire should fail while held")
	}
	g.release()
	if !g.acquire() {
		t.Fatal("acquire after release should succeed")
	}
}
