package goVault

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goVault/ledger"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func tokenAmount(n int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), unit)
}

type vaultFixture struct {
	vault  *Vault
	tokens *ledger.MemoryLedger
	clock  *testClock
	sink   *ChannelSink
}

// newTestVault builds a vault against an in-memory ledger with a simulated
// clock starting at the Unix epoch: fee 1%, limit 10000 tokens, timelock 24h.
func newTestVault(t *testing.T, mutate func(cfg *Config)) *vaultFixture {
	t.Helper()

	cfg := Config{}
	cfg.Vault.Name = "test-vault"
	cfg.Vault.FeeCollector = "treasury"
	cfg.Vault.FeeBasisPoints = 100
	cfg.Vault.WithdrawalLimit = tokenAmount(10000)
	cfg.Vault.WithdrawalTimelock = 24 * time.Hour
	cfg.Audit = AuditConfig{Enabled: true, BufferSize: 128}
	cfg.Metrics = MetricsConfig{Enabled: true, EnableLatencyHistograms: true}
	if mutate != nil {
		mutate(&cfg)
	}

	tokens := ledger.NewMemoryLedger()
	clock := newTestClock(time.Unix(0, 0))
	sink := NewChannelSink(128)

	vault, err := New().
		WithConfig(cfg).
		WithOwner("owner").
		WithLedger(tokens).
		WithAuditSink(sink).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(vault.Close)

	return &vaultFixture{
		vault:  vault,
		tokens: tokens,
		clock:  clock,
		sink:   sink,
	}
}

// fund mints n tokens to account and approves the vault to pull them.
func (f *vaultFixture) fund(t *testing.T, account string, n int64) {
	t.Helper()

	ctx := context.Background()
	if err := f.tokens.Mint(ctx, account, tokenAmount(n)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := f.tokens.Approve(ctx, account, f.vault.Account(), tokenAmount(n)); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
}

func (f *vaultFixture) deposit(t *testing.T, account string, n int64) {
	t.Helper()

	if err := f.vault.Deposit(context.Background(), account, tokenAmount(n)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
}

func (f *vaultFixture) balance(t *testing.T, account string) *big.Int {
	t.Helper()

	b, err := f.tokens.BalanceOf(context.Background(), account)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	return b
}

// waitEvent reads sink events until one of the given type arrives, skipping
// unrelated ones. Emission is asynchronous through the dispatcher.
func (f *vaultFixture) waitEvent(t *testing.T, eventType string) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-f.sink.Events():
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", eventType)
			return Event{}
		}
	}
}

// assertNoEvent drains the dispatcher and fails if an event of the given type
// was recorded.
func (f *vaultFixture) assertNoEvent(t *testing.T, eventType string) {
	t.Helper()

	f.vault.Close()
	for {
		select {
		case event := <-f.sink.Events():
			if event.EventType == eventType {
				t.Fatalf("unexpected %q event: %+v", eventType, event)
			}
		default:
			return
		}
	}
}

func equalAmount(t *testing.T, got *big.Int, want *big.Int, label string) {
	t.Helper()

	if got.Cmp(want) != 0 {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}
