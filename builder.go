package goVault

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/MrEthical07/goVault/ledger"
	"github.com/MrEthical07/goVault/receipt"
)

// Builder defines a public type used by goVault APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	tokens ledger.Ledger
	owner  string

	auditSink Sink
	clock     func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder’s configuration with a deep copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithLedger sets the external token ledger the vault custodies through.
func (b *Builder) WithLedger(tokens ledger.Ledger) *Builder {
	b.tokens = tokens
	return b
}

// WithOwner sets the deployer identity. The deployer becomes owner and first
// operator of the vault.
func (b *Builder) WithOwner(owner string) *Builder {
	b.owner = owner
	return b
}

// WithAuditSink sets the sink that receives the vault’s audit events.
func (b *Builder) WithAuditSink(sink Sink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the vault’s time source. Timelocks compare against this
// clock at call time; tests use it to advance time deterministically.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithMetricsEnabled toggles in-process metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the withdraw latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Vault, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.tokens == nil {
		return nil, errors.New("token ledger required")
	}
	if strings.TrimSpace(b.owner) == "" {
		return nil, errors.New("owner identity required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	account := strings.TrimSpace(cfg.Vault.Account)
	if account == "" {
		account = "vault:" + cfg.Vault.Name
	}

	limit := new(big.Int)
	if cfg.Vault.WithdrawalLimit != nil {
		limit.Set(cfg.Vault.WithdrawalLimit)
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	v := &Vault{
		config:             cloneConfig(cfg),
		name:               cfg.Vault.Name,
		account:            account,
		tokens:             b.tokens,
		owner:              b.owner,
		operators:          make(map[string]struct{}),
		feeCollector:       cfg.Vault.FeeCollector,
		feeBasisPoints:     cfg.Vault.FeeBasisPoints,
		withdrawalLimit:    limit,
		withdrawalTimelock: cfg.Vault.WithdrawalTimelock,
		totalDeposited:     new(big.Int),
		lastWithdrawal:     make(map[string]time.Time),
		now:                clock,
	}

	v.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	v.metrics = NewMetrics(cfg.Metrics)

	if cfg.Receipt.Enabled {
		signer, err := receipt.NewSigner(receipt.Config{
			SigningMethod: receipt.SigningMethod(cfg.Receipt.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Receipt.PrivateKey),
			PublicKey:     cloneBytes(cfg.Receipt.PublicKey),
			Issuer:        cfg.Receipt.Issuer,
		})
		if err != nil {
			return nil, err
		}
		v.receipts = signer
	}

	b.built = true

	v.emitAudit(context.Background(), auditEventVaultCreated, b.owner, nil, v.now(), func() map[string]string {
		return map[string]string{
			"account":       account,
			"fee_bps":       formatUint16(v.feeBasisPoints),
			"fee_collector": v.feeCollector,
			"limit":         limit.String(),
			"timelock":      v.withdrawalTimelock.String(),
		}
	})

	return v, nil
}
