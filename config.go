package goVault

import (
	"errors"
	"math/big"
	"strings"
	"time"
)

// Config defines a public type used by goVault APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Vault   VaultConfig
	Audit   AuditConfig
	Metrics MetricsConfig
	Receipt ReceiptConfig
}

/*
====================================
VAULT CONFIG
====================================
*/

// VaultConfig defines a public type used by goVault APIs.
//
// VaultConfig carries the construction parameters of the custodial account:
// its immutable name and ledger account, the initial fee collector, fee rate,
// per-withdrawal limit, and withdrawal timelock.
type VaultConfig struct {
	// Name is the immutable human-readable identity of the vault. It appears
	// on every audit event and receipt.
	Name string

	// Account is the ledger account that holds custodied tokens. When empty,
	// Build derives "vault:<Name>".
	Account string

	// FeeCollector receives the fee leg of every withdrawal. Must be non-empty.
	FeeCollector string

	// FeeBasisPoints is the withdrawal fee rate on the 0–10000 scale
	// (100 = 1%). Must not exceed MaxFeeBasisPoints.
	FeeBasisPoints uint16

	// WithdrawalLimit caps the gross amount of a single withdrawal. Zero (or
	// nil) is legal and fully restrictive.
	WithdrawalLimit *big.Int

	// WithdrawalTimelock is the minimum interval between two withdrawals by
	// the same depositor.
	WithdrawalTimelock time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goVault APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goVault APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
RECEIPT CONFIG
====================================
*/

// ReceiptConfig defines a public type used by goVault APIs.
//
// ReceiptConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ReceiptConfig struct {
	Enabled       bool
	SigningMethod string // "ed25519" (default), "hs256" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

func defaultConfig() Config {
	return Config{
		Vault: VaultConfig{
			WithdrawalLimit:    big.NewInt(0),
			WithdrawalTimelock: 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Receipt: ReceiptConfig{
			SigningMethod: "ed25519",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Vault.WithdrawalLimit != nil {
		out.Vault.WithdrawalLimit = new(big.Int).Set(cfg.Vault.WithdrawalLimit)
	}
	out.Receipt.PrivateKey = cloneBytes(cfg.Receipt.PrivateKey)
	out.Receipt.PublicKey = cloneBytes(cfg.Receipt.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation fails.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Vault.Name) == "" {
		return errors.New("vault name required")
	}
	if strings.TrimSpace(c.Vault.FeeCollector) == "" {
		return ErrInvalidAddress
	}
	if c.Vault.FeeBasisPoints > MaxFeeBasisPoints {
		return ErrFeeExceedsMaximum
	}
	if c.Vault.WithdrawalLimit != nil && c.Vault.WithdrawalLimit.Sign() < 0 {
		return errors.New("withdrawal limit must not be negative")
	}
	if c.Vault.WithdrawalTimelock < 0 {
		return errors.New("withdrawal timelock must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	return nil
}
