package goVault

import (
	"math/big"
	"sync"
	"time"

	"github.com/MrEthical07/goVault/ledger"
	"github.com/MrEthical07/goVault/receipt"
)

// Vault defines a public type used by goVault APIs.
//
// Vault is the custodial aggregate: the total custodied balance, the
// per-depositor withdrawal-timing state, the configured limits, and the
// owner/operator registry. Vault instances are created through
// [Builder.Build] and are safe for concurrent use; every state-mutating
// operation holds a call-scoped exclusive guard for its full duration,
// including external ledger callouts, and rejects recursive entry with
// [ErrReentrantCall].
type Vault struct {
	config  Config
	name    string
	account string
	tokens  ledger.Ledger

	guard callGuard

	mu                 sync.RWMutex
	owner              string
	operators          map[string]struct{}
	feeCollector       string
	feeBasisPoints     uint16
	withdrawalLimit    *big.Int
	withdrawalTimelock time.Duration
	totalDeposited     *big.Int
	lastWithdrawal     map[string]time.Time
	version            uint64
	paused             bool

	audit    *auditDispatcher
	metrics  *Metrics
	receipts *receipt.Signer
	now      func() time.Time
}

// Close describes the close operation and its observable behavior.
//
// Close drains and stops the audit dispatcher. It is safe to call more than
// once and safe on a nil receiver.
func (v *Vault) Close() {
	if v == nil {
		return
	}
	if v.audit != nil {
		v.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (v *Vault) AuditDropped() uint64 {
	if v == nil || v.audit == nil {
		return 0
	}
	return v.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (v *Vault) MetricsSnapshot() MetricsSnapshot {
	if v == nil || v.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return v.metrics.Snapshot()
}

func (v *Vault) metricInc(id MetricID) {
	if v == nil || v.metrics == nil {
		return
	}
	v.metrics.Inc(id)
}

func (v *Vault) metricObserve(id MetricID, d time.Duration) {
	if v == nil || v.metrics == nil {
		return
	}
	v.metrics.Observe(id, d)
}

// issueReceipt signs a receipt for an operation that has already committed.
// The signer's keys are validated at Build, so failures here are limited to
// key material being revoked out from under the process.
func (v *Vault) issueReceipt(op, actor string, amount, fee *big.Int, version uint64, at time.Time) (string, error) {
	feeStr := ""
	if fee != nil && fee.Sign() > 0 {
		feeStr = fee.String()
	}
	signed, err := v.receipts.Issue(op, actor, v.name, amount.String(), feeStr, version, at)
	if err != nil {
		return "", err
	}
	v.metricInc(MetricReceiptIssued)
	return signed, nil
}
