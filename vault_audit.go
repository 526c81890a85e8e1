package goVault

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventVaultCreated         = "vault_created"
	auditEventDeposited            = "deposited"
	auditEventWithdrawn            = "withdrawn"
	auditEventEmergencyWithdrawal  = "emergency_withdrawal"
	auditEventFeeUpdated           = "fee_updated"
	auditEventFeeCollectorUpdated  = "fee_collector_updated"
	auditEventLimitUpdated         = "withdrawal_limit_updated"
	auditEventTimelockUpdated      = "timelock_updated"
	auditEventOperatorAdded        = "operator_added"
	auditEventOperatorRemoved      = "operator_removed"
	auditEventPaused               = "paused"
	auditEventUnpaused             = "unpaused"
	auditEventOwnershipTransferred = "ownership_transferred"
)

// emitAudit records a successful state transition. Failed calls never reach
// this path: the event log carries no record of failed attempts.
func (v *Vault) emitAudit(
	ctx context.Context,
	eventType string,
	actor string,
	amount *big.Int,
	at time.Time,
	metadataBuilder func() map[string]string,
) {
	if v == nil || v.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata["request_id"] = rid
	}

	event := Event{
		ID:        uuid.NewString(),
		Timestamp: at.UTC(),
		EventType: eventType,
		Vault:     v.name,
		Actor:     actor,
		IP:        clientIPFromContext(ctx),
		Metadata:  metadata,
	}
	if amount != nil {
		event.Amount = amount.String()
	}

	v.audit.Emit(ctx, event)
}

func formatUint16(v uint16) string {
	return strconv.FormatUint(uint64(v), 10)
}
