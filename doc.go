// Package goVault provides a custodial vault ledger for fungible tokens with
// role-gated administration, withdrawal throttling, basis-point fee extraction,
// and an append-only audit event log.
//
// The package is designed for concurrent server workloads: Vault methods are safe to
// call from multiple goroutines after initialization through [Builder.Build], and every
// state-mutating operation is serialized by a call-scoped reentrancy guard.
//
// # Architecture boundaries
//
// goVault is the public surface. It exposes [Vault], [Builder], [Config], error
// variables, audit event types, and value types (VaultInfo, MetricsSnapshot, etc.).
// The external token ledger is a collaborator behind the [ledger.Ledger] interface;
// goVault never owns token balances, it only custodies them through that interface.
//
// # What this package must NOT do
//
//   - Expose Redis clients, ledger storage details, or signing keys in its public API.
//   - Perform I/O outside of Vault methods (construction via Builder is allocation-only
//     until Build).
//   - Emit audit events for failed operations. A failed call leaves vault state
//     unchanged and unobserved.
//
// # Transactional contract
//
// Deposit, Withdraw, and EmergencyWithdraw are all-or-nothing at the call boundary.
// Any failed precondition or failed external transfer unwinds every mutation performed
// earlier in that same call; there is no partial-commit state.
package goVault
