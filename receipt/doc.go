// Package receipt issues and verifies signed operation receipts for vault
// state transitions.
//
// A receipt is a compact JWS (golang-jwt/v5) whose claims bind the operation
// kind, actor, gross amount, fee, vault name, and post-operation version
// counter. Off-box auditors verify receipts with the vault’s public key and
// need no access to the vault process itself.
//
// # What this package must NOT do
//
//   - Hold vault state or make authorization decisions.
//   - Import goVault (the root package depends on receipt, never the reverse).
package receipt
