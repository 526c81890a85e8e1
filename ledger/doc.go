// Package ledger defines the external fungible-token ledger collaborator and
// two implementations of it: an in-memory ledger for tests and single-process
// deployments, and a Redis-backed ledger for shared deployments.
//
// The ledger exclusively owns token balances. The vault never mutates a
// balance directly; it requests transfers and observes their success or
// failure. Amounts are non-negative arbitrary-precision integers (*big.Int);
// token amounts at 10^18 scale do not fit machine words.
//
// # Atomicity
//
// Transfer, TransferFrom, and TransferBatch are all-or-nothing: either every
// leg applies or the ledger is left untouched. TransferBatch exists so that a
// multi-leg movement (fee leg plus net leg of a withdrawal) cannot be observed
// or persisted half-applied.
//
// # What this package must NOT do
//
//   - Apply vault policy (fees, limits, timelocks, roles). It moves tokens,
//     nothing else.
//   - Import goVault or any sibling package.
package ledger
