// Package ledger implements the append-only ledger that bingo operations
// execute on.
//
// # Core Components
//
// Blockchain: a hash-chained log of committed operations together with the
// account balances those operations moved. It runs one operation at a time.
//
// Block: one committed operation, with the events it emitted, the transfers
// it made and a cryptographic link to the previous block.
//
// Tx: the view an operation has of the ledger while it runs: the caller, the
// value the caller attached, the ledger clock, per-operation entropy and
// escrow primitives.
//
// # Security Properties
//
// The blockchain provides:
//   - Atomicity: an operation that fails leaves no block, no transfer and no event
//   - Verifiability: anyone can verify the integrity of the entire chain
//   - Auditability: the entropy of every operation is derived from the
//     previous block hash and the operation id, both recorded on chain
//   - Tamper detection: any modification breaks the hash chain
package ledger
