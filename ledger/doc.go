// Package ledger implements an append-only, hash-chained log of what the
// dealer decided during a game.
//
// # Core Components
//
// Ledger: the chain itself, safe for concurrent use.
//
// Block: one recorded Entry, linked to its predecessor by hash.
//
// # Security Properties
//
// Every block stores the SHA-256 of its own content and of the previous
// block, so editing or dropping a recorded verdict breaks Verify. The log is
// kept in memory for the lifetime of a game; persisting it is left to the
// caller, which can marshal Blocks to JSON.
package ledger
