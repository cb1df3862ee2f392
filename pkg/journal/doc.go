// Package journal records the outcome of every vending transaction and
// maintenance operation.
//
// The transaction controller appends an Entry when a sale completes, a
// transaction is cancelled or aborted, or the machine is reloaded. Entries are
// an operational trail: a failing Recorder is logged by the controller but
// never fails the customer's transaction.
//
// Backends:
//
//   - Memory: in-process, used by tests and the default daemon driver.
//   - redisjournal: Redis stream plus per-kind counters.
//   - pgjournal: PostgreSQL table managed with goose migrations.
//   - mongojournal: MongoDB collection.
//
// Every backend implements both Recorder and Reader.
package journal
