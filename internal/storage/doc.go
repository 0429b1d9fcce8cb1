// Package storage provides an optional persistence layer for delivery history.
//
// It currently supports:
//   - Append-only delivery records (what was pushed, when, where)
//   - Recent-history queries for the /sheep history command
//
// Storage is strictly best-effort: dedup and destination state live in memory
// and the bot works with storage disabled.
package storage
