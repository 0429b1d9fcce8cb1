// Package scheduler provides an in-process task scheduler used by perkbot
// services and plugins.
//
// # Overview
//
// The scheduler runs user-provided jobs on a configurable worker pool. Jobs
// are registered under a logical name (e.g. "sheep:recheck"). Names are
// intended to be stable and human readable so that tasks can be replaced
// (upserted) and removed deterministically.
//
// # Schedule formats
//
//   - Cron expressions: 5-field (min hour dom mon dow) or 6-field with
//     optional seconds. Example: "55 * * * *" or "0 */5 * * * *".
//   - Cron descriptors: "@hourly", "@daily", "@every 55m".
//   - AddInterval and AddDaily wrap common cases (fixed interval, daily at
//     HH:MM in the scheduler timezone).
//
// # Concurrency and overlap
//
// Jobs run on a worker pool. A run is skipped when the previous run of the
// same schedule is still executing. A per-job timeout is applied to each run,
// and failed runs are retried with jittered exponential backoff.
//
// # Lifecycle
//
// The Service can be started/stopped at runtime (e.g. via config hot reload).
// Registering tasks while stopped is supported: definitions are stored and
// applied on the next start.
package scheduler
