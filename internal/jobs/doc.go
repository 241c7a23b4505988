// Package jobs runs best-effort background work outside the request path.
// It provides a bounded in-memory queue drained by a pool of workers, plus
// the email notification jobs that consume account events. Job failures are
// logged and never propagate to the request that spawned them.
package jobs
