// Package agenda serves the filtered, date-ordered task listing with
// lookaside caching, and provides the invalidation hook every task-mutating
// operation must call.
//
// Cache keys embed a per-owner generation counter, so bumping the counter
// on invalidation instantly orphans every cached view for that owner,
// filtered views included. Orphaned entries are reclaimed by TTL expiry.
// The cache is never authoritative: any cache failure degrades to querying
// the persistent store directly (fail-open), and every store query is
// owner-scoped, so a colliding or stale key can never leak another owner's
// tasks.
package agenda
