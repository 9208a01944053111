// Package audit records eligibility decisions for later review.
//
// Every evaluation can be written as an audit record: which scheme
// version decided, what the verdict was, which clauses failed, and
// which low-confidence fallback rules were in play. Records carry the
// program's content hash and the registry version so a decision can be
// traced to the exact definitions that produced it even after a hot
// reload.
//
// Storage is SQLite. The retention scheduler prunes old records on a
// cron schedule so the database does not grow without bound.
package audit
