// Package clock provides the queue's single wall-clock source: UTC "now",
// ISO-8601 string encoding, and the fixed-offset local-to-UTC conversion
// used when a caller supplies a run_at timestamp with no timezone
// designator.
//
// Timestamps are stored and compared as ISO-8601 UTC strings throughout
// the store; lexicographic ordering on that format equals chronological
// ordering, which is what lets the store sort and filter by time using
// plain string comparison.
package clock
