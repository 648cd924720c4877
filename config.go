package queue

import "context"

// Config default keys and their seeded values.
const (
	KeyMaxRetries          = "max_retries"
	KeyBackoffBase         = "backoff_base"
	KeyJobTimeout          = "job_timeout"
	KeyRetentionCron       = "retention_cron"
	KeyRetentionAgeSeconds = "retention_age_seconds"

	DefaultMaxRetries          = "3"
	DefaultBackoffBase         = "2"
	DefaultJobTimeout          = "300"
	DefaultRetentionCron       = "0 */15 * * * *"
	DefaultRetentionAgeSeconds = "604800"
)

// ConfigStore is a named-scalar configuration store, read-through with
// caller-supplied defaults.
//
// Reads are performed per-use; ConfigStore does not cache values, so a
// Set from one process is visible to the next Get from any other.
type ConfigStore interface {

	// Get returns the string value stored for key, or fallback if key is
	// unset.
	Get(ctx context.Context, key string, fallback string) (string, error)

	// Set upserts key to value.
	Set(ctx context.Context, key string, value string) error
}
