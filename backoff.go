package queue

import (
	"math"
	"time"
)

// computeBackoff computes the retry delay as backoff_base ^ attempts
// seconds, where attempts is the attempt number about to be recorded
// (1-based, after increment). The caller reads base from Config on every
// failed attempt, not cached, matching the Config component's "reads are
// per-use" contract.
func computeBackoff(base float64, attempts uint32) time.Duration {
	if base <= 0 {
		base = 1
	}
	seconds := math.Pow(base, float64(attempts))
	return time.Duration(seconds * float64(time.Second))
}
