package domain

import "time"

// ElapsedDays returns the number of whole 24-hour periods between
// updatedAt and now, compared as UTC instants. A negative difference
// (clock skew) counts as zero elapsed days, never as growth.
func ElapsedDays(now, updatedAt time.Time) int {
	diff := now.UTC().Sub(updatedAt.UTC())
	if diff < 0 {
		return 0
	}
	return int(diff / (24 * time.Hour))
}

// DecayStep computes the post-decay expiry days and status for a single
// item. Decay applies at most once per elapsed day: when less than one
// full day has passed since updatedAt the item is returned unchanged and
// changed is false, which makes repeated invocation within the same day
// a no-op. Expiry days never go below zero.
func DecayStep(now, updatedAt time.Time, expiryDays int) (newExpiryDays int, status Status, changed bool) {
	elapsed := ElapsedDays(now, updatedAt)
	if elapsed < 1 {
		return expiryDays, Classify(&expiryDays), false
	}

	newExpiryDays = expiryDays - elapsed
	if newExpiryDays < 0 {
		newExpiryDays = 0
	}
	return newExpiryDays, Classify(&newExpiryDays), true
}
