package accounts

import "time"

// IsWithinThresholdPeriod checks if the given time is within the window
// ending now.
func IsWithinThresholdPeriod(t time.Time, window time.Duration) bool {
	threshold := time.Now().Add(-window)
	return t.After(threshold)
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, window time.Duration) bool {
	return !IsWithinThresholdPeriod(t, window)
}

// IsExpiredAt reports whether a deadline has passed. The boundary instant
// counts as expired.
func IsExpiredAt(now, expiresAt time.Time) bool {
	return !now.Before(expiresAt)
}
