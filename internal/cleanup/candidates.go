package cleanup

import "time"

const day = 24 * time.Hour

// Cutoff is the instant before which items of the given retention class
// are eligible. An item is a candidate iff its age exceeds the
// threshold, i.e. its reference time is strictly before the cutoff.
func Cutoff(now time.Time, retentionDays int) time.Time {
	return now.Add(-time.Duration(retentionDays) * day)
}

// AgeDays is the item age in whole days at the given instant.
func AgeDays(now, ref time.Time) int {
	if ref.After(now) {
		return 0
	}
	return int(now.Sub(ref) / day)
}

// Eligible implements the retention rule: age > threshold. At exactly
// the threshold the item is kept.
func Eligible(now, ref time.Time, retentionDays int) bool {
	return ref.Before(Cutoff(now, retentionDays))
}
