package domain

import "time"

// FromLineTimestamp converts a LINE webhook timestamp (epoch milliseconds) to time.Time.
func FromLineTimestamp(millis int64) time.Time {
	return time.UnixMilli(millis)
}
