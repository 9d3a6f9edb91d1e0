package interval

import (
	"fmt"
	"time"
)

// Interval represents a fixed time interval used to bucket ticks into windows.
type Interval struct {
	Name     string
	Duration time.Duration
}

// Named window durations. Any positive duration works through FromDuration.
var (
	Interval1s  = Interval{Name: "1s", Duration: time.Second}
	Interval5s  = Interval{Name: "5s", Duration: 5 * time.Second}
	Interval15s = Interval{Name: "15s", Duration: 15 * time.Second}
	Interval1m  = Interval{Name: "1m", Duration: time.Minute}
	Interval5m  = Interval{Name: "5m", Duration: 5 * time.Minute}
	Interval15m = Interval{Name: "15m", Duration: 15 * time.Minute}
	Interval1h  = Interval{Name: "1h", Duration: time.Hour}
)

// AllIntervals lists the named intervals, shortest first.
var AllIntervals = []Interval{
	Interval1s, Interval5s, Interval15s,
	Interval1m, Interval5m, Interval15m,
	Interval1h,
}

// FromDuration returns the named interval matching d, or an unnamed one
// labelled with d.String(). Non-positive durations are rejected.
func FromDuration(d time.Duration) (Interval, error) {
	if d <= 0 {
		return Interval{}, fmt.Errorf("interval duration must be positive, got %s", d)
	}
	for _, interval := range AllIntervals {
		if interval.Duration == d {
			return interval, nil
		}
	}
	return Interval{Name: d.String(), Duration: d}, nil
}

// CalculateBucketTime returns the start of the bucket containing timestamp.
// Buckets are aligned to multiples of the duration since the zero time, which
// coincides with alignment to the Unix epoch for any duration that divides an hour.
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	return timestamp.Truncate(i.Duration)
}

// GetBucketRange returns the half-open [start, end) bucket containing timestamp.
func (i Interval) GetBucketRange(timestamp time.Time) (start, end time.Time) {
	start = i.CalculateBucketTime(timestamp)
	end = start.Add(i.Duration)
	return start, end
}

// BucketsBetween returns how many whole buckets separate the bucket of from and the bucket of to.
// It is zero when both fall into the same bucket and negative when to is earlier.
func (i Interval) BucketsBetween(from, to time.Time) int64 {
	return int64(i.CalculateBucketTime(to).Sub(i.CalculateBucketTime(from)) / i.Duration)
}
