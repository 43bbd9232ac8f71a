package domain

import "time"

// RetryBase is the delay before retrying a failed scheduled crawl. It
// doubles with each consecutive failure and never exceeds the job interval.
const RetryBase = time.Minute

// RecrawlJob is the state of a repeating crawl of one export.
type RecrawlJob struct {
	Root     PageRef
	Interval time.Duration

	LastStart   time.Time
	NextStart   time.Time
	LastSuccess time.Time
	LastError   string

	// Failures counts consecutive failed attempts.
	Failures int
}

// Due reports whether the job should start at now. A job that never ran is
// always due.
func (j *RecrawlJob) Due(now time.Time) bool {
	return j.NextStart.IsZero() || !j.NextStart.After(now)
}

// Record folds an attempt into the job and picks the next start time.
func (j *RecrawlJob) Record(a RecrawlAttempt) {
	j.LastStart = a.Started
	if a.OK() {
		j.Failures = 0
		j.LastError = ""
		j.LastSuccess = a.Ended
		j.NextStart = a.Ended.Add(j.Interval)
		return
	}
	j.Failures++
	j.LastError = a.Err
	j.NextStart = a.Ended.Add(j.retryDelay())
}

func (j *RecrawlJob) retryDelay() time.Duration {
	d := RetryBase << min(j.Failures-1, 10)
	if j.Interval > 0 && d > j.Interval {
		return j.Interval
	}
	return d
}

// RecrawlAttempt is the outcome of one scheduled crawl.
type RecrawlAttempt struct {
	Root    PageRef
	RunID   string
	Started time.Time
	Ended   time.Time
	Lessons int

	// Err is empty when the crawl succeeded.
	Err string
}

func (a RecrawlAttempt) OK() bool { return a.Err == "" }

func (a RecrawlAttempt) Duration() time.Duration { return a.Ended.Sub(a.Started) }
