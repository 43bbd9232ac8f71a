package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecrawlJob_Due(t *testing.T) {
	now := time.Date(2024, 9, 2, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		next time.Time
		due  bool
	}{
		{"never ran", time.Time{}, true},
		{"overdue", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"later today", now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &RecrawlJob{Interval: 6 * time.Hour, NextStart: tt.next}
			assert.Equal(t, tt.due, job.Due(now))
		})
	}
}

func TestRecrawlJob_RecordSuccess(t *testing.T) {
	start := time.Date(2024, 9, 2, 7, 0, 0, 0, time.UTC)
	job := &RecrawlJob{Interval: 6 * time.Hour, Failures: 2, LastError: "timeout"}

	job.Record(RecrawlAttempt{Started: start, Ended: start.Add(3 * time.Second), Lessons: 120})

	assert.Zero(t, job.Failures)
	assert.Empty(t, job.LastError)
	assert.Equal(t, start, job.LastStart)
	assert.Equal(t, start.Add(3*time.Second), job.LastSuccess)
	assert.Equal(t, start.Add(3*time.Second+6*time.Hour), job.NextStart)
}

func TestRecrawlJob_RecordFailureBacksOff(t *testing.T) {
	end := time.Date(2024, 9, 2, 7, 0, 0, 0, time.UTC)
	job := &RecrawlJob{Interval: 6 * time.Minute}

	var delays []time.Duration
	for range 5 {
		job.Record(RecrawlAttempt{Started: end, Ended: end, Err: "site down"})
		delays = append(delays, job.NextStart.Sub(end))
	}

	assert.Equal(t, []time.Duration{
		time.Minute, 2 * time.Minute, 4 * time.Minute, 6 * time.Minute, 6 * time.Minute,
	}, delays)
	assert.Equal(t, 5, job.Failures)
	assert.Equal(t, "site down", job.LastError)
	assert.True(t, job.LastSuccess.IsZero())
}

func TestRecrawlAttempt(t *testing.T) {
	start := time.Date(2024, 9, 2, 7, 0, 0, 0, time.UTC)
	a := RecrawlAttempt{Started: start, Ended: start.Add(1500 * time.Millisecond)}

	assert.True(t, a.OK())
	assert.Equal(t, 1500*time.Millisecond, a.Duration())

	a.Err = "parse failed"
	assert.False(t, a.OK())
}
