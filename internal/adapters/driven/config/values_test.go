package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{4, 4, true},
		{int64(8), 8, true},
		{3.0, 3, true},
		{2.5, 0, false},
		{" 12 ", 12, true},
		{"many", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsInt(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{2.5, 2.5, true},
		{4, 4, true},
		{int64(7), 7, true},
		{"0.5", 0.5, true},
		{"fast", 0, false},
		{[]int{1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}

func TestAsDuration(t *testing.T) {
	got, ok := AsDuration("45s")
	assert.True(t, ok)
	assert.Equal(t, 45*time.Second, got)

	got, ok = AsDuration(3 * time.Minute)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Minute, got)

	_, ok = AsDuration("soon")
	assert.False(t, ok)

	_, ok = AsDuration(30)
	assert.False(t, ok)
}

func TestAsString(t *testing.T) {
	got, ok := AsString("bot")
	assert.True(t, ok)
	assert.Equal(t, "bot", got)

	_, ok = AsString(4)
	assert.False(t, ok)
}
