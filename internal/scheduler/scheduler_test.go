package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/config"
	"newslens/pkg/logger"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 30, hour, min, 0, 0, time.UTC)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Action
	}{
		{"even hour window start", at(4, 2), ActionCollect},
		{"even hour window edge", at(4, 4), ActionCollect},
		{"even hour window closed", at(4, 5), ActionWait},
		{"odd hour no window", at(5, 2), ActionWait},
		{"midnight excluded", at(0, 2), ActionWait},
		{"late evening collection", at(23, 10), ActionCollect},
		{"late evening collection start", at(23, 5), ActionCollect},
		{"late evening collection closed", at(23, 15), ActionWait},
		{"analysis window", at(23, 32), ActionAnalyze},
		{"analysis window start", at(23, 30), ActionAnalyze},
		{"analysis window closed", at(23, 35), ActionWait},
		{"between windows", at(23, 20), ActionWait},
		{"early morning", at(1, 0), ActionWait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.now))
		})
	}
}

func TestWaitDuration(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"far from any window clamps to max", at(1, 0), 5 * time.Minute},
		{"just before analysis window", at(23, 27), 3 * time.Minute},
		{"between evening windows clamps to max", at(23, 20), 5 * time.Minute},
		{"just past a window clamps to min", at(23, 29), 1 * time.Minute},
		{"approaching even hour", at(3, 58), 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WaitDuration(tt.now))
		})
	}
}

func TestWaitDuration_AlwaysClamped(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for min := 0; min < 60; min += 7 {
			d := WaitDuration(at(hour, min))
			assert.GreaterOrEqual(t, d, time.Minute)
			assert.LessOrEqual(t, d, 5*time.Minute)
		}
	}
}

func TestMaybeSampleResources_RespectsInterval(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	sched, err := New(&config.Config{}, nil, nil, nil, nil, nil, log)
	require.NoError(t, err)

	clock := at(12, 0)
	sched.now = func() time.Time { return clock }

	assert.True(t, sched.maybeSampleResources())
	assert.False(t, sched.maybeSampleResources())

	clock = clock.Add(5 * time.Minute)
	assert.False(t, sched.maybeSampleResources())

	clock = clock.Add(10 * time.Minute)
	assert.True(t, sched.maybeSampleResources())
}

func TestNextEvenHour_SkipsMidnight(t *testing.T) {
	next := nextEvenHour(at(23, 10))
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 31, next.Day())
}
