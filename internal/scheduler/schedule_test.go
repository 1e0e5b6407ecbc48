package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 * * * *", true},    // Every hour
		{"*/15 * * * *", true}, // Every 15 minutes
		{"0 0 * * *", true},    // Daily at midnight
		{"0 0 * * 0", true},    // Weekly on Sunday
		{"invalid", false},
		{"* * * *", false},    // Missing field
		{"60 * * * *", false}, // Invalid minute
		{"0 25 * * *", false}, // Invalid hour
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Every hour at :00", GetCronDescription("0 * * * *"))
	assert.Equal(t, "Daily at midnight", GetCronDescription("0 0 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", GetCronDescription("5 4 * * *"))
}

func TestGetNextRunTime(t *testing.T) {
	from := time.Date(2024, 5, 1, 12, 34, 0, 0, time.UTC)

	next, err := GetNextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC), next)

	_, err = GetNextRunTime("invalid", from)
	assert.Error(t, err)
}
