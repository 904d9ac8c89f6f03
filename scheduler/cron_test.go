package scheduler

import (
	"testing"
	"time"

	"github.com/mohitkumar/flowdesk/model"
	"github.com/stretchr/testify/require"
)

func TestCronExpression(t *testing.T) {
	require.Equal(t, "0 8 * * *", CronExpression(model.TIMEFRAME_DAILY))
	require.Equal(t, "0 8 * * 1", CronExpression(model.TIMEFRAME_WEEKLY))
	require.Equal(t, "0 8 1 * *", CronExpression(model.TIMEFRAME_MONTHLY))
	require.Equal(t, "0 8 1 1,4,7,10 *", CronExpression(model.TIMEFRAME_QUARTERLY))
	require.Equal(t, "", CronExpression(model.Timeframe("UNKNOWN")))
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule(model.TIMEFRAME_WEEKLY)
	require.NoError(t, err)

	next := sched.Next(time.Date(2026, 1, 7, 12, 0, 0, 0, time.Local))
	require.Equal(t, time.Monday, next.Weekday())
	require.Equal(t, 8, next.Hour())
	require.Equal(t, 0, next.Minute())

	_, err = ParseSchedule(model.Timeframe("UNKNOWN"))
	require.Error(t, err)
}

func TestQuarterlySchedule(t *testing.T) {
	sched, err := ParseSchedule(model.TIMEFRAME_QUARTERLY)
	require.NoError(t, err)

	next := sched.Next(time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local))
	require.Equal(t, time.April, next.Month())
	require.Equal(t, 1, next.Day())
	require.Equal(t, 8, next.Hour())
}
