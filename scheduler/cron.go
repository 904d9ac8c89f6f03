package scheduler

import (
	"fmt"

	"github.com/mohitkumar/flowdesk/model"
	"github.com/robfig/cron/v3"
)

// CronExpression maps a report timeframe to its recurrence. All report
// schedules fire at 08:00 server local time. An unknown timeframe maps to
// the empty string and is refused by scheduling.
func CronExpression(timeframe model.Timeframe) string {
	switch timeframe {
	case model.TIMEFRAME_DAILY:
		return "0 8 * * *"
	case model.TIMEFRAME_WEEKLY:
		return "0 8 * * 1"
	case model.TIMEFRAME_MONTHLY:
		return "0 8 1 * *"
	case model.TIMEFRAME_QUARTERLY:
		return "0 8 1 1,4,7,10 *"
	default:
		return ""
	}
}

func ParseSchedule(timeframe model.Timeframe) (cron.Schedule, error) {
	expr := CronExpression(timeframe)
	if expr == "" {
		return nil, fmt.Errorf("unknown timeframe %q", timeframe)
	}
	return cron.ParseStandard(expr)
}
