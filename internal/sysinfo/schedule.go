package sysinfo

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard 5-field cron expressions and descriptors
// such as "@hourly" or "@every 30s".
var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule validates a cron expression.
func ParseSchedule(expression string) (cron.Schedule, error) {
	s, err := scheduleParser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expression, err)
	}
	return s, nil
}
