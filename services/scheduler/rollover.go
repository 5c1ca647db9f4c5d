// Package scheduler runs the periodic jobs of the board.
package scheduler

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
)

// DateSelector is the part of the attendance service the rollover needs.
type DateSelector interface {
	SelectDate(date string) error
}

// StartRollover moves the selected date to today on every `spec` tick (e.g. "0 0 * * *").
// The returned cron must be stopped by the caller.
func StartRollover(spec string, svc DateSelector, logger core.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(spec, func() { rollover(svc, logger) })
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling rollover %q", spec)
	}
	c.Start()
	logger.Info("date rollover scheduled", map[string]interface{}{"schedule": spec})
	return c, nil
}

func rollover(svc DateSelector, logger core.Logger) {
	today := attendance.Today()
	if err := svc.SelectDate(today); err != nil {
		logger.Error("date rollover failed", err)
		return
	}
	logger.Info("selected date rolled over", map[string]interface{}{"date": today})
}
