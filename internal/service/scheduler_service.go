package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 30 * time.Second

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

func NewSchedulerService(loc *time.Location, log logrus.FieldLogger) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		log:  log,
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string. Each run
// gets its own timeout context; failures are logged.
func (s *SchedulerService) ScheduleDaily(timeStr, name string, job func(ctx context.Context) error) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("scheduled job failed")
			return
		}
		s.log.WithField("job", name).Info("scheduled job finished")
	})
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
