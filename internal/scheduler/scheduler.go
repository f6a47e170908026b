package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/logging"
	"webhost-storefront/internal/metrics"
)

const sweepTimeout = time.Minute

// DomainExpirer moves lapsed domains to expired.
type DomainExpirer interface {
	ExpireDomains(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger logrus.FieldLogger
}

// New registers the domain expiry sweep on spec (standard cron syntax or
// descriptors such as "@every 1h").
func New(spec string, expirer DomainExpirer, logger logrus.FieldLogger) (*Scheduler, error) {
	logger = logging.OrDiscard(logger)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))))

	s := &Scheduler{cron: c, logger: logger}
	if _, err := c.AddFunc(spec, func() { s.sweepDomains(expirer) }); err != nil {
		return nil, fmt.Errorf("schedule domain sweep %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) sweepDomains(expirer DomainExpirer) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := expirer.ExpireDomains(ctx)
	if err != nil {
		s.logger.WithError(err).Error("scheduler: domain sweep failed")
		return
	}
	metrics.RecordDomainsExpired(n)
	s.logger.WithField("expired", n).Debug("scheduler: domain sweep done")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler: stop timed out")
	}
}
