package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/thenewapple2004-netizen/BDA-Lab-Project/internal/weather"
)

// Collector periodically fetches current conditions for configured cities
// and appends them to storage, building up the history that statistics and
// forecasting read from.
type Collector struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
	log       *logrus.Logger
}

// New creates a new Collector.
func New(cities []string, interval time.Duration, service *weather.Service, log *logrus.Logger) *Collector {
	return &Collector{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic collection job and starts the underlying
// scheduler. With no configured cities, nothing is scheduled.
func (c *Collector) Start() error {
	if len(c.cities) == 0 {
		c.log.Info("collector: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(c.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := c.scheduler.Every(minutes).Minutes().Do(c.collect)
	if err != nil {
		return err
	}

	c.scheduler.StartAsync()
	return nil
}

func (c *Collector) collect() {
	c.log.Debug("collector: running weather fetch job")

	var wg sync.WaitGroup
	for _, city := range c.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := c.service.FetchCurrent(ctx, city); err != nil {
				c.log.WithField("city", city).WithError(err).Warn("collector: fetch failed")
			}
		}()
	}
	wg.Wait()

	c.log.Debug("collector: completed weather fetch job")
}

// Stop stops the scheduler and cancels any future jobs.
func (c *Collector) Stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}
