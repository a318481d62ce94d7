package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const jobTimeout = 2 * time.Minute

// Service is the subset of weather.Service the scheduler drives.
type Service interface {
	ResolveLocation(ctx context.Context, name string) (weather.Location, error)
	RefreshClimate(ctx context.Context, loc weather.Location, windowDays int) error
	AlertsFor(ctx context.Context, loc weather.Location) ([]weather.Alert, error)
}

// Pruner drops stored observations older than cutoff.
type Pruner interface {
	Prune(cutoff time.Time) (int64, error)
}

// Options configures a Scheduler.
type Options struct {
	Locations         []string
	Interval          time.Duration
	ClimateWindowDays int
	Publisher         weather.AlertPublisher
	// Pruner and MaxAge are optional.
	Pruner Pruner
	MaxAge time.Duration
}

// Scheduler periodically refreshes climate data and publishes new alerts for
// the tracked locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Service
	opts      Options
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time // alert ID -> alert end
}

// New creates a new Scheduler.
func New(service Service, opts Options, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		seen:      make(map[string]time.Time),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.opts.Locations) == 0 {
		s.logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.opts.Interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every tracked location concurrently.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info("scheduler: running refresh job", slog.Int("locations", len(s.opts.Locations)))

	var wg sync.WaitGroup
	for _, name := range s.opts.Locations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.refresh(ctx, name)
		}()
	}
	wg.Wait()

	s.prune()
	s.logger.Info("scheduler: completed refresh job")
}

func (s *Scheduler) refresh(ctx context.Context, name string) {
	loc, err := s.service.ResolveLocation(ctx, name)
	if err != nil {
		s.logger.Warn("scheduler: cannot resolve location", slog.String("location", name), slog.Any("error", err))
		return
	}

	if s.opts.ClimateWindowDays > 0 {
		if err := s.service.RefreshClimate(ctx, loc, s.opts.ClimateWindowDays); err != nil {
			s.logger.Warn("scheduler: climate refresh failed", slog.String("location", loc.Name), slog.Any("error", err))
		}
	}

	alerts, err := s.service.AlertsFor(ctx, loc)
	if err != nil {
		s.logger.Warn("scheduler: alert evaluation failed", slog.String("location", loc.Name), slog.Any("error", err))
		return
	}

	fresh := s.unseen(alerts)
	if len(fresh) == 0 || s.opts.Publisher == nil {
		return
	}
	if err := s.opts.Publisher.PublishAlerts(ctx, loc, fresh); err != nil {
		s.logger.Error("scheduler: publishing alerts failed", slog.String("location", loc.Name), slog.Any("error", err))
		s.forget(fresh)
		return
	}
	s.logger.Info("scheduler: published alerts", slog.String("location", loc.Name), slog.Int("count", len(fresh)))
}

// unseen returns the alerts not published before and marks them as seen.
func (s *Scheduler) unseen(alerts []weather.Alert) []weather.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []weather.Alert
	for _, a := range alerts {
		if _, ok := s.seen[a.ID]; ok {
			continue
		}
		s.seen[a.ID] = a.EndTime
		out = append(out, a)
	}
	return out
}

// forget lets failed alerts be retried on the next run.
func (s *Scheduler) forget(alerts []weather.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range alerts {
		delete(s.seen, a.ID)
	}
}

func (s *Scheduler) prune() {
	now := s.now()

	s.mu.Lock()
	for id, end := range s.seen {
		if end.Before(now) {
			delete(s.seen, id)
		}
	}
	s.mu.Unlock()

	if s.opts.Pruner == nil || s.opts.MaxAge <= 0 {
		return
	}
	n, err := s.opts.Pruner.Prune(now.Add(-s.opts.MaxAge))
	if err != nil {
		s.logger.Warn("scheduler: pruning observations failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.Debug("scheduler: pruned observations", slog.Int64("rows", n))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
