package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/pkg/dateutil"
	"go.uber.org/zap"
)

// ErrRefreshRunning is returned when a refresh is requested while another one is in progress
var ErrRefreshRunning = errors.New("refresh already in progress")

// Refresher re-fetches and caches the holidays of a country/year
type Refresher interface {
	Refresh(ctx context.Context, country string, year int) ([]holiday.Holiday, error)
}

// Options configures the daemon schedule
type Options struct {
	Countries   []string
	Years       []int // Empty means the current and the next year
	DailyHour   int
	DailyMinute int
	Location    *time.Location
	SystemTray  bool
}

// Daemon keeps the holiday cache warm by refreshing it once a day
type Daemon struct {
	refresher   Refresher
	countries   []string
	years       []int
	dailyHour   int // Hour to run the daily refresh (0-23)
	dailyMinute int // Minute to run the daily refresh (0-59)
	location    *time.Location
	systemTray  bool
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	trayApp     *TrayApp
	now         func() time.Time

	mu             sync.Mutex // Protects the fields below
	lastRunDate    string     // Last successful run date, to avoid duplicates
	lastRunTime    time.Time
	refreshRunning bool
}

// NewDaemon creates a new daemon instance with a daily schedule
func NewDaemon(parent context.Context, refresher Refresher, opts Options, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(parent)

	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	return &Daemon{
		refresher:   refresher,
		countries:   opts.Countries,
		years:       opts.Years,
		dailyHour:   opts.DailyHour,
		dailyMinute: opts.DailyMinute,
		location:    location,
		systemTray:  opts.SystemTray,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	if len(d.countries) == 0 {
		return fmt.Errorf("no countries configured for refresh")
	}

	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			// Fall back to non-tray mode
			d.runScheduledLogic()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runScheduledLogic()
	return nil
}

// runScheduledLogic runs the scheduled refresh loop (called from tray or standalone)
func (d *Daemon) runScheduledLogic() {
	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.String("timezone", d.location.String()),
		zap.Strings("countries", d.countries))

	// Run immediately if the scheduled time already passed today
	now := d.now().In(d.location)
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	if now.After(scheduledToday) {
		d.logger.Info("Scheduled time already passed today, refreshing now",
			zap.Time("scheduled_time", scheduledToday),
			zap.Time("current_time", now))
		d.refreshAndNotify(false)
	}

	d.logNextRun()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Check every minute if it's time to run
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return

		case tick := <-ticker.C:
			if d.shouldRunAt(tick) {
				d.logger.Info("Starting scheduled refresh", zap.Time("time", tick))
				if d.refreshAndNotify(false) {
					d.logNextRun()
				}
			}
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RefreshNow triggers an immediate refresh, even if one already ran today (called from tray menu)
func (d *Daemon) RefreshNow() {
	d.logger.Info("Manual refresh triggered")
	d.refreshAndNotify(true)
}

func (d *Daemon) refreshAndNotify(force bool) bool {
	err := d.runRefresh(force)
	if err != nil {
		d.logger.Error("Refresh failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Refresh Failed", fmt.Sprintf("Error: %v", err))
		}
		return false
	}

	if d.trayApp != nil {
		d.trayApp.ShowNotification("Refresh Completed", "Holiday cache is up to date")
	}
	return true
}

// runRefresh refreshes every configured country/year.
// Protected with a mutex so the tray and the scheduler never refresh concurrently.
func (d *Daemon) runRefresh(force bool) error {
	d.mu.Lock()
	if d.refreshRunning {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return ErrRefreshRunning
	}

	now := d.now().In(d.location)
	today := dateutil.FormatDate(now)
	if !force && d.lastRunDate == today {
		d.mu.Unlock()
		d.logger.Info("Already refreshed today, skipping",
			zap.String("last_run_date", today))
		return nil
	}

	d.refreshRunning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.refreshRunning = false
		d.mu.Unlock()
	}()

	err := d.RunOnce(d.ctx)

	// A partial failure still counts as today's run; the failed keys are retried tomorrow
	d.mu.Lock()
	d.lastRunDate = today
	d.lastRunTime = now
	d.mu.Unlock()

	return err
}

// RunOnce refreshes every configured country/year once and returns the joined errors
func (d *Daemon) RunOnce(ctx context.Context) error {
	years := d.years
	if len(years) == 0 {
		current := d.now().In(d.location).Year()
		years = []int{current, current + 1}
	}

	var errs []error
	refreshed := 0
	for _, country := range d.countries {
		for _, year := range years {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			holidays, err := d.refresher.Refresh(ctx, country, year)
			if err != nil {
				d.logger.Warn("Failed to refresh holidays",
					zap.String("key", holiday.CacheKey(country, year)),
					zap.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", holiday.CacheKey(country, year), err))
				continue
			}

			refreshed++
			d.logger.Info("Holidays refreshed",
				zap.String("key", holiday.CacheKey(country, year)),
				zap.Int("count", len(holidays)))
		}
	}

	d.logger.Info("Refresh completed",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", len(errs)))

	return errors.Join(errs...)
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"countries":     d.countries,
		"next_run":      d.calculateNextRun(d.now()).Format(time.RFC3339),
		"refreshing":    d.refreshRunning,
		"last_run_date": d.lastRunDate,
	}
	if !d.lastRunTime.IsZero() {
		status["last_run_time"] = d.lastRunTime.Format(time.RFC3339)
	}

	return status
}

func (d *Daemon) logNextRun() {
	nextRun := d.calculateNextRun(d.now())
	d.logger.Info("Next refresh scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", nextRun.Sub(d.now())))
}

// calculateNextRun calculates the next scheduled run time after now
func (d *Daemon) calculateNextRun(now time.Time) time.Time {
	now = now.In(d.location)

	// Create target time for today
	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// shouldRunAt checks if the refresh should run at the given time (1 minute window)
func (d *Daemon) shouldRunAt(now time.Time) bool {
	local := now.In(d.location)
	return local.Hour() == d.dailyHour &&
		local.Minute() == d.dailyMinute
}
