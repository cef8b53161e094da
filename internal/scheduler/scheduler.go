package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/config"
	"github.com/example/mistakebook/pkg/models"
)

// Scheduler manages scheduled tasks for the application: one-shot tasks
// such as a session's auto-advance, and the hourly review reminder.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	source    ReviewSource
	cfg       config.ReminderConfig
	log       *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	jobs map[string]*gocron.Job
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(count int) error
}

// ReviewSource provides the current review queue.
type ReviewSource interface {
	ReviewQueue(ctx context.Context) []models.Problem
}

// New creates a new scheduler instance. notifier and source may be nil when
// only one-shot tasks are needed.
func New(notifier Notifier, source ReviewSource, cfg config.ReminderConfig, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		source:    source,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		jobs:      make(map[string]*gocron.Job),
	}
}

// SetNotifier sets where reminders go and how the review queue is read.
// It must be called before Start.
func (s *Scheduler) SetNotifier(notifier Notifier, source ReviewSource) {
	s.notifier = notifier
	s.source = source
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	if s.cfg.Enabled && s.notifier != nil && s.source != nil {
		// Schedule hourly check for the review queue
		if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders); err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// AfterFunc runs fn once after d. Scheduling a tag that is already pending
// replaces the pending task.
func (s *Scheduler) AfterFunc(tag string, d time.Duration, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(tag)

	var job *gocron.Job
	var err error
	job, err = s.scheduler.Every(d).WaitForSchedule().LimitRunsTo(1).Tag(tag).Do(func() {
		s.mu.Lock()
		current := s.jobs[tag] == job
		if current {
			delete(s.jobs, tag)
			s.scheduler.RemoveByReference(job)
		}
		s.mu.Unlock()

		// cancelled after gocron had already dispatched it
		if !current {
			return
		}
		fn()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", tag, err)
	}
	s.jobs[tag] = job
	return nil
}

// Cancel drops the pending task for tag, if any.
func (s *Scheduler) Cancel(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(tag)
}

// Pending reports whether a task is waiting for tag.
func (s *Scheduler) Pending(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[tag]
	return ok
}

func (s *Scheduler) cancelLocked(tag string) {
	job, ok := s.jobs[tag]
	if !ok {
		return
	}
	delete(s.jobs, tag)
	s.scheduler.RemoveByReference(job)
}

// inNotificationHours reports whether hour lies in the configured window.
func (s *Scheduler) inNotificationHours(hour int) bool {
	return hour >= s.cfg.StartHour && hour <= s.cfg.EndHour
}

// checkAndSendReminders sends a reminder when the review queue is not empty
// and the current hour is inside the notification window.
func (s *Scheduler) checkAndSendReminders() {
	currentHour := s.now().Hour()
	if !s.inNotificationHours(currentHour) {
		s.log.Debug("outside notification hours, skipping reminder",
			zap.Int("hour", currentHour),
			zap.Int("start_hour", s.cfg.StartHour),
			zap.Int("end_hour", s.cfg.EndHour))
		return
	}

	if err := s.RunManualCheck(context.Background()); err != nil {
		s.log.Error("failed to send reminder", zap.Error(err))
	}
}

// RunManualCheck sends a reminder right away if anything needs review.
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	if s.notifier == nil || s.source == nil {
		return nil
	}
	count := len(s.source.ReviewQueue(ctx))
	if count == 0 {
		return nil
	}
	s.log.Info("sending review reminder", zap.Int("count", count))
	return s.notifier.SendReminder(count)
}
