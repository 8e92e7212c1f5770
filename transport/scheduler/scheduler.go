package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"innkeep/config"
	"innkeep/infras/otel"
	icalService "innkeep/internal/domains/ical/service"
	taskService "innkeep/internal/domains/task/service"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	JobICalSync      = "ical-sync"
	JobTaskGenerator = "task-generate"
)

// Scheduler triggers the calendar sync and the checkout task generator on cron specs.
type Scheduler struct {
	cfg       *config.Config
	ical      icalService.ICal
	task      taskService.Task
	otel      otel.Otel
	scheduler gocron.Scheduler
}

func New(cfg *config.Config, ical icalService.ICal, task taskService.Task, otel otel.Otel) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(timezone.Location()))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		cfg:       cfg,
		ical:      ical,
		task:      task,
		otel:      otel,
		scheduler: scheduler,
	}, nil
}

// Register adds both jobs. A run still in progress when its next tick fires is skipped.
func (s *Scheduler) Register() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{name: JobICalSync, spec: s.cfg.Scheduler.SyncCron, run: s.SyncCalendars},
		{name: JobTaskGenerator, spec: s.cfg.Scheduler.GenerateCron, run: s.GenerateTasks},
	}

	for _, job := range jobs {
		j, err := s.scheduler.NewJob(
			gocron.CronJob(job.spec, false),
			gocron.NewTask(job.run),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to register job %s: %w", job.name, err)
		}

		log.Info().Str("job", j.Name()).Str("id", j.ID().String()).Str("cron", job.spec).Msg("Job registered")
	}

	return nil
}

func systemContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, constant.ContextSystem)
}

func (s *Scheduler) SyncCalendars() {
	res, err := s.ical.SyncAll(systemContext())
	if err != nil {
		log.Error().Err(err).Msg("calendar sync failed")

		return
	}

	for _, message := range res.Errors {
		log.Warn().Str("job", JobICalSync).Msg(message)
	}

	log.Info().
		Int("processed", res.Processed).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("errors", len(res.Errors)).
		Msg("calendar sync finished")
}

func (s *Scheduler) GenerateTasks() {
	res, err := s.task.Generate(systemContext())
	if err != nil {
		log.Error().Err(err).Msg("task generation failed")

		return
	}

	for _, message := range res.Errors {
		log.Warn().Str("job", JobTaskGenerator).Msg(message)
	}

	log.Info().Int("created", res.Created).Int("errors", len(res.Errors)).Msg(res.Message)
}

// Run starts the jobs and blocks until SIGINT or SIGTERM.
func (s *Scheduler) Run() error {
	if err := s.Register(); err != nil {
		return err
	}

	s.scheduler.Start()
	log.Info().Int("jobs", len(s.scheduler.Jobs())).Msg("Scheduler started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	log.Info().Msg("Received shutdown signal. Waiting for running jobs.")

	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}

	if err := s.otel.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	return nil
}
