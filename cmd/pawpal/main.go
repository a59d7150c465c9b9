package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pawpal/internal/bot"
	"pawpal/internal/config"
	"pawpal/internal/repository"
	"pawpal/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		boot := bootLogger()
		boot.Fatal().Err(err).Msg("config")
	}

	logger := newLogger(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	petSvc := service.NewPetService(petRepo)
	taskSvc := service.NewTaskService(taskRepo, petRepo)
	plannerSvc := service.NewPlannerService(userRepo, taskRepo, scheduleRepo)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, petSvc, taskSvc, plannerSvc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot")
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.ReportTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("daily report")
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("schedule daily report")
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info().Str("report_time", cfg.ReportTime).Msg("pawpal planner started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("bot stopped with error")
	}
	logger.Info().Msg("shutdown complete")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05Z07:00"}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

func bootLogger() zerolog.Logger {
	return newLogger("info")
}
