package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/ttfl/internal/api/fantasy"
	"github.com/omarshaarawi/ttfl/internal/api/injuries"
	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/api/trashtalk"
	"github.com/omarshaarawi/ttfl/internal/bot"
	"github.com/omarshaarawi/ttfl/internal/config"
	"github.com/omarshaarawi/ttfl/internal/notify"
	"github.com/omarshaarawi/ttfl/internal/repository/memory"
	"github.com/omarshaarawi/ttfl/internal/scheduler"
	"github.com/omarshaarawi/ttfl/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.NewBot()
	if err != nil {
		return err
	}

	location, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	nbaClient, err := nba.NewClient(cfg.NBAStats)
	if err != nil {
		return err
	}
	nbaAPI := nba.NewAPI(nbaClient, cfg.NBAStats.Season)

	// Without a cookie file the bot recommends for everyone and skips locks.
	history, err := trashtalk.NewClient(cfg.TTFL.CookieFile)
	ignoreLocks := false
	if err != nil {
		if !errors.Is(err, trashtalk.ErrCookieFileMissing) {
			return err
		}
		slog.Warn("No TTFL cookie file, locks are ignored", "path", cfg.TTFL.CookieFile)
		history, ignoreLocks = nil, true
	}

	fantasyAPI := fantasy.NewAPI(nbaAPI, injuries.NewClient(), history, cfg.NBAStats.GameLogSize)

	repo := memory.NewRepository()
	session := service.NewSession(fantasyAPI, repo, service.SessionConfig{
		IgnoreLocks: ignoreLocks,
		LockDays:    cfg.TTFL.LockDays,
	})

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, session, location)
	if err != nil {
		return err
	}

	var publisher scheduler.Publisher
	if url := cfg.Discord.URL(); url != "" {
		discord, err := notify.NewDiscord(url)
		if err != nil {
			return err
		}
		publisher = discord
	}

	sched, err := scheduler.NewScheduler(session, location, cfg.Schedule.PicksCron, publisher, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.Schedule.HTTPAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	slog.Info("TTFL bot running", "season", nbaAPI.Season(), "picks_cron", cfg.Schedule.PicksCron, "timezone", cfg.Schedule.Timezone)
	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
