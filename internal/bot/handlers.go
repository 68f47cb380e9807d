package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/ttfl/internal/service"
)

const (
	defaultPlanDays = 7
	maxPlanDays     = 14
)

const helpText = "Available commands:\n" +
	"/picks [YYYY-MM-DD] - Top 10 picks for a date (default today)\n" +
	"/plan [days] - Greedy pick plan for the next days (default 7)\n" +
	"/injuries [YYYY-MM-DD] - Injured players in the date's games\n" +
	"/player <name> - Score breakdown of one player tonight\n" +
	"/locks - Players locked by recent picks"

type Handler struct {
	session  *service.Session
	location *time.Location
	now      func() time.Time
}

func NewHandler(session *service.Session, location *time.Location) *Handler {
	return &Handler{session: session, location: location, now: time.Now}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"
	msg.Text = h.Respond(ctx, command, args)
	return msg
}

// Respond runs one command and returns the reply text.
func (h *Handler) Respond(ctx context.Context, command, args string) string {
	switch command {
	case "start":
		return "Welcome to the TTFL picker! Use /help to see available commands."
	case "help":
		return helpText
	case "picks":
		return h.handlePicks(ctx, args)
	case "plan":
		return h.handlePlan(ctx, args)
	case "injuries":
		return h.handleInjuries(ctx, args)
	case "player":
		return h.handlePlayer(ctx, args)
	case "locks":
		return h.handleLocks(ctx)
	}
	return "Unknown command. Use /help to see available commands."
}

func (h *Handler) handlePicks(ctx context.Context, args string) string {
	date, err := service.ParseDate(args, h.now(), h.location)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var report string
	err = h.session.Fresh(func() error {
		var err error
		report, err = h.session.PicksReport(ctx, date, 10)
		return err
	})
	if err != nil {
		return fmt.Sprintf("Error fetching picks: %v", err)
	}
	return report
}

func (h *Handler) handlePlan(ctx context.Context, args string) string {
	days := defaultPlanDays
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > maxPlanDays {
			return fmt.Sprintf("Please provide a number of days between 1 and %d. Usage: /plan 7", maxPlanDays)
		}
		days = n
	}

	start, _ := service.ParseDate("", h.now(), h.location)
	var report string
	err := h.session.Fresh(func() error {
		var err error
		report, err = h.session.PlanReport(ctx, start, days)
		return err
	})
	if err != nil {
		return fmt.Sprintf("Error planning picks: %v", err)
	}
	return report
}

func (h *Handler) handleInjuries(ctx context.Context, args string) string {
	date, err := service.ParseDate(args, h.now(), h.location)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var report string
	err = h.session.Fresh(func() error {
		var err error
		report, err = h.session.InjuriesReport(ctx, date)
		return err
	})
	if err != nil {
		return fmt.Sprintf("Error fetching injuries: %v", err)
	}
	return report
}

func (h *Handler) handlePlayer(ctx context.Context, args string) string {
	if args == "" {
		return "Please provide a player name. Usage: /player <player name>"
	}

	date, _ := service.ParseDate("", h.now(), h.location)
	var report string
	err := h.session.Fresh(func() error {
		var err error
		report, err = h.session.PlayerReport(ctx, date, args)
		return err
	})
	if err != nil {
		return fmt.Sprintf("Error looking up player: %v", err)
	}
	return report
}

func (h *Handler) handleLocks(ctx context.Context) string {
	var report string
	err := h.session.Fresh(func() error {
		var err error
		report, err = h.session.LocksReport(ctx)
		return err
	})
	if err != nil {
		return fmt.Sprintf("Error fetching locks: %v", err)
	}
	return report
}
