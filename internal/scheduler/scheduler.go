package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/notify"
	"github.com/omarshaarawi/ttfl/internal/service"
)

const (
	chatPicks    = 10
	planDays     = 7
	jobTimeout   = 30 * time.Minute
	weeklyPlanAt = 9
)

// Publisher receives the ranked picks of a scheduled run in addition to the
// chat message. *notify.Discord implements it.
type Publisher interface {
	PostPicks(ctx context.Context, recs []models.PlayerRecommendation, date, firstGame string, injured []models.InjuredPlayer) notify.Result
}

type Scheduler struct {
	s           gocron.Scheduler
	session     *service.Session
	location    *time.Location
	picksCron   string
	publisher   Publisher
	sendMessage func(string) error
}

// NewScheduler creates the scheduler. publisher may be nil.
func NewScheduler(session *service.Session, location *time.Location, picksCron string, publisher Publisher, sendMessage func(string) error) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		session:     session,
		location:    location,
		picksCron:   picksCron,
		publisher:   publisher,
		sendMessage: sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Daily picks, before the first games of the night
	_, err = s.s.NewJob(
		gocron.CronJob(s.picksCron, false),
		gocron.NewTask(s.sendPicks),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create picks job: %w", err)
	}

	// Weekly plan - Monday morning
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(weeklyPlanAt, 0, 0))),
		gocron.NewTask(s.sendPlan),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create plan job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) today() time.Time {
	date, _ := service.ParseDate("", time.Now(), s.location)
	return date
}

func (s *Scheduler) sendPicks() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := s.today()
	err := s.session.Fresh(func() error {
		return s.publishPicks(ctx, date)
	})
	if err != nil {
		slog.Error("Failed to send picks", "error", err)
	}
}

func (s *Scheduler) publishPicks(ctx context.Context, date time.Time) error {
	opts := service.DefaultOptions()
	opts.TopN = notify.MaxPicks
	recs, err := s.session.Recommend(ctx, date, opts)
	if err != nil {
		return err
	}
	firstGame, err := s.session.EarliestGameTime(ctx, date)
	if err != nil {
		return err
	}

	day := date.Format(service.DateLayout)
	logger := s.session.Logger()
	if err := s.sendMessage(service.FormatPicksMessage(recs[:min(len(recs), chatPicks)], day, firstGame)); err != nil {
		logger.Error("Failed to send picks message", "error", err)
	}

	if s.publisher == nil || len(recs) == 0 {
		return nil
	}
	injured, err := s.session.NotableInjuries(ctx, date)
	if err != nil {
		return err
	}
	result := s.publisher.PostPicks(ctx, recs, day, firstGame, injured)
	if !result.OK() {
		return fmt.Errorf("posting picks: %d of %d pages failed", failedPages(result), len(result))
	}
	logger.Info("Published picks", "date", day, "picks", len(recs), "pages", len(result))
	return nil
}

func failedPages(r notify.Result) int {
	n := 0
	for _, p := range r {
		if p.Err != nil {
			n++
		}
	}
	return n
}

func (s *Scheduler) sendPlan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var report string
	err := s.session.Fresh(func() error {
		var err error
		report, err = s.session.PlanReport(ctx, s.today(), planDays)
		return err
	})
	if err != nil {
		slog.Error("Failed to build plan", "error", err)
		return
	}
	if err := s.sendMessage(report); err != nil {
		slog.Error("Failed to send plan", "error", err)
	}
}
