package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/omarshaarawi/ttfl/internal/api/fantasy"
	"github.com/omarshaarawi/ttfl/internal/api/injuries"
	"github.com/omarshaarawi/ttfl/internal/api/nba"
	"github.com/omarshaarawi/ttfl/internal/api/trashtalk"
	"github.com/omarshaarawi/ttfl/internal/config"
	"github.com/omarshaarawi/ttfl/internal/models"
	"github.com/omarshaarawi/ttfl/internal/notify"
	"github.com/omarshaarawi/ttfl/internal/repository/memory"
	"github.com/omarshaarawi/ttfl/internal/service"
)

type options struct {
	date        string
	top         int
	showRisky   bool
	showLocked  bool
	ignoreLocks bool
	cookies     string
	output      string
	verbose     bool
	noDefense   bool
	noForm      bool
	discord     bool
	plan        int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode(err, os.Stdout, os.Stderr))
}

func exitCode(err error, stdout, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stdout, "\nAborted.")
	case errors.Is(err, trashtalk.ErrCookieFileMissing):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Use --ignore-locks to skip personal lock check.")
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func parseFlags(args []string, defaultCookies string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("ttfl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.date, "date", "", "Date (YYYY-MM-DD, default: today)")
	fs.StringVar(&o.date, "d", "", "Shorthand for --date")
	fs.IntVar(&o.top, "top", 10, "Number of recommendations")
	fs.IntVar(&o.top, "n", 10, "Shorthand for --top")
	fs.BoolVar(&o.showRisky, "show-risky", false, "Include players marked OUT")
	fs.BoolVar(&o.showLocked, "show-locked", false, "Include locked players in output")
	fs.BoolVar(&o.ignoreLocks, "ignore-locks", false, "Skip personal locks (no cookies needed)")
	fs.StringVar(&o.cookies, "cookies", defaultCookies, "Cookie file path")
	fs.StringVar(&o.cookies, "c", defaultCookies, "Shorthand for --cookies")
	fs.StringVar(&o.output, "output", "", "Save results to file")
	fs.StringVar(&o.output, "o", "", "Shorthand for --output")
	fs.BoolVar(&o.verbose, "verbose", false, "Show detailed scoring breakdown")
	fs.BoolVar(&o.verbose, "v", false, "Shorthand for --verbose")
	fs.BoolVar(&o.noDefense, "no-defense", false, "Disable defense adjustments")
	fs.BoolVar(&o.noForm, "no-form", false, "Use simple average instead of form analysis")
	fs.BoolVar(&o.discord, "discord", false, "Post results to the Discord webhook")
	fs.IntVar(&o.plan, "plan", 0, "Plan picks for the next N days")
	fs.IntVar(&o.plan, "p", 0, "Shorthand for --plan")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	opts, err := parseFlags(args, cfg.TTFL.CookieFile, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if !opts.ignoreLocks {
		if _, err := os.Stat(opts.cookies); err != nil {
			return fmt.Errorf("%w: %s", trashtalk.ErrCookieFileMissing, opts.cookies)
		}
	}

	date, err := service.ParseDate(opts.date, time.Now(), time.Local)
	if err != nil {
		return err
	}
	day := date.Format(service.DateLayout)

	session, err := newSession(cfg, opts)
	if err != nil {
		return err
	}
	if err := session.Prepare(ctx); err != nil {
		return err
	}

	if opts.plan > 0 {
		fmt.Fprintf(stdout, "\n🗓️  Planning optimal picks for the next %d days...\n\n", opts.plan)
		plan, err := session.Plan(ctx, date, opts.plan, recommendOptions(opts))
		if err != nil {
			return err
		}

		text := service.FormatPlan(plan)
		fmt.Fprintf(stdout, "\n%s\n", text)
		if opts.output != "" {
			if err := writeOutput(opts.output, text); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\nPlan saved to: %s\n", opts.output)
		}
		return nil
	}

	fmt.Fprintf(stdout, "\nFetching recommendations for %s...\n", day)
	recs, err := session.Recommend(ctx, date, recommendOptions(opts))
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintf(stdout, "\nNo recommendations available for %s.\n", day)
		fmt.Fprintln(stdout, "This could mean:")
		fmt.Fprintln(stdout, "  - No NBA games scheduled for this date")
		fmt.Fprintln(stdout, "  - Could not fetch player data")
		return nil
	}

	text := service.FormatRecommendations(recs, day, opts.verbose)
	fmt.Fprintf(stdout, "\n%s\n", text)

	if opts.output != "" {
		if err := writeOutput(opts.output, text); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nResults saved to: %s\n", opts.output)
	}

	if opts.discord {
		return postToDiscord(ctx, cfg, session, recs, date, stdout, stderr)
	}
	return nil
}

func recommendOptions(o options) service.Options {
	return service.Options{
		TopN:          o.top,
		IncludeRisky:  o.showRisky,
		IncludeLocked: o.showLocked,
		UseForm:       !o.noForm,
		UseDefense:    !o.noDefense,
	}
}

func newSession(cfg *config.Config, o options) (*service.Session, error) {
	nbaClient, err := nba.NewClient(cfg.NBAStats)
	if err != nil {
		return nil, err
	}
	nbaAPI := nba.NewAPI(nbaClient, cfg.NBAStats.Season)

	var history *trashtalk.Client
	if !o.ignoreLocks {
		history, err = trashtalk.NewClient(o.cookies)
		if err != nil {
			return nil, err
		}
	}

	fantasyAPI := fantasy.NewAPI(nbaAPI, injuries.NewClient(), history, cfg.NBAStats.GameLogSize)
	return service.NewSession(fantasyAPI, memory.NewRepository(), service.SessionConfig{
		IgnoreLocks: o.ignoreLocks,
		LockDays:    cfg.TTFL.LockDays,
	}), nil
}

func postToDiscord(ctx context.Context, cfg *config.Config, session *service.Session, recs []models.PlayerRecommendation, date time.Time, stdout, stderr io.Writer) error {
	discord, err := notify.NewDiscord(cfg.Discord.URL())
	if err != nil {
		return fmt.Errorf("discord: %w", err)
	}

	firstGame, err := session.EarliestGameTime(ctx, date)
	if err != nil {
		return err
	}
	injured, err := session.NotableInjuries(ctx, date)
	if err != nil {
		return err
	}

	if discord.PostPicks(ctx, recs, date.Format(service.DateLayout), firstGame, injured).OK() {
		fmt.Fprintln(stdout, "\nPosted to Discord successfully!")
	} else {
		fmt.Fprintln(stderr, "\nFailed to post to Discord.")
	}
	return nil
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
