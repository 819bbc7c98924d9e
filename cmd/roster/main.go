package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/ridgeline-soaring/duty-roster/internal/config"
	"github.com/ridgeline-soaring/duty-roster/internal/domain"
	"github.com/ridgeline-soaring/duty-roster/internal/roster"
	"github.com/ridgeline-soaring/duty-roster/internal/runlock"
	"github.com/ridgeline-soaring/duty-roster/internal/scheduler"
	"github.com/ridgeline-soaring/duty-roster/internal/season"
)

// problemFile is the JSON input: the club's members and their duty
// preferences for the requested period.
type problemFile struct {
	Members     []*domain.Member         `json:"members"`
	Preferences []*domain.DutyPreference `json:"preferences"`
}

// stdoutCommitter prints the published roster instead of persisting it;
// storage and notification live outside this tool.
type stdoutCommitter struct{}

func (stdoutCommitter) SaveRoster(_ context.Context, committed *roster.CommittedRoster) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(committed)
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * flags and configuration
	 **********************************************/
	var (
		problemPath = flag.String("problem", "", "path to the members/preferences JSON file")
		year        = flag.Int("year", time.Now().Year(), "year of the scheduling window")
		month       = flag.Int("month", int(time.Now().Month()), "month of the scheduling window (1-12)")
	)
	flag.Parse()

	if *problemPath == "" {
		logger.Error("missing required -problem flag")
		os.Exit(1)
	}
	if *month < 1 || *month > 12 {
		logger.Error("month must be between 1 and 12", "month", *month)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * problem input
	 **********************************************/
	raw, err := os.ReadFile(*problemPath)
	if err != nil {
		logger.Error("unable to read problem file", "path", *problemPath, "error", err)
		os.Exit(1)
	}
	var problem problemFile
	if err := json.Unmarshal(raw, &problem); err != nil {
		logger.Error("unable to parse problem file", "path", *problemPath, "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * operational season
	 **********************************************/
	operationalSeason, err := season.ParseSeason(cfg.Roster.SeasonStart, cfg.Roster.SeasonEnd)
	if err != nil {
		logger.Error("unable to parse operational season", "error", err)
		os.Exit(1)
	}

	roles := make([]domain.RoleTag, 0, len(cfg.Roster.Roles))
	for _, role := range cfg.Roster.Roles {
		roles = append(roles, domain.RoleTag(role))
	}

	/**********************************************
	 * strategy and run lock
	 **********************************************/
	var strategy scheduler.Strategy
	switch cfg.Solver.Strategy {
	case "exact":
		strategy = scheduler.ExactStrategy{}
	case "heuristic":
		strategy = scheduler.HeuristicStrategy{
			Attempts: cfg.Solver.HeuristicAttempts,
			Seed:     cfg.Solver.HeuristicSeed,
		}
	default:
		logger.Error("unknown solver strategy", "strategy", cfg.Solver.Strategy)
		os.Exit(1)
	}

	var locker runlock.Locker = runlock.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		locker = runlock.NewRedisLocker(rdb, time.Duration(cfg.Redis.LockTTL)*time.Second)
	}

	/**********************************************
	 * solve and publish
	 **********************************************/
	params := domain.SolveParameters{
		MaxConsecutive:  cfg.Solver.MaxConsecutive,
		FairnessMargin:  cfg.Solver.FairnessMargin,
		PreferredWeight: cfg.Solver.PreferredWeight,
		NeutralWeight:   cfg.Solver.NeutralWeight,
		TimeBudget:      time.Duration(cfg.Solver.TimeBudget) * time.Second,
	}

	runner := scheduler.NewRunner(strategy, locker, logger)
	draft, err := runner.Run(context.Background(), &scheduler.RunRequest{
		Window:      season.MonthWindow(*year, time.Month(*month)),
		Season:      operationalSeason,
		Roles:       roles,
		Members:     problem.Members,
		Preferences: problem.Preferences,
		Parameters:  params,
	})
	if err != nil {
		logger.Error("scheduling run failed", "error", err)
		os.Exit(1)
	}

	if _, err := draft.Commit(context.Background(), stdoutCommitter{}); err != nil {
		logger.Error("unable to publish roster", "error", err)
		os.Exit(1)
	}
}
