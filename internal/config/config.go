package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Roster      struct {
		Roles       []string `env:"ROLES" envDefault:"duty_officer,assistant_duty_officer,instructor,tow_pilot,airport_manager"`
		SeasonStart string   `env:"SEASON_START"` // e.g. "First weekend of May"; blank = year-round
		SeasonEnd   string   `env:"SEASON_END"`   // e.g. "Last weekend of October"
	} `envPrefix:"ROSTER_"`
	Solver struct {
		Strategy          string `env:"STRATEGY" envDefault:"exact"` // exact | heuristic
		TimeBudget        int    `env:"TIME_BUDGET" envDefault:"30"` // seconds
		MaxConsecutive    int    `env:"MAX_CONSECUTIVE" envDefault:"2"`
		FairnessMargin    int    `env:"FAIRNESS_MARGIN" envDefault:"1"`
		PreferredWeight   int    `env:"PREFERRED_WEIGHT" envDefault:"10"`
		NeutralWeight     int    `env:"NEUTRAL_WEIGHT" envDefault:"1"`
		HeuristicAttempts int    `env:"HEURISTIC_ATTEMPTS" envDefault:"200"`
		HeuristicSeed     int64  `env:"HEURISTIC_SEED" envDefault:"0"` // 0 = seed from the clock
	} `envPrefix:"SOLVER_"`
	Redis struct {
		Addr     string `env:"ADDR"` // blank = in-process run lock only
		Password string `env:"PASSWORD"`
		LockTTL  int    `env:"LOCK_TTL" envDefault:"120"` // seconds
	} `envPrefix:"REDIS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only return the first error to keep the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
