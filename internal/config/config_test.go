package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Len(t, cfg.Roster.Roles, 5)
	assert.Empty(t, cfg.Roster.SeasonStart)

	assert.Equal(t, "exact", cfg.Solver.Strategy)
	assert.Equal(t, 30, cfg.Solver.TimeBudget)
	assert.Equal(t, 2, cfg.Solver.MaxConsecutive)
	assert.Equal(t, 1, cfg.Solver.FairnessMargin)
	assert.Equal(t, 10, cfg.Solver.PreferredWeight)

	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 120, cfg.Redis.LockTTL)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ROSTER_SEASON_START", "First weekend of May")
	t.Setenv("ROSTER_SEASON_END", "Last weekend of October")
	t.Setenv("ROSTER_ROLES", "duty_officer,tow_pilot")
	t.Setenv("SOLVER_STRATEGY", "heuristic")
	t.Setenv("SOLVER_HEURISTIC_SEED", "42")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "First weekend of May", cfg.Roster.SeasonStart)
	assert.Equal(t, "Last weekend of October", cfg.Roster.SeasonEnd)
	assert.Equal(t, []string{"duty_officer", "tow_pilot"}, cfg.Roster.Roles)
	assert.Equal(t, "heuristic", cfg.Solver.Strategy)
	assert.Equal(t, int64(42), cfg.Solver.HeuristicSeed)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfigRejectsMalformedValue(t *testing.T) {
	t.Setenv("SOLVER_TIME_BUDGET", "half an hour")

	_, err := LoadConfig()
	require.Error(t, err)
}
