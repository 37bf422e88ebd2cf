package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "08:00", cfg.Timetable.DayStart)
	assert.Equal(t, "22:00", cfg.Timetable.DayEnd)
	assert.Equal(t, 30, cfg.Timetable.MinGapMinutes)
	assert.Equal(t, []string{"GRUPO", "TURMA"}, cfg.Timetable.GroupPrefixes)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, int64(10*1024*1024), cfg.Dataset.UploadMaxBytes)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GROUP_PREFIXES", "GRUPO, TURMA ,CLASSE")
	t.Setenv("SCHEDULE_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"GRUPO", "TURMA", "CLASSE"}, cfg.Timetable.GroupPrefixes)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
