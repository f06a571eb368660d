package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//clear every env var Load reads so tests don't leak into each other
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SEARCH_QUERY", "SEARCH_LOCATION", "SEARCH_PAGES",
		"DATABASE_URL", "SUPABASE_URL", "SUPABASE_KEY", "SQLITE_PATH",
		"RAPIDAPI_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "internhunt.db")

	path := writeConfig(t, "search:\n  query: software intern\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "software intern", cfg.Search.Query)
	assert.Equal(t, 1, cfg.Search.Pages)
	assert.True(t, cfg.Sources.Indeed, "indeed is the default source")
	assert.False(t, cfg.Sources.LinkedIn)
	assert.False(t, cfg.Sources.JSearch)
	assert.True(t, cfg.Scrape.Headless)
	assert.Equal(t, 2*time.Second, cfg.Scrape.PageDelay.Std())
	assert.Equal(t, 10*time.Second, cfg.Scrape.RenderTimeout.Std())
	assert.Equal(t, "logs", cfg.Output.Dir)
	assert.Equal(t, "internhunt.db", cfg.SQLitePath)
}

func TestLoadFullYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "internhunt.db")
	t.Setenv("RAPIDAPI_KEY", "rapid-key")

	path := writeConfig(t, `
search:
  query: data intern
  location: Austin, TX
  pages: 4
sources:
  indeed: false
  linkedin: true
  jsearch: true
scrape:
  page_delay: 3s
  render_timeout: 15s
  headless: false
  cookies_path: .cookies
filter:
  exclude_keywords:
    - senior
    - unpaid
output:
  dir: out
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data intern", cfg.Search.Query)
	assert.Equal(t, "Austin, TX", cfg.Search.Location)
	assert.Equal(t, 4, cfg.Search.Pages)
	assert.False(t, cfg.Sources.Indeed)
	assert.True(t, cfg.Sources.LinkedIn)
	assert.True(t, cfg.Sources.JSearch)
	assert.Equal(t, 3*time.Second, cfg.Scrape.PageDelay.Std())
	assert.Equal(t, 15*time.Second, cfg.Scrape.RenderTimeout.Std())
	assert.False(t, cfg.Scrape.Headless)
	assert.Equal(t, ".cookies", cfg.Scrape.CookiesPath)
	assert.Equal(t, []string{"senior", "unpaid"}, cfg.Filter.ExcludeKeywords)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "internhunt.db")
	t.Setenv("SEARCH_QUERY", "backend intern")
	t.Setenv("SEARCH_LOCATION", "Remote")
	t.Setenv("SEARCH_PAGES", "7")

	path := writeConfig(t, "search:\n  query: from yaml\n  pages: 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "backend intern", cfg.Search.Query)
	assert.Equal(t, "Remote", cfg.Search.Location)
	assert.Equal(t, 7, cfg.Search.Pages)
}

func TestLoadMissingFileStillWorks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "internhunt.db")
	t.Setenv("SEARCH_QUERY", "intern")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "intern", cfg.Search.Query)
}

func TestLoadTelegramEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", "internhunt.db")
	t.Setenv("SEARCH_QUERY", "intern")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-1009876")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, int64(-1009876), cfg.TelegramChatID)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing query",
			yaml:    "",
			env:     map[string]string{"SQLITE_PATH": "x.db"},
			wantErr: "search query",
		},
		{
			name:    "zero pages",
			yaml:    "search:\n  query: intern\n  pages: 0\n",
			env:     map[string]string{"SQLITE_PATH": "x.db"},
			wantErr: "pages",
		},
		{
			name:    "no store configured",
			yaml:    "search:\n  query: intern\n",
			env:     nil,
			wantErr: "store credentials",
		},
		{
			name:    "supabase url without key",
			yaml:    "search:\n  query: intern\n",
			env:     map[string]string{"SUPABASE_URL": "https://x.supabase.co"},
			wantErr: "SUPABASE_URL and SUPABASE_KEY",
		},
		{
			name:    "no sources enabled",
			yaml:    "search:\n  query: intern\nsources:\n  indeed: false\n",
			env:     map[string]string{"SQLITE_PATH": "x.db"},
			wantErr: "no sources",
		},
		{
			name:    "jsearch without api key",
			yaml:    "search:\n  query: intern\nsources:\n  jsearch: true\n",
			env:     map[string]string{"SQLITE_PATH": "x.db"},
			wantErr: "RAPIDAPI_KEY",
		},
		{
			name:    "telegram token without chat id",
			yaml:    "search:\n  query: intern\n",
			env:     map[string]string{"SQLITE_PATH": "x.db", "TELEGRAM_BOT_TOKEN": "123:abc"},
			wantErr: "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID",
		},
		{
			name:    "bad chat id",
			yaml:    "search:\n  query: intern\n",
			env:     map[string]string{"SQLITE_PATH": "x.db", "TELEGRAM_BOT_TOKEN": "123:abc", "TELEGRAM_CHAT_ID": "not-a-number"},
			wantErr: "TELEGRAM_CHAT_ID",
		},
		{
			name:    "bad duration",
			yaml:    "search:\n  query: intern\nscrape:\n  page_delay: fast\n",
			env:     map[string]string{"SQLITE_PATH": "x.db"},
			wantErr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
