// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SearchConfig struct {
	Query    string `yaml:"query"`
	Location string `yaml:"location"`
	Pages    int    `yaml:"pages"`
}

type SourcesConfig struct {
	Indeed   bool `yaml:"indeed"`
	LinkedIn bool `yaml:"linkedin"`
	JSearch  bool `yaml:"jsearch"`
}

type ScrapeConfig struct {
	PageDelay     Duration `yaml:"page_delay"`
	RenderTimeout Duration `yaml:"render_timeout"`
	Headless      bool     `yaml:"headless"`
	CookiesPath   string   `yaml:"cookies_path"`
}

type FilterConfig struct {
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Sources SourcesConfig `yaml:"sources"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Filter  FilterConfig  `yaml:"filter"`
	Output  OutputConfig  `yaml:"output"`

	//credentials come from the environment only, never the yaml file
	DatabaseURL    string
	SupabaseURL    string
	SupabaseKey    string
	SQLitePath     string
	RapidAPIKey    string
	TelegramToken  string
	TelegramChatID int64
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Search.Pages = 1
	cfg.Sources.Indeed = true
	cfg.Scrape.PageDelay = Duration(2 * time.Second)
	cfg.Scrape.RenderTimeout = Duration(10 * time.Second)
	cfg.Scrape.Headless = true
	cfg.Output.Dir = "logs"
	return cfg
}

// Load reads the yaml file at path (missing file is fine, defaults
// apply), then lets environment variables override it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	//Override with env vars
	if q := os.Getenv("SEARCH_QUERY"); q != "" {
		cfg.Search.Query = q
	}
	if l := os.Getenv("SEARCH_LOCATION"); l != "" {
		cfg.Search.Location = l
	}
	if p := os.Getenv("SEARCH_PAGES"); p != "" {
		pages, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SEARCH_PAGES: %w", err)
		}
		cfg.Search.Pages = pages
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	cfg.SupabaseKey = os.Getenv("SUPABASE_KEY")
	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.RapidAPIKey = os.Getenv("RAPIDAPI_KEY")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Search.Query == "" {
		return fmt.Errorf("search query is required (set search.query or SEARCH_QUERY)")
	}
	if cfg.Search.Pages < 1 {
		return fmt.Errorf("search.pages must be at least 1, got %d", cfg.Search.Pages)
	}

	if !cfg.Sources.Indeed && !cfg.Sources.LinkedIn && !cfg.Sources.JSearch {
		return fmt.Errorf("no sources enabled")
	}
	if cfg.Sources.JSearch && cfg.RapidAPIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required when the jsearch source is enabled")
	}

	//store credentials: exactly the env combinations the backends accept
	if (cfg.SupabaseURL == "") != (cfg.SupabaseKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set together")
	}
	if cfg.DatabaseURL == "" && cfg.SupabaseURL == "" && cfg.SQLitePath == "" {
		return fmt.Errorf("store credentials are required: set DATABASE_URL, SUPABASE_URL + SUPABASE_KEY, or SQLITE_PATH")
	}

	if (cfg.TelegramToken == "") != (cfg.TelegramChatID == 0) {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}

	return nil
}
