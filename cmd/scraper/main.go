package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"internhunt/internal/browser"
	"internhunt/internal/config"
	"internhunt/internal/export"
	"internhunt/internal/filter"
	"internhunt/internal/report"
	"internhunt/internal/runner"
	"internhunt/internal/scraper"
	"internhunt/internal/scraper/indeed"
	"internhunt/internal/scraper/jsearch"
	"internhunt/internal/scraper/linkedin"
	"internhunt/internal/store"
)

func main() {
	//load config
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	log.Printf("🔧 Config loaded. Query: %q, location: %q, pages: %d", cfg.Search.Query, cfg.Search.Location, cfg.Search.Pages)

	//setup context with timeout = 15 mins
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	//connect to the store before anything else; no point rendering
	//pages we cannot persist
	st, err := store.Open(ctx, store.Options{
		DatabaseURL: cfg.DatabaseURL,
		SupabaseURL: cfg.SupabaseURL,
		SupabaseKey: cfg.SupabaseKey,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to store: %v", err)
	}
	defer st.Close()
	log.Printf("🗄️ Connected to %s store.", st.Name())

	//init telegram reporter (optional)
	var reporter *report.Telegram
	if cfg.TelegramToken != "" {
		reporter, err = report.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
		}
		log.Println("🤖 Telegram Bot initialized.")
	}

	log.Println("🚀 Starting InternHunt...")

	excl := filter.New(cfg.Filter.ExcludeKeywords)
	shots := browser.NewScreenshotDebugger(filepath.Join(cfg.Output.Dir, "screenshots"))

	//assemble sources; the browser only starts when a source needs it
	var sources []scraper.Source
	if cfg.Sources.Indeed || cfg.Sources.LinkedIn {
		pwManager, err := browser.NewPlaywright(cfg.Scrape.Headless)
		if err != nil {
			log.Fatalf("❌ Failed to init Playwright: %v", err)
		}
		//close playwright manager when application stops
		defer pwManager.Close()

		//load cookies
		var allCookies []playwright.OptionalCookie
		if cfg.Scrape.CookiesPath != "" {
			cookieFiles := map[string]string{
				"indeed":   filepath.Join(cfg.Scrape.CookiesPath, "cookies-indeed.json"),
				"linkedin": filepath.Join(cfg.Scrape.CookiesPath, "cookies-linkedin.json"),
			}
			for name, cookieFile := range cookieFiles {
				cookies, err := browser.LoadCookies(cookieFile)
				if err != nil {
					log.Printf("⚠️ Could not load %s cookies: %v. Continuing.", name, err)
					continue
				}
				log.Printf("🍪 Loaded %s cookies (%d)", name, len(cookies))
				allCookies = append(allCookies, cookies...)
			}
		}

		//create new browser context with cookies
		browserCtx, err := pwManager.NewContext(allCookies)
		if err != nil {
			log.Fatalf("❌ Failed to create browser context: %v", err)
		}

		//create new page shared by the browser sources
		page, err := browserCtx.NewPage()
		if err != nil {
			log.Fatalf("❌ Failed to create new page: %v", err)
		}
		log.Println("✅ Browser initialized successfully!")

		if cfg.Sources.Indeed {
			sources = append(sources, indeed.New(page, indeed.Config{
				Query:         cfg.Search.Query,
				Location:      cfg.Search.Location,
				RenderTimeout: cfg.Scrape.RenderTimeout.Std(),
				Exclude:       excl,
				Shots:         shots,
			}))
		}
		if cfg.Sources.LinkedIn {
			sources = append(sources, linkedin.New(page, linkedin.Config{
				Query:         cfg.Search.Query,
				Location:      cfg.Search.Location,
				RenderTimeout: cfg.Scrape.RenderTimeout.Std(),
				Exclude:       excl,
				Shots:         shots,
			}))
		}
	}
	if cfg.Sources.JSearch {
		sources = append(sources, jsearch.New(jsearch.Config{
			APIKey:   cfg.RapidAPIKey,
			Query:    cfg.Search.Query,
			Location: cfg.Search.Location,
			Exclude:  excl,
		}))
	}

	//run the batch
	r := runner.New(st, sources, cfg.Search.Pages, cfg.Scrape.PageDelay.Std())
	summary, err := r.Run(ctx)
	if err != nil {
		if summary == nil {
			log.Fatalf("❌ Run aborted: %v", err)
		}
		log.Printf("⚠️ Run interrupted: %v", err)
	}

	log.Printf("📊 Run summary: %s", summary)

	//push new postings to telegram
	if reporter != nil && len(summary.New) > 0 {
		log.Printf("📨 Sending %d new postings to Telegram...", len(summary.New))
		for _, p := range summary.New {
			if err := reporter.SendPosting(p); err != nil {
				log.Printf("⚠️ Failed to send posting to Telegram: %v", err)
			}
			//1 second delay to avoid 429
			time.Sleep(1 * time.Second)
		}
		statusMsg := fmt.Sprintf("Internship run finished: %s", summary)
		if err := reporter.SendStatus(statusMsg); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	//save results
	if len(summary.New) > 0 {
		path, err := export.WriteJSON(cfg.Output.Dir, cfg.Search.Query, cfg.Search.Location, summary.Pages, summary.New)
		if err != nil {
			log.Printf("⚠️ Failed to save results: %v", err)
		} else {
			log.Printf("📁 Results saved to %s", path)
		}
	} else {
		log.Println("ℹ️ No new postings to save.")
	}

	log.Println("🏁 Execution finished.")
}
