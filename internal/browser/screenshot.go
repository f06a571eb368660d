package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenshotDebugger captures full-page screenshots when a source hits
// something unexpected (challenge page, empty render).
type ScreenshotDebugger struct {
	outputDir string
}

func NewScreenshotDebugger(outputDir string) *ScreenshotDebugger {
	if outputDir == "" {
		outputDir = filepath.Join("logs", "screenshots")
	}
	os.MkdirAll(outputDir, 0755)
	return &ScreenshotDebugger{outputDir: outputDir}
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	log.Printf("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	log.Printf("   Screenshot saved: %s", path)
	return nil
}
