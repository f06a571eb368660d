package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// MouseJiggle simulates random mouse movements
func MouseJiggle(page playwright.Page) {
	width, height := 800, 600
	if vp := page.ViewportSize(); vp != nil {
		width, height = vp.Width, vp.Height
	}

	for i := 0; i < 2; i++ {
		x := float64(rand.Intn(width-100) + 50)
		y := float64(rand.Intn(height-100) + 50)
		page.Mouse().Move(x, y)
		RandomDelay(100, 300)
	}
}

// SmoothScroll simulates human scrolling and walks the page far enough
// to trigger lazy-loaded cards and logos.
func SmoothScroll(page playwright.Page) {
	// Scroll down in steps
	for i := 0; i < 3; i++ {
		page.Mouse().Wheel(0, 600)
		RandomDelay(300, 800)
	}

	// Scroll up a tiny bit (human-like correction)
	page.Mouse().Wheel(0, -200)
	RandomDelay(300, 600)

	// Scroll to bottom to trigger lazy loading
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	RandomDelay(400, 900)
}
