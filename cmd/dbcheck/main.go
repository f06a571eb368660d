package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"internhunt/internal/store"
)

// dbcheck verifies the configured store is reachable and reports how
// many postings it already holds. Run it once after filling in .env.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env") // Fallback
	}

	opts := store.Options{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
	}

	fmt.Println("Attempting to connect to the store...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.Open(ctx, opts)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the store. Error: %v\n(Check your connection string, key, and ensure you have internet access)", err)
	}
	defer st.Close()

	urls, err := st.SeenURLs(ctx)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	fmt.Printf("✅ Successfully connected to the %s store!\n", st.Name())
	fmt.Printf("📦 Postings currently stored: %d\n", len(urls))
}
