// File: cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"hh-offerbot/internal/config"
	pg "hh-offerbot/internal/infra/db/postgres"
)

// Seeds the tariff table for local and staging environments. Idempotent:
// existing codes are left untouched.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	seed := []struct {
		Code       string
		PriceCents int64
		PeriodDays int
	}{
		{"premium_month", 99_000, 30},
		{"premium_quarter", 249_000, 90},
	}

	for _, s := range seed {
		tag, err := pool.Exec(ctx, `
INSERT INTO tariffs (code, price_cents, period_days)
VALUES ($1, $2, $3)
ON CONFLICT (code) DO NOTHING;`, s.Code, s.PriceCents, s.PeriodDays)
		if err != nil {
			log.Fatalf("seed tariff %q: %v", s.Code, err)
		}
		if tag.RowsAffected() > 0 {
			fmt.Printf("seeded: %s (price=%d, days=%d)\n", s.Code, s.PriceCents, s.PeriodDays)
		} else {
			fmt.Printf("exists: %s\n", s.Code)
		}
	}

	fmt.Println("seeding complete")
}
