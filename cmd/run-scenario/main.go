// SkyShield Scenario Runner
// Runs one engagement scenario headless and prints the result as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/skyshield-sim/skyshield/internal/db"
	"github.com/skyshield-sim/skyshield/pkg/config"
)

var (
	configPath = flag.String("config", "configs/config.json", "Path to configuration file")
	seed       = flag.Int64("seed", 0, "Override the scenario random seed (0 = use config)")
	maxSteps   = flag.Int("max-steps", 0, "Stop after this many steps (0 = run to completion)")
	snapshots  = flag.Bool("snapshots", false, "Emit a snapshot line per step instead of just the result")
	persist    = flag.Bool("persist", false, "Record the run in the configured database")
	quiet      = flag.Bool("quiet", false, "Suppress progress logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sc := cfg.Scenario
	if *seed != 0 {
		sc.Seed = *seed
	}

	run, err := sc.Build()
	if err != nil {
		log.Fatalf("Failed to build scenario: %v", err)
	}

	var engRepo *db.EngagementRepository
	var record *db.EngagementRun
	if *persist {
		database, err := db.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		engRepo = db.NewEngagementRepository(database.DB)
		record = &db.EngagementRun{SessionID: uuid.NewString()}
		if err := engRepo.CreateRun(ctx, record); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
	}

	if !*quiet {
		log.Printf("🎯 Running scenario %q (seed %d, dt %.2fs)", sc.Name, sc.Seed, sc.TimeStepS)
	}

	enc := json.NewEncoder(os.Stdout)

	steps := 0
	for !run.Complete() {
		run.Advance()
		steps++

		if *snapshots {
			if err := enc.Encode(run.Snapshot()); err != nil {
				log.Fatalf("Failed to encode snapshot: %v", err)
			}
		}

		if *maxSteps > 0 && steps >= *maxSteps {
			if !*quiet {
				log.Printf("Stopping after %d steps (engagement still in progress)", steps)
			}
			break
		}
	}

	result := run.Result()

	if !*quiet {
		verdict := "defense holds"
		if result.Success {
			verdict = "strike success"
		}
		log.Printf("✅ Engagement over after %d steps (%.1fs): %s, %d missiles fired",
			steps, result.ElapsedS, verdict, len(result.Missiles))
	}

	if engRepo != nil && result.Complete {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := engRepo.CompleteRun(ctx, record.SessionID, result); err != nil {
			log.Printf("Warning: failed to persist result: %v", err)
		} else if !*quiet {
			log.Printf("💾 Result stored as run %s", record.SessionID)
		}
	}

	if !*snapshots {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
