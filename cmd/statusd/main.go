package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"adscope/config"
	"adscope/scrape"
	"adscope/store"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// statusd keeps the live_status column honest: on a schedule it pages through
// stored ads, probes each one's public Ad Library page, and writes back the
// flag. Several staggered jobs share one paging cursor so the whole table is
// eventually covered without hammering the Ad Library in one burst.
func main() {
	_ = godotenv.Load()

	log.Println("⏰ Ad status refresher - Starting...")

	ctx := context.Background()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("❌ DATABASE_URL is required")
	}
	db, err := store.NewStore(ctx, connString)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	baseURL := os.Getenv("AD_LIBRARY_URL")
	if baseURL == "" {
		baseURL = "https://www.facebook.com/ads/library"
	}
	probe := scrape.NewStatusProbe(baseURL, &http.Client{Timeout: 30 * time.Second})

	job := &refreshJob{
		store:    db,
		probe:    probe,
		pageSize: config.StatusPageSize,
	}

	c := cron.New()
	schedules := []string{
		"0 2 * * *",
		"30 6 * * *",
		"0 11 * * *",
		"30 15 * * *",
		"0 20 * * *",
	}
	for _, schedule := range schedules {
		if _, err := c.AddFunc(schedule, func() { job.Run(ctx) }); err != nil {
			log.Fatalf("❌ Invalid cron schedule %q: %v", schedule, err)
		}
	}
	c.Start()
	log.Printf("✅ Scheduled %d refresh runs per day (page size %d)", len(schedules), job.pageSize)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	log.Println("Received termination signal")
	<-c.Stop().Done()
}

// refreshJob pages through the ads table one window per run. The cursor wraps
// back to the start once it runs past the end of the table.
type refreshJob struct {
	store    *store.Store
	probe    *scrape.StatusProbe
	pageSize int

	mu     sync.Mutex
	offset int
}

// Run probes one page of stored ads. Individual probe failures are logged and
// skipped; the run carries on.
func (j *refreshJob) Run(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	total, err := j.store.CountAds(ctx)
	if err != nil {
		log.Printf("❌ Failed to count ads: %v", err)
		return
	}
	if total == 0 {
		log.Println("No stored ads to refresh")
		return
	}
	if j.offset >= total {
		log.Printf("Completed a full pass over %d ads; starting over", total)
		j.offset = 0
	}

	ads, err := j.store.AdsPage(ctx, j.offset, j.pageSize)
	if err != nil {
		log.Printf("❌ Failed to load ads page at offset %d: %v", j.offset, err)
		return
	}
	log.Printf("🔎 Refreshing %d ads (offset %d of %d)", len(ads), j.offset, total)

	updated := 0
	for _, ad := range ads {
		active, err := j.probe.Probe(ctx, ad.ArchiveID)
		if err != nil {
			log.Printf("  ⚠️  Probe failed for ad %s: %v", ad.ArchiveID, err)
			continue
		}
		if active == nil {
			// page no longer exposes the flag; leave the stored status alone
			continue
		}

		status := "inactive"
		if *active {
			status = "active"
		}
		if err := j.store.UpdateLiveStatus(ctx, ad.ID, status); err != nil {
			log.Printf("  ❌ Failed to update ad %d: %v", ad.ID, err)
			continue
		}
		updated++
	}

	j.offset += j.pageSize
	log.Printf("✅ Refresh run complete: %d/%d updated, next offset %d", updated, len(ads), j.offset)
}
