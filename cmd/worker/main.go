package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"adscope/assets"
	"adscope/common"
	"adscope/config"
	"adscope/enrich"
	"adscope/kafka"
	"adscope/pipeline"
	"adscope/scrape"
	"adscope/store"
	"adscope/types"

	"github.com/joho/godotenv"
)

// The worker consumes tracking requests from Kafka and runs them through the
// same pipeline the API uses. Processing failures leave the offset unmarked
// so the request is retried; invalid payloads are marked and dropped.
func main() {
	_ = godotenv.Load()

	log.Println("📨 Ad tracking worker - Starting...")

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

	scraper := scrape.NewClientFromEnv()
	if scraper == nil {
		log.Fatal("❌ SCRAPER_TOKEN is required")
	}

	cache := store.NewVocabularyCacheFromEnv()
	if cache != nil {
		defer cache.Close()
	}
	vocabulary := &store.CachedVocabulary{Store: db, Cache: cache}

	uploader := initializeUploader(ctx)
	enricher := enrich.NewEnricherFromEnv()
	if enricher == nil {
		log.Println("⚠️  HUGGING_FACE_API_KEY not set; enrichment disabled")
	}

	pipe := newPipeline(uploader, enricher, db)

	handler := &kafka.TypedMessageHandler[types.TrackRequest]{
		Validate: func(msg *types.TrackRequest) bool {
			if msg.AdURL == "" {
				log.Printf("❌ Message missing adURL, skipping")
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *types.TrackRequest) error {
			log.Printf("🔎 Tracking ads: %s", msg.AdURL)

			count := msg.Count
			if count <= 0 {
				count = config.DefaultScrapeCount
			}
			records, err := scraper.FetchAds(ctx, msg.AdURL, count)
			if err != nil {
				log.Printf("❌ Scrape failed for %s: %v", msg.AdURL, err)
				return err
			}

			vocab, err := vocabulary.CategoryVocabulary(ctx)
			if err != nil {
				return err
			}

			result, err := pipe.Run(ctx, *msg, records, vocab)
			if err != nil {
				log.Printf("❌ Failed to persist tracking result for %s: %v", msg.AdURL, err)
				return err
			}

			log.Printf("✅ Tracked %d ads for %s (%d uploads)", len(result.Ads), msg.AdURL, len(result.Uploads))
			return nil
		},
		AlwaysMark: true, // Mark validation failures, but not processing failures
	}

	consumer, err := kafka.NewConsumer(kafka.ConfigFromEnv(handler))
	if err != nil {
		log.Fatalf("❌ Failed to create Kafka consumer: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := consumer.Start(runCtx); err != nil {
		log.Fatalf("❌ Kafka consumer failed: %v", err)
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-runCtx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give some time for in-flight processing to complete
	time.Sleep(2 * time.Second)

	if err := consumer.Close(); err != nil {
		log.Printf("Error closing consumer: %v", err)
	}
}

func initializeUploader(ctx context.Context) *assets.Uploader {
	if strings.EqualFold(os.Getenv("ASSETS_DISABLED"), "true") {
		log.Println("⚠️  Asset uploads disabled")
		return nil
	}

	cfg := common.S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Endpoint:     strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}
	client, err := common.NewS3(ctx, cfg)
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (uploads disabled)", err)
		return nil
	}

	bucket := os.Getenv("ASSETS_BUCKET")
	if bucket == "" {
		bucket = config.AssetsBucket
	}
	return assets.NewUploader(client, bucket)
}

func newPipeline(uploader *assets.Uploader, enricher *enrich.Enricher, db *store.Store) *pipeline.Pipeline {
	var up pipeline.AssetUploader
	if uploader != nil {
		up = uploader
	}
	var en pipeline.Enricher
	if enricher != nil {
		en = enricher
	}
	return pipeline.New(up, en, db, config.MaxConcurrentRecords)
}
