package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"adscope/api"
	"adscope/assets"
	"adscope/common"
	"adscope/config"
	"adscope/enrich"
	"adscope/pipeline"
	"adscope/scrape"
	"adscope/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8090"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx := context.Background()

	var db *store.Store
	if connString := os.Getenv("DATABASE_URL"); connString != "" {
		var err error
		db, err = store.NewStore(ctx, connString)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Postgres: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("⚠️  DATABASE_URL not set; results will not be persisted")
	}

	cache := store.NewVocabularyCacheFromEnv()
	if cache != nil {
		defer cache.Close()
	}

	uploader := initializeUploader(ctx)
	enricher := enrich.NewEnricherFromEnv()
	if enricher == nil {
		log.Println("⚠️  HUGGING_FACE_API_KEY not set; enrichment disabled")
	}

	scraper := scrape.NewClientFromEnv()
	if scraper == nil {
		log.Println("⚠️  SCRAPER_TOKEN not set; /api/track disabled")
	}

	deps := api.Deps{
		Scraper:  scraper,
		Pipeline: newPipeline(uploader, enricher, db),
		Writer:   enrich.NewScriptWriterFromEnv(),
		Images:   enrich.NewHuggingFaceFromEnv(),
		Uploader: uploader,
	}
	if db != nil {
		deps.Vocabulary = &store.CachedVocabulary{Store: db, Cache: cache}
	}

	r := api.NewRouter(deps)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  POST /api/track")
	log.Println("  POST /api/storyboard")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeUploader returns the asset uploader if object storage is
// configured via env. Required: ASSETS_BUCKET (defaults to "assets") plus
// whatever credentials the AWS SDK resolves on its own.
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
	// nil interface values must stay nil, not typed-nil wrappers
	var up pipeline.AssetUploader
	if uploader != nil {
		up = uploader
	}
	var en pipeline.Enricher
	if enricher != nil {
		en = enricher
	}
	var ps pipeline.Persister
	if db != nil {
		ps = db
	}
	return pipeline.New(up, en, ps, config.MaxConcurrentRecords)
}
