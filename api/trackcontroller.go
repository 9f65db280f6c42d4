package api

import (
	"log"
	"net/http"

	"adscope/config"
	"adscope/types"

	"github.com/gin-gonic/gin"
)

// RegisterTrackRoutes registers the ad-tracking endpoint.
func RegisterTrackRoutes(r *gin.Engine, deps Deps) {
	r.POST("/api/track", handleTrack(deps))
}

// handleTrack scrapes one Ad Library URL, runs the batch through the
// pipeline and returns the aggregated result. Per-record failures ride along
// inside the response; only a failed insert turns into a 500.
func handleTrack(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TrackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.AdURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "adURL is required"})
			return
		}
		if deps.Scraper == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scraper is not configured"})
			return
		}

		count := req.Count
		if count <= 0 {
			count = config.DefaultScrapeCount
		}

		ctx := c.Request.Context()

		records, err := deps.Scraper.FetchAds(ctx, req.AdURL, count)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to scrape ads: " + err.Error()})
			return
		}
		log.Printf("📥 Scraped %d records for %s", len(records), req.AdURL)

		var vocabulary []string
		if deps.Vocabulary != nil {
			vocabulary, err = deps.Vocabulary.CategoryVocabulary(ctx)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category vocabulary: " + err.Error()})
				return
			}
		}

		result, err := deps.Pipeline.Run(ctx, req, records, vocabulary)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist tracking result: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
