package api

import (
	"github.com/gin-gonic/gin"

	"adscope/assets"
	"adscope/enrich"
	"adscope/pipeline"
	"adscope/scrape"
	"adscope/store"
)

// Deps are the collaborators the HTTP surface needs. Optional ones may be
// nil; the controllers answer 503 for work they cannot do.
type Deps struct {
	Scraper    *scrape.Client
	Vocabulary *store.CachedVocabulary
	Pipeline   *pipeline.Pipeline
	Writer     *enrich.ScriptWriter
	Images     *enrich.HuggingFace
	Uploader   *assets.Uploader
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterTrackRoutes(r, deps)
	RegisterStoryboardRoutes(r, deps)
	RegisterHealthRoutes(r)
	return r
}
