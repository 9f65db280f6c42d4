package api

import (
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"adscope/config"
	"adscope/types"

	"github.com/gin-gonic/gin"
)

// RegisterStoryboardRoutes registers storyboard generation endpoints.
func RegisterStoryboardRoutes(r *gin.Engine, deps Deps) {
	r.POST("/api/storyboard", handleStoryboard(deps))
}

// StoryboardRequest carries the scenes to render.
type StoryboardRequest struct {
	Scenes []types.StoryboardScene `json:"scenes" binding:"required"`
}

// StoryboardResponse returns one frame per requested scene. Scenes that fail
// carry their error and an empty image; the request itself still succeeds.
type StoryboardResponse struct {
	Frames []types.StoryboardFrame `json:"frames"`
}

// handleStoryboard renders scenes sequentially: prompt generation, then image
// generation, then upload. Scenes are spaced out to stay under the inference
// provider's rate limit.
func handleStoryboard(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StoryboardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if deps.Writer == nil || deps.Images == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storyboard generation is not configured"})
			return
		}

		ctx := c.Request.Context()
		frames := make([]types.StoryboardFrame, 0, len(req.Scenes))

		for i, scene := range req.Scenes {
			if i > 0 {
				select {
				case <-time.After(config.StoryboardSceneDelay):
				case <-ctx.Done():
					c.JSON(http.StatusRequestTimeout, gin.H{"error": ctx.Err().Error()})
					return
				}
			}

			frame := types.StoryboardFrame{SceneNumber: scene.SceneNumber}

			prompt, err := deps.Writer.StoryboardPrompt(ctx, scene)
			if err != nil {
				log.Printf("❌ Storyboard prompt failed for scene %d: %v", scene.SceneNumber, err)
				frame.Error = err.Error()
				frames = append(frames, frame)
				continue
			}
			frame.GeneratedPrompt = prompt

			image, err := deps.Images.GenerateImage(ctx, prompt)
			if err != nil {
				log.Printf("❌ Image generation failed for scene %d: %v", scene.SceneNumber, err)
				frame.Error = err.Error()
				frames = append(frames, frame)
				continue
			}

			if deps.Uploader != nil {
				key, err := deps.Uploader.StoreBytes(ctx, "storyboards", ".png", "image/png", image)
				if err != nil {
					log.Printf("❌ Storyboard upload failed for scene %d: %v", scene.SceneNumber, err)
					frame.Error = err.Error()
					frames = append(frames, frame)
					continue
				}
				frame.GeneratedImage = key
			} else {
				frame.GeneratedImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
			}

			frames = append(frames, frame)
		}

		c.JSON(http.StatusOK, StoryboardResponse{Frames: frames})
	}
}
