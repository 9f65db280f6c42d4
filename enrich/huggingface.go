package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"adscope/config"
	"adscope/types"
)

const (
	whisperModelURL = "https://api-inference.huggingface.co/models/openai/whisper-large-v3"
	fluxModelURL    = "https://api-inference.huggingface.co/models/black-forest-labs/FLUX.1-schnell"
)

// HuggingFace is a thin client for the two inference models this service
// leans on: Whisper for speech-to-text and FLUX for storyboard frames.
type HuggingFace struct {
	apiKey string
	client *http.Client
}

// NewHuggingFaceFromEnv reads HUGGING_FACE_API_KEY. Returns nil when unset so
// enrichment degrades instead of failing at startup.
func NewHuggingFaceFromEnv() *HuggingFace {
	apiKey := os.Getenv("HUGGING_FACE_API_KEY")
	if apiKey == "" {
		return nil
	}
	return &HuggingFace{
		apiKey: apiKey,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// whisperResponse is the subset of the Whisper inference output we read.
type whisperResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe sends audio bytes to Whisper. Timed segments come back when the
// model provides them; otherwise the plain text becomes a single segment.
func (h *HuggingFace) Transcribe(ctx context.Context, audioPath string) ([]types.TranscriptSegment, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	body, err := h.postWithBackoff(ctx, whisperModelURL, "audio/mp3", audio)
	if err != nil {
		return nil, err
	}

	var parsed whisperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	if len(parsed.Segments) > 0 {
		segments := make([]types.TranscriptSegment, len(parsed.Segments))
		for i, s := range parsed.Segments {
			segments[i] = types.TranscriptSegment{Start: s.Start, End: s.End, Text: s.Text}
		}
		return segments, nil
	}
	return []types.TranscriptSegment{{Text: parsed.Text}}, nil
}

// GenerateImage renders one storyboard frame for prompt and returns PNG
// bytes.
func (h *HuggingFace) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}
	return h.postWithBackoff(ctx, fluxModelURL, "application/json", payload)
}

// postWithBackoff retries rate-limited inference calls with the delay
// doubling each attempt. Other failures return immediately.
func (h *HuggingFace) postWithBackoff(ctx context.Context, url, contentType string, payload []byte) ([]byte, error) {
	delay := config.InferenceRetryDelay

	for attempt := 0; attempt < config.MaxInferenceRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
		req.Header.Set("Content-Type", contentType)

		resp, err := h.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("inference call: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read inference response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("inference call: status %d: %s", resp.StatusCode, truncate(string(body), 200))
		}
		return body, nil
	}

	return nil, fmt.Errorf("inference call: rate limited after %d attempts", config.MaxInferenceRetries)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
