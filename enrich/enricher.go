package enrich

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"adscope/types"
)

// Enricher runs the full AI layer for one video ad: audio extraction,
// transcription, angle summary, persona/hooks/headlines, and a fresh script.
type Enricher struct {
	hf         *HuggingFace
	writer     *ScriptWriter
	summarizer *Summarizer
}

// NewEnricherFromEnv wires whichever providers are configured. Returns nil
// when transcription is impossible (no Hugging Face key), since everything
// downstream hangs off the transcript.
func NewEnricherFromEnv() *Enricher {
	hf := NewHuggingFaceFromEnv()
	if hf == nil {
		return nil
	}
	return &Enricher{
		hf:         hf,
		writer:     NewScriptWriterFromEnv(),
		summarizer: NewSummarizerFromEnv(),
	}
}

// EnrichVideo transcribes one video ad and layers the LLM outputs on top.
// Any failure aborts this call only; the pipeline degrades the record to an
// empty enrichment.
func (e *Enricher) EnrichVideo(ctx context.Context, videoURL string, ad types.Ad) (*types.Enrichment, error) {
	audioPath, err := ExtractAudio(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(audioPath)

	segments, err := e.hf.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	enrichment := &types.Enrichment{
		Transcript: segments,
		Hooks:      []string{},
	}

	transcript := joinSegments(segments)
	adCopy := ""
	if ad.AdCopy != nil {
		adCopy = *ad.AdCopy
	}

	if e.summarizer != nil {
		summary, err := e.summarizer.SummarizeAngle(ctx, adCopy)
		if err != nil {
			log.Printf("Warning: angle summary failed for ad %s: %v", ad.PlatformID, err)
		} else {
			enrichment.Summary = summary
		}
	}

	if e.writer == nil {
		return enrichment, nil
	}

	extraction, err := e.writer.ExtractPersona(ctx, adCopy, transcript)
	if err != nil {
		return nil, fmt.Errorf("extract persona: %w", err)
	}
	enrichment.Persona = &extraction.Persona
	enrichment.Hooks = extraction.Hooks
	enrichment.Headlines = extraction.Headlines

	scenes, err := e.writer.WriteScript(ctx, extraction.Persona, transcript, enrichment.Summary)
	if err != nil {
		return nil, fmt.Errorf("write script: %w", err)
	}
	enrichment.Script = scenes

	return enrichment, nil
}

func joinSegments(segments []types.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}
