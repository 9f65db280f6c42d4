package enrich

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Summarizer condenses ad copy into the marketing angle fed to the script
// writer, using the Cohere chat API.
type Summarizer struct {
	client *cohereclient.Client
	model  string
}

// NewSummarizerFromEnv reads COHERE_API_KEY and COHERE_MODEL. Returns nil
// when the key is unset; the angle summary is optional enrichment.
func NewSummarizerFromEnv() *Summarizer {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil
	}

	model := os.Getenv("COHERE_MODEL")
	if model == "" {
		model = "command-r-08-2024"
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Summarizer{client: client, model: model}
}

// SummarizeAngle returns a one-paragraph description of the marketing angle
// behind adCopy.
func (s *Summarizer) SummarizeAngle(ctx context.Context, adCopy string) (string, error) {
	if strings.TrimSpace(adCopy) == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(`Summarize the marketing angle of this ad copy in one paragraph: what is promised, to whom, and with what urgency.

Ad copy:
%s`, adCopy)

	resp, err := s.client.V2.Chat(ctx, &cohere.V2ChatRequest{
		Model: s.model,
		Messages: cohere.ChatMessages{
			{
				Role: "user",
				User: &cohere.UserMessageV2{
					Content: &cohere.UserMessageV2Content{String: prompt},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat: %w", err)
	}

	var out strings.Builder
	for _, item := range resp.Message.Content {
		if item.Text != nil {
			out.WriteString(item.Text.Text)
		}
	}
	return out.String(), nil
}
