package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"adscope/types"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// PersonaExtraction is the structured output for persona/hook/headline
// extraction from an ad's copy and transcript.
type PersonaExtraction struct {
	Persona   types.Persona `json:"persona" jsonschema_description:"The buyer persona this ad speaks to"`
	Hooks     []string      `json:"hooks" jsonschema_description:"The attention hooks the ad uses, one short phrase each"`
	Headlines []string      `json:"headlines" jsonschema_description:"Alternative headlines in the same voice, max five"`
}

// ScriptBreakdown is the structured output for marketing script generation.
type ScriptBreakdown struct {
	Scenes []types.ScriptScene `json:"scenes" jsonschema_description:"The ordered scenes of the marketing script, 3 to 6 scenes"`
}

// StoryboardPromptResult is the structured output for storyboard prompt
// generation.
type StoryboardPromptResult struct {
	Prompt string `json:"prompt" jsonschema_description:"A single detailed text-to-image prompt for this scene"`
}

var (
	personaExtractionSchema = GenerateSchema[PersonaExtraction]()
	scriptBreakdownSchema   = GenerateSchema[ScriptBreakdown]()
	storyboardPromptSchema  = GenerateSchema[StoryboardPromptResult]()
)

// ScriptWriter generates personas, hooks, headlines, marketing scripts and
// storyboard prompts with OpenAI structured outputs.
type ScriptWriter struct {
	client openai.Client
}

// NewScriptWriterFromEnv reads OPENAI_API_KEY. Returns nil when unset.
func NewScriptWriterFromEnv() *ScriptWriter {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil
	}
	return &ScriptWriter{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

// ExtractPersona derives the buyer persona, hooks and headlines from the
// ad's copy and transcript.
func (w *ScriptWriter) ExtractPersona(ctx context.Context, adCopy, transcript string) (*PersonaExtraction, error) {
	prompt := fmt.Sprintf(`You are a performance marketing analyst reviewing a competitor's ad.

Ad copy:
%s

Video transcript:
%s

Identify the buyer persona the ad targets, the attention hooks it uses, and up to five alternative headlines in the same voice.`,
		adCopy, transcript)

	return getStructuredResponse[PersonaExtraction](ctx, w.client, prompt, personaExtractionSchema)
}

// WriteScript generates a scene-by-scene marketing script for a new ad aimed
// at the same persona.
func (w *ScriptWriter) WriteScript(ctx context.Context, persona types.Persona, transcript, angle string) ([]types.ScriptScene, error) {
	prompt := fmt.Sprintf(`You are a direct-response copywriter.

Target persona: %s — %s (audience: %s)
Marketing angle: %s
Reference transcript of a working competitor ad:
%s

Write a scene-by-scene script for a new short-form video ad for the same audience. For every scene give the spoken copy, the on-screen action, and any text overlay.`,
		persona.Name, persona.Description, persona.TargetAudience, angle, transcript)

	result, err := getStructuredResponse[ScriptBreakdown](ctx, w.client, prompt, scriptBreakdownSchema)
	if err != nil {
		return nil, err
	}
	if len(result.Scenes) == 0 {
		return nil, fmt.Errorf("model returned no scenes")
	}
	return result.Scenes, nil
}

// StoryboardPrompt turns one storyboard scene into a text-to-image prompt
// that carries the brand's style.
func (w *ScriptWriter) StoryboardPrompt(ctx context.Context, scene types.StoryboardScene) (string, error) {
	prompt := fmt.Sprintf(`Using the provided script copy and action description, write one text-to-image prompt that renders this scene as a storyboard frame aligned with the brand's style.

Scene Number: %d
Product Name: %s
Company Name: %s
Target Audience: %s

Script Copy: %q
Action Description: %q
Text Overlay: %q

The image should visually represent the action described while carrying the brand's visual identity.`,
		scene.SceneNumber, scene.ProductName, scene.CompanyName, scene.TargetAudience,
		scene.ScriptCopy, scene.ActionDescription, scene.TextOverlay)

	result, err := getStructuredResponse[StoryboardPromptResult](ctx, w.client, prompt, storyboardPromptSchema)
	if err != nil {
		return "", err
	}
	return result.Prompt, nil
}

// getStructuredResponse calls the chat API with JSON schema enforcement and
// decodes the reply into T.
func getStructuredResponse[T any](ctx context.Context, client openai.Client, prompt string, schema interface{}) (*T, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "structured_response",
		Description: openai.String("Structured data response"),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModelGPT4oMini,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var structured T
	raw := chatCompletion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(raw), &structured); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}
	return &structured, nil
}
