package llm

import (
	"context"

	"github.com/aurel42/zonepoi/pkg/config"
)

// Provider is the generic capability a concrete LLM backend exposes: plain
// text generation and JSON-structured generation, plus the config/health
// plumbing the service root uses to wire it up.
type Provider interface {
	// GenerateText sends a prompt and returns the text response.
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, name, prompt string, target any) error

	// Configure updates the provider with new settings (e.g. API key).
	Configure(cfg config.LLMConfig) error

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error
}

// MarinePOICandidate is one structured item an Extractor pulls out of a
// diving page's marine-relevant prose.
type MarinePOICandidate struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Depth       float64 `json:"depth"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Extractor is the pluggable capability the marine sub-pipeline's enhanced
// mode and the enrichment fallback chain depend on. It is injected at the
// service root alongside Logger; neither the pipeline nor enrichment holds
// a concrete LLM client.
type Extractor interface {
	// ExtractMarinePOIs extracts structured wreck/reef candidates from
	// pageText, a diving page's text already filtered to marine-relevant
	// paragraphs. Callers apply their own confidence threshold to the
	// returned candidates.
	ExtractMarinePOIs(ctx context.Context, pageText string) ([]MarinePOICandidate, error)

	// Rewrite asks the model to turn prompt (already containing whatever
	// source material needs rewriting) into a short descriptive passage.
	Rewrite(ctx context.Context, prompt string) (string, error)
}
