// Package gemini implements llm.Provider and llm.Extractor on top of
// Google's Gemini API, the only concrete LLM backend this service wires
// up (enhanced-mode marine extraction and enrichment-description
// rewriting are the only two call sites).
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"github.com/aurel42/zonepoi/pkg/config"
	"github.com/aurel42/zonepoi/pkg/llm"
	"github.com/aurel42/zonepoi/pkg/request"
	"github.com/aurel42/zonepoi/pkg/tracker"
)

// Client implements llm.Provider and llm.Extractor for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	apiKey      string
	model       string
	rc          *request.Client
	tracker     *tracker.Tracker

	mu sync.RWMutex
}

// NewClient creates a Gemini client from cfg. An empty cfg.APIKey leaves
// the client unconfigured — GenerateText/GenerateJSON then fail fast
// rather than panicking, matching the "optional capability" wiring the
// service root expects.
func NewClient(cfg config.LLMConfig, rc *request.Client, t *tracker.Tracker) (*Client, error) {
	c := &Client{rc: rc, tracker: t}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure (re-)initializes the client with cfg's API key and model.
func (c *Client) Configure(cfg config.LLMConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiKey = cfg.APIKey
	c.model = cfg.Model
	c.genaiClient = nil

	if c.apiKey == "" {
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genaiClient = client

	if err := c.validateModel(context.Background()); err != nil {
		if os.Getenv("TEST_MODE") == "true" {
			slog.Warn("Gemini model validation failed (proceeding due to TEST_MODE)", "error", err)
			return nil
		}
		return fmt.Errorf("gemini model validation failed: %w", err)
	}
	return nil
}

// Close cleans up resources.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genaiClient = nil
}

// HealthCheck verifies the client is configured and its model is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	client := c.genaiClient
	hasKey := c.apiKey != ""
	c.mu.RUnlock()

	if !hasKey {
		return fmt.Errorf("gemini: no API key configured")
	}
	if client == nil {
		return fmt.Errorf("gemini: client not initialized")
	}
	if os.Getenv("TEST_MODE") == "true" {
		return nil
	}
	return c.validateModel(ctx)
}

// GenerateText sends a prompt and returns the text response.
func (c *Client) GenerateText(ctx context.Context, name, prompt string) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	model := c.model
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{})
	if err != nil {
		c.trackFailure()
		return "", fmt.Errorf("generate text error (%s): %w", name, err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		c.trackFailure()
		return "", err
	}
	c.trackSuccess()
	return text, nil
}

// GenerateJSON sends a prompt and unmarshals the response into target.
func (c *Client) GenerateJSON(ctx context.Context, name, prompt string, target any) error {
	c.mu.RLock()
	client := c.genaiClient
	model := c.model
	c.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("gemini client not configured")
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		c.trackFailure()
		return fmt.Errorf("generate json error (%s): %w", name, err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		c.trackFailure()
		return err
	}

	cleaned := llm.CleanJSONBlock(text)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		c.trackFailure()
		return fmt.Errorf("failed to unmarshal JSON response: %w. Response: %s", err, cleaned)
	}
	c.trackSuccess()
	return nil
}

// marineExtractPrompt instructs the model to pull wreck/reef candidates out
// of already marine-filtered diving-page prose.
const marineExtractPrompt = `You are extracting marine points of interest (shipwrecks, reefs, obstructions) from diving-site page text.
Return a JSON array of objects: {"name","type","depth","description","confidence"}.
"type" is one of "wreck","reef","obstruction". "depth" is in meters (0 if unknown).
"confidence" is your certainty in [0,1] that this is a real, named marine feature mentioned in the text (not a generic diving-center description).
Return [] if nothing qualifies. Text:

%s`

// ExtractMarinePOIs implements llm.Extractor.
func (c *Client) ExtractMarinePOIs(ctx context.Context, pageText string) ([]llm.MarinePOICandidate, error) {
	var candidates []llm.MarinePOICandidate
	prompt := fmt.Sprintf(marineExtractPrompt, llm.TruncateParagraphs(pageText, 2000))
	if err := c.GenerateJSON(ctx, "marine_extract", prompt, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Rewrite implements llm.Extractor.
func (c *Client) Rewrite(ctx context.Context, prompt string) (string, error) {
	return c.GenerateText(ctx, "rewrite", prompt)
}

func (c *Client) trackSuccess() {
	if c.tracker != nil {
		c.tracker.TrackAPISuccess("gemini")
	}
}

func (c *Client) trackFailure() {
	if c.tracker != nil {
		c.tracker.TrackAPIFailure("gemini")
	}
}

func getResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// validateModel checks that the configured model is available for this key.
func (c *Client) validateModel(ctx context.Context) error {
	if os.Getenv("TEST_MODE") == "true" {
		return nil
	}
	if c.model == "" {
		return fmt.Errorf("no model configured for gemini provider")
	}

	name := c.model
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}
	if _, err := c.genaiClient.Models.Get(ctx, name, nil); err == nil {
		return nil
	}

	iter, listErr := c.genaiClient.Models.List(ctx, nil)
	var availableInfo string
	if listErr == nil {
		var available []string
		for {
			resp, nextErr := iter.Next(ctx)
			if nextErr == iterator.Done || nextErr != nil {
				break
			}
			if strings.Contains(strings.ToLower(resp.Name), "gemini") {
				available = append(available, resp.Name)
			}
		}
		if len(available) > 0 {
			availableInfo = "\nAvailable models for this key: " + strings.Join(available, ", ")
		}
	}

	return fmt.Errorf("configured model %q not found or unauthorized.%s", c.model, availableInfo)
}
