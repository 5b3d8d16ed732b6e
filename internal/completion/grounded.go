package completion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"engeybot/internal/domain"

	gensdk "google.golang.org/genai"
)

// maxSources caps how many search result titles are appended to an answer
const maxSources = 5

// GroundedGeminiClient answers prompts with Gemini using Google Search grounding
// and appends the titles of the web sources the answer was built from.
type GroundedGeminiClient struct {
	client       *gensdk.Client
	model        string
	systemPrompt string
	sourcesLabel string
}

// GroundedOptions configures a GroundedGeminiClient
type GroundedOptions struct {
	APIKey       string
	Model        string
	SystemPrompt string
	SourcesLabel string
	// BaseURL overrides the API endpoint, empty means the public Gemini API.
	BaseURL    string
	HTTPClient *http.Client
}

// NewGroundedGeminiClient creates a search-grounded Gemini client
func NewGroundedGeminiClient(ctx context.Context, opts GroundedOptions) (*GroundedGeminiClient, error) {
	client, err := gensdk.NewClient(ctx, &gensdk.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     gensdk.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: gensdk.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create grounded Gemini client: %w", err)
	}
	label := opts.SourcesLabel
	if label == "" {
		label = "Sources"
	}
	return &GroundedGeminiClient{
		client:       client,
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		sourcesLabel: label,
	}, nil
}

func (g *GroundedGeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	config := &gensdk.GenerateContentConfig{
		SystemInstruction: &gensdk.Content{
			Parts: []*gensdk.Part{{Text: RenderSystemPrompt(g.systemPrompt, req.SenderName)}},
		},
		Tools: []*gensdk.Tool{{GoogleSearch: &gensdk.GoogleSearch{}}},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, gensdk.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: grounded generate content: %v", domain.ErrUpstream, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: grounded generate content returned no text", domain.ErrUpstream)
	}

	if titles := sourceTitles(resp, maxSources); len(titles) > 0 {
		text += "\n\n" + g.sourcesLabel + ": " + strings.Join(titles, ", ")
	}
	return text, nil
}

// sourceTitles collects distinct web source titles from the first candidate
func sourceTitles(resp *gensdk.GenerateContentResponse, limit int) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var titles []string
	for _, chunk := range meta.GroundingChunks {
		if len(titles) == limit {
			break
		}
		if chunk == nil || chunk.Web == nil {
			continue
		}
		title := strings.TrimSpace(chunk.Web.Title)
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}
