package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrUnavailable is returned by generation calls when no API key is configured.
var ErrUnavailable = errors.New("ai provider not configured")

// Client defines the interface for generative model calls.
type Client interface {
	// Available reports whether a provider is configured.
	Available() bool
	// GenerateText runs a text-only prompt and returns the raw model output.
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	// GenerateFromFile runs a prompt over an attached document (e.g. an
	// invoice scan) and returns the raw model output.
	GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error)
}

// NewClient creates a Gemini-backed client based on the configuration.
// Without an API key the client still constructs, but reports unavailable
// and every generation call fails with ErrUnavailable; features decide how
// to degrade.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return &geminiClient{cfg: cfg}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiClient{cfg: cfg, client: client}, nil
}

type geminiClient struct {
	cfg    Config
	client *genai.Client
}

func (c *geminiClient) Available() bool {
	return c.client != nil
}

func (c *geminiClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	return c.generate(ctx, system, contents)
}

func (c *geminiClient) GenerateFromFile(ctx context.Context, system, prompt string, data []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	return c.generate(ctx, system, contents)
}

func (c *geminiClient) generate(ctx context.Context, system string, contents []*genai.Content) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}

	timeout := c.cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	// Deterministic JSON output: every caller parses the response.
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return resp.Text(), nil
}
