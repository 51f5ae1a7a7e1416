// Package gemini synthesizes a slide deck from enriched commit history with a
// single structured-generation call to Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/commitdeck/internal/logging"
	"github.com/commitdeck/pkg/models"
)

// ErrEmptyResponse means the model returned no text at all.
var ErrEmptyResponse = errors.New("no response from Gemini")

// SynthesizerConfig contains configuration for the synthesizer
type SynthesizerConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
}

// Synthesizer turns a commit sequence into a presentation document.
type Synthesizer struct {
	client      *genai.Client
	model       string
	temperature float64
	runLog      *logging.RunLogger
}

// New creates a Synthesizer.
func New(ctx context.Context, config SynthesizerConfig) (*Synthesizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	if config.Model == "" {
		config.Model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Synthesizer{
		client:      client,
		model:       config.Model,
		temperature: config.Temperature,
	}, nil
}

// SetRunLogger attaches a per-run transcript logger. May be nil.
func (s *Synthesizer) SetRunLogger(rl *logging.RunLogger) {
	s.runLog = rl
}

// GeneratePresentation issues one structured-generation request carrying the
// shaped commit context and parses the response into a presentation
// document. The response schema is the only structural guarantee: a response
// that is empty or fails to parse is a fatal synthesis error, with no repair
// or retry.
func (s *Synthesizer) GeneratePresentation(ctx context.Context, repoName string, commits []models.Commit, startDate, endDate time.Time) (*models.PresentationData, error) {
	if len(commits) == 0 {
		return nil, fmt.Errorf("no commits found in the specified range")
	}

	shaped := shapeCommits(commits)
	body, err := json.Marshal(shaped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode commit context: %w", err)
	}

	instruction := systemInstruction(repoName, startDate, endDate)

	log.Info().
		Str("model", s.model).
		Int("commits", len(shaped)).
		Int("context_bytes", len(body)).
		Msg("requesting presentation synthesis")
	s.runLog.LogRequest(s.model, instruction, string(body))

	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(string(body)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			Temperature:       genai.Ptr(float32(s.temperature)),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    presentationSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	s.runLog.LogResponse(text)

	deck, err := parsePresentation(text)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("title", deck.Title).
		Int("slides", len(deck.Slides)).
		Msg("presentation synthesized")

	return deck, nil
}

// parsePresentation validates the raw response text against the synthesis
// contract: non-empty, well-formed JSON, at least one slide. Anything less is
// a fatal contract violation.
func parsePresentation(text string) (*models.PresentationData, error) {
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var deck models.PresentationData
	if err := json.Unmarshal([]byte(text), &deck); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if len(deck.Slides) == 0 {
		return nil, fmt.Errorf("gemini response contained no slides")
	}
	return &deck, nil
}
