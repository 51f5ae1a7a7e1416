// Package app orchestrates the generation pipeline: commit retrieval,
// presentation synthesis and seeding of the editable document store.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/commitdeck/internal/deck"
	"github.com/commitdeck/internal/logging"
	"github.com/commitdeck/pkg/models"
)

// ErrNoCommits is the empty-range policy error: a window with no commits is
// surfaced to the user instead of producing an empty deck.
var ErrNoCommits = errors.New("No commits found in the selected date range.")

// Status is the coarse pipeline state exposed to the UI layer.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusFetching  Status = "fetching_commits"
	StatusAnalyzing Status = "analyzing"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Retriever fetches the commit window; satisfied by github.Client.
type Retriever interface {
	FetchCommits(ctx context.Context, cfg models.RepoConfig) ([]models.Commit, error)
}

// Synthesizer turns commits into a deck; satisfied by gemini.Synthesizer.
type Synthesizer interface {
	GeneratePresentation(ctx context.Context, repoName string, commits []models.Commit, startDate, endDate time.Time) (*models.PresentationData, error)
}

// Pipeline wires the stages together and owns the session's terminal state.
type Pipeline struct {
	retriever   Retriever
	synthesizer Synthesizer
	store       *deck.Store

	mu      sync.Mutex
	status  Status
	lastErr string
}

// New creates a Pipeline around the given collaborators.
func New(r Retriever, s Synthesizer, store *deck.Store) *Pipeline {
	return &Pipeline{
		retriever:   r,
		synthesizer: s,
		store:       store,
		status:      StatusIdle,
	}
}

// Store returns the document store the pipeline seeds.
func (p *Pipeline) Store() *deck.Store {
	return p.store
}

// Status returns the current pipeline state and, in the error state, the
// human-readable failure message.
func (p *Pipeline) Status() (Status, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.lastErr
}

func (p *Pipeline) setStatus(s Status, errMsg string) {
	p.mu.Lock()
	p.status = s
	p.lastErr = errMsg
	p.mu.Unlock()
}

// Generate runs the full pipeline for one request. Stage failures unwind to
// the terminal error state and nothing partial survives: a synthesis failure
// discards the fetched commits. On success the document store is seeded with
// the synthesized deck and the deck is returned.
func (p *Pipeline) Generate(ctx context.Context, cfg models.RepoConfig) (*models.PresentationData, error) {
	if err := cfg.Validate(); err != nil {
		p.fail(err)
		return nil, err
	}

	runLog, err := logging.StartRunLogging()
	if err != nil {
		// A missing transcript never blocks generation.
		log.Warn().Err(err).Msg("run logging unavailable")
	}
	defer runLog.Close()
	if rls, ok := p.synthesizer.(interface {
		SetRunLogger(*logging.RunLogger)
	}); ok {
		rls.SetRunLogger(runLog)
	}

	p.setStatus(StatusFetching, "")
	runLog.Log("fetching commits for %s (%s .. %s)",
		cfg.FullName(),
		cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"))

	commits, err := p.retriever.FetchCommits(ctx, cfg)
	if err != nil {
		p.fail(err)
		return nil, err
	}
	if len(commits) == 0 {
		p.fail(ErrNoCommits)
		return nil, ErrNoCommits
	}

	p.setStatus(StatusAnalyzing, "")
	runLog.Log("analyzing %d commits", len(commits))
	log.Info().Int("commits", len(commits)).Str("repo", cfg.FullName()).Msg("synthesizing presentation")

	doc, err := p.synthesizer.GeneratePresentation(ctx, cfg.FullName(), commits, cfg.StartDate, cfg.EndDate)
	if err != nil {
		p.fail(fmt.Errorf("presentation synthesis failed: %w", err))
		return nil, fmt.Errorf("presentation synthesis failed: %w", err)
	}

	p.store.Seed(doc)
	p.setStatus(StatusSuccess, "")
	runLog.Log("synthesis complete: %q, %d slides", doc.Title, len(doc.Slides))
	return doc, nil
}

func (p *Pipeline) fail(err error) {
	p.setStatus(StatusError, err.Error())
	log.Error().Err(err).Msg("generation failed")
}

// Reset discards all session state and returns the pipeline to idle.
func (p *Pipeline) Reset() {
	p.store.Reset()
	p.setStatus(StatusIdle, "")
}
