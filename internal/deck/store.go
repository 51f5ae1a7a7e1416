// Package deck holds the session-scoped, user-editable working copy of a
// synthesized presentation. Exports always read this copy, never the original
// synthesis result, so edits made before export are always reflected.
package deck

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/commitdeck/pkg/models"
)

// Store is the mutable working state of one presentation session. It is
// created empty, seeded from a successful synthesis, mutated through
// per-slide updates, and discarded on reset. There is no persistence.
type Store struct {
	mu        sync.Mutex
	sessionID string
	doc       *models.PresentationData
	index     int
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Seed installs a deep copy of a synthesized document as the working state
// and resets navigation to the first slide. Any previous session is
// discarded.
func (s *Store) Seed(doc *models.PresentationData) {
	if doc == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc.Clone()
	s.index = 0
	s.sessionID = uuid.NewString()

	log.Debug().
		Str("session", s.sessionID).
		Int("slides", len(s.doc.Slides)).
		Msg("deck store seeded")
}

// SessionID returns the id of the active session, or "" when empty.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Len returns the number of slides in the working copy.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return 0
	}
	return len(s.doc.Slides)
}

// Snapshot returns a deep copy of the current working state for export, or
// nil when the store is empty.
func (s *Store) Snapshot() *models.PresentationData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Slide returns a copy of the slide at index i.
func (s *Store) Slide(i int) (models.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || i < 0 || i >= len(s.doc.Slides) {
		return models.Slide{}, fmt.Errorf("slide index %d out of range", i)
	}
	out := s.doc.Slides[i]
	out.PptxContent.Bullets = append([]string(nil), out.PptxContent.Bullets...)
	return out, nil
}

// Current returns a copy of the slide at the navigation index.
func (s *Store) Current() (models.Slide, error) {
	s.mu.Lock()
	idx := s.index
	s.mu.Unlock()
	return s.Slide(idx)
}

// Index returns the current navigation index.
func (s *Store) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// UpdateSlide applies a partial update to the slide at index i. Fields left
// nil in the update keep their current value; the structured fallback content
// is never touched.
func (s *Store) UpdateSlide(i int, update models.SlideUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil || i < 0 || i >= len(s.doc.Slides) {
		return fmt.Errorf("slide index %d out of range", i)
	}

	if update.HTMLContent != nil {
		s.doc.Slides[i].HTMLContent = *update.HTMLContent
	}
	if update.SpeakerNotes != nil {
		s.doc.Slides[i].SpeakerNotes = *update.SpeakerNotes
	}
	return nil
}

// Next advances the navigation index, clamped to the last slide.
func (s *Store) Next() int {
	return s.SetIndex(s.Index() + 1)
}

// Prev moves the navigation index back, clamped to the first slide.
func (s *Store) Prev() int {
	return s.SetIndex(s.Index() - 1)
}

// SetIndex moves navigation to i, clamped to [0, len-1], and returns the
// resulting index.
func (s *Store) SetIndex(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil || len(s.doc.Slides) == 0 {
		s.index = 0
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i > len(s.doc.Slides)-1 {
		i = len(s.doc.Slides) - 1
	}
	s.index = i
	return s.index
}

// Reset discards all session state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" {
		log.Debug().Str("session", s.sessionID).Msg("deck store reset")
	}
	s.doc = nil
	s.index = 0
	s.sessionID = ""
}
