package medicalcard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medcard/medcard/internal/kvstore"
	"github.com/medcard/medcard/internal/platform/blobstore"
)

// ErrCardNotFound is returned when no card is registered for a worker.
var ErrCardNotFound = errors.New("card not found")

// Labels are the two caller-customizable display strings.
type Labels struct {
	Result       string `json:"result"`
	Requirements string `json:"requirements"`
}

// RegisterInput is the caller-supplied configuration for one card.
type RegisterInput struct {
	Worker        Worker       `json:"worker"`
	Status        string       `json:"status"`
	InitialFile   *ResultFile  `json:"file,omitempty"`
	Requirement   *Requirement `json:"requirement,omitempty"`
	RejectionNote string       `json:"rejection_note,omitempty"`
}

// Projection is the card's display state handed back to the host UI.
type Projection struct {
	Worker         Worker         `json:"worker"`
	Status         Status         `json:"status"`
	Display        DisplayTokens  `json:"display"`
	PreviewPalette PreviewPalette `json:"preview_palette"`
	File           *ResultFile    `json:"file,omitempty"`
	HasContent     bool           `json:"has_content"`
	RejectionNote  string         `json:"rejection_note,omitempty"`
	HasRequirement bool           `json:"has_requirement"`
	Labels         Labels         `json:"labels"`
}

// Service is the registry of mounted cards, keyed by the worker cache key. It
// shares one validator, one store, and one preview blob registry across
// cards.
type Service struct {
	mu    sync.RWMutex
	cards map[string]*Card

	store     kvstore.Store
	validator *Validator
	blobs     *blobstore.Registry
	viewerURL string
	labels    Labels
	logger    zerolog.Logger
}

// NewService builds a Service. Empty labels get sensible defaults.
func NewService(store kvstore.Store, validator *Validator, blobs *blobstore.Registry, viewerURL string, labels Labels, logger zerolog.Logger) *Service {
	if labels.Result == "" {
		labels.Result = "Medical result"
	}
	if labels.Requirements == "" {
		labels.Requirements = "Requirements"
	}
	return &Service{
		cards:     make(map[string]*Card),
		store:     store,
		validator: validator,
		blobs:     blobs,
		viewerURL: viewerURL,
		labels:    labels,
		logger:    logger,
	}
}

// Register creates (or replaces) the card for a worker and mounts it, which
// restores any cached upload. It returns the mounted card.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Card, error) {
	if in.Worker.Name == "" {
		return nil, fmt.Errorf("worker name is required")
	}

	workerName := in.Worker.Name
	card := NewCard(Options{
		Worker:        in.Worker,
		Status:        ParseStatus(in.Status),
		InitialFile:   in.InitialFile,
		Requirement:   in.Requirement,
		RejectionNote: in.RejectionNote,
		Validator:     s.validator,
		Store:         s.store,
		Blobs:         s.blobs,
		ViewerURL:     s.viewerURL,
		Logger:        s.logger,
		Callbacks: Callbacks{
			OnFileUpload: func(f ResultFile) {
				s.logger.Info().
					Str("worker", workerName).
					Str("file", f.Name).
					Int64("size", f.Size).
					Str("type", f.Type).
					Msg("medical result uploaded")
			},
			OnStatusChange: func(st Status) {
				s.logger.Info().
					Str("worker", workerName).
					Str("status", string(st)).
					Msg("review status reset")
			},
		},
	})
	card.Mount(ctx)

	key := CacheKey(in.Worker.Name)
	s.mu.Lock()
	s.cards[key] = card
	s.mu.Unlock()

	return card, nil
}

// Get returns the card registered for a worker.
func (s *Service) Get(workerName string) (*Card, error) {
	s.mu.RLock()
	card, ok := s.cards[CacheKey(workerName)]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCardNotFound
	}
	return card, nil
}

// Upload runs the upload flow on a worker's card.
func (s *Service) Upload(ctx context.Context, workerName string, cand UploadCandidate) (*ResultFile, error) {
	card, err := s.Get(workerName)
	if err != nil {
		return nil, err
	}
	file, rej := card.Upload(ctx, cand)
	if rej != nil {
		return nil, rej
	}
	return file, nil
}

// Projection builds the display state for a worker's card.
func (s *Service) Projection(workerName string) (*Projection, error) {
	card, err := s.Get(workerName)
	if err != nil {
		return nil, err
	}
	p := s.project(card)
	return &p, nil
}

// List returns card projections sorted by worker name, paginated.
func (s *Service) List(limit, offset int) ([]Projection, int) {
	s.mu.RLock()
	cards := make([]*Card, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, c)
	}
	s.mu.RUnlock()

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Worker().Name < cards[j].Worker().Name
	})

	total := len(cards)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	out := make([]Projection, 0, end-offset)
	for _, c := range cards[offset:end] {
		out = append(out, s.project(c))
	}
	return out, total
}

func (s *Service) project(card *Card) Projection {
	status := card.Status()
	file := card.File()
	return Projection{
		Worker:         card.Worker(),
		Status:         status,
		Display:        status.DisplayTokens(),
		PreviewPalette: status.PreviewPalette(),
		File:           file,
		HasContent:     file != nil && file.HasContent(),
		RejectionNote:  card.VisibleRejectionNote(),
		HasRequirement: card.Requirement() != nil,
		Labels:         s.labels,
	}
}
