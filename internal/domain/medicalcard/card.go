package medicalcard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medcard/medcard/internal/kvstore"
	"github.com/medcard/medcard/internal/platform/blobstore"
)

// Callbacks are the card's outbound notifications. OnFileUpload fires exactly
// once per accepted upload; OnStatusChange fires with pending immediately
// after, since an upload always resets the review status.
type Callbacks struct {
	OnFileUpload   func(ResultFile)
	OnStatusChange func(Status)
}

// Opener opens a URL in a new browsing context on behalf of the host. When no
// Opener is configured the card only returns the URL and the host opens it.
type Opener interface {
	Open(url string) error
}

// Options configure a Card. Worker, Status, Requirement, and RejectionNote
// are caller-supplied for the card's lifetime and never mutated internally.
type Options struct {
	Worker        Worker
	Status        Status
	InitialFile   *ResultFile
	Requirement   *Requirement
	RejectionNote string

	// Validator defaults to NewValidator(0, nil) when nil.
	Validator *Validator
	// Store backs the upload cache. When nil, Mount and persistence are
	// no-ops: the card behaves like a non-interactive render.
	Store kvstore.Store
	// Blobs backs PDF preview. A private registry is created when nil.
	Blobs *blobstore.Registry
	// ViewerURL is the external document-viewer prefix used for non-PDF
	// preview; DefaultViewerURL when empty.
	ViewerURL string
	Opener    Opener
	Callbacks Callbacks
	Logger    zerolog.Logger
}

// Card tracks one worker's medical-clearance document: the current uploaded
// result, its review status, and the configured requirement document.
//
// State machine: Empty -> (valid upload) -> Populated; further valid uploads
// replace the record and reset the status to pending; rejected uploads leave
// everything unchanged. There is no transition back to Empty.
type Card struct {
	mu sync.Mutex

	worker        Worker
	status        Status
	file          *ResultFile
	requirement   *Requirement
	rejectionNote string

	validator *Validator
	cache     *resultCache
	blobs     *blobstore.Registry
	viewerURL string
	opener    Opener
	callbacks Callbacks
	logger    zerolog.Logger

	previewBlobID string
}

// NewCard builds a Card. An invalid or empty status defaults to pending.
func NewCard(opts Options) *Card {
	status := opts.Status
	if !status.Valid() {
		status = StatusPending
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewValidator(0, nil)
	}
	blobs := opts.Blobs
	if blobs == nil {
		blobs = blobstore.NewRegistry("/preview-blobs")
	}
	viewerURL := opts.ViewerURL
	if viewerURL == "" {
		viewerURL = DefaultViewerURL
	}

	c := &Card{
		worker:        opts.Worker,
		status:        status,
		file:          opts.InitialFile,
		requirement:   opts.Requirement,
		rejectionNote: opts.RejectionNote,
		validator:     validator,
		blobs:         blobs,
		viewerURL:     viewerURL,
		opener:        opts.Opener,
		callbacks:     opts.Callbacks,
		logger:        opts.Logger,
	}
	if opts.Store != nil {
		c.cache = &resultCache{store: opts.Store, logger: opts.Logger}
	}
	return c
}

// Mount restores the last uploaded result from the cache. A valid cached
// entry overrides any caller-supplied initial file; a corrupt one is cleared
// and the initial file kept. Without a store this is a no-op.
func (c *Card) Mount(ctx context.Context) {
	if c.cache == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if f := c.cache.Load(ctx, c.worker.Name); f != nil {
		c.file = f
	}
}

// Upload validates a candidate and, when accepted, replaces the current
// result, fires the callbacks, and persists the metadata best-effort. A
// rejection leaves the card untouched and fires nothing.
func (c *Card) Upload(ctx context.Context, cand UploadCandidate) (*ResultFile, *Rejection) {
	file, rej := c.validator.Validate(cand)
	if rej != nil {
		return nil, rej
	}

	c.mu.Lock()
	c.file = file
	c.status = StatusPending
	c.mu.Unlock()

	if c.callbacks.OnFileUpload != nil {
		c.callbacks.OnFileUpload(*file)
	}
	if c.callbacks.OnStatusChange != nil {
		c.callbacks.OnStatusChange(StatusPending)
	}

	if c.cache != nil {
		c.cache.Save(ctx, c.worker.Name, file)
	}

	out := *file
	return &out, nil
}

// Worker returns the worker record.
func (c *Card) Worker() Worker { return c.worker }

// Status returns the current review status.
func (c *Card) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// File returns the current uploaded result, or nil when the card is empty.
func (c *Card) File() *ResultFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	out := *c.file
	return &out
}

// Populated reports whether a result record is present, independent of
// whether its content handle survived.
func (c *Card) Populated() bool { return c.File() != nil }

// Requirement returns the configured requirement document, or nil.
func (c *Card) Requirement() *Requirement { return c.requirement }

// VisibleRejectionNote returns the rejection note when the current status
// displays one, otherwise the empty string.
func (c *Card) VisibleRejectionNote() string {
	if c.Status().ShowsRejectionNote() {
		return c.rejectionNote
	}
	return ""
}
