// Package blobstore holds session-scoped temporary blobs used to preview an
// uploaded result. A blob exists only in memory: it is created when a preview
// is requested, addressed by an opaque id, and replaced when the same card
// previews again. Nothing here is persisted or transmitted elsewhere.
package blobstore

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrBlobNotFound is returned when no blob exists for an id.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is a temporary, in-memory document.
type Blob struct {
	ID          string
	FileName    string
	ContentType string
	Content     []byte
	CreatedAt   time.Time
}

// Registry is a thread-safe in-memory blob registry. BasePath is the URL
// prefix blobs are served under.
type Registry struct {
	mu       sync.RWMutex
	basePath string
	blobs    map[string]*Blob
}

// NewRegistry returns an empty Registry serving blobs under basePath.
func NewRegistry(basePath string) *Registry {
	return &Registry{
		basePath: basePath,
		blobs:    make(map[string]*Blob),
	}
}

// Put stores content and returns the new blob's id.
func (r *Registry) Put(fileName, contentType string, content []byte) string {
	b := &Blob{
		ID:          uuid.New().String(),
		FileName:    fileName,
		ContentType: contentType,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	r.blobs[b.ID] = b
	r.mu.Unlock()

	return b.ID
}

// Open returns the blob for an id.
func (r *Registry) Open(id string) (*Blob, error) {
	r.mu.RLock()
	b, ok := r.blobs[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrBlobNotFound
	}
	return b, nil
}

// Delete removes a blob. Deleting an unknown id is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.blobs, id)
	r.mu.Unlock()
}

// URL returns the address a blob is served at.
func (r *Registry) URL(id string) string {
	return r.basePath + "/" + id
}

// Handler serves registry blobs over HTTP.
type Handler struct {
	reg *Registry
}

// NewHandler creates a Handler for the registry.
func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

// RegisterRoutes mounts the blob route on the supplied Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/preview-blobs/:id", h.handleOpen)
}

func (h *Handler) handleOpen(c echo.Context) error {
	b, err := h.reg.Open(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename=%q`, b.FileName))
	return c.Blob(http.StatusOK, b.ContentType, b.Content)
}
