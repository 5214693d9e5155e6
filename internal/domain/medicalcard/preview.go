package medicalcard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
)

// DefaultViewerURL is the external document-viewer prefix non-PDF previews
// are routed through.
const DefaultViewerURL = "https://docs.google.com/viewer?url="

var (
	// ErrNoUpload is returned when preview is requested on an empty card.
	ErrNoUpload = errors.New("no uploaded result to preview")
	// ErrNoRequirement is returned when no requirement document is
	// configured; the corresponding affordance is absent entirely.
	ErrNoRequirement = errors.New("no requirement document configured")
)

// PreviewKind discriminates the outcome of a preview request.
type PreviewKind string

const (
	// PreviewOpenBlob points at a temporary blob reference (PDF with a
	// live content handle).
	PreviewOpenBlob PreviewKind = "open-blob"
	// PreviewOpenViewer points at the external viewer fed a data URL
	// (non-PDF with a live content handle).
	PreviewOpenViewer PreviewKind = "open-viewer"
	// PreviewNotice carries the user-facing message shown when only
	// metadata survived and no binary is available.
	PreviewNotice PreviewKind = "notice"
)

// PreviewAction tells the host what to do for a preview request: open a URL
// in a new browsing context, or show an informational notice.
type PreviewAction struct {
	Kind   PreviewKind `json:"kind"`
	URL    string      `json:"url,omitempty"`
	Notice string      `json:"notice,omitempty"`
}

// Preview resolves the preview action for the current result. The branch is
// on handle presence, not on how the record got here: a record restored from
// the cache has no content, so only a notice can be offered; the wording
// differs for PDF (which would have previewed in-session) and other types.
// When an Opener is configured, URL actions are opened before returning.
func (c *Card) Preview() (*PreviewAction, error) {
	c.mu.Lock()
	file := c.file
	c.mu.Unlock()

	if file == nil {
		return nil, ErrNoUpload
	}

	isPDF := file.Type == MIMETypePDF

	if !file.HasContent() {
		notice := fmt.Sprintf(
			"No preview is available for %q: only the file details were restored after the reload, not its content.",
			file.Name)
		if isPDF {
			notice = fmt.Sprintf(
				"The preview for %q is no longer available. PDF preview works in the session the file was uploaded in; upload it again to preview it.",
				file.Name)
		}
		return &PreviewAction{Kind: PreviewNotice, Notice: notice}, nil
	}

	var action *PreviewAction
	if isPDF {
		c.mu.Lock()
		if c.previewBlobID != "" {
			c.blobs.Delete(c.previewBlobID)
		}
		id := c.blobs.Put(file.Name, file.Type, file.content)
		c.previewBlobID = id
		c.mu.Unlock()

		action = &PreviewAction{Kind: PreviewOpenBlob, URL: c.blobs.URL(id)}
	} else {
		dataURL := "data:" + file.Type + ";base64," + base64.StdEncoding.EncodeToString(file.content)
		action = &PreviewAction{Kind: PreviewOpenViewer, URL: c.viewerURL + url.QueryEscape(dataURL)}
	}

	if c.opener != nil {
		if err := c.opener.Open(action.URL); err != nil {
			c.logger.Warn().Err(err).Str("url", action.URL).Msg("opener failed")
		}
	}
	return action, nil
}

// OpenRequirement returns the requirement document's URL, opening it through
// the Opener when one is configured. The URL is not validated.
func (c *Card) OpenRequirement() (string, error) {
	if c.requirement == nil {
		return "", ErrNoRequirement
	}
	if c.opener != nil {
		if err := c.opener.Open(c.requirement.URL); err != nil {
			c.logger.Warn().Err(err).Str("url", c.requirement.URL).Msg("opener failed")
		}
	}
	return c.requirement.URL, nil
}
