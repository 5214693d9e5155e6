// Package medicalcard implements the medical-clearance card: upload
// validation, the per-worker result cache, the status display mapping, and
// the document interactions (requirement download, result preview).
package medicalcard

import "time"

// Worker is the person whose medical-clearance document is tracked. The
// record is display-only: it is supplied by the caller and never mutated.
type Worker struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Location string `json:"location,omitempty"`
	JobOffer string `json:"job_offer,omitempty"`
	Age      int    `json:"age,omitempty"`
}

// ResultFile is the metadata of an uploaded medical result. Only metadata is
// ever persisted; content is held in memory for the session the upload
// happened in, so a record restored from the cache is metadata-only.
//
// The JSON field names are the cache wire format; entries have no schema
// version and malformed ones are discarded on read.
type ResultFile struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	UploadedAt string `json:"uploadedAt,omitempty"`

	content []byte
}

// HasContent reports whether the original upload content is still available
// in this session.
func (f *ResultFile) HasContent() bool { return len(f.content) > 0 }

// structurallyValid is the shape check applied to cache reads: a usable entry
// has a name, a positive size, and a type.
func (f *ResultFile) structurallyValid() bool {
	return f.Name != "" && f.Size > 0 && f.Type != ""
}

// Requirement is the static reference document the caller wants the user able
// to download. The URL is opened as-is, without validation.
type Requirement struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// UploadCandidate is a raw selected file before validation. Content is
// optional; when present it becomes the session handle of the accepted
// ResultFile.
type UploadCandidate struct {
	Name    string
	Size    int64
	Type    string
	Content []byte
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }
