package medicalcard

import (
	"fmt"
	"strings"
)

// MIME types accepted by default.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeDOC  = "application/msword"
)

// DefaultMaxSizeMB is the upload size limit applied when none is configured.
const DefaultMaxSizeMB = 10

// DefaultAllowedTypes is the MIME allow-list applied when none is configured.
var DefaultAllowedTypes = []string{MIMETypePDF, MIMETypeDOCX, MIMETypeDOC}

// RejectCode classifies why an upload was refused.
type RejectCode string

const (
	RejectSizeExceeded    RejectCode = "size-exceeded"
	RejectUnsupportedType RejectCode = "unsupported-type"
)

// Rejection is the structured result of a failed validation. The host UI
// decides how to present it; the validator never blocks on presentation.
type Rejection struct {
	Code    RejectCode `json:"code"`
	Message string     `json:"message"`
}

func (r *Rejection) Error() string { return r.Message }

// humanTypeNames maps allow-listed MIME types to the names rejection messages
// use.
var humanTypeNames = map[string]string{
	MIMETypePDF:  "PDF",
	MIMETypeDOCX: "DOCX",
	MIMETypeDOC:  "DOC",
}

func humanTypeName(mimeType string) string {
	if name, ok := humanTypeNames[mimeType]; ok {
		return name
	}
	// Fall back to the subtype, e.g. "text/plain" -> "PLAIN".
	if i := strings.LastIndexAny(mimeType, "/."); i >= 0 && i+1 < len(mimeType) {
		return strings.ToUpper(mimeType[i+1:])
	}
	return strings.ToUpper(mimeType)
}

// Validator checks upload candidates against a size limit and a MIME
// allow-list.
type Validator struct {
	maxSizeMB    int
	allowedTypes []string
}

// NewValidator builds a Validator; non-positive sizes and empty allow-lists
// fall back to the defaults.
func NewValidator(maxSizeMB int, allowedTypes []string) *Validator {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	return &Validator{maxSizeMB: maxSizeMB, allowedTypes: allowedTypes}
}

// MaxSizeMB returns the configured size limit in megabytes.
func (v *Validator) MaxSizeMB() int { return v.maxSizeMB }

// AllowedTypeNames renders the allow-list as human-readable names, e.g.
// "PDF, DOCX, DOC".
func (v *Validator) AllowedTypeNames() string {
	names := make([]string, 0, len(v.allowedTypes))
	for _, t := range v.allowedTypes {
		names = append(names, humanTypeName(t))
	}
	return strings.Join(names, ", ")
}

// Validate turns a candidate into an accepted ResultFile or a coded
// rejection. On success UploadedAt is stamped with the current time and the
// candidate content, if any, becomes the session handle.
func (v *Validator) Validate(c UploadCandidate) (*ResultFile, *Rejection) {
	if c.Size > int64(v.maxSizeMB)*1024*1024 {
		return nil, &Rejection{
			Code:    RejectSizeExceeded,
			Message: fmt.Sprintf("file %q exceeds the %dMB size limit", c.Name, v.maxSizeMB),
		}
	}
	if !v.typeAllowed(c.Type) {
		return nil, &Rejection{
			Code:    RejectUnsupportedType,
			Message: fmt.Sprintf("file type %q is not supported: allowed types are %s", c.Type, v.AllowedTypeNames()),
		}
	}
	return &ResultFile{
		Name:       c.Name,
		Size:       c.Size,
		Type:       c.Type,
		UploadedAt: nowRFC3339(),
		content:    c.Content,
	}, nil
}

func (v *Validator) typeAllowed(mimeType string) bool {
	for _, t := range v.allowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
