package medicalcard

// Status is the review outcome for the uploaded document. The enumeration is
// closed; anything else maps to the unknown display tuple.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusPending  Status = "pending"
	StatusReplace  Status = "replace"
	StatusFailed   Status = "failed"
	StatusUnknown  Status = "unknown"
)

// ParseStatus normalizes a raw status string. Unspecified or unrecognized
// values default to pending.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusAccepted, StatusPending, StatusReplace, StatusFailed, StatusUnknown:
		return Status(s)
	default:
		return StatusPending
	}
}

// Valid reports whether s is a member of the closed enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusAccepted, StatusPending, StatusReplace, StatusFailed, StatusUnknown:
		return true
	}
	return false
}

// ShowsRejectionNote reports whether the card's rejection note is displayed
// for this status.
func (s Status) ShowsRejectionNote() bool {
	return s == StatusReplace || s == StatusFailed
}

// DisplayTokens are the badge presentation values derived from a status.
type DisplayTokens struct {
	Label        string `json:"label"`
	Background   string `json:"background"`
	TextColor    string `json:"text_color"`
	BorderColor  string `json:"border_color"`
	ReplaceGlyph bool   `json:"replace_glyph"`
}

// PreviewPalette colors the document-preview info bar. It is derived from the
// status alone, independently of the badge tokens.
type PreviewPalette struct {
	Background  string `json:"background"`
	TextColor   string `json:"text_color"`
	BorderColor string `json:"border_color"`
}

// DisplayTokens maps a status to its badge tuple. The mapping is pure and
// total: values outside the enumeration get the unknown tuple.
func (s Status) DisplayTokens() DisplayTokens {
	switch s {
	case StatusAccepted:
		return DisplayTokens{Label: "Accepted", Background: "#ECFDF5", TextColor: "#047857", BorderColor: "#A7F3D0"}
	case StatusPending:
		return DisplayTokens{Label: "Pending review", Background: "#FFFBEB", TextColor: "#B45309", BorderColor: "#FDE68A"}
	case StatusReplace:
		return DisplayTokens{Label: "Replace", Background: "#FEF2F2", TextColor: "#B91C1C", BorderColor: "#FECACA", ReplaceGlyph: true}
	case StatusFailed:
		return DisplayTokens{Label: "Failed", Background: "#FEF2F2", TextColor: "#991B1B", BorderColor: "#FCA5A5"}
	default:
		return DisplayTokens{Label: "Unknown", Background: "#F9FAFB", TextColor: "#4B5563", BorderColor: "#E5E7EB"}
	}
}

// PreviewPalette maps a status to the info-bar tuple, total like
// DisplayTokens.
func (s Status) PreviewPalette() PreviewPalette {
	switch s {
	case StatusAccepted:
		return PreviewPalette{Background: "#F0FDF4", TextColor: "#166534", BorderColor: "#BBF7D0"}
	case StatusPending:
		return PreviewPalette{Background: "#FEFCE8", TextColor: "#854D0E", BorderColor: "#FEF08A"}
	case StatusReplace:
		return PreviewPalette{Background: "#FFF1F2", TextColor: "#9F1239", BorderColor: "#FECDD3"}
	case StatusFailed:
		return PreviewPalette{Background: "#FFF1F2", TextColor: "#881337", BorderColor: "#FDA4AF"}
	default:
		return PreviewPalette{Background: "#F9FAFB", TextColor: "#4B5563", BorderColor: "#E5E7EB"}
	}
}
