package medicalcard

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"accepted", StatusAccepted},
		{"pending", StatusPending},
		{"replace", StatusReplace},
		{"failed", StatusFailed},
		{"unknown", StatusUnknown},
		{"", StatusPending},
		{"APPROVED", StatusPending},
		{"garbage", StatusPending},
	}
	for _, tc := range cases {
		if got := ParseStatus(tc.in); got != tc.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayTokens_TotalOverEnum(t *testing.T) {
	for _, s := range []Status{StatusAccepted, StatusPending, StatusReplace, StatusFailed, StatusUnknown} {
		d := s.DisplayTokens()
		if d.Label == "" || d.Background == "" || d.TextColor == "" || d.BorderColor == "" {
			t.Errorf("status %q has incomplete display tuple: %+v", s, d)
		}
		p := s.PreviewPalette()
		if p.Background == "" || p.TextColor == "" || p.BorderColor == "" {
			t.Errorf("status %q has incomplete preview palette: %+v", s, p)
		}
	}
}

func TestDisplayTokens_UnrecognizedDefaultsToUnknown(t *testing.T) {
	d := Status("bogus").DisplayTokens()
	if d != StatusUnknown.DisplayTokens() {
		t.Errorf("expected the unknown tuple, got %+v", d)
	}
	p := Status("bogus").PreviewPalette()
	if p != StatusUnknown.PreviewPalette() {
		t.Errorf("expected the unknown palette, got %+v", p)
	}
}

func TestDisplayTokens_Idempotent(t *testing.T) {
	for _, s := range []Status{StatusAccepted, StatusPending, StatusReplace, StatusFailed, StatusUnknown, Status("bogus")} {
		if s.DisplayTokens() != s.DisplayTokens() {
			t.Errorf("DisplayTokens(%q) is not stable", s)
		}
		if s.PreviewPalette() != s.PreviewPalette() {
			t.Errorf("PreviewPalette(%q) is not stable", s)
		}
	}
}

func TestDisplayTokens_ReplaceGlyph(t *testing.T) {
	if !StatusReplace.DisplayTokens().ReplaceGlyph {
		t.Error("replace status should show the replace glyph")
	}
	for _, s := range []Status{StatusAccepted, StatusPending, StatusFailed, StatusUnknown} {
		if s.DisplayTokens().ReplaceGlyph {
			t.Errorf("status %q should not show the replace glyph", s)
		}
	}
}

func TestShowsRejectionNote(t *testing.T) {
	if !StatusReplace.ShowsRejectionNote() || !StatusFailed.ShowsRejectionNote() {
		t.Error("replace and failed should show the rejection note")
	}
	if StatusAccepted.ShowsRejectionNote() || StatusPending.ShowsRejectionNote() || StatusUnknown.ShowsRejectionNote() {
		t.Error("other statuses should not show the rejection note")
	}
}
