package components

import (
	"strings"
	"testing"
)

func TestSanitizeIcon(t *testing.T) {
	if got := SanitizeIcon(""); got != DefaultPickerIcon {
		t.Fatalf("expected default icon, got %q", got)
	}

	got := SanitizeIcon(`<i class="fa fa-search" onclick="alert(1)"></i>`)
	if got != `<i class="fa fa-search"></i>` {
		t.Fatalf("unexpected sanitized icon %q", got)
	}

	got = SanitizeIcon(`<svg viewBox="0 0 10 10"><script>alert(1)</script><path d="M0 0h10"/></svg>`)
	if strings.Contains(got, "script") || !strings.Contains(got, "<path") {
		t.Fatalf("unexpected sanitized svg %q", got)
	}

	if got := SanitizeIcon(`<script>alert(1)</script>`); got != DefaultPickerIcon {
		t.Fatalf("expected fallback for fully stripped markup, got %q", got)
	}
}
