package chromedp_renderer

import (
	"strings"
	"testing"

	"github.com/user/ad-intel-service/internal/detect"
)

func TestTightBoundsScriptRequiresSponsoredPlusOneMore(t *testing.T) {
	script := tightBoundsScript(1200)

	// The sponsored label alone appears on non-ad chrome; a candidate
	// must also carry a start date or a library id.
	want := "text.includes(sponsored) && (text.includes(started) || text.includes(libraryId))"
	if !strings.Contains(script, want) {
		t.Fatalf("tight bounds predicate missing conjunction, got:\n%s", script)
	}
	for _, marker := range []string{detect.SponsoredMarker, detect.StartMarker, detect.LibraryIDMarker} {
		if !strings.Contains(script, marker) {
			t.Errorf("script does not embed marker %q", marker)
		}
	}
	if !strings.Contains(script, "const expectedTop = 1200;") {
		t.Errorf("script does not embed the expected top position")
	}
}

func TestMarkerCountScriptEmbedsStartMarker(t *testing.T) {
	if !strings.Contains(markerCountScript(), detect.StartMarker) {
		t.Fatal("marker count script does not embed the start marker")
	}
}
