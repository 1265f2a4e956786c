package detect

import (
	"testing"

	"github.com/user/ad-intel-service/internal/entity"
)

func TestExtractAdvertiser(t *testing.T) {
	tests := []struct {
		name  string
		links []Link
		want  string
	}{
		{
			"first plausible page link wins",
			[]Link{{Text: "See ad details"}, {Text: "Acme Fitness Co"}},
			"See ad details",
		},
		{
			"chrome strings skipped",
			[]Link{{Text: "Library ID: 123456"}, {Text: "Started running on Jan 1, 2024"}, {Text: "Acme Fitness Co"}},
			"Acme Fitness Co",
		},
		{
			"platform names skipped",
			[]Link{{Text: "FACEBOOK"}, {Text: "INSTAGRAM"}, {Text: "Acme Fitness Co"}},
			"Acme Fitness Co",
		},
		{
			"cta words skipped case-insensitively",
			[]Link{{Text: "Learn More"}, {Text: "Shop Now"}, {Text: "Visit store"}, {Text: "Acme Fitness Co"}},
			"Acme Fitness Co",
		},
		{
			"too short and too long skipped",
			[]Link{{Text: "Go"}, {Text: "This advertiser name is way way way way way way way way too long to be a page name"}, {Text: "Acme"}},
			"Acme",
		},
		{
			"no qualifying link defaults to Unknown",
			[]Link{{Text: "AB"}, {Text: "Learn more"}},
			"Unknown",
		},
		{
			"no links at all",
			nil,
			"Unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAdvertiser(tt.links); got != tt.want {
				t.Errorf("extractAdvertiser() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAdCopy(t *testing.T) {
	text := "Acme Fitness Co\n" +
		"Sponsored\n" +
		"Started running on Mar 5, 2024 in the United States region\n" +
		"Library ID: 1234567890 with extended descriptive metadata text\n" +
		"Transform your body in just 30 days with our proven program.\n" +
		"Short line\n" +
		"Join thousands of happy members who already reached their goals.\n" +
		"FACEBOOK.COM followed by extra trailing text to exceed the cutoff\n"

	got := extractAdCopy(text, "Acme Fitness Co")
	want := "Transform your body in just 30 days with our proven program. " +
		"Join thousands of happy members who already reached their goals."
	if got != want {
		t.Errorf("extractAdCopy() = %q, want %q", got, want)
	}
}

func TestExtractAdCopyStopsAtTarget(t *testing.T) {
	line := "This is a body line with enough characters to qualify as copy text."
	text := ""
	for i := 0; i < 20; i++ {
		text += line + "\n"
	}
	got := extractAdCopy(text, "")
	if len(got) > 800 {
		t.Fatalf("copy length %d exceeds hard cap", len(got))
	}
	// Accumulation stops once the target is crossed, well short of 20 lines.
	if len(got) > adCopyTarget+len(line)+1 {
		t.Errorf("copy length %d suggests accumulation did not stop at target", len(got))
	}
}

func TestExtractStartDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Started running on Mar 5, 2024", "Mar 5, 2024"},
		{"Started running on January 15, 2023 · Total active time", "January 15, 2023"},
		{"Started running on Mar 5 2024", "Mar 5 2024"},
		{"no marker here", ""},
		{"Started running on soon", ""},
	}
	for _, tt := range tests {
		if got := extractStartDate(tt.text); got != tt.want {
			t.Errorf("extractStartDate(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestClassifyMediaType(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want entity.MediaType
	}{
		{"video element", Element{HasVideo: true}, entity.MediaVideo},
		{"watch video text", Element{Text: "Tap to Watch Video now"}, entity.MediaVideo},
		{"video aria label", Element{AriaLabels: []string{"play video"}}, entity.MediaVideo},
		{"video wins over carousel", Element{HasVideo: true, ImageCount: 5}, entity.MediaVideo},
		{"many images", Element{ImageCount: 3}, entity.MediaCarousel},
		{"carousel aria", Element{ImageCount: 1, AriaLabels: []string{"Carousel of products"}}, entity.MediaCarousel},
		{"next button aria", Element{ImageCount: 1, AriaLabels: []string{"Next item"}}, entity.MediaCarousel},
		{"single image default", Element{ImageCount: 1}, entity.MediaImage},
		{"nothing at all", Element{}, entity.MediaImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyMediaType(tt.el); got != tt.want {
				t.Errorf("classifyMediaType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractCTA(t *testing.T) {
	tests := []struct {
		name    string
		links   []Link
		buttons []string
		want    string
	}{
		{"exact vocabulary match", []Link{{Text: "Shop Now"}}, nil, "Shop Now"},
		{"close prefix match", []Link{{Text: "Learn more!"}}, nil, "Learn more!"},
		{
			// Contains a vocabulary phrase but the length gate rejects it
			// outright.
			"long body text containing cta word rejected",
			[]Link{{Text: "Learn More About Our Amazing Product"}},
			nil,
			"",
		},
		{"short text without vocabulary match rejected", []Link{{Text: "Click here"}}, nil, ""},
		{"prefix with long tail rejected", []Link{{Text: "Sign up today friends"}}, nil, ""},
		{"button fallback substring match", nil, []string{"Shop Now · Open"}, "Shop Now · Open"},
		{"long button rejected", nil, []string{"Shop Now and browse our full catalog"}, ""},
		{"anchor wins over button", []Link{{Text: "Subscribe"}}, []string{"Download"}, "Subscribe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cta, _ := extractCTAAndLanding(Element{Links: tt.links, Buttons: tt.buttons})
			if cta != tt.want {
				t.Errorf("cta = %q, want %q", cta, tt.want)
			}
		})
	}
}

func TestExtractLandingURL(t *testing.T) {
	tests := []struct {
		name  string
		links []Link
		want  string
	}{
		{
			"first external absolute url",
			[]Link{
				{Text: "Acme", Href: "https://facebook.com/acme"},
				{Text: "Shop Now", Href: "https://acme.example.com/sale"},
				{Text: "Other", Href: "https://other.example.com"},
			},
			"https://acme.example.com/sale",
		},
		{
			"platform redirect decoded",
			[]Link{{Href: "https://l.facebook.com/l.php?u=https%3A%2F%2Facme.example.com%2Fsale%3Fref%3Dfb&h=xyz"}},
			"https://acme.example.com/sale?ref=fb",
		},
		{
			"platform domains skipped",
			[]Link{{Href: "https://www.facebook.com/acme"}, {Href: "https://instagram.com/acme"}},
			"",
		},
		{
			"relative href skipped",
			[]Link{{Href: "/ads/library/?id=1"}},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, landing := extractCTAAndLanding(Element{Links: tt.links})
			if landing != tt.want {
				t.Errorf("landing = %q, want %q", landing, tt.want)
			}
		})
	}
}

func TestCountryCode(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"United States", "US"},
		{"  uk ", "GB"},
		{"germany", "DE"},
		{"atlantis", "US"},
		{"", "US"},
	}
	for _, tt := range tests {
		if got := CountryCode(tt.location); got != tt.want {
			t.Errorf("CountryCode(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}
