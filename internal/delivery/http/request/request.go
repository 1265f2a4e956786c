package request

// StartSearchRequest is the body of POST /api/search.
type StartSearchRequest struct {
	Industry       string `json:"industry"`
	Location       string `json:"location"`
	Keywords       string `json:"keywords"`
	AdCount        int    `json:"ad_count"`
	FilterRelevant bool   `json:"filter_relevant"`
}

// LandingPageRequest is the body of POST /api/landing-page.
type LandingPageRequest struct {
	URL     string `json:"url"`
	Refresh bool   `json:"refresh"`
}
