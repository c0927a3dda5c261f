package models

// Link is an outbound platform link as shown on the page.
type Link struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Redirect string `json:"redirect"` // Counted redirect path (/go/<platform>)
}
