package dto

// RawEntry is a feed item as returned by a parser, before normalization.
type RawEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Published   string   `json:"published"`
	Categories  []string `json:"categories"`
}
