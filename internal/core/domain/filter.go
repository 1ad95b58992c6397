package domain

// SearchFields controls which product fields the free-text search matches.
// Name is always matched; the rest default to enabled because upstream data
// is inconsistent about which of them carries the searchable label.
type SearchFields struct {
	Category bool
	Brand    bool
	Badge    bool
}

// DefaultSearchFields enables every optional match field.
func DefaultSearchFields() SearchFields {
	return SearchFields{Category: true, Brand: true, Badge: true}
}

// FilterState is the active search/filter/pagination selection.
// Page is 1-based; changing Query or Category resets it to 1.
type FilterState struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page"`
}
