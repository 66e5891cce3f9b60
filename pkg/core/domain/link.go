package domain

// LinkRecord is a named hyperlink as shown in the widget
type LinkRecord struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}

// StoredLink is a row of the per-user record store
type StoredLink struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	UserID int64  `json:"user_id"`
}

// Record projects the stored row onto the fields the widget keeps
func (s StoredLink) Record() LinkRecord {
	return LinkRecord{Title: s.Title, URL: s.URL}
}

// LinkFilter selects store rows. UserID is always applied, Title and URL
// only when non-nil.
type LinkFilter struct {
	UserID int64
	Title  *string
	URL    *string
}

// Matches reports whether a stored row passes the filter
func (f LinkFilter) Matches(s StoredLink) bool {
	if s.UserID != f.UserID {
		return false
	}
	if f.Title != nil && s.Title != *f.Title {
		return false
	}
	if f.URL != nil && s.URL != *f.URL {
		return false
	}
	return true
}

// ByValue builds the filter used for value based deletion
func ByValue(userID int64, rec LinkRecord) LinkFilter {
	title, url := rec.Title, rec.URL
	return LinkFilter{UserID: userID, Title: &title, URL: &url}
}
