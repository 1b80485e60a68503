package entity

import "time"

// Link represents a shortened URL.
type Link struct {
	ID          string    // ID is the unique identifier of the link.
	OriginalURL string    // OriginalURL is the full URL that the slug resolves to.
	Slug        string    // Slug is the generated code used to shorten the original URL.
	CustomSlug  string    // CustomSlug is the optional user chosen code, empty when unset.
	UserID      string    // UserID is the owner of the link, empty for anonymous links.
	VisitCount  int64     // VisitCount is the number of times the link has been resolved.
	ShortURL    string    // ShortURL is the fully-qualified short URL, filled by the use case.
	Visits      []Visit   // Visits are the recorded redirects, filled only when listing.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
	UpdatedAt   time.Time // UpdatedAt is the timestamp when the link was last updated.
}

// PublicSlug returns the slug a short URL should be built from.
func (l *Link) PublicSlug() string {
	if l.CustomSlug != "" {
		return l.CustomSlug
	}
	return l.Slug
}

// Visit is a single recorded redirect through a link.
type Visit struct {
	ID        string    // ID is the unique identifier of the visit.
	LinkID    string    // LinkID is the link that was resolved.
	IP        string    // IP is the requester address, empty when unknown.
	UserAgent string    // UserAgent is the requester user agent, empty when unknown.
	VisitedAt time.Time // VisitedAt is the timestamp of the redirect.
}
