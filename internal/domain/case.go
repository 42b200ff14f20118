package domain

import "time"

// MediaKind places a media item within a case's before/after story.
type MediaKind string

const (
	MediaBefore  MediaKind = "BEFORE"
	MediaAfter   MediaKind = "AFTER"
	MediaGallery MediaKind = "GALLERY"
)

// MediaType distinguishes stills from video.
type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// ValidMediaKind reports whether k is a known kind.
func ValidMediaKind(k MediaKind) bool {
	return k == MediaBefore || k == MediaAfter || k == MediaGallery
}

// ValidMediaType reports whether t is a known type.
func ValidMediaType(t MediaType) bool {
	return t == MediaImage || t == MediaVideo
}

// Case is one seat-cover before/after case study.
type Case struct {
	ID        string
	Title     string
	Brand     string
	Model     string
	YearStart int
	YearEnd   int
	SKU       string
	Published bool
	Media     []Media
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Media is a single image or video attached to a case.
type Media struct {
	ID        string
	CaseID    string
	Kind      MediaKind
	Type      MediaType
	URL       string
	PosterURL string
	SortOrder int
	CreatedAt time.Time
}

// CasePatch carries a partial case update. Nil fields are left unchanged;
// a non-nil Media slice atomically replaces the case's media set.
type CasePatch struct {
	Title     *string
	Brand     *string
	Model     *string
	YearStart *int
	YearEnd   *int
	SKU       *string
	Published *bool
	Media     []Media
	HasMedia  bool
}
