package domain

import "time"

// Article is the unit surfaced to the feed UI, extracted from one corpus document.
// Articles are immutable once constructed.
type Article struct {
	// ID is the stable content identity: the manifest filename the article
	// was extracted from. Exclusion bookkeeping keys on this, never on PageID.
	ID      string
	Title   string
	Extract string
	URL     string
	// PageID is a render key, freshly randomized per parse. Two parses of the
	// same document yield different PageIDs; it must not be used as identity.
	PageID    int64
	Thumbnail *Thumbnail
}

// Thumbnail describes the card image, synthesized from a placeholder service.
type Thumbnail struct {
	Source string
	Width  int
	Height int
}

// LikedArticle is a feed article the user persisted to the likes list.
type LikedArticle struct {
	ID      string
	Title   string
	URL     string
	Extract string
	LikedAt time.Time
}
