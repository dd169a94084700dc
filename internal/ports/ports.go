package ports

import (
	"context"
	"errors"

	"ArticleFeed/internal/domain"
)

// ErrUnusableContent is returned by an Extractor when a document yields no
// qualifying extract. It signals absence rather than failure: the document is
// skipped, not reported as an error condition.
var ErrUnusableContent = errors.New("no usable content in document")

// DocumentFetcher retrieves raw document bytes for a manifest identifier,
// consulting a session cache before the corpus source.
type DocumentFetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Extractor turns raw markup into a structured Article, or reports the
// document as unusable.
type Extractor interface {
	Parse(raw []byte, id string) (*domain.Article, error)
}

// ImageWarmer starts a best-effort, time-bounded load of a thumbnail so it is
// likely cached before the card renders.
type ImageWarmer interface {
	Warm(ctx context.Context, url string) error
}

// LikeRepository persists the user's liked articles.
type LikeRepository interface {
	Save(ctx context.Context, article domain.LikedArticle) error
	List(ctx context.Context) ([]domain.LikedArticle, error)
	Delete(ctx context.Context, id string) error
}
