package games

import (
    "context"

    "github.com/walletera/werrors"
)

// SearchDocument is the denormalized, query-optimized representation of
// a game, keyed by slug. AverageRating is nil until the first rating
// lands; RatingCount is never negative.
type SearchDocument struct {
    Slug          string   `json:"slug"`
    Name          string   `json:"name"`
    Title         string   `json:"title"`
    Description   string   `json:"description"`
    Genre         string   `json:"genre"`
    AverageRating *float64 `json:"average_rating"`
    RatingCount   int      `json:"rating_count"`
}

// DocumentUpdate carries a partial document; nil fields are left
// untouched by the write.
type DocumentUpdate struct {
    Name          *string
    Title         *string
    Description   *string
    Genre         *string
    AverageRating *float64
    RatingCount   *int
}

type GameIndex interface {
    // Index creates the document. An already-indexed slug is benign and
    // leaves the existing document (including its rating fields) alone.
    Index(ctx context.Context, document SearchDocument) werrors.WError
    // Update overlays the non-nil fields of the partial document. The
    // bool reports whether the slug matched a document.
    Update(ctx context.Context, slug string, update DocumentUpdate) (bool, werrors.WError)
    // Delete removes the document. Absence is not an error.
    Delete(ctx context.Context, slug string) werrors.WError
    Get(ctx context.Context, slug string) (SearchDocument, bool, werrors.WError)
    // Search returns documents ordered by average rating, best first.
    Search(ctx context.Context, from int, size int) ([]SearchDocument, werrors.WError)
}
