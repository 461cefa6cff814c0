package games_test

import (
    "context"
    "io"
    "log/slog"
    "sort"
    "sync"

    "gamevault/internal/domain/games"

    "github.com/walletera/werrors"
)

// fakeIndex is an in-memory stand-in for the search index. onGet, when
// set, runs after the read and before the value is returned; the
// aggregation race test uses it as a barrier.
type fakeIndex struct {
    mu        sync.Mutex
    documents map[string]games.SearchDocument
    onGet     func()
}

func newFakeIndex() *fakeIndex {
    return &fakeIndex{documents: make(map[string]games.SearchDocument)}
}

func (f *fakeIndex) Index(ctx context.Context, document games.SearchDocument) werrors.WError {
    f.mu.Lock()
    defer f.mu.Unlock()
    if _, exists := f.documents[document.Slug]; exists {
        return nil
    }
    f.documents[document.Slug] = document
    return nil
}

func (f *fakeIndex) Update(ctx context.Context, slug string, update games.DocumentUpdate) (bool, werrors.WError) {
    f.mu.Lock()
    defer f.mu.Unlock()
    document, exists := f.documents[slug]
    if !exists {
        return false, nil
    }
    if update.Name != nil {
        document.Name = *update.Name
    }
    if update.Title != nil {
        document.Title = *update.Title
    }
    if update.Description != nil {
        document.Description = *update.Description
    }
    if update.Genre != nil {
        document.Genre = *update.Genre
    }
    if update.AverageRating != nil {
        document.AverageRating = update.AverageRating
    }
    if update.RatingCount != nil {
        document.RatingCount = *update.RatingCount
    }
    f.documents[slug] = document
    return true, nil
}

func (f *fakeIndex) Delete(ctx context.Context, slug string) werrors.WError {
    f.mu.Lock()
    defer f.mu.Unlock()
    delete(f.documents, slug)
    return nil
}

func (f *fakeIndex) Get(ctx context.Context, slug string) (games.SearchDocument, bool, werrors.WError) {
    f.mu.Lock()
    document, exists := f.documents[slug]
    f.mu.Unlock()
    if f.onGet != nil {
        f.onGet()
    }
    return document, exists, nil
}

func (f *fakeIndex) Search(ctx context.Context, from int, size int) ([]games.SearchDocument, werrors.WError) {
    f.mu.Lock()
    defer f.mu.Unlock()
    documents := make([]games.SearchDocument, 0, len(f.documents))
    for _, document := range f.documents {
        documents = append(documents, document)
    }
    sort.Slice(documents, func(i, j int) bool {
        left, right := ratingOrZero(documents[i]), ratingOrZero(documents[j])
        if left != right {
            return left > right
        }
        return documents[i].Slug < documents[j].Slug
    })
    if from >= len(documents) {
        return nil, nil
    }
    documents = documents[from:]
    if size < len(documents) {
        documents = documents[:size]
    }
    return documents, nil
}

func ratingOrZero(document games.SearchDocument) float64 {
    if document.AverageRating == nil {
        return 0
    }
    return *document.AverageRating
}

var _ games.GameIndex = (*fakeIndex)(nil)

func testLogger() *slog.Logger {
    return slog.New(slog.NewTextHandler(io.Discard, nil))
}
