package games

import (
    "context"
    "log/slog"

    "gamevault/pkg/logattr"

    "github.com/walletera/werrors"
)

// RatingAggregator maintains the running (average_rating, rating_count)
// pair of a search document.
//
// Apply is a read-modify-write over a remote store with no
// compare-and-swap: two concurrent applications for the same slug can
// interleave and silently lose one update. The partition key on
// RatingSubmitted serializes same-slug events onto one partition in
// production, but the aggregator itself does not synchronize.
type RatingAggregator struct {
    index  GameIndex
    logger *slog.Logger
}

func NewRatingAggregator(index GameIndex, logger *slog.Logger) *RatingAggregator {
    return &RatingAggregator{
        index:  index,
        logger: logger,
    }
}

func (a *RatingAggregator) Apply(ctx context.Context, slug string, rating int) werrors.WError {
    document, found, werr := a.index.Get(ctx, slug)
    if werr != nil {
        a.logger.Error("failed fetching search document",
            logattr.GameSlug(slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !found {
        // the game's creation event has not been applied yet
        a.logger.Warn("search document not found, rating not aggregated",
            logattr.GameSlug(slug))
        return nil
    }

    currentAvg := 0.0
    if document.AverageRating != nil {
        currentAvg = *document.AverageRating
    }
    currentCount := document.RatingCount

    newCount := currentCount + 1
    newAvg := (currentAvg*float64(currentCount) + float64(rating)) / float64(newCount)

    matched, werr := a.index.Update(ctx, slug, DocumentUpdate{
        AverageRating: &newAvg,
        RatingCount:   &newCount,
    })
    if werr != nil {
        // the index is stale but not corrupted
        a.logger.Error("failed writing aggregated rating",
            logattr.GameSlug(slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        a.logger.Warn("search document vanished during aggregation",
            logattr.GameSlug(slug))
        return nil
    }

    a.logger.Info("rating aggregated",
        logattr.GameSlug(slug),
        logattr.Rating(rating),
        slog.Float64("average_rating", newAvg),
        slog.Int("rating_count", newCount))
    return nil
}
