package games

import (
    "context"
    "fmt"
    "log/slog"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/google/uuid"
)

const (
    MinRating = 1
    MaxRating = 5
)

var ErrInvalidRating = fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)

// Service is the synchronous entry point the transport layer calls. It
// validates and enqueues; the asynchronous propagation's outcome is
// invisible to the caller.
type Service struct {
    publisher events.Publisher
    index     GameIndex
    logger    *slog.Logger
}

func NewService(publisher events.Publisher, index GameIndex, logger *slog.Logger) *Service {
    return &Service{
        publisher: publisher,
        index:     index,
        logger:    logger,
    }
}

// RateGame publishes a RatingSubmitted event. The service's own
// dispatch loop applies it: inserts the rating row and folds it into
// the search document.
func (s *Service) RateGame(ctx context.Context, gameSlug string, userId uuid.UUID, rating int, review *string) error {
    if rating < MinRating || rating > MaxRating {
        return ErrInvalidRating
    }
    event := events.NewRatingSubmitted(gameSlug, userId, rating, review)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.UserEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }
    s.logger.Info("rating submitted",
        logattr.GameSlug(gameSlug),
        logattr.UserId(userId.String()),
        logattr.Rating(rating))
    return nil
}

func (s *Service) GetGame(ctx context.Context, slug string) (SearchDocument, bool, error) {
    document, found, werr := s.index.Get(ctx, slug)
    if werr != nil {
        return SearchDocument{}, false, fmt.Errorf("fetching search document: %s", werr.Message())
    }
    return document, found, nil
}

// SearchGames lists games ordered by average rating, best first.
func (s *Service) SearchGames(ctx context.Context, from int, size int) ([]SearchDocument, error) {
    documents, werr := s.index.Search(ctx, from, size)
    if werr != nil {
        return nil, fmt.Errorf("searching games: %s", werr.Message())
    }
    return documents, nil
}
