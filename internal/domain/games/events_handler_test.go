package games_test

import (
    "context"
    "path/filepath"
    "testing"
    "time"

    "gamevault/internal/adapters/sqlite"
    "gamevault/internal/domain/games"
    "gamevault/internal/events"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHandleGameCreatedProjectsAndIndexes(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    werr := handler.HandleGameCreated(ctx, newGameCreated("elden-ring"))
    require.Nil(t, werr)

    document, found, werr := index.Get(ctx, "elden-ring")
    require.Nil(t, werr)
    require.True(t, found)
    assert.Equal(t, "elden-ring", document.Slug)
    // no ratings yet
    assert.Nil(t, document.AverageRating)
    assert.Equal(t, 0, document.RatingCount)
}

func TestHandleGameCreatedTwiceKeepsRatings(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    created := newGameCreated("elden-ring")
    require.Nil(t, handler.HandleGameCreated(ctx, created))
    require.Nil(t, handler.HandleRatingSubmitted(ctx, newRatingSubmitted("elden-ring", uuid.New(), 5)))

    // redelivery of the creation event must not reset the aggregate
    require.Nil(t, handler.HandleGameCreated(ctx, created))

    document, found, werr := index.Get(ctx, "elden-ring")
    require.Nil(t, werr)
    require.True(t, found)
    require.NotNil(t, document.AverageRating)
    assert.InDelta(t, 5.0, *document.AverageRating, 1e-9)
    assert.Equal(t, 1, document.RatingCount)
}

func TestHandleGameUpdatedOverlaysChanges(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    require.Nil(t, handler.HandleGameCreated(ctx, newGameCreated("elden-ring")))
    require.Nil(t, handler.HandleRatingSubmitted(ctx, newRatingSubmitted("elden-ring", uuid.New(), 4)))

    newGenre := "soulslike"
    werr := handler.HandleGameUpdated(ctx, events.NewGameUpdated("elden-ring", events.GameChanges{Genre: &newGenre}))
    require.Nil(t, werr)

    document, found, werr := index.Get(ctx, "elden-ring")
    require.Nil(t, werr)
    require.True(t, found)
    assert.Equal(t, newGenre, document.Genre)
    // untouched fields and the aggregate survive the overlay
    assert.Equal(t, "Elden Ring", document.Title)
    require.NotNil(t, document.AverageRating)
    assert.InDelta(t, 4.0, *document.AverageRating, 1e-9)
}

func TestHandleGameUpdatedBeforeCreationIsSkipped(t *testing.T) {
    handler, _ := newEventsHandler(t)

    title := "whatever"
    werr := handler.HandleGameUpdated(context.Background(), events.NewGameUpdated("no-such-game", events.GameChanges{Title: &title}))
    assert.Nil(t, werr)
}

func TestHandleGameDeletedRemovesProjectionAndDocument(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    require.Nil(t, handler.HandleGameCreated(ctx, newGameCreated("elden-ring")))
    require.Nil(t, handler.HandleGameDeleted(ctx, events.NewGameDeleted("elden-ring")))

    _, found, werr := index.Get(ctx, "elden-ring")
    require.Nil(t, werr)
    assert.False(t, found)

    // deleting a game that was never created is benign
    assert.Nil(t, handler.HandleGameDeleted(ctx, events.NewGameDeleted("elden-ring")))
}

func TestHandleRatingSubmittedAggregates(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    require.Nil(t, handler.HandleGameCreated(ctx, newGameCreated("elden-ring")))

    ratings := []int{4, 5, 3}
    averages := []float64{4.0, 4.5, 4.0}
    for i, rating := range ratings {
        require.Nil(t, handler.HandleRatingSubmitted(ctx, newRatingSubmitted("elden-ring", uuid.New(), rating)))

        document, found, werr := index.Get(ctx, "elden-ring")
        require.Nil(t, werr)
        require.True(t, found)
        require.NotNil(t, document.AverageRating)
        assert.InDelta(t, averages[i], *document.AverageRating, 1e-9)
        assert.Equal(t, i+1, document.RatingCount)
    }
}

func TestHandleRatingSubmittedIgnoresDuplicates(t *testing.T) {
    handler, index := newEventsHandler(t)
    ctx := context.Background()

    require.Nil(t, handler.HandleGameCreated(ctx, newGameCreated("elden-ring")))

    userId := uuid.New()
    require.Nil(t, handler.HandleRatingSubmitted(ctx, newRatingSubmitted("elden-ring", userId, 4)))
    // redelivery: fresh event id, same (game, user) pair
    require.Nil(t, handler.HandleRatingSubmitted(ctx, newRatingSubmitted("elden-ring", userId, 4)))

    document, found, werr := index.Get(ctx, "elden-ring")
    require.Nil(t, werr)
    require.True(t, found)
    require.NotNil(t, document.AverageRating)
    assert.InDelta(t, 4.0, *document.AverageRating, 1e-9)
    assert.Equal(t, 1, document.RatingCount)
}

func TestHandleRatingSubmittedRejectsOutOfRangeRating(t *testing.T) {
    handler, _ := newEventsHandler(t)

    werr := handler.HandleRatingSubmitted(context.Background(), newRatingSubmitted("elden-ring", uuid.New(), 6))
    require.NotNil(t, werr)
    assert.False(t, werr.IsRetryable())
}

func TestHandleUserRegisteredAndUpdated(t *testing.T) {
    handler, _ := newEventsHandler(t)
    ctx := context.Background()

    registered := events.NewUserRegistered(uuid.New(), "frodo", "frodo@shire.me", time.Now().UTC())
    require.Nil(t, handler.HandleUserRegistered(ctx, registered))
    // redelivery is benign
    require.Nil(t, handler.HandleUserRegistered(ctx, registered))

    require.Nil(t, handler.HandleUserUpdated(ctx, events.NewUserUpdated(registered.UserId, "frodo9f", "frodo@gondor.gov")))
    // an update for a user never projected is skipped, not failed
    require.Nil(t, handler.HandleUserUpdated(ctx, events.NewUserUpdated(uuid.New(), "nobody", "nobody@nowhere")))
}

func newEventsHandler(t *testing.T) (*games.EventsHandler, *fakeIndex) {
    t.Helper()
    db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })

    gamesRepo, err := sqlite.NewGamesRepository(db)
    require.NoError(t, err)
    usersRepo, err := sqlite.NewProjectedUsersRepository(db)
    require.NoError(t, err)
    ratingsRepo, err := sqlite.NewRatingsRepository(db)
    require.NoError(t, err)

    index := newFakeIndex()
    handler := games.NewEventsHandler(gamesRepo, usersRepo, ratingsRepo, index, testLogger())
    return handler, index
}

func newGameCreated(slug string) events.GameCreated {
    return events.NewGameCreated(slug, "Elden Ring", "Elden Ring", "an open world soulslike", "rpg", uuid.New(), time.Now().UTC())
}

func newRatingSubmitted(gameSlug string, userId uuid.UUID, rating int) events.RatingSubmitted {
    return events.NewRatingSubmitted(gameSlug, userId, rating, nil)
}
