package tests

import (
    "context"
    "fmt"
    "testing"
    "time"

    "gamevault/internal/events"
    "gamevault/internal/messages"

    "github.com/cucumber/godog"
    "github.com/google/uuid"
)

func TestRatingSubmittedEventProcessing(t *testing.T) {

    suite := godog.TestSuite{
        ScenarioInitializer: InitializeProcessRatingSubmittedFeature,
        Options: &godog.Options{
            Format:   "pretty",
            Paths:    []string{"features/process_rating_submitted.feature"},
            TestingT: t, // Testing instance that will run subtests.
        },
    }

    if suite.Run() != 0 {
        t.Fatal("non-zero status returned, failed to run feature tests")
    }
}

func InitializeProcessRatingSubmittedFeature(ctx *godog.ScenarioContext) {
    ctx.Before(beforeScenarioHook)
    ctx.Given(`^a running game-service$`, aRunningGameService)
    ctx.Given(`^a GameCreated event for game "([^"]*)" is published$`, aGameCreatedEventIsPublished)
    ctx.Given(`^the game-service produces the following log:$`, theGameServiceProducesTheFollowingLog)
    ctx.When(`^a RatingSubmitted event for game "([^"]*)" with rating (\d+) is published$`, aRatingSubmittedEventIsPublished)
    ctx.When(`^the same RatingSubmitted event is published again$`, theSameRatingSubmittedEventIsPublishedAgain)
    ctx.Then(`^the game-service produces the following log:$`, theGameServiceProducesTheFollowingLog)
    ctx.Then(`^the search document for game "([^"]*)" has average rating (\d+) and rating count (\d+)$`, theSearchDocumentHasAggregate)
    ctx.After(afterScenarioHook)
}

func aGameCreatedEventIsPublished(ctx context.Context, slug string) (context.Context, error) {
    event := events.NewGameCreated(slug, slug, slug, "a game under test", "rpg", uuid.New(), time.Now().UTC())
    rawEvent, err := event.Serialize()
    if err != nil {
        return ctx, fmt.Errorf("failed serializing GameCreated: %w", err)
    }

    core := coreFromCtx(ctx)
    core.gameEventsConsumer.deliver(messages.NewMessage(
        rawEvent, events.GameEventsTopic, 0, core.offset.Add(1), noopAcknowledger{}))
    return ctx, nil
}

func aRatingSubmittedEventIsPublished(ctx context.Context, slug string, rating int) (context.Context, error) {
    event := events.NewRatingSubmitted(slug, uuid.New(), rating, nil)
    rawEvent, err := event.Serialize()
    if err != nil {
        return ctx, fmt.Errorf("failed serializing RatingSubmitted: %w", err)
    }

    core := coreFromCtx(ctx)
    core.userEventsConsumer.deliver(messages.NewMessage(
        rawEvent, events.UserEventsTopic, 0, core.offset.Add(1), noopAcknowledger{}))
    return context.WithValue(ctx, ratingEventKey, rawEvent), nil
}

func theSameRatingSubmittedEventIsPublishedAgain(ctx context.Context) (context.Context, error) {
    value := ctx.Value(ratingEventKey)
    if value == nil {
        return ctx, fmt.Errorf("no RatingSubmitted event was published in this scenario")
    }
    rawEvent := value.([]byte)

    core := coreFromCtx(ctx)
    core.userEventsConsumer.deliver(messages.NewMessage(
        rawEvent, events.UserEventsTopic, 0, core.offset.Add(1), noopAcknowledger{}))
    return ctx, nil
}

func theSearchDocumentHasAggregate(ctx context.Context, slug string, averageRating int, ratingCount int) (context.Context, error) {
    document, found, werr := coreFromCtx(ctx).index.Get(ctx, slug)
    if werr != nil {
        return ctx, fmt.Errorf("failed fetching search document: %s", werr.Message())
    }
    if !found {
        return ctx, fmt.Errorf("search document for game %s not found", slug)
    }
    if document.AverageRating == nil {
        return ctx, fmt.Errorf("search document for game %s has no average rating", slug)
    }
    if *document.AverageRating != float64(averageRating) {
        return ctx, fmt.Errorf("expected average rating %d, got %f", averageRating, *document.AverageRating)
    }
    if document.RatingCount != ratingCount {
        return ctx, fmt.Errorf("expected rating count %d, got %d", ratingCount, document.RatingCount)
    }
    return ctx, nil
}
