package games

import (
    "context"
    "log/slog"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/walletera/werrors"
)

// EventsHandler applies game_events and user_events to the game
// service's stores: the relational projections, the owned ratings table
// and the search index. Every write is idempotent so at-least-once
// delivery cannot corrupt state.
type EventsHandler struct {
    games      GamesRepository
    users      UsersRepository
    ratings    RatingsRepository
    index      GameIndex
    aggregator *RatingAggregator
    logger     *slog.Logger
}

func NewEventsHandler(
    games GamesRepository,
    users UsersRepository,
    ratings RatingsRepository,
    index GameIndex,
    logger *slog.Logger,
) *EventsHandler {
    return &EventsHandler{
        games:      games,
        users:      users,
        ratings:    ratings,
        index:      index,
        aggregator: NewRatingAggregator(index, logger.With(logattr.Component("games.RatingAggregator"))),
        logger:     logger,
    }
}

func (h *EventsHandler) HandleGameCreated(ctx context.Context, gameCreated events.GameCreated) werrors.WError {
    inserted, werr := h.games.SaveGame(ctx, Game{
        Slug:        gameCreated.Slug,
        Name:        gameCreated.Name,
        Title:       gameCreated.Title,
        Description: gameCreated.Description,
        Genre:       gameCreated.Genre,
        CreatedBy:   gameCreated.CreatedBy,
        CreatedAt:   gameCreated.CreatedTime,
    })
    if werr != nil {
        h.logger.Error("failed saving game projection",
            logattr.GameSlug(gameCreated.Slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !inserted {
        h.logger.Info("game already projected, duplicate create ignored",
            logattr.GameSlug(gameCreated.Slug))
    }

    werr = h.index.Index(ctx, SearchDocument{
        Slug:          gameCreated.Slug,
        Name:          gameCreated.Name,
        Title:         gameCreated.Title,
        Description:   gameCreated.Description,
        Genre:         gameCreated.Genre,
        AverageRating: nil,
        RatingCount:   0,
    })
    if werr != nil {
        h.logger.Error("failed indexing game",
            logattr.GameSlug(gameCreated.Slug),
            logattr.Error(werr.Message()))
        return werr
    }

    h.logger.Info("game projected and indexed", logattr.GameSlug(gameCreated.Slug))
    return nil
}

func (h *EventsHandler) HandleGameUpdated(ctx context.Context, gameUpdated events.GameUpdated) werrors.WError {
    matched, werr := h.games.UpdateGame(ctx, gameUpdated.Slug, gameUpdated.Changes)
    if werr != nil {
        h.logger.Error("failed updating game projection",
            logattr.GameSlug(gameUpdated.Slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        // the update raced ahead of the creation event
        h.logger.Warn("game not found for update, skipped",
            logattr.GameSlug(gameUpdated.Slug))
        return nil
    }

    matched, werr = h.index.Update(ctx, gameUpdated.Slug, DocumentUpdate{
        Title:       gameUpdated.Changes.Title,
        Description: gameUpdated.Changes.Description,
        Genre:       gameUpdated.Changes.Genre,
    })
    if werr != nil {
        h.logger.Error("failed updating search document",
            logattr.GameSlug(gameUpdated.Slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        h.logger.Warn("search document not found for update, skipped",
            logattr.GameSlug(gameUpdated.Slug))
        return nil
    }

    h.logger.Info("game updated", logattr.GameSlug(gameUpdated.Slug))
    return nil
}

func (h *EventsHandler) HandleGameDeleted(ctx context.Context, gameDeleted events.GameDeleted) werrors.WError {
    existed, werr := h.games.DeleteGame(ctx, gameDeleted.Slug)
    if werr != nil {
        h.logger.Error("failed deleting game projection",
            logattr.GameSlug(gameDeleted.Slug),
            logattr.Error(werr.Message()))
        return werr
    }
    if !existed {
        h.logger.Warn("game not found for delete, skipped",
            logattr.GameSlug(gameDeleted.Slug))
    }

    werr = h.index.Delete(ctx, gameDeleted.Slug)
    if werr != nil {
        h.logger.Error("failed deleting search document",
            logattr.GameSlug(gameDeleted.Slug),
            logattr.Error(werr.Message()))
        return werr
    }

    h.logger.Info("game deleted", logattr.GameSlug(gameDeleted.Slug))
    return nil
}

func (h *EventsHandler) HandleUserRegistered(ctx context.Context, userRegistered events.UserRegistered) werrors.WError {
    inserted, werr := h.users.SaveUser(ctx, ProjectedUser{
        Id:           userRegistered.UserId,
        Username:     userRegistered.Username,
        Email:        userRegistered.Email,
        RegisteredAt: userRegistered.RegisteredAt,
    })
    if werr != nil {
        h.logger.Error("failed saving user projection",
            logattr.UserId(userRegistered.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !inserted {
        h.logger.Info("user already projected, duplicate register ignored",
            logattr.UserId(userRegistered.UserId.String()))
        return nil
    }
    h.logger.Info("user projected", logattr.UserId(userRegistered.UserId.String()))
    return nil
}

func (h *EventsHandler) HandleUserUpdated(ctx context.Context, userUpdated events.UserUpdated) werrors.WError {
    matched, werr := h.users.UpdateUser(ctx, userUpdated.UserId, userUpdated.Username, userUpdated.Email)
    if werr != nil {
        h.logger.Error("failed updating user projection",
            logattr.UserId(userUpdated.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        h.logger.Warn("user not found for update, skipped",
            logattr.UserId(userUpdated.UserId.String()))
    }
    return nil
}

func (h *EventsHandler) HandleUserLoggedIn(ctx context.Context, userLoggedIn events.UserLoggedIn) werrors.WError {
    h.logger.Debug("user logged in", logattr.UserId(userLoggedIn.UserId.String()))
    return nil
}

func (h *EventsHandler) HandleUserLoggedOut(ctx context.Context, userLoggedOut events.UserLoggedOut) werrors.WError {
    h.logger.Debug("user logged out", logattr.UserId(userLoggedOut.UserId.String()))
    return nil
}

// HandleRatingSubmitted inserts the rating row and, when the row is
// new, folds the rating into the game's search document. A redelivered
// event hits the (game_slug, user_id) natural key and is ignored, so
// duplicates never inflate the aggregate.
func (h *EventsHandler) HandleRatingSubmitted(ctx context.Context, ratingSubmitted events.RatingSubmitted) werrors.WError {
    if ratingSubmitted.Rating < MinRating || ratingSubmitted.Rating > MaxRating {
        return werrors.NewNonRetryableInternalError(
            "rating out of range: %d", ratingSubmitted.Rating)
    }

    inserted, werr := h.ratings.SaveRating(ctx, Rating{
        Id:        ratingSubmitted.EventId,
        GameSlug:  ratingSubmitted.GameSlug,
        UserId:    ratingSubmitted.UserId,
        Rating:    ratingSubmitted.Rating,
        Review:    ratingSubmitted.Review,
        CreatedAt: ratingSubmitted.EmittedAt,
    })
    if werr != nil {
        h.logger.Error("failed saving rating",
            logattr.GameSlug(ratingSubmitted.GameSlug),
            logattr.UserId(ratingSubmitted.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !inserted {
        h.logger.Info("duplicate rating ignored",
            logattr.GameSlug(ratingSubmitted.GameSlug),
            logattr.UserId(ratingSubmitted.UserId.String()))
        return nil
    }

    return h.aggregator.Apply(ctx, ratingSubmitted.GameSlug, ratingSubmitted.Rating)
}

var _ events.GameEventsHandler = (*EventsHandler)(nil)
var _ events.UserEventsHandler = (*EventsHandler)(nil)
