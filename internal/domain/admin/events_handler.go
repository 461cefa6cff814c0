package admin

import (
    "context"
    "log/slog"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/walletera/werrors"
)

// EventsHandler keeps the admin service's user directory consistent
// with the user service by applying user_events.
type EventsHandler struct {
    directory DirectoryRepository
    logger    *slog.Logger
}

func NewEventsHandler(directory DirectoryRepository, logger *slog.Logger) *EventsHandler {
    return &EventsHandler{
        directory: directory,
        logger:    logger,
    }
}

func (h *EventsHandler) HandleUserRegistered(ctx context.Context, userRegistered events.UserRegistered) werrors.WError {
    inserted, werr := h.directory.SaveUser(ctx, DirectoryUser{
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

func (h *EventsHandler) HandleUserLoggedIn(ctx context.Context, userLoggedIn events.UserLoggedIn) werrors.WError {
    matched, werr := h.directory.SetLastLogin(ctx, userLoggedIn.UserId, userLoggedIn.Time)
    if werr != nil {
        h.logger.Error("failed stamping last login",
            logattr.UserId(userLoggedIn.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        // the login event raced ahead of the registration event
        h.logger.Warn("user not found for login stamp, skipped",
            logattr.UserId(userLoggedIn.UserId.String()))
    }
    return nil
}

func (h *EventsHandler) HandleUserLoggedOut(ctx context.Context, userLoggedOut events.UserLoggedOut) werrors.WError {
    matched, werr := h.directory.SetLastLogout(ctx, userLoggedOut.UserId, userLoggedOut.Time)
    if werr != nil {
        h.logger.Error("failed stamping last logout",
            logattr.UserId(userLoggedOut.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !matched {
        h.logger.Warn("user not found for logout stamp, skipped",
            logattr.UserId(userLoggedOut.UserId.String()))
    }
    return nil
}

func (h *EventsHandler) HandleUserUpdated(ctx context.Context, userUpdated events.UserUpdated) werrors.WError {
    matched, werr := h.directory.UpdateUser(ctx, userUpdated.UserId, userUpdated.Username, userUpdated.Email)
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

func (h *EventsHandler) HandleRatingSubmitted(ctx context.Context, ratingSubmitted events.RatingSubmitted) werrors.WError {
    // ratings live in the game service; nothing to project here
    h.logger.Debug("rating submitted",
        logattr.GameSlug(ratingSubmitted.GameSlug),
        logattr.UserId(ratingSubmitted.UserId.String()))
    return nil
}

var _ events.UserEventsHandler = (*EventsHandler)(nil)
