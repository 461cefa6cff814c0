package users

import (
    "context"
    "log/slog"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/walletera/werrors"
)

// EventsHandler applies admin_events against the users table the user
// service owns.
type EventsHandler struct {
    repository Repository
    logger     *slog.Logger
}

func NewEventsHandler(repository Repository, logger *slog.Logger) *EventsHandler {
    return &EventsHandler{
        repository: repository,
        logger:     logger,
    }
}

func (h *EventsHandler) HandleUserDeleted(ctx context.Context, userDeleted events.UserDeleted) werrors.WError {
    existed, werr := h.repository.DeleteUser(ctx, userDeleted.UserId)
    if werr != nil {
        h.logger.Error("failed deleting user",
            logattr.UserId(userDeleted.UserId.String()),
            logattr.Error(werr.Message()))
        return werr
    }
    if !existed {
        h.logger.Warn("user not found for delete, skipped",
            logattr.UserId(userDeleted.UserId.String()))
        return nil
    }
    h.logger.Info("user deleted", logattr.UserId(userDeleted.UserId.String()))
    return nil
}

var _ events.AdminEventsHandler = (*EventsHandler)(nil)
