package admin

import (
    "context"
    "time"

    "gamevault/internal/events"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

// DirectoryUser is the admin service's projected copy of a user row,
// enriched with the last seen login/logout stamps taken from the
// session events.
type DirectoryUser struct {
    Id           uuid.UUID
    Username     string
    Email        string
    RegisteredAt time.Time
    LastLoginAt  *time.Time
    LastLogoutAt *time.Time
}

// CatalogGame is the catalog entry of record: the admin service owns
// game creation, so this is the source the game_events flow out of.
type CatalogGame struct {
    Slug        string
    Name        string
    Title       string
    Description string
    Genre       string
    CreatedBy   uuid.UUID
    CreatedAt   time.Time
}

type DirectoryRepository interface {
    SaveUser(ctx context.Context, user DirectoryUser) (bool, werrors.WError)
    UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError)
    SetLastLogin(ctx context.Context, id uuid.UUID, at time.Time) (bool, werrors.WError)
    SetLastLogout(ctx context.Context, id uuid.UUID, at time.Time) (bool, werrors.WError)
    DeleteUser(ctx context.Context, id uuid.UUID) (bool, werrors.WError)
}

type CatalogRepository interface {
    SaveGame(ctx context.Context, game CatalogGame) (bool, werrors.WError)
    UpdateGame(ctx context.Context, slug string, changes events.GameChanges) (bool, werrors.WError)
    DeleteGame(ctx context.Context, slug string) (bool, werrors.WError)
    GetGame(ctx context.Context, slug string) (CatalogGame, bool, werrors.WError)
}
