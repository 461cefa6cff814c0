package games

import (
    "context"
    "time"

    "gamevault/internal/events"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

// Game is the game service's locally-cached copy of a catalog entry
// owned by the admin service. It is written only by the events handler,
// never by request handlers.
type Game struct {
    Slug        string
    Name        string
    Title       string
    Description string
    Genre       string
    CreatedBy   uuid.UUID
    CreatedAt   time.Time
}

// ProjectedUser is the locally-cached copy of a user row owned by the
// user service.
type ProjectedUser struct {
    Id           uuid.UUID
    Username     string
    Email        string
    RegisteredAt time.Time
}

// Rating is the one store this service owns. (GameSlug, UserId) is the
// natural key: a user rates a game once, and a redelivered
// RatingSubmitted event is detected through it.
type Rating struct {
    Id        uuid.UUID
    GameSlug  string
    UserId    uuid.UUID
    Rating    int
    Review    *string
    CreatedAt time.Time
}

type GamesRepository interface {
    // SaveGame inserts the game. A duplicate slug is benign: the
    // returned bool reports whether a row was actually inserted.
    SaveGame(ctx context.Context, game Game) (bool, werrors.WError)
    // UpdateGame overlays the non-nil change fields onto the stored
    // row. The bool reports whether the slug matched a row.
    UpdateGame(ctx context.Context, slug string, changes events.GameChanges) (bool, werrors.WError)
    // DeleteGame removes the row. The bool reports whether it existed.
    DeleteGame(ctx context.Context, slug string) (bool, werrors.WError)
    GetGame(ctx context.Context, slug string) (Game, bool, werrors.WError)
}

type UsersRepository interface {
    SaveUser(ctx context.Context, user ProjectedUser) (bool, werrors.WError)
    UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError)
}

type RatingsRepository interface {
    // SaveRating inserts the rating row. Inserting a second rating for
    // the same (game_slug, user_id) pair reports inserted=false.
    SaveRating(ctx context.Context, rating Rating) (bool, werrors.WError)
}
