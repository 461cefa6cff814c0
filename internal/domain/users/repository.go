package users

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

type User struct {
    Id        uuid.UUID
    Username  string
    Email     string
    CreatedAt time.Time
}

type Repository interface {
    SaveUser(ctx context.Context, user User) (bool, werrors.WError)
    UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError)
    DeleteUser(ctx context.Context, id uuid.UUID) (bool, werrors.WError)
    GetUser(ctx context.Context, id uuid.UUID) (User, bool, werrors.WError)
}
