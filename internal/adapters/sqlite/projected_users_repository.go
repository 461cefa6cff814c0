package sqlite

import (
    "context"
    "database/sql"
    "fmt"

    "gamevault/internal/domain/games"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const projectedUsersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    registered_at TEXT NOT NULL
)`

// ProjectedUsersRepository stores the game service's user projections.
type ProjectedUsersRepository struct {
    db *sql.DB
}

func NewProjectedUsersRepository(db *sql.DB) (*ProjectedUsersRepository, error) {
    if _, err := db.Exec(projectedUsersSchema); err != nil {
        return nil, fmt.Errorf("init projected users schema: %w", err)
    }
    return &ProjectedUsersRepository{db: db}, nil
}

func (r *ProjectedUsersRepository) SaveUser(ctx context.Context, user games.ProjectedUser) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO users (id, username, email, registered_at) VALUES (?, ?, ?, ?)`,
        user.Id.String(), user.Username, user.Email, formatTime(user.RegisteredAt))
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to save user: %s", err.Error())
    }
    inserted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return inserted > 0, nil
}

func (r *ProjectedUsersRepository) UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE users SET username = ?, email = ? WHERE id = ?`,
        username, email, id.String())
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to update user: %s", err.Error())
    }
    matched, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return matched > 0, nil
}

var _ games.UsersRepository = (*ProjectedUsersRepository)(nil)
