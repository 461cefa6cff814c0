package sqlite

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "gamevault/internal/domain/users"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL,
    email      TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

// UsersRepository stores the rows the user service owns.
type UsersRepository struct {
    db *sql.DB
}

func NewUsersRepository(db *sql.DB) (*UsersRepository, error) {
    if _, err := db.Exec(usersSchema); err != nil {
        return nil, fmt.Errorf("init users schema: %w", err)
    }
    return &UsersRepository{db: db}, nil
}

func (r *UsersRepository) SaveUser(ctx context.Context, user users.User) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
        user.Id.String(), user.Username, user.Email, formatTime(user.CreatedAt))
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to save user: %s", err.Error())
    }
    inserted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return inserted > 0, nil
}

func (r *UsersRepository) UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError) {
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

func (r *UsersRepository) DeleteUser(ctx context.Context, id uuid.UUID) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to delete user: %s", err.Error())
    }
    deleted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return deleted > 0, nil
}

func (r *UsersRepository) GetUser(ctx context.Context, id uuid.UUID) (users.User, bool, werrors.WError) {
    var (
        rawId     string
        username  string
        email     string
        createdAt string
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT id, username, email, created_at FROM users WHERE id = ?`,
        id.String()).Scan(&rawId, &username, &email, &createdAt)
    if errors.Is(err, sql.ErrNoRows) {
        return users.User{}, false, nil
    }
    if err != nil {
        return users.User{}, false, werrors.NewRetryableInternalError("failed to get user: %s", err.Error())
    }
    userId, err := uuid.Parse(rawId)
    if err != nil {
        return users.User{}, false, werrors.NewNonRetryableInternalError("corrupt user id: %s", err.Error())
    }
    created, err := parseTime(createdAt)
    if err != nil {
        return users.User{}, false, werrors.NewNonRetryableInternalError("corrupt created_at: %s", err.Error())
    }
    return users.User{
        Id:        userId,
        Username:  username,
        Email:     email,
        CreatedAt: created,
    }, true, nil
}

var _ users.Repository = (*UsersRepository)(nil)
