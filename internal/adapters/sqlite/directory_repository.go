package sqlite

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "gamevault/internal/domain/admin"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const directorySchema = `
CREATE TABLE IF NOT EXISTS directory_users (
    id             TEXT PRIMARY KEY,
    username       TEXT NOT NULL,
    email          TEXT NOT NULL,
    registered_at  TEXT NOT NULL,
    last_login_at  TEXT,
    last_logout_at TEXT
)`

// DirectoryRepository stores the admin service's user projections.
type DirectoryRepository struct {
    db *sql.DB
}

func NewDirectoryRepository(db *sql.DB) (*DirectoryRepository, error) {
    if _, err := db.Exec(directorySchema); err != nil {
        return nil, fmt.Errorf("init directory schema: %w", err)
    }
    return &DirectoryRepository{db: db}, nil
}

func (r *DirectoryRepository) SaveUser(ctx context.Context, user admin.DirectoryUser) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO directory_users (id, username, email, registered_at) VALUES (?, ?, ?, ?)`,
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

func (r *DirectoryRepository) UpdateUser(ctx context.Context, id uuid.UUID, username string, email string) (bool, werrors.WError) {
    return r.exec(ctx,
        `UPDATE directory_users SET username = ?, email = ? WHERE id = ?`,
        username, email, id.String())
}

func (r *DirectoryRepository) SetLastLogin(ctx context.Context, id uuid.UUID, at time.Time) (bool, werrors.WError) {
    return r.exec(ctx,
        `UPDATE directory_users SET last_login_at = ? WHERE id = ?`,
        formatTime(at), id.String())
}

func (r *DirectoryRepository) SetLastLogout(ctx context.Context, id uuid.UUID, at time.Time) (bool, werrors.WError) {
    return r.exec(ctx,
        `UPDATE directory_users SET last_logout_at = ? WHERE id = ?`,
        formatTime(at), id.String())
}

func (r *DirectoryRepository) DeleteUser(ctx context.Context, id uuid.UUID) (bool, werrors.WError) {
    return r.exec(ctx, `DELETE FROM directory_users WHERE id = ?`, id.String())
}

func (r *DirectoryRepository) exec(ctx context.Context, query string, args ...any) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx, query, args...)
    if err != nil {
        return false, werrors.NewRetryableInternalError("directory write failed: %s", err.Error())
    }
    matched, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return matched > 0, nil
}

var _ admin.DirectoryRepository = (*DirectoryRepository)(nil)
