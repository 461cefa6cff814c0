package sqlite

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "gamevault/internal/domain/admin"
    "gamevault/internal/events"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS games (
    slug        TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    genre       TEXT NOT NULL,
    created_by  TEXT NOT NULL,
    created_at  TEXT NOT NULL
)`

// CatalogRepository stores the admin service's games of record.
type CatalogRepository struct {
    db *sql.DB
}

func NewCatalogRepository(db *sql.DB) (*CatalogRepository, error) {
    if _, err := db.Exec(catalogSchema); err != nil {
        return nil, fmt.Errorf("init catalog schema: %w", err)
    }
    return &CatalogRepository{db: db}, nil
}

func (r *CatalogRepository) SaveGame(ctx context.Context, game admin.CatalogGame) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO games (slug, name, title, description, genre, created_by, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        game.Slug, game.Name, game.Title, game.Description, game.Genre,
        game.CreatedBy.String(), formatTime(game.CreatedAt))
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to save game: %s", err.Error())
    }
    inserted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return inserted > 0, nil
}

func (r *CatalogRepository) UpdateGame(ctx context.Context, slug string, changes events.GameChanges) (bool, werrors.WError) {
    query, args := buildGameUpdate("games", slug, changes)
    if query == "" {
        // nothing to change; report whether the row exists
        _, found, werr := r.GetGame(ctx, slug)
        return found, werr
    }
    res, err := r.db.ExecContext(ctx, query, args...)
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to update game: %s", err.Error())
    }
    matched, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return matched > 0, nil
}

func (r *CatalogRepository) DeleteGame(ctx context.Context, slug string) (bool, werrors.WError) {
    res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE slug = ?`, slug)
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to delete game: %s", err.Error())
    }
    deleted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return deleted > 0, nil
}

func (r *CatalogRepository) GetGame(ctx context.Context, slug string) (admin.CatalogGame, bool, werrors.WError) {
    var (
        game      admin.CatalogGame
        createdBy string
        createdAt string
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT slug, name, title, description, genre, created_by, created_at FROM games WHERE slug = ?`,
        slug).Scan(&game.Slug, &game.Name, &game.Title, &game.Description, &game.Genre, &createdBy, &createdAt)
    if errors.Is(err, sql.ErrNoRows) {
        return admin.CatalogGame{}, false, nil
    }
    if err != nil {
        return admin.CatalogGame{}, false, werrors.NewRetryableInternalError("failed to get game: %s", err.Error())
    }
    game.CreatedBy, err = uuid.Parse(createdBy)
    if err != nil {
        return admin.CatalogGame{}, false, werrors.NewNonRetryableInternalError("corrupt created_by: %s", err.Error())
    }
    game.CreatedAt, err = parseTime(createdAt)
    if err != nil {
        return admin.CatalogGame{}, false, werrors.NewNonRetryableInternalError("corrupt created_at: %s", err.Error())
    }
    return game, true, nil
}

// buildGameUpdate renders an UPDATE touching only the non-nil change
// fields. Returns an empty query when there is nothing to set.
func buildGameUpdate(table string, slug string, changes events.GameChanges) (string, []any) {
    var (
        sets []string
        args []any
    )
    if changes.Title != nil {
        sets = append(sets, "title = ?")
        args = append(args, *changes.Title)
    }
    if changes.Description != nil {
        sets = append(sets, "description = ?")
        args = append(args, *changes.Description)
    }
    if changes.Genre != nil {
        sets = append(sets, "genre = ?")
        args = append(args, *changes.Genre)
    }
    if len(sets) == 0 {
        return "", nil
    }
    args = append(args, slug)
    return fmt.Sprintf(`UPDATE %s SET %s WHERE slug = ?`, table, strings.Join(sets, ", ")), args
}

var _ admin.CatalogRepository = (*CatalogRepository)(nil)
