package sqlite

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "gamevault/internal/domain/games"
    "gamevault/internal/events"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const projectedGamesSchema = `
CREATE TABLE IF NOT EXISTS games (
    slug        TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    genre       TEXT NOT NULL,
    created_by  TEXT NOT NULL,
    created_at  TEXT NOT NULL
)`

// GamesRepository stores the game service's projected copies of the
// admin catalog.
type GamesRepository struct {
    db *sql.DB
}

func NewGamesRepository(db *sql.DB) (*GamesRepository, error) {
    if _, err := db.Exec(projectedGamesSchema); err != nil {
        return nil, fmt.Errorf("init games schema: %w", err)
    }
    return &GamesRepository{db: db}, nil
}

func (r *GamesRepository) SaveGame(ctx context.Context, game games.Game) (bool, werrors.WError) {
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

func (r *GamesRepository) UpdateGame(ctx context.Context, slug string, changes events.GameChanges) (bool, werrors.WError) {
    query, args := buildGameUpdate("games", slug, changes)
    if query == "" {
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

func (r *GamesRepository) DeleteGame(ctx context.Context, slug string) (bool, werrors.WError) {
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

func (r *GamesRepository) GetGame(ctx context.Context, slug string) (games.Game, bool, werrors.WError) {
    var (
        game      games.Game
        createdBy string
        createdAt string
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT slug, name, title, description, genre, created_by, created_at FROM games WHERE slug = ?`,
        slug).Scan(&game.Slug, &game.Name, &game.Title, &game.Description, &game.Genre, &createdBy, &createdAt)
    if errors.Is(err, sql.ErrNoRows) {
        return games.Game{}, false, nil
    }
    if err != nil {
        return games.Game{}, false, werrors.NewRetryableInternalError("failed to get game: %s", err.Error())
    }
    game.CreatedBy, err = uuid.Parse(createdBy)
    if err != nil {
        return games.Game{}, false, werrors.NewNonRetryableInternalError("corrupt created_by: %s", err.Error())
    }
    game.CreatedAt, err = parseTime(createdAt)
    if err != nil {
        return games.Game{}, false, werrors.NewNonRetryableInternalError("corrupt created_at: %s", err.Error())
    }
    return game, true, nil
}

var _ games.GamesRepository = (*GamesRepository)(nil)
