package sqlite

import (
    "context"
    "database/sql"
    "fmt"

    "gamevault/internal/domain/games"

    "github.com/walletera/werrors"
)

const ratingsSchema = `
CREATE TABLE IF NOT EXISTS ratings (
    id         TEXT PRIMARY KEY,
    game_slug  TEXT NOT NULL,
    user_id    TEXT NOT NULL,
    rating     INTEGER NOT NULL,
    review     TEXT,
    created_at TEXT NOT NULL,
    UNIQUE (game_slug, user_id)
)`

// RatingsRepository stores the rating rows the game service owns. The
// (game_slug, user_id) unique key is what makes redelivered
// RatingSubmitted events harmless.
type RatingsRepository struct {
    db *sql.DB
}

func NewRatingsRepository(db *sql.DB) (*RatingsRepository, error) {
    if _, err := db.Exec(ratingsSchema); err != nil {
        return nil, fmt.Errorf("init ratings schema: %w", err)
    }
    return &RatingsRepository{db: db}, nil
}

func (r *RatingsRepository) SaveRating(ctx context.Context, rating games.Rating) (bool, werrors.WError) {
    review := sql.NullString{}
    if rating.Review != nil {
        review = sql.NullString{String: *rating.Review, Valid: true}
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO ratings (id, game_slug, user_id, rating, review, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
        rating.Id.String(), rating.GameSlug, rating.UserId.String(), rating.Rating,
        review, formatTime(rating.CreatedAt))
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to save rating: %s", err.Error())
    }
    inserted, err := res.RowsAffected()
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to read rows affected: %s", err.Error())
    }
    return inserted > 0, nil
}

var _ games.RatingsRepository = (*RatingsRepository)(nil)
