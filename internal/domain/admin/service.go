package admin

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "time"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/google/uuid"
)

var (
    ErrGameNotFound = errors.New("game not found")
    ErrGameExists   = errors.New("game already exists")
    ErrUserNotFound = errors.New("user not found")
)

// Service owns the game catalog and originates game_events and
// admin_events.
type Service struct {
    catalog   CatalogRepository
    directory DirectoryRepository
    publisher events.Publisher
    logger    *slog.Logger
}

func NewService(catalog CatalogRepository, directory DirectoryRepository, publisher events.Publisher, logger *slog.Logger) *Service {
    return &Service{
        catalog:   catalog,
        directory: directory,
        publisher: publisher,
        logger:    logger,
    }
}

func (s *Service) CreateGame(ctx context.Context, slug, name, title, description, genre string, createdBy uuid.UUID) error {
    game := CatalogGame{
        Slug:        slug,
        Name:        name,
        Title:       title,
        Description: description,
        Genre:       genre,
        CreatedBy:   createdBy,
        CreatedAt:   time.Now().UTC(),
    }
    inserted, werr := s.catalog.SaveGame(ctx, game)
    if werr != nil {
        return fmt.Errorf("saving game: %s", werr.Message())
    }
    if !inserted {
        return ErrGameExists
    }

    event := events.NewGameCreated(game.Slug, game.Name, game.Title, game.Description, game.Genre, game.CreatedBy, game.CreatedAt)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.GameEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("game created", logattr.GameSlug(slug))
    return nil
}

func (s *Service) UpdateGame(ctx context.Context, slug string, changes events.GameChanges) error {
    matched, werr := s.catalog.UpdateGame(ctx, slug, changes)
    if werr != nil {
        return fmt.Errorf("updating game: %s", werr.Message())
    }
    if !matched {
        return ErrGameNotFound
    }

    event := events.NewGameUpdated(slug, changes)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.GameEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("game updated", logattr.GameSlug(slug))
    return nil
}

func (s *Service) DeleteGame(ctx context.Context, slug string) error {
    existed, werr := s.catalog.DeleteGame(ctx, slug)
    if werr != nil {
        return fmt.Errorf("deleting game: %s", werr.Message())
    }
    if !existed {
        return ErrGameNotFound
    }

    event := events.NewGameDeleted(slug)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.GameEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("game deleted", logattr.GameSlug(slug))
    return nil
}

// DeleteUser removes the directory projection and tells the owning
// service to drop the row.
func (s *Service) DeleteUser(ctx context.Context, userId uuid.UUID) error {
    existed, werr := s.directory.DeleteUser(ctx, userId)
    if werr != nil {
        return fmt.Errorf("deleting user: %s", werr.Message())
    }
    if !existed {
        return ErrUserNotFound
    }

    event := events.NewUserDeleted(userId)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.AdminEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("user deleted", logattr.UserId(userId.String()))
    return nil
}
