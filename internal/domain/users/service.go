package users

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

var ErrUserNotFound = errors.New("user not found")

// Service owns the users table and originates the user-family events.
// Each operation is the synchronous part of a request: the local write
// plus the enqueue. Credential checks and sessions happen upstream.
type Service struct {
    repository Repository
    publisher  events.Publisher
    logger     *slog.Logger
}

func NewService(repository Repository, publisher events.Publisher, logger *slog.Logger) *Service {
    return &Service{
        repository: repository,
        publisher:  publisher,
        logger:     logger,
    }
}

func (s *Service) Register(ctx context.Context, username string, email string) (User, error) {
    user := User{
        Id:        uuid.New(),
        Username:  username,
        Email:     email,
        CreatedAt: time.Now().UTC(),
    }
    inserted, werr := s.repository.SaveUser(ctx, user)
    if werr != nil {
        return User{}, fmt.Errorf("saving user: %s", werr.Message())
    }
    if !inserted {
        return User{}, fmt.Errorf("user id collision: %s", user.Id)
    }

    event := events.NewUserRegistered(user.Id, user.Username, user.Email, user.CreatedAt)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.UserEventsTopic})
    if err != nil {
        return User{}, fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("user registered", logattr.UserId(user.Id.String()))
    return user, nil
}

func (s *Service) Login(ctx context.Context, userId uuid.UUID) error {
    _, found, werr := s.repository.GetUser(ctx, userId)
    if werr != nil {
        return fmt.Errorf("fetching user: %s", werr.Message())
    }
    if !found {
        return ErrUserNotFound
    }

    event := events.NewUserLoggedIn(userId, time.Now().UTC())
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.UserEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }
    return nil
}

func (s *Service) Logout(ctx context.Context, userId uuid.UUID) error {
    event := events.NewUserLoggedOut(userId, time.Now().UTC())
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.UserEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }
    return nil
}

func (s *Service) Update(ctx context.Context, userId uuid.UUID, username string, email string) error {
    matched, werr := s.repository.UpdateUser(ctx, userId, username, email)
    if werr != nil {
        return fmt.Errorf("updating user: %s", werr.Message())
    }
    if !matched {
        return ErrUserNotFound
    }

    event := events.NewUserUpdated(userId, username, email)
    err := s.publisher.Publish(ctx, event, events.RoutingInfo{Topic: events.UserEventsTopic})
    if err != nil {
        return fmt.Errorf("publishing %s: %w", event.Type(), err)
    }

    s.logger.Info("user updated", logattr.UserId(userId.String()))
    return nil
}
