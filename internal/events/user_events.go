package events

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "time"

    "github.com/google/uuid"
    "github.com/walletera/werrors"
)

const (
    TypeUserRegistered  = "UserRegistered"
    TypeUserLoggedIn    = "UserLoggedIn"
    TypeUserLoggedOut   = "UserLoggedOut"
    TypeUserUpdated     = "UserUpdated"
    TypeRatingSubmitted = "RatingSubmitted"
)

// UserEventsHandler applies every variant published on the user_events
// topic. Adding a variant means adding a method here, so a service that
// subscribes the topic fails to compile until it decides what to do
// with the new variant.
type UserEventsHandler interface {
    HandleUserRegistered(ctx context.Context, userRegistered UserRegistered) werrors.WError
    HandleUserLoggedIn(ctx context.Context, userLoggedIn UserLoggedIn) werrors.WError
    HandleUserLoggedOut(ctx context.Context, userLoggedOut UserLoggedOut) werrors.WError
    HandleUserUpdated(ctx context.Context, userUpdated UserUpdated) werrors.WError
    HandleRatingSubmitted(ctx context.Context, ratingSubmitted RatingSubmitted) werrors.WError
}

type UserRegistered struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    UserId       uuid.UUID `json:"id"`
    Username     string    `json:"username"`
    Email        string    `json:"email"`
    RegisteredAt time.Time `json:"created_at"`
}

func NewUserRegistered(userId uuid.UUID, username string, email string, registeredAt time.Time) UserRegistered {
    return UserRegistered{
        EventId:      uuid.New(),
        EmittedAt:    time.Now().UTC(),
        UserId:       userId,
        Username:     username,
        Email:        email,
        RegisteredAt: registeredAt,
    }
}

func (e UserRegistered) ID() string { return e.EventId.String() }
func (e UserRegistered) Type() string { return TypeUserRegistered }
func (e UserRegistered) AggregateID() string { return e.UserId.String() }
func (e UserRegistered) CreatedAt() time.Time { return e.EmittedAt }
func (e UserRegistered) Serialize() ([]byte, error) { return serialize(e, e) }

func (e UserRegistered) Accept(ctx context.Context, handler UserEventsHandler) werrors.WError {
    return handler.HandleUserRegistered(ctx, e)
}

type UserLoggedIn struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    UserId uuid.UUID `json:"user_id"`
    Time   time.Time `json:"time"`
}

func NewUserLoggedIn(userId uuid.UUID, loginTime time.Time) UserLoggedIn {
    return UserLoggedIn{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        UserId:    userId,
        Time:      loginTime,
    }
}

func (e UserLoggedIn) ID() string { return e.EventId.String() }
func (e UserLoggedIn) Type() string { return TypeUserLoggedIn }
func (e UserLoggedIn) AggregateID() string { return e.UserId.String() }
func (e UserLoggedIn) CreatedAt() time.Time { return e.EmittedAt }
func (e UserLoggedIn) Serialize() ([]byte, error) { return serialize(e, e) }

func (e UserLoggedIn) Accept(ctx context.Context, handler UserEventsHandler) werrors.WError {
    return handler.HandleUserLoggedIn(ctx, e)
}

type UserLoggedOut struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    UserId uuid.UUID `json:"user_id"`
    Time   time.Time `json:"time"`
}

func NewUserLoggedOut(userId uuid.UUID, logoutTime time.Time) UserLoggedOut {
    return UserLoggedOut{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        UserId:    userId,
        Time:      logoutTime,
    }
}

func (e UserLoggedOut) ID() string { return e.EventId.String() }
func (e UserLoggedOut) Type() string { return TypeUserLoggedOut }
func (e UserLoggedOut) AggregateID() string { return e.UserId.String() }
func (e UserLoggedOut) CreatedAt() time.Time { return e.EmittedAt }
func (e UserLoggedOut) Serialize() ([]byte, error) { return serialize(e, e) }

func (e UserLoggedOut) Accept(ctx context.Context, handler UserEventsHandler) werrors.WError {
    return handler.HandleUserLoggedOut(ctx, e)
}

type UserUpdated struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    UserId   uuid.UUID `json:"id"`
    Username string    `json:"username"`
    Email    string    `json:"email"`
}

func NewUserUpdated(userId uuid.UUID, username string, email string) UserUpdated {
    return UserUpdated{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        UserId:    userId,
        Username:  username,
        Email:     email,
    }
}

func (e UserUpdated) ID() string { return e.EventId.String() }
func (e UserUpdated) Type() string { return TypeUserUpdated }
func (e UserUpdated) AggregateID() string { return e.UserId.String() }
func (e UserUpdated) CreatedAt() time.Time { return e.EmittedAt }
func (e UserUpdated) Serialize() ([]byte, error) { return serialize(e, e) }

func (e UserUpdated) Accept(ctx context.Context, handler UserEventsHandler) werrors.WError {
    return handler.HandleUserUpdated(ctx, e)
}

type RatingSubmitted struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    GameSlug string    `json:"game_slug"`
    UserId   uuid.UUID `json:"user_id"`
    Rating   int       `json:"rating"`
    Review   *string   `json:"review,omitempty"`
}

func NewRatingSubmitted(gameSlug string, userId uuid.UUID, rating int, review *string) RatingSubmitted {
    return RatingSubmitted{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        GameSlug:  gameSlug,
        UserId:    userId,
        Rating:    rating,
        Review:    review,
    }
}

func (e RatingSubmitted) ID() string { return e.EventId.String() }
func (e RatingSubmitted) Type() string { return TypeRatingSubmitted }
func (e RatingSubmitted) CreatedAt() time.Time { return e.EmittedAt }

// AggregateID is the game slug, not the user id: all ratings for one game
// must serialize onto one partition so the aggregation sees them in order.
func (e RatingSubmitted) AggregateID() string { return e.GameSlug }

func (e RatingSubmitted) Serialize() ([]byte, error) { return serialize(e, e) }

func (e RatingSubmitted) Accept(ctx context.Context, handler UserEventsHandler) werrors.WError {
    return handler.HandleRatingSubmitted(ctx, e)
}

type UserEventsDeserializer struct {
    logger *slog.Logger
}

func NewUserEventsDeserializer(logger *slog.Logger) *UserEventsDeserializer {
    return &UserEventsDeserializer{logger: logger}
}

func (d *UserEventsDeserializer) Deserialize(rawEvent []byte) (Event[UserEventsHandler], error) {
    var envelope EventEnvelope
    err := json.Unmarshal(rawEvent, &envelope)
    if err != nil {
        return nil, fmt.Errorf("deserializing event envelope: %w", err)
    }
    switch envelope.Type {
    case TypeUserRegistered:
        var event UserRegistered
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeUserLoggedIn:
        var event UserLoggedIn
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeUserLoggedOut:
        var event UserLoggedOut
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeUserUpdated:
        var event UserUpdated
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeRatingSubmitted:
        var event RatingSubmitted
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    default:
        return nil, fmt.Errorf("unknown user event type: %s", envelope.Type)
    }
}
