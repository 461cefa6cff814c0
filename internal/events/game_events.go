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
    TypeGameCreated = "GameCreated"
    TypeGameUpdated = "GameUpdated"
    TypeGameDeleted = "GameDeleted"
)

type GameEventsHandler interface {
    HandleGameCreated(ctx context.Context, gameCreated GameCreated) werrors.WError
    HandleGameUpdated(ctx context.Context, gameUpdated GameUpdated) werrors.WError
    HandleGameDeleted(ctx context.Context, gameDeleted GameDeleted) werrors.WError
}

type GameCreated struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    Slug        string    `json:"slug"`
    Name        string    `json:"name"`
    Title       string    `json:"title"`
    Description string    `json:"description"`
    Genre       string    `json:"genre"`
    CreatedBy   uuid.UUID `json:"created_by"`
    CreatedTime time.Time `json:"created_at"`
}

func NewGameCreated(slug, name, title, description, genre string, createdBy uuid.UUID, createdTime time.Time) GameCreated {
    return GameCreated{
        EventId:     uuid.New(),
        EmittedAt:   time.Now().UTC(),
        Slug:        slug,
        Name:        name,
        Title:       title,
        Description: description,
        Genre:       genre,
        CreatedBy:   createdBy,
        CreatedTime: createdTime,
    }
}

func (e GameCreated) ID() string { return e.EventId.String() }
func (e GameCreated) Type() string { return TypeGameCreated }
func (e GameCreated) AggregateID() string { return e.Slug }
func (e GameCreated) CreatedAt() time.Time { return e.EmittedAt }
func (e GameCreated) Serialize() ([]byte, error) { return serialize(e, e) }

func (e GameCreated) Accept(ctx context.Context, handler GameEventsHandler) werrors.WError {
    return handler.HandleGameCreated(ctx, e)
}

// GameChanges carries only the fields an update may touch. A nil field
// means "leave it alone".
type GameChanges struct {
    Title       *string `json:"title,omitempty"`
    Description *string `json:"description,omitempty"`
    Genre       *string `json:"genre,omitempty"`
}

type GameUpdated struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    Slug    string      `json:"slug"`
    Changes GameChanges `json:"changes"`
}

func NewGameUpdated(slug string, changes GameChanges) GameUpdated {
    return GameUpdated{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        Slug:      slug,
        Changes:   changes,
    }
}

func (e GameUpdated) ID() string { return e.EventId.String() }
func (e GameUpdated) Type() string { return TypeGameUpdated }
func (e GameUpdated) AggregateID() string { return e.Slug }
func (e GameUpdated) CreatedAt() time.Time { return e.EmittedAt }
func (e GameUpdated) Serialize() ([]byte, error) { return serialize(e, e) }

func (e GameUpdated) Accept(ctx context.Context, handler GameEventsHandler) werrors.WError {
    return handler.HandleGameUpdated(ctx, e)
}

type GameDeleted struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    Slug string `json:"slug"`
}

func NewGameDeleted(slug string) GameDeleted {
    return GameDeleted{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        Slug:      slug,
    }
}

func (e GameDeleted) ID() string { return e.EventId.String() }
func (e GameDeleted) Type() string { return TypeGameDeleted }
func (e GameDeleted) AggregateID() string { return e.Slug }
func (e GameDeleted) CreatedAt() time.Time { return e.EmittedAt }
func (e GameDeleted) Serialize() ([]byte, error) { return serialize(e, e) }

func (e GameDeleted) Accept(ctx context.Context, handler GameEventsHandler) werrors.WError {
    return handler.HandleGameDeleted(ctx, e)
}

type GameEventsDeserializer struct {
    logger *slog.Logger
}

func NewGameEventsDeserializer(logger *slog.Logger) *GameEventsDeserializer {
    return &GameEventsDeserializer{logger: logger}
}

func (d *GameEventsDeserializer) Deserialize(rawEvent []byte) (Event[GameEventsHandler], error) {
    var envelope EventEnvelope
    err := json.Unmarshal(rawEvent, &envelope)
    if err != nil {
        return nil, fmt.Errorf("deserializing event envelope: %w", err)
    }
    switch envelope.Type {
    case TypeGameCreated:
        var event GameCreated
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeGameUpdated:
        var event GameUpdated
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    case TypeGameDeleted:
        var event GameDeleted
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    default:
        return nil, fmt.Errorf("unknown game event type: %s", envelope.Type)
    }
}
