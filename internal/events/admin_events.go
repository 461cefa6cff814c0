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

const TypeUserDeleted = "UserDeleted"

// AdminEventsHandler applies admin-initiated events. UserDeleted rides
// its own topic because the deletion originates in the admin service,
// not in the user service that owns the row.
type AdminEventsHandler interface {
    HandleUserDeleted(ctx context.Context, userDeleted UserDeleted) werrors.WError
}

type UserDeleted struct {
    EventId   uuid.UUID `json:"-"`
    EmittedAt time.Time `json:"-"`

    UserId uuid.UUID `json:"id"`
}

func NewUserDeleted(userId uuid.UUID) UserDeleted {
    return UserDeleted{
        EventId:   uuid.New(),
        EmittedAt: time.Now().UTC(),
        UserId:    userId,
    }
}

func (e UserDeleted) ID() string { return e.EventId.String() }
func (e UserDeleted) Type() string { return TypeUserDeleted }
func (e UserDeleted) AggregateID() string { return e.UserId.String() }
func (e UserDeleted) CreatedAt() time.Time { return e.EmittedAt }
func (e UserDeleted) Serialize() ([]byte, error) { return serialize(e, e) }

func (e UserDeleted) Accept(ctx context.Context, handler AdminEventsHandler) werrors.WError {
    return handler.HandleUserDeleted(ctx, e)
}

type AdminEventsDeserializer struct {
    logger *slog.Logger
}

func NewAdminEventsDeserializer(logger *slog.Logger) *AdminEventsDeserializer {
    return &AdminEventsDeserializer{logger: logger}
}

func (d *AdminEventsDeserializer) Deserialize(rawEvent []byte) (Event[AdminEventsHandler], error) {
    var envelope EventEnvelope
    err := json.Unmarshal(rawEvent, &envelope)
    if err != nil {
        return nil, fmt.Errorf("deserializing event envelope: %w", err)
    }
    switch envelope.Type {
    case TypeUserDeleted:
        var event UserDeleted
        if err := json.Unmarshal(envelope.Data, &event); err != nil {
            return nil, fmt.Errorf("deserializing %s data: %w", envelope.Type, err)
        }
        event.EventId = envelope.Id
        event.EmittedAt = envelope.CreatedAt
        return event, nil
    default:
        return nil, fmt.Errorf("unknown admin event type: %s", envelope.Type)
    }
}
