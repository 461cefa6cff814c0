package events

import (
    "context"
    "time"

    "github.com/walletera/werrors"
)

type EventData interface {
    // ID returns the id of the event
    ID() string
    // Type returns the discriminator of the event variant
    Type() string
    // AggregateID returns the id of the entity this event is about.
    // It is used as the transport partition key so events for the same
    // entity land on the same partition, in order.
    AggregateID() string
    // CreatedAt returns the emission time of the event as seen by the
    // origin service. It does not reflect receipt order.
    CreatedAt() time.Time
    // Serialize serializes the event into its wire form
    Serialize() ([]byte, error)
}

type Event[Handler any] interface {
    EventData

    Accept(ctx context.Context, handler Handler) werrors.WError
}

type Deserializer[Handler any] interface {
    Deserialize(rawEvent []byte) (Event[Handler], error)
}

type RoutingInfo struct {
    Topic string
}

type Publisher interface {
    Publish(ctx context.Context, data EventData, info RoutingInfo) error
}
