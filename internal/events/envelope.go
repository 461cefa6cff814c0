package events

import (
    "encoding/json"
    "time"

    "github.com/google/uuid"
)

// EventEnvelope is the JSON wire shape placed on the broker. Type carries
// the variant name; Data carries the variant's fields.
type EventEnvelope struct {
    Id          uuid.UUID `json:"id"`
    Type        string    `json:"type"`
    AggregateId string    `json:"aggregateId"`
    CreatedAt   time.Time `json:"createdAt"`

    Data json.RawMessage `json:"data"`
}

func serialize(data EventData, variant any) ([]byte, error) {
    rawVariant, err := json.Marshal(variant)
    if err != nil {
        return nil, err
    }
    return json.Marshal(EventEnvelope{
        Id:          uuid.MustParse(data.ID()),
        Type:        data.Type(),
        AggregateId: data.AggregateID(),
        CreatedAt:   data.CreatedAt(),
        Data:        rawVariant,
    })
}
