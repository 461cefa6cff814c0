package events

import (
    "testing"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUserDeletedRoundTrip(t *testing.T) {
    original := NewUserDeleted(uuid.New())

    raw, err := original.Serialize()
    require.NoError(t, err)

    deserialized, err := NewAdminEventsDeserializer(testLogger()).Deserialize(raw)
    require.NoError(t, err)

    userDeleted, ok := deserialized.(UserDeleted)
    require.True(t, ok)
    assert.Equal(t, original.EventId, userDeleted.EventId)
    assert.Equal(t, original.UserId, userDeleted.UserId)
}
