package events

import (
    "io"
    "log/slog"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUserRegisteredRoundTrip(t *testing.T) {
    registeredAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
    original := NewUserRegistered(uuid.New(), "frodo", "frodo@shire.me", registeredAt)

    raw, err := original.Serialize()
    require.NoError(t, err)

    deserialized, err := NewUserEventsDeserializer(testLogger()).Deserialize(raw)
    require.NoError(t, err)

    userRegistered, ok := deserialized.(UserRegistered)
    require.True(t, ok)
    assert.Equal(t, original.EventId, userRegistered.EventId)
    assert.Equal(t, original.UserId, userRegistered.UserId)
    assert.Equal(t, "frodo", userRegistered.Username)
    assert.Equal(t, "frodo@shire.me", userRegistered.Email)
    assert.True(t, registeredAt.Equal(userRegistered.RegisteredAt))
}

func TestRatingSubmittedRoundTrip(t *testing.T) {
    review := "would rate again"
    original := NewRatingSubmitted("elden-ring", uuid.New(), 5, &review)

    raw, err := original.Serialize()
    require.NoError(t, err)

    deserialized, err := NewUserEventsDeserializer(testLogger()).Deserialize(raw)
    require.NoError(t, err)

    ratingSubmitted, ok := deserialized.(RatingSubmitted)
    require.True(t, ok)
    assert.Equal(t, original.EventId, ratingSubmitted.EventId)
    assert.Equal(t, "elden-ring", ratingSubmitted.GameSlug)
    assert.Equal(t, 5, ratingSubmitted.Rating)
    require.NotNil(t, ratingSubmitted.Review)
    assert.Equal(t, review, *ratingSubmitted.Review)
}

func TestRatingSubmittedPartitionsByGame(t *testing.T) {
    userId := uuid.New()
    event := NewRatingSubmitted("elden-ring", userId, 4, nil)

    // every rating for one game must land on one partition, so the key
    // is the game, not the user
    assert.Equal(t, "elden-ring", event.AggregateID())
    assert.NotEqual(t, userId.String(), event.AggregateID())
}

func TestEveryUserEventVariantRoundTrips(t *testing.T) {
    userId := uuid.New()
    now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
    variants := []EventData{
        NewUserRegistered(userId, "frodo", "frodo@shire.me", now),
        NewUserLoggedIn(userId, now),
        NewUserLoggedOut(userId, now),
        NewUserUpdated(userId, "frodo", "frodo@shire.me"),
        NewRatingSubmitted("elden-ring", userId, 3, nil),
    }
    deserializer := NewUserEventsDeserializer(testLogger())
    for _, variant := range variants {
        raw, err := variant.Serialize()
        require.NoError(t, err)

        deserialized, err := deserializer.Deserialize(raw)
        require.NoError(t, err)
        assert.Equal(t, variant.Type(), deserialized.Type())
        assert.Equal(t, variant.ID(), deserialized.ID())
        assert.Equal(t, variant.AggregateID(), deserialized.AggregateID())
    }
}

func TestUserEventsDeserializerRejectsUnknownType(t *testing.T) {
    raw := []byte(`{"id":"` + uuid.NewString() + `","type":"UserBanned","aggregateId":"x","createdAt":"2025-03-14T09:26:53Z","data":{}}`)

    _, err := NewUserEventsDeserializer(testLogger()).Deserialize(raw)
    require.Error(t, err)
    assert.Contains(t, err.Error(), "unknown user event type")
}

func TestUserEventsDeserializerRejectsMalformedPayload(t *testing.T) {
    _, err := NewUserEventsDeserializer(testLogger()).Deserialize([]byte(`not even json`))
    require.Error(t, err)
}

func testLogger() *slog.Logger {
    return slog.New(slog.NewTextHandler(io.Discard, nil))
}
