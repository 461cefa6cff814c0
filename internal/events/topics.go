package events

// One topic per origin-entity family. All variants of a family share
// the family's topic.
const (
    UserEventsTopic  = "user_events"
    AdminEventsTopic = "admin_events"
    GameEventsTopic  = "game_events"
)

func AllTopics() []string {
    return []string{UserEventsTopic, AdminEventsTopic, GameEventsTopic}
}
