package logattr

import "log/slog"

func ServiceName(serviceName string) slog.Attr {
    return slog.String("service_name", serviceName)
}

func Component(component string) slog.Attr {
    return slog.String("component", component)
}

func EventType(eventType string) slog.Attr {
    return slog.String("event_type", eventType)
}

func EventId(eventId string) slog.Attr {
    return slog.String("event_id", eventId)
}

func Topic(topic string) slog.Attr {
    return slog.String("topic", topic)
}

func Partition(partition int) slog.Attr {
    return slog.Int("partition", partition)
}

func Offset(offset int64) slog.Attr {
    return slog.Int64("offset", offset)
}

func UserId(userId string) slog.Attr {
    return slog.String("user_id", userId)
}

func GameSlug(slug string) slog.Attr {
    return slog.String("game_slug", slug)
}

func Rating(rating int) slog.Attr {
    return slog.Int("rating", rating)
}

func Error(err string) slog.Attr {
    return slog.String("error", err)
}
