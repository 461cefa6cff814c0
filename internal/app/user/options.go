package user

import "log/slog"

type Option func(a *App)

func WithKafkaBroker(broker string) Option {
    return func(a *App) { a.kafkaBroker = broker }
}

func WithDatabasePath(path string) Option {
    return func(a *App) { a.databasePath = path }
}

func WithLogHandler(handler slog.Handler) Option {
    return func(a *App) { a.logHandler = handler }
}
