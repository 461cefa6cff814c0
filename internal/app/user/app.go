package user

import (
    "context"
    "database/sql"
    "fmt"
    "log/slog"

    "gamevault/internal/adapters/sqlite"
    "gamevault/internal/app"
    "gamevault/internal/domain/users"
    "gamevault/internal/events"
    "gamevault/internal/kafka"
    "gamevault/internal/messages"
    "gamevault/pkg/logattr"
)

const ConsumerGroup = "user_group"

// App wires the user service: it owns the users table, originates the
// user-family events and applies admin-initiated deletions.
type App struct {
    kafkaBroker  string
    databasePath string
    logHandler   slog.Handler
    logger       *slog.Logger
    db           *sql.DB
    service      *users.Service
}

func NewApp(opts ...Option) (*App, error) {
    a := &App{}
    err := setDefaultOpts(a)
    if err != nil {
        return nil, fmt.Errorf("failed setting default options: %w", err)
    }
    for _, opt := range opts {
        opt(a)
    }
    return a, nil
}

func (a *App) Run(ctx context.Context) error {
    a.logger = slog.
        New(a.logHandler).
        With(logattr.ServiceName("user-service"))

    err := kafka.EnsureTopics(ctx, a.kafkaBroker, []string{events.UserEventsTopic, events.AdminEventsTopic})
    if err != nil {
        return fmt.Errorf("provisioning topics: %w", err)
    }

    a.db, err = sqlite.Open(a.databasePath)
    if err != nil {
        return fmt.Errorf("opening database: %w", err)
    }
    repository, err := sqlite.NewUsersRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing users repository: %w", err)
    }

    publisher := kafka.NewPublisher(a.kafkaBroker, a.logger.With(logattr.Component("kafka.Publisher")))
    publisher.Start(ctx)

    a.service = users.NewService(repository, publisher, a.logger.With(logattr.Component("users.Service")))

    consumer := kafka.NewConsumer(
        a.kafkaBroker,
        ConsumerGroup,
        []string{events.AdminEventsTopic},
        a.logger.With(logattr.Component("kafka.Consumer")),
    )
    eventsHandler := users.NewEventsHandler(repository, a.logger.With(logattr.Component("users.EventsHandler")))
    processor := messages.NewProcessor[events.AdminEventsHandler](
        consumer,
        events.NewAdminEventsDeserializer(a.logger),
        eventsHandler,
        app.ProcessingErrorCallback(a.logger.With(logattr.Component("user.MessageProcessor"))),
    )
    err = processor.Start(ctx)
    if err != nil {
        return fmt.Errorf("starting message processor: %w", err)
    }

    a.logger.Info("user-service started")
    return nil
}

func (a *App) Service() *users.Service {
    return a.service
}

func (a *App) Stop(ctx context.Context) {
    if a.db != nil {
        if err := a.db.Close(); err != nil {
            a.logger.Error("error closing database", logattr.Error(err.Error()))
        }
    }
    a.logger.Info("user-service stopped")
}

func setDefaultOpts(a *App) error {
    logHandler, err := app.DefaultLogHandler()
    if err != nil {
        return err
    }
    a.logHandler = logHandler
    a.databasePath = "user-service.db"
    return nil
}
