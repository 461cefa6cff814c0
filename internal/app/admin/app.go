package admin

import (
    "context"
    "database/sql"
    "fmt"
    "log/slog"

    "gamevault/internal/adapters/sqlite"
    "gamevault/internal/app"
    "gamevault/internal/domain/admin"
    "gamevault/internal/events"
    "gamevault/internal/kafka"
    "gamevault/internal/messages"
    "gamevault/pkg/logattr"
)

const ConsumerGroup = "admin_group"

// App wires the admin service: it owns the game catalog of record,
// originates game_events and admin_events, and projects the user
// directory from user_events.
type App struct {
    kafkaBroker  string
    databasePath string
    logHandler   slog.Handler
    logger       *slog.Logger
    db           *sql.DB
    service      *admin.Service
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
        With(logattr.ServiceName("admin-service"))

    err := kafka.EnsureTopics(ctx, a.kafkaBroker, events.AllTopics())
    if err != nil {
        return fmt.Errorf("provisioning topics: %w", err)
    }

    a.db, err = sqlite.Open(a.databasePath)
    if err != nil {
        return fmt.Errorf("opening database: %w", err)
    }
    catalog, err := sqlite.NewCatalogRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing catalog repository: %w", err)
    }
    directory, err := sqlite.NewDirectoryRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing directory repository: %w", err)
    }

    publisher := kafka.NewPublisher(a.kafkaBroker, a.logger.With(logattr.Component("kafka.Publisher")))
    publisher.Start(ctx)

    a.service = admin.NewService(catalog, directory, publisher, a.logger.With(logattr.Component("admin.Service")))

    consumer := kafka.NewConsumer(
        a.kafkaBroker,
        ConsumerGroup,
        []string{events.UserEventsTopic},
        a.logger.With(logattr.Component("kafka.Consumer")),
    )
    eventsHandler := admin.NewEventsHandler(directory, a.logger.With(logattr.Component("admin.EventsHandler")))
    processor := messages.NewProcessor[events.UserEventsHandler](
        consumer,
        events.NewUserEventsDeserializer(a.logger),
        eventsHandler,
        app.ProcessingErrorCallback(a.logger.With(logattr.Component("admin.MessageProcessor"))),
    )
    err = processor.Start(ctx)
    if err != nil {
        return fmt.Errorf("starting message processor: %w", err)
    }

    a.logger.Info("admin-service started")
    return nil
}

func (a *App) Service() *admin.Service {
    return a.service
}

func (a *App) Stop(ctx context.Context) {
    if a.db != nil {
        if err := a.db.Close(); err != nil {
            a.logger.Error("error closing database", logattr.Error(err.Error()))
        }
    }
    a.logger.Info("admin-service stopped")
}

func setDefaultOpts(a *App) error {
    logHandler, err := app.DefaultLogHandler()
    if err != nil {
        return err
    }
    a.logHandler = logHandler
    a.databasePath = "admin-service.db"
    return nil
}
