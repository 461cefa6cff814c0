package game

import (
    "context"
    "database/sql"
    "fmt"
    "log/slog"

    "gamevault/internal/adapters/mongodb"
    "gamevault/internal/adapters/sqlite"
    "gamevault/internal/app"
    "gamevault/internal/domain/games"
    "gamevault/internal/events"
    "gamevault/internal/kafka"
    "gamevault/internal/messages"
    "gamevault/pkg/logattr"

    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
    ConsumerGroup = "game_group"

    searchIndexDatabase   = "gamevault"
    searchIndexCollection = "games"
)

// App wires the game service: it owns ratings, projects games and
// users, and keeps the search index in step with both flows.
type App struct {
    kafkaBroker  string
    databasePath string
    mongodbURL   string
    logHandler   slog.Handler
    logger       *slog.Logger
    db           *sql.DB
    mongoClient  *mongo.Client
    service      *games.Service
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
        With(logattr.ServiceName("game-service"))

    err := kafka.EnsureTopics(ctx, a.kafkaBroker, []string{events.UserEventsTopic, events.GameEventsTopic})
    if err != nil {
        return fmt.Errorf("provisioning topics: %w", err)
    }

    a.db, err = sqlite.Open(a.databasePath)
    if err != nil {
        return fmt.Errorf("opening database: %w", err)
    }
    gamesRepository, err := sqlite.NewGamesRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing games repository: %w", err)
    }
    usersRepository, err := sqlite.NewProjectedUsersRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing users repository: %w", err)
    }
    ratingsRepository, err := sqlite.NewRatingsRepository(a.db)
    if err != nil {
        return fmt.Errorf("initializing ratings repository: %w", err)
    }

    serverAPI := options.ServerAPI(options.ServerAPIVersion1)
    mongoOpts := options.Client().ApplyURI(a.mongodbURL).SetServerAPIOptions(serverAPI)
    a.mongoClient, err = mongo.Connect(mongoOpts)
    if err != nil {
        return fmt.Errorf("connecting to mongodb: %w", err)
    }
    index := mongodb.NewSearchIndex(a.mongoClient, searchIndexDatabase, searchIndexCollection)

    publisher := kafka.NewPublisher(a.kafkaBroker, a.logger.With(logattr.Component("kafka.Publisher")))
    publisher.Start(ctx)

    a.service = games.NewService(publisher, index, a.logger.With(logattr.Component("games.Service")))

    eventsHandler := games.NewEventsHandler(
        gamesRepository,
        usersRepository,
        ratingsRepository,
        index,
        a.logger.With(logattr.Component("games.EventsHandler")),
    )

    gameEventsProcessor := messages.NewProcessor[events.GameEventsHandler](
        kafka.NewConsumer(a.kafkaBroker, ConsumerGroup, []string{events.GameEventsTopic},
            a.logger.With(logattr.Component("kafka.Consumer"))),
        events.NewGameEventsDeserializer(a.logger),
        eventsHandler,
        app.ProcessingErrorCallback(a.logger.With(logattr.Component("game.MessageProcessor"))),
    )
    err = gameEventsProcessor.Start(ctx)
    if err != nil {
        return fmt.Errorf("starting game events processor: %w", err)
    }

    userEventsProcessor := messages.NewProcessor[events.UserEventsHandler](
        kafka.NewConsumer(a.kafkaBroker, ConsumerGroup, []string{events.UserEventsTopic},
            a.logger.With(logattr.Component("kafka.Consumer"))),
        events.NewUserEventsDeserializer(a.logger),
        eventsHandler,
        app.ProcessingErrorCallback(a.logger.With(logattr.Component("game.MessageProcessor"))),
    )
    err = userEventsProcessor.Start(ctx)
    if err != nil {
        return fmt.Errorf("starting user events processor: %w", err)
    }

    a.logger.Info("game-service started")
    return nil
}

func (a *App) Service() *games.Service {
    return a.service
}

func (a *App) Stop(ctx context.Context) {
    if a.mongoClient != nil {
        if err := a.mongoClient.Disconnect(ctx); err != nil {
            a.logger.Error("error disconnecting from mongo", logattr.Error(err.Error()))
        }
    }
    if a.db != nil {
        if err := a.db.Close(); err != nil {
            a.logger.Error("error closing database", logattr.Error(err.Error()))
        }
    }
    a.logger.Info("game-service stopped")
}

func setDefaultOpts(a *App) error {
    logHandler, err := app.DefaultLogHandler()
    if err != nil {
        return err
    }
    a.logHandler = logHandler
    a.databasePath = "game-service.db"
    return nil
}
