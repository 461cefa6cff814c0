package tests

import (
    "context"
    "database/sql"
    "fmt"
    "log/slog"
    "os"
    "sort"
    "sync"
    "sync/atomic"
    "time"

    "gamevault/internal/adapters/sqlite"
    "gamevault/internal/domain/games"
    "gamevault/internal/events"
    "gamevault/internal/messages"
    "gamevault/pkg/logattr"

    "github.com/cucumber/godog"
    slogwatcher "github.com/walletera/logs-watcher/slog"
    "github.com/walletera/werrors"
    "go.uber.org/zap"
    "go.uber.org/zap/exp/zapslog"
    "go.uber.org/zap/zapcore"
)

const (
    coreKey                   = "core"
    logsWatcherKey            = "logsWatcher"
    ratingEventKey            = "ratingEvent"
    logsWatcherWaitForTimeout = 5 * time.Second
)

func beforeScenarioHook(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
    handler, err := newZapHandler()
    if err != nil {
        return ctx, err
    }
    logsWatcher := slogwatcher.NewWatcher(handler)
    return context.WithValue(ctx, logsWatcherKey, logsWatcher), nil
}

func afterScenarioHook(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
    coreFromCtx(ctx).stop()

    watcherErr := logsWatcherFromCtx(ctx).Stop()
    if watcherErr != nil {
        return ctx, fmt.Errorf("failed stopping the logsWatcher: %w", watcherErr)
    }

    return ctx, err
}

// gameServiceCore is the game service wired the way the app wires it,
// with the broker and the search index swapped for in-process fakes.
type gameServiceCore struct {
    gameEventsConsumer *fakeConsumer
    userEventsConsumer *fakeConsumer
    index              *fakeIndex
    db                 *sql.DB
    databaseDir        string
    cancel             context.CancelFunc
    offset             atomic.Int64
}

func (c *gameServiceCore) stop() {
    c.cancel()
    _ = c.db.Close()
    _ = os.RemoveAll(c.databaseDir)
}

func aRunningGameService(ctx context.Context) (context.Context, error) {
    logHandler := logsWatcherFromCtx(ctx).DecoratedHandler()
    logger := slog.New(logHandler).With(logattr.ServiceName("game-service"))

    databaseDir, err := os.MkdirTemp("", "gamevault-test-*")
    if err != nil {
        return ctx, fmt.Errorf("failed creating temp dir: %w", err)
    }

    db, err := sqlite.Open(databaseDir + "/game-service.db")
    if err != nil {
        return ctx, fmt.Errorf("failed opening database: %w", err)
    }
    gamesRepository, err := sqlite.NewGamesRepository(db)
    if err != nil {
        return ctx, err
    }
    usersRepository, err := sqlite.NewProjectedUsersRepository(db)
    if err != nil {
        return ctx, err
    }
    ratingsRepository, err := sqlite.NewRatingsRepository(db)
    if err != nil {
        return ctx, err
    }

    index := newFakeIndex()
    eventsHandler := games.NewEventsHandler(
        gamesRepository,
        usersRepository,
        ratingsRepository,
        index,
        logger.With(logattr.Component("games.EventsHandler")),
    )

    core := &gameServiceCore{
        gameEventsConsumer: newFakeConsumer(),
        userEventsConsumer: newFakeConsumer(),
        index:              index,
        db:                 db,
        databaseDir:        databaseDir,
    }

    appCtx, cancel := context.WithCancel(context.Background())
    core.cancel = cancel

    gameEventsProcessor := messages.NewProcessor[events.GameEventsHandler](
        core.gameEventsConsumer,
        events.NewGameEventsDeserializer(logger),
        eventsHandler,
    )
    if err := gameEventsProcessor.Start(appCtx); err != nil {
        return ctx, fmt.Errorf("failed starting game events processor: %w", err)
    }

    userEventsProcessor := messages.NewProcessor[events.UserEventsHandler](
        core.userEventsConsumer,
        events.NewUserEventsDeserializer(logger),
        eventsHandler,
    )
    if err := userEventsProcessor.Start(appCtx); err != nil {
        return ctx, fmt.Errorf("failed starting user events processor: %w", err)
    }

    return context.WithValue(ctx, coreKey, core), nil
}

func theGameServiceProducesTheFollowingLog(ctx context.Context, logEntry *godog.DocString) (context.Context, error) {
    if logEntry == nil || len(logEntry.Content) == 0 {
        return ctx, fmt.Errorf("the expected log entry is empty or was not defined")
    }
    found := logsWatcherFromCtx(ctx).WaitFor(logEntry.Content, logsWatcherWaitForTimeout)
    if !found {
        return ctx, fmt.Errorf("didn't find expected log entry: %s", logEntry.Content)
    }
    return ctx, nil
}

func logsWatcherFromCtx(ctx context.Context) *slogwatcher.Watcher {
    value := ctx.Value(logsWatcherKey)
    if value == nil {
        panic("logs watcher not found in context")
    }
    watcher, ok := value.(*slogwatcher.Watcher)
    if !ok {
        panic("logs watcher has invalid type")
    }
    return watcher
}

func coreFromCtx(ctx context.Context) *gameServiceCore {
    value := ctx.Value(coreKey)
    if value == nil {
        panic("game service core not found in context")
    }
    core, ok := value.(*gameServiceCore)
    if !ok {
        panic("game service core has invalid type")
    }
    return core
}

func newZapHandler() (slog.Handler, error) {
    encoderConfig := zap.NewProductionEncoderConfig()
    encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
    zapConfig := zap.Config{
        Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
        Development:       false,
        DisableStacktrace: true,
        Sampling: &zap.SamplingConfig{
            Initial:    100,
            Thereafter: 100,
        },
        Encoding:         "json",
        EncoderConfig:    encoderConfig,
        OutputPaths:      []string{"stderr"},
        ErrorOutputPaths: []string{"stderr"},
    }
    zapLogger, err := zapConfig.Build()
    if err != nil {
        return nil, err
    }
    if zapLogger.Core() == nil {
        return nil, fmt.Errorf("zapLogger.Core() is nil")
    }
    return zapslog.NewHandler(zapLogger.Core()), nil
}

type fakeConsumer struct {
    ch        chan messages.Message
    closeOnce sync.Once
}

func newFakeConsumer() *fakeConsumer {
    return &fakeConsumer{ch: make(chan messages.Message, 16)}
}

func (c *fakeConsumer) Consume() (<-chan messages.Message, error) {
    return c.ch, nil
}

func (c *fakeConsumer) Close() error {
    c.closeOnce.Do(func() { close(c.ch) })
    return nil
}

func (c *fakeConsumer) deliver(msg messages.Message) {
    c.ch <- msg
}

type noopAcknowledger struct{}

func (a noopAcknowledger) Ack() error { return nil }

func (a noopAcknowledger) Nack(opts messages.NackOpts) error { return nil }

type fakeIndex struct {
    mu        sync.Mutex
    documents map[string]games.SearchDocument
}

func newFakeIndex() *fakeIndex {
    return &fakeIndex{documents: make(map[string]games.SearchDocument)}
}

func (f *fakeIndex) Index(ctx context.Context, document games.SearchDocument) werrors.WError {
    f.mu.Lock()
    defer f.mu.Unlock()
    if _, exists := f.documents[document.Slug]; exists {
        return nil
    }
    f.documents[document.Slug] = document
    return nil
}

func (f *fakeIndex) Update(ctx context.Context, slug string, update games.DocumentUpdate) (bool, werrors.WError) {
    f.mu.Lock()
    defer f.mu.Unlock()
    document, exists := f.documents[slug]
    if !exists {
        return false, nil
    }
    if update.Name != nil {
        document.Name = *update.Name
    }
    if update.Title != nil {
        document.Title = *update.Title
    }
    if update.Description != nil {
        document.Description = *update.Description
    }
    if update.Genre != nil {
        document.Genre = *update.Genre
    }
    if update.AverageRating != nil {
        document.AverageRating = update.AverageRating
    }
    if update.RatingCount != nil {
        document.RatingCount = *update.RatingCount
    }
    f.documents[slug] = document
    return true, nil
}

func (f *fakeIndex) Delete(ctx context.Context, slug string) werrors.WError {
    f.mu.Lock()
    defer f.mu.Unlock()
    delete(f.documents, slug)
    return nil
}

func (f *fakeIndex) Get(ctx context.Context, slug string) (games.SearchDocument, bool, werrors.WError) {
    f.mu.Lock()
    defer f.mu.Unlock()
    document, exists := f.documents[slug]
    return document, exists, nil
}

func (f *fakeIndex) Search(ctx context.Context, from int, size int) ([]games.SearchDocument, werrors.WError) {
    f.mu.Lock()
    defer f.mu.Unlock()
    documents := make([]games.SearchDocument, 0, len(f.documents))
    for _, document := range f.documents {
        documents = append(documents, document)
    }
    sort.Slice(documents, func(i, j int) bool {
        var left, right float64
        if documents[i].AverageRating != nil {
            left = *documents[i].AverageRating
        }
        if documents[j].AverageRating != nil {
            right = *documents[j].AverageRating
        }
        if left != right {
            return left > right
        }
        return documents[i].Slug < documents[j].Slug
    })
    if from >= len(documents) {
        return nil, nil
    }
    documents = documents[from:]
    if size < len(documents) {
        documents = documents[:size]
    }
    return documents, nil
}

var _ games.GameIndex = (*fakeIndex)(nil)
