package main

import (
    "context"
    "os/signal"
    "syscall"
    "time"

    "gamevault/internal/app/game"

    "github.com/caarlos0/env/v11"
)

const shutdownTimeout = 10 * time.Second

type config struct {
    KafkaBroker  string `env:"KAFKA_BROKER,required"`
    MongoDBURL   string `env:"MONGODB_URL,required"`
    DatabasePath string `env:"DATABASE_PATH" envDefault:"game-service.db"`
}

func main() {
    ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer ctxCancel()

    var cfg config
    if err := env.Parse(&cfg); err != nil {
        panic(err)
    }

    app, err := game.NewApp(
        game.WithKafkaBroker(cfg.KafkaBroker),
        game.WithMongoURL(cfg.MongoDBURL),
        game.WithDatabasePath(cfg.DatabasePath),
    )
    if err != nil {
        panic(err)
    }

    err = app.Run(ctx)
    if err != nil {
        panic(err)
    }

    <-ctx.Done()

    shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
    defer shutdownCtxCancel()

    app.Stop(shutdownCtx)
}
