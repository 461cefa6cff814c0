package main

import (
    "context"
    "os/signal"
    "syscall"
    "time"

    "gamevault/internal/app/admin"

    "github.com/caarlos0/env/v11"
)

const shutdownTimeout = 10 * time.Second

type config struct {
    KafkaBroker  string `env:"KAFKA_BROKER,required"`
    DatabasePath string `env:"DATABASE_PATH" envDefault:"admin-service.db"`
}

func main() {
    ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer ctxCancel()

    var cfg config
    if err := env.Parse(&cfg); err != nil {
        panic(err)
    }

    app, err := admin.NewApp(
        admin.WithKafkaBroker(cfg.KafkaBroker),
        admin.WithDatabasePath(cfg.DatabasePath),
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
