package kafka

import (
    "context"
    "fmt"
    "log/slog"

    "gamevault/internal/events"
    "gamevault/pkg/logattr"

    "github.com/segmentio/kafka-go"
)

// publishQueueCapacity bounds the in-process publish buffer. When the
// buffer is full the publishing caller blocks until the sender drains a
// slot, so a slow broker cannot grow memory without bound.
const publishQueueCapacity = 1024

type messageWriter interface {
    WriteMessages(ctx context.Context, msgs ...kafka.Message) error
    Close() error
}

// Publisher is the in-process relay between request handlers and the
// broker: Publish serializes the event and enqueues it, a single
// background sender ships it. Callers never wait for broker acks, so a
// successful Publish does not imply durability. Send failures are
// logged, not retried, not surfaced.
type Publisher struct {
    writer messageWriter
    queue  chan kafka.Message
    logger *slog.Logger
}

func NewPublisher(brokerAddr string, logger *slog.Logger) *Publisher {
    writer := &kafka.Writer{
        Addr:         kafka.TCP(brokerAddr),
        Balancer:     &kafka.Hash{},
        RequiredAcks: kafka.RequireOne,
    }
    return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
    return &Publisher{
        writer: writer,
        queue:  make(chan kafka.Message, publishQueueCapacity),
        logger: logger,
    }
}

// Start launches the background sender. It returns once the sender is
// running; the sender stops when ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
    go p.sendLoop(ctx)
}

func (p *Publisher) Publish(ctx context.Context, data events.EventData, info events.RoutingInfo) error {
    payload, err := data.Serialize()
    if err != nil {
        return fmt.Errorf("serializing event %s: %w", data.Type(), err)
    }
    msg := kafka.Message{
        Topic: info.Topic,
        Key:   []byte(data.AggregateID()),
        Value: payload,
    }
    select {
    case p.queue <- msg:
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}

func (p *Publisher) sendLoop(ctx context.Context) {
    for {
        select {
        case <-ctx.Done():
            if err := p.writer.Close(); err != nil {
                p.logger.Error("failed closing kafka writer", logattr.Error(err.Error()))
            }
            return
        case msg := <-p.queue:
            err := p.writer.WriteMessages(ctx, msg)
            if err != nil {
                p.logger.Error(
                    "failed delivering message to broker",
                    logattr.Topic(msg.Topic),
                    logattr.Error(err.Error()),
                )
                continue
            }
            p.logger.Debug("message delivered to broker", logattr.Topic(msg.Topic))
        }
    }
}
