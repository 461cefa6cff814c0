package kafka

import (
    "context"
    "errors"
    "io"
    "log/slog"
    "time"

    "gamevault/internal/messages"
    "gamevault/pkg/logattr"

    "github.com/segmentio/kafka-go"
)

const offsetCommitInterval = 1 * time.Second

// Consumer streams a consumer group's share of the subscribed topics.
// Offsets are committed on a fixed interval regardless of handler
// outcome, so delivery is at-least-once and a failed handler does not
// cause redelivery.
type Consumer struct {
    reader *kafka.Reader
    logger *slog.Logger
}

func NewConsumer(brokerAddr string, groupId string, topics []string, logger *slog.Logger) *Consumer {
    reader := kafka.NewReader(kafka.ReaderConfig{
        Brokers:        []string{brokerAddr},
        GroupID:        groupId,
        GroupTopics:    topics,
        StartOffset:    kafka.FirstOffset,
        CommitInterval: offsetCommitInterval,
        MinBytes:       1,
        MaxBytes:       10e6,
    })
    return &Consumer{
        reader: reader,
        logger: logger,
    }
}

func (c *Consumer) Consume() (<-chan messages.Message, error) {
    msgCh := make(chan messages.Message)
    go func() {
        defer close(msgCh)
        for {
            msg, err := c.reader.ReadMessage(context.Background())
            if err != nil {
                if !errors.Is(err, io.EOF) {
                    c.logger.Error("failed reading message from broker", logattr.Error(err.Error()))
                }
                return
            }
            msgCh <- messages.NewMessage(
                msg.Value,
                msg.Topic,
                msg.Partition,
                msg.Offset,
                autoCommitAcknowledger{},
            )
        }
    }()
    return msgCh, nil
}

func (c *Consumer) Close() error {
    return c.reader.Close()
}

// autoCommitAcknowledger satisfies the Acknowledger seam for a reader
// that commits offsets on its own interval. Ack and Nack carry no
// broker-side effect here.
type autoCommitAcknowledger struct{}

func (autoCommitAcknowledger) Ack() error {
    return nil
}

func (autoCommitAcknowledger) Nack(_ messages.NackOpts) error {
    return nil
}
