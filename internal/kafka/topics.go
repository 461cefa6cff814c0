package kafka

import (
    "context"
    "errors"
    "fmt"
    "net"
    "strconv"

    "github.com/segmentio/kafka-go"
)

const (
    topicNumPartitions     = 3
    topicReplicationFactor = 1
)

// EnsureTopics provisions every topic on the broker, create-if-absent.
// A topic that already exists is success; any other failure is returned
// so the caller can refuse to start.
func EnsureTopics(ctx context.Context, brokerAddr string, topics []string) error {
    conn, err := kafka.DialContext(ctx, "tcp", brokerAddr)
    if err != nil {
        return fmt.Errorf("dialing broker %s: %w", brokerAddr, err)
    }
    defer conn.Close()

    controller, err := conn.Controller()
    if err != nil {
        return fmt.Errorf("resolving controller: %w", err)
    }
    controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
    controllerConn, err := kafka.DialContext(ctx, "tcp", controllerAddr)
    if err != nil {
        return fmt.Errorf("dialing controller %s: %w", controllerAddr, err)
    }
    defer controllerConn.Close()

    for _, topic := range topics {
        err := controllerConn.CreateTopics(kafka.TopicConfig{
            Topic:             topic,
            NumPartitions:     topicNumPartitions,
            ReplicationFactor: topicReplicationFactor,
        })
        if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
            return fmt.Errorf("creating topic %s: %w", topic, err)
        }
    }
    return nil
}
