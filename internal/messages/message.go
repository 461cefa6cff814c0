package messages

import (
    "github.com/walletera/werrors"
)

type NackOpts struct {
    Requeue      bool
    ErrorCode    werrors.ErrorCode
    ErrorMessage string
}

type Acknowledger interface {
    Ack() error
    Nack(opts NackOpts) error
}

// Message is one inbound broker record plus the coordinates needed to
// log it when it cannot be processed.
type Message struct {
    payload      []byte
    topic        string
    partition    int
    offset       int64
    acknowledger Acknowledger
}

func NewMessage(payload []byte, topic string, partition int, offset int64, acknowledger Acknowledger) Message {
    return Message{
        payload:      payload,
        topic:        topic,
        partition:    partition,
        offset:       offset,
        acknowledger: acknowledger,
    }
}

func (m Message) Payload() []byte {
    return m.payload
}

func (m Message) Topic() string {
    return m.topic
}

func (m Message) Partition() int {
    return m.partition
}

func (m Message) Offset() int64 {
    return m.offset
}

func (m Message) Acknowledger() Acknowledger {
    return m.acknowledger
}

type Consumer interface {
    Consume() (<-chan Message, error)
    Close() error
}
