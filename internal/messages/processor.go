package messages

import (
    "context"
    "errors"
    "fmt"
    "time"

    "gamevault/internal/events"

    "github.com/walletera/werrors"
    "golang.org/x/sync/semaphore"
)

// Processor is the per-topic dispatch loop: it streams messages from a
// Consumer, deserializes each payload into a typed event and routes it
// to the handler via the event's Accept method. Handler failures never
// stop the loop; the message is considered processed either way.
type Processor[Handler any] struct {
    messageConsumer    Consumer
    eventsDeserializer events.Deserializer[Handler]
    eventsHandler      Handler
    handlerSlots       *semaphore.Weighted
    opts               ProcessorOpts
}

func NewProcessor[Handler any](
    messageConsumer Consumer,
    eventsDeserializer events.Deserializer[Handler],
    eventsHandler Handler,
    customOpts ...ProcessorOpt,
) *Processor[Handler] {

    opts := defaultProcessorOpts
    applyCustomOpts(&opts, customOpts)

    return &Processor[Handler]{
        messageConsumer:    messageConsumer,
        eventsDeserializer: eventsDeserializer,
        eventsHandler:      eventsHandler,
        handlerSlots:       semaphore.NewWeighted(opts.maxConcurrentHandlers),
        opts:               opts,
    }
}

func (p *Processor[Handler]) Start(ctx context.Context) error {
    msgCh, err := p.startMessageConsumer(ctx)
    if err != nil {
        return err
    }
    go p.processMsgs(ctx, msgCh)
    return nil
}

func (p *Processor[Handler]) startMessageConsumer(ctx context.Context) (<-chan Message, error) {
    msgCh, err := p.messageConsumer.Consume()
    if err != nil {
        return nil, fmt.Errorf("failed consuming from message consumer: %w", err)
    }
    go func() {
        <-ctx.Done()
        err := p.messageConsumer.Close()
        if err != nil {
            p.opts.errorCallback(Message{}, werrors.NewRetryableInternalError("failed closing message consumer: "+err.Error()))
        }
    }()
    return msgCh, nil
}

func (p *Processor[Handler]) processMsgs(ctx context.Context, ch <-chan Message) {
    for msg := range ch {
        if err := p.handlerSlots.Acquire(ctx, 1); err != nil {
            return
        }
        go func(msg Message) {
            defer p.handlerSlots.Release(1)
            p.processMsgWithTimeout(ctx, msg)
        }(msg)
    }
}

func (p *Processor[Handler]) processMsgWithTimeout(ctx context.Context, msg Message) {
    ctxWithTimeout, cancelCtx := context.WithTimeout(ctx, p.opts.processingTimeout)
    defer cancelCtx()
    processMsgDone := make(chan any)
    go func() {
        p.processMsg(ctxWithTimeout, msg)
        close(processMsgDone)
    }()
    select {
    case <-ctxWithTimeout.Done():
    case <-processMsgDone:
    }
    err := ctxWithTimeout.Err()
    if err != nil {
        if errors.Is(err, context.DeadlineExceeded) {
            p.handleError(msg, werrors.NewTimeoutError(err.Error()))
        }
    }
}

func (p *Processor[Handler]) processMsg(ctx context.Context, message Message) {
    event, err := p.eventsDeserializer.Deserialize(message.Payload())
    if err != nil {
        // malformed payloads are dropped, no retry, no dead-letter
        p.handleError(message, werrors.NewUnprocessableMessageError(err.Error()))
        return
    }
    if event == nil {
        return
    }
    processingErr := p.applyWithRetry(ctx, event)
    if processingErr != nil {
        p.handleError(message, processingErr)
    } else {
        message.Acknowledger().Ack()
    }
}

func (p *Processor[Handler]) applyWithRetry(ctx context.Context, event events.Event[Handler]) werrors.WError {
    backoff := p.opts.retryBackoff
    var processingErr werrors.WError
    for attempt := 0; ; attempt++ {
        processingErr = event.Accept(ctx, p.eventsHandler)
        if processingErr == nil || !processingErr.IsRetryable() || attempt >= p.opts.maxRetries {
            return processingErr
        }
        select {
        case <-ctx.Done():
            return processingErr
        case <-time.After(backoff):
        }
        backoff *= 2
    }
}

func (p *Processor[Handler]) handleError(message Message, err werrors.WError) {
    if p.opts.errorCallback != nil {
        p.opts.errorCallback(message, err)
    }
    if message.Acknowledger() == nil {
        return
    }
    message.Acknowledger().Nack(NackOpts{
        Requeue:      false,
        ErrorCode:    err.Code(),
        ErrorMessage: err.Message(),
    })
}
