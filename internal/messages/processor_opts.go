package messages

import (
    "time"

    "github.com/walletera/werrors"
)

type ErrorCallback func(msg Message, processingError werrors.WError)

type ProcessorOpts struct {
    errorCallback         ErrorCallback
    processingTimeout     time.Duration
    maxConcurrentHandlers int64
    maxRetries            int
    retryBackoff          time.Duration
}

var defaultProcessorOpts = ProcessorOpts{
    errorCallback:         func(msg Message, err werrors.WError) {},
    processingTimeout:     10 * time.Minute,
    maxConcurrentHandlers: 10,
    maxRetries:            3,
    retryBackoff:          100 * time.Millisecond,
}

type ProcessorOpt func(opts *ProcessorOpts)

func WithErrorCallback(errorCallback ErrorCallback) ProcessorOpt {
    return func(opts *ProcessorOpts) {
        opts.errorCallback = errorCallback
    }
}

func WithProcessingTimeout(processingTimeout time.Duration) ProcessorOpt {
    return func(opts *ProcessorOpts) {
        opts.processingTimeout = processingTimeout
    }
}

// WithMaxConcurrentHandlers bounds the number of in-flight handlers. A
// slow handler only delays the n-th concurrent slot, not the stream.
func WithMaxConcurrentHandlers(n int64) ProcessorOpt {
    return func(opts *ProcessorOpts) {
        opts.maxConcurrentHandlers = n
    }
}

// WithRetryPolicy bounds how many times a retryable handler error is
// retried before the message is dropped, and the initial backoff delay
// (doubled on each attempt).
func WithRetryPolicy(maxRetries int, backoff time.Duration) ProcessorOpt {
    return func(opts *ProcessorOpts) {
        opts.maxRetries = maxRetries
        opts.retryBackoff = backoff
    }
}

func applyCustomOpts(opts *ProcessorOpts, customOpts []ProcessorOpt) {
    for _, customOpt := range customOpts {
        customOpt(opts)
    }
}
