package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blockgraph/internal/logging"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

const defaultHandlerTimeout = 30 * time.Second

// Status is the outcome category reported to an Observer.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusFailed       Status = "failed"
	StatusContextError Status = "context_error"
)

// Outcome describes one finished execution.
type Outcome struct {
	Command   string
	Operation string
	Duration  time.Duration
	Status    Status
	Err       error
}

// Observer is called after every execution that passed validation.
type Observer func(ctx context.Context, outcome Outcome)

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler adapts a CommandFunc to command.Commander and adds validation,
// a timeout, structured logging and error categorisation.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	observers []Observer
	now       func() time.Time
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute satisfies command.Commander.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for k, v := range h.fields(msg) {
			fields[k] = v
		}
	}
	ctx = logging.ContextWithFields(ctx, map[string]any{"command": fields["command"]})
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := h.now()
	err := h.exec(ctx, msg)
	status := StatusSuccess
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = StatusContextError
		err = wrapContextError(err)
	case err != nil:
		status = StatusFailed
		err = wrapExecuteError(err)
	case ctx.Err() != nil:
		status = StatusContextError
		err = wrapContextError(ctx.Err())
	}
	elapsed := h.now().Sub(started)

	if err != nil {
		logger.Error("command.execute."+string(status), "duration_ms", elapsed.Milliseconds(), "error", err)
	} else {
		logger.Info("command.execute.success", "duration_ms", elapsed.Milliseconds())
	}
	outcome := Outcome{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Duration:  elapsed,
		Status:    status,
		Err:       err,
	}
	for _, observe := range h.observers {
		observe(ctx, outcome)
	}
	return err
}

// WithTimeout overrides the default timeout. Zero or less disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from the message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithObserver registers a callback invoked after execution.
func WithObserver[T command.Message](observer Observer) HandlerOption[T] {
	return func(h *Handler[T]) {
		if observer != nil {
			h.observers = append(h.observers, observer)
		}
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
