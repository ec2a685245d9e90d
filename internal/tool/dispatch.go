package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// State is a step of a single dispatch.
type State string

const (
	StateReceived   State = "received"
	StateValidating State = "validating"
	StateInvoking   State = "invoking"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Result is the outcome of one dispatch: JSON content on success, a Failure
// otherwise.
type Result struct {
	Content json.RawMessage
	Failure *Failure
}

// IsError reports whether the call failed.
func (r Result) IsError() bool { return r.Failure != nil }

// Text returns the content, or the JSON-encoded failure, as a string suitable
// for a text content block.
func (r Result) Text() string {
	if r.Failure == nil {
		return string(r.Content)
	}
	b, err := json.Marshal(r.Failure)
	if err != nil {
		return r.Failure.Error()
	}
	return string(b)
}

// Dispatcher validates and executes tool calls against a Registry.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher over reg. A nil logger discards output.
func NewDispatcher(reg *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{registry: reg, logger: logger}
}

// Tools lists the registered tool schemas in registration order.
func (d *Dispatcher) Tools() []Schema { return d.registry.List() }

// Has reports whether a tool called name is registered.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.registry.Lookup(name)
	return ok
}

// Dispatch runs one tool call. It never panics and never returns an error:
// every failure is folded into the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw json.RawMessage) Result {
	log := d.logger.With("tool", name)
	log.Debug("tool call", "state", StateReceived)

	fail := func(f *Failure) Result {
		log.Debug("tool call", "state", StateFailed, "kind", f.Kind, "message", f.Message)
		return Result{Failure: f}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fail(&Failure{Kind: KindMissingArguments, Message: "no arguments provided"})
	}

	log.Debug("tool call", "state", StateValidating)
	def, ok := d.registry.Lookup(name)
	if !ok {
		return fail(&Failure{Kind: KindUnknownTool, Message: fmt.Sprintf("unknown tool: %s", name)})
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return fail(&Failure{
			Kind:    KindValidation,
			Message: fmt.Sprintf("invalid arguments for %s: expected a JSON object", name),
		})
	}
	args, f := def.Schema.Validate(fields)
	if f != nil {
		return fail(f)
	}

	log.Debug("tool call", "state", StateInvoking)
	payload, err := invoke(ctx, def.Handler, args)
	if err != nil {
		return fail(asFailure(err))
	}

	content, err := json.Marshal(payload)
	if err != nil {
		return fail(&Failure{Kind: KindHandler, Message: fmt.Sprintf("encode result: %v", err)})
	}

	log.Debug("tool call", "state", StateSucceeded, "bytes", len(content))
	return Result{Content: content}
}

// invoke calls h, converting a panic into an error.
func invoke(ctx context.Context, h Handler, args Args) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool handler panicked: %v", r)
		}
	}()

	return h(ctx, args)
}
