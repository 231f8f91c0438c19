package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bnema/socdeck/internal/logging"
)

// Handler handles a decoded message payload from a pane or the control
// surface. The returned value, when non-nil, is sent back as a response
// envelope of the same type by transports that support it.
type Handler interface {
	Handle(ctx context.Context, viewIndex int, payload json.RawMessage) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, viewIndex int, payload json.RawMessage) (any, error)

// Handle calls f(ctx, viewIndex, payload).
func (f HandlerFunc) Handle(ctx context.Context, viewIndex int, payload json.RawMessage) (any, error) {
	return f(ctx, viewIndex, payload)
}

// Router dispatches inbound messages to registered handlers by type.
// Unknown types and handler errors are logged and swallowed: a malformed
// message from a pane never disturbs the host.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// RegisterHandler registers a handler for a message type.
func (r *Router) RegisterHandler(msgType string, handler Handler) error {
	if msgType == "" {
		return errors.New("message type cannot be empty")
	}
	if handler == nil {
		return errors.New("message handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[msgType] = handler
	return nil
}

// DispatchRaw decodes a JSON envelope and routes it.
func (r *Router) DispatchRaw(ctx context.Context, raw []byte) (any, bool) {
	log := logging.FromContext(ctx)

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Warn().Err(err).Msg("failed to unmarshal message envelope")
		return nil, false
	}
	return r.Dispatch(ctx, msg)
}

// Dispatch routes a decoded envelope to its handler. The second return
// value reports whether a handler ran and produced a response.
func (r *Router) Dispatch(ctx context.Context, msg Message) (any, bool) {
	log := logging.FromContext(ctx)

	if msg.Type == "" {
		log.Warn().Msg("message missing type")
		return nil, false
	}

	r.mu.RLock()
	handler, ok := r.handlers[msg.Type]
	r.mu.RUnlock()

	if !ok {
		log.Warn().Str("type", msg.Type).Msg("no handler registered for message type")
		return nil, false
	}

	resp, err := handler.Handle(ctx, msg.ViewIndex, msg.Payload)
	if err != nil {
		log.Error().Err(err).Str("type", msg.Type).Msg("message handler returned error")
		return nil, false
	}
	return resp, resp != nil
}
