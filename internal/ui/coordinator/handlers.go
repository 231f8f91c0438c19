package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bnema/socdeck/internal/app/messaging"
)

// registerHandlers wires the pane->host and control-surface message types
// into the router. Handler errors are swallowed by the router, so every
// handler treats bad input as a logged no-op.
func (c *Coordinator) registerHandlers() {
	handlers := map[string]messaging.HandlerFunc{
		messaging.TypeScrollUpdate:     c.handleScrollUpdate,
		messaging.TypeFocusView:        c.handleFocusView,
		messaging.TypeGetPlatforms:     c.handleGetPlatforms,
		messaging.TypeReorderPlatforms: c.handleReorder,
		messaging.TypeToggleVisibility: c.handleToggleVisibility,
		messaging.TypeUpdateLayout:     c.handleUpdateLayout,
		messaging.TypeResetLayout:      c.handleResetLayout,
	}
	for msgType, handler := range handlers {
		// Registration only fails on empty type or nil handler.
		_ = c.router.RegisterHandler(msgType, handler)
	}
}

func (c *Coordinator) handleScrollUpdate(_ context.Context, viewIndex int, payload json.RawMessage) (any, error) {
	var p messaging.ScrollUpdatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode scroll update: %w", err)
	}
	c.scroll.HandleScrollUpdate(viewIndex, p.Y)
	return nil, nil
}

func (c *Coordinator) handleFocusView(ctx context.Context, viewIndex int, payload json.RawMessage) (any, error) {
	// The payload duplicates the envelope's view index. Trust it only when
	// it names a real pane; bridges report -1 before their index arrives.
	if len(payload) > 0 {
		var p messaging.FocusViewPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode focus view: %w", err)
		}
		if p.ViewIndex >= 0 {
			viewIndex = p.ViewIndex
		}
	}
	c.dimmer.FocusPane(ctx, viewIndex)
	return nil, nil
}

func (c *Coordinator) handleGetPlatforms(context.Context, int, json.RawMessage) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.platformsPayload(), nil
}

func (c *Coordinator) handleReorder(ctx context.Context, _ int, payload json.RawMessage) (any, error) {
	var p messaging.ReorderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode reorder: %w", err)
	}
	c.Reorder(ctx, p.Order)
	return nil, nil
}

func (c *Coordinator) handleToggleVisibility(ctx context.Context, _ int, payload json.RawMessage) (any, error) {
	var p messaging.ToggleVisibilityPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode toggle visibility: %w", err)
	}
	c.ToggleVisibility(ctx, p.Index)
	return nil, nil
}

func (c *Coordinator) handleUpdateLayout(ctx context.Context, _ int, payload json.RawMessage) (any, error) {
	var p messaging.UpdateLayoutPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode update layout: %w", err)
	}
	c.UpdateSplits(ctx, p.Splits)
	return nil, nil
}

func (c *Coordinator) handleResetLayout(ctx context.Context, _ int, _ json.RawMessage) (any, error) {
	c.ResetLayout(ctx)
	return nil, nil
}
