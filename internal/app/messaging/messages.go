// Package messaging defines the envelopes exchanged between the host and
// the embedded panes, and the router that dispatches inbound messages.
// Messages are one-way and fire-and-forget; there are no acknowledgments.
package messaging

import "encoding/json"

// Host -> pane message types.
const (
	TypeSetViewIndex         = "SET_VIEW_INDEX"
	TypeSetViewOpacity       = "SET_VIEW_OPACITY"
	TypeScrollCommand        = "SCROLL_COMMAND"
	TypeGrayscaleModeChanged = "GRAYSCALE_MODE_CHANGED"
	TypeScrollSyncChanged    = "SCROLL_SYNC_CHANGED"
	TypeFocusModeChanged     = "FOCUS_MODE_CHANGED"
)

// Pane -> host message types.
const (
	TypeScrollUpdate = "SCROLL_UPDATE"
	TypeFocusView    = "FOCUS_VIEW"
)

// Front-end control surface message types.
const (
	TypeGetPlatforms     = "GET_PLATFORMS"
	TypeReorderPlatforms = "REORDER_PLATFORMS"
	TypeToggleVisibility = "TOGGLE_VISIBILITY"
	TypeUpdateLayout     = "UPDATE_LAYOUT"
	TypeResetLayout      = "RESET_LAYOUT"

	TypePlatformOrderChanged = "PLATFORM_ORDER_CHANGED"
	TypeVisibilityChanged    = "VISIBILITY_CHANGED"
)

// Message is the wire envelope. ViewIndex identifies the originating pane
// for pane->host messages and is zero for control-surface traffic.
type Message struct {
	Type      string          `json:"type"`
	ViewIndex int             `json:"viewIndex"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// New builds an envelope with a marshaled payload.
func New(msgType string, payload any) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = data
	return msg, nil
}

// ScrollUpdatePayload carries a pane's observed scroll offset.
type ScrollUpdatePayload struct {
	Y float64 `json:"y"`
}

// ScrollCommandPayload carries a scroll target for a receiving pane.
type ScrollCommandPayload struct {
	Y float64 `json:"y"`
}

// FocusViewPayload reports pointer entry into a pane.
type FocusViewPayload struct {
	ViewIndex int `json:"viewIndex"`
}

// SetViewIndexPayload assigns a pane its source index at construction.
type SetViewIndexPayload struct {
	Index int `json:"index"`
}

// SetViewOpacityPayload sets a pane's rendered opacity.
type SetViewOpacityPayload struct {
	Opacity float64 `json:"opacity"`
}

// EnabledPayload carries a boolean mode flag change.
type EnabledPayload struct {
	Enabled bool `json:"enabled"`
}

// ReorderPayload carries a new display order permutation.
type ReorderPayload struct {
	Order []int `json:"order"`
}

// ToggleVisibilityPayload identifies the pane to toggle.
type ToggleVisibilityPayload struct {
	Index int `json:"index"`
}

// UpdateLayoutPayload carries new split percentages.
type UpdateLayoutPayload struct {
	Splits []float64 `json:"splits"`
}

// PlatformsPayload answers GET_PLATFORMS and accompanies the change
// broadcasts.
type PlatformsPayload struct {
	Names      []string `json:"names"`
	Order      []int    `json:"order"`
	Visibility []bool   `json:"visibility"`
}
