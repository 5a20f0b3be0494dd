package models

// CreateEditorRequest opens (or resets) the viewport editor for a session.
// Switching frames recreates the editor, which discards any in-progress
// transform state.
type CreateEditorRequest struct {
	FrameID string `json:"frame_id"`
	// On-screen viewport dimensions the transform is relative to.
	// Defaults to 300x400 when omitted.
	ViewportWidth  float64 `json:"viewport_width,omitempty"`
	ViewportHeight float64 `json:"viewport_height,omitempty"`
}

// GestureEvent is one input event replayed into the viewport editor.
// Events in a batch are applied in order.
type GestureEvent struct {
	// Type is one of: drag_start, drag, drag_end, pinch_start, pinch,
	// pinch_end, wheel, set_scale.
	Type string `json:"type"`

	// Drag deltas (drag).
	DeltaX float64 `json:"delta_x,omitempty"`
	DeltaY float64 `json:"delta_y,omitempty"`

	// Pinch contact distance and midpoint relative to the viewport
	// center (pinch_start, pinch).
	Distance  float64 `json:"distance,omitempty"`
	MidpointX float64 `json:"midpoint_x,omitempty"`
	MidpointY float64 `json:"midpoint_y,omitempty"`

	// Wheel delta (wheel) or absolute scale override (set_scale).
	Value float64 `json:"value,omitempty"`
}

type GestureBatchRequest struct {
	Events []GestureEvent `json:"events"`
}

type CreateOrderRequest struct {
	FrameID string `json:"frame_id"`
}

type InitPaymentRequest struct {
	Email string `json:"email"`
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

type ConfirmOrderRequest struct {
	Reference string `json:"reference"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
