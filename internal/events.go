package internal

import "encoding/json"

// Event names the backend emits into a cafe room, plus the two the
// client sends. order_updated and order_status_updated are aliases on
// the wire; both carry a full or partial order.
const (
	EventJoinRoom  = "join_cafe_room"
	EventLeaveRoom = "leave_cafe_room"

	EventNewOrder           = "new_order"
	EventOrderUpdated       = "order_updated"
	EventOrderStatusUpdated = "order_status_updated"
	EventOrderCancelled     = "order_cancelled"
)

// Frame is the JSON envelope exchanged over the push channel.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventSink receives decoded push events. Handlers are called from the
// channel's read loop, one at a time, in arrival order.
type EventSink interface {
	HandleNewOrder(payload json.RawMessage)
	HandleOrderUpdated(payload json.RawMessage)
	HandleOrderCancelled()
	// HandleReconnected fires after a connection is re-established
	// following a drop, so the sink can recover missed events.
	HandleReconnected()
}

func joinFrame(room string) Frame {
	payload, _ := json.Marshal(room)
	return Frame{Event: EventJoinRoom, Payload: payload}
}

func leaveFrame(room string) Frame {
	payload, _ := json.Marshal(room)
	return Frame{Event: EventLeaveRoom, Payload: payload}
}
