package websocket

import "encoding/json"

// Live-channel event names. Incoming events arrive on the client read
// pump; outgoing events are pushed through the hub.
const (
	EventSetup           = "setup"
	EventConnected       = "connected"
	EventJoinChat        = "joinChat"
	EventSendMessage     = "sendMessage"
	EventMessageReceived = "messageReceived"
	EventNotification    = "notification"
	EventTyping          = "typing"
	EventStopTyping      = "stopTyping"
	EventUserOnline      = "user-online"
	EventUserOffline     = "user-offline"
	EventError           = "error"
)

type IncomingEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type OutgoingEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

func ErrorEvent(message string) OutgoingEvent {
	return OutgoingEvent{
		Event: EventError,
		Data:  map[string]string{"message": message},
	}
}

// EventHandler is implemented by the socket dispatcher; the hub invokes
// it for connection lifecycle and every parsed incoming event.
type EventHandler interface {
	HandleConnect(c *Client)
	HandleDisconnect(c *Client)
	HandleEvent(c *Client, evt IncomingEvent)
}
