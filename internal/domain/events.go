package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type EventType string

const (
	EventJoinStation     EventType = "join-station"
	EventLeaveStation    EventType = "leave-station"
	EventOrderUpdate     EventType = "order-update"
	EventInventoryUpdate EventType = "inventory-update"
	EventAnalyticsUpdate EventType = "analytics-update"
	EventNotification    EventType = "notification"
	EventError           EventType = "error"
)

// Event is the single frame shape on the station socket. Exactly one payload
// field is set, selected by Type.
type Event struct {
	Type         EventType       `json:"type"`
	Station      string          `json:"station,omitempty"`
	Order        *Order          `json:"order,omitempty"`
	Item         *InventoryItem  `json:"item,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
	Error        string          `json:"error,omitempty"`
}

var ErrInvalidEvent = errors.New("invalid event")

// DecodeEvent parses and validates a frame from a trusted source: the
// broker or the server itself.
func DecodeEvent(b []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return ev, ev.Validate()
}

// DecodeClientEvent is DecodeEvent for socket frames. Notifications are
// server-only.
func DecodeClientEvent(b []byte) (Event, error) {
	ev, err := DecodeEvent(b)
	if err != nil {
		return Event{}, err
	}
	if ev.Type == EventNotification {
		return Event{}, fmt.Errorf("%w: %s cannot be sent by clients", ErrInvalidEvent, ev.Type)
	}
	return ev, nil
}

func (ev Event) Validate() error {
	switch ev.Type {
	case EventJoinStation, EventLeaveStation:
		if strings.TrimSpace(ev.Station) == "" {
			return fmt.Errorf("%w: %s requires station", ErrInvalidEvent, ev.Type)
		}
	case EventOrderUpdate:
		if ev.Order == nil || ev.Order.ID == "" || ev.Order.Station == "" {
			return fmt.Errorf("%w: order-update requires order.id and order.station", ErrInvalidEvent)
		}
	case EventInventoryUpdate:
		if ev.Item == nil || ev.Item.ID == "" {
			return fmt.Errorf("%w: inventory-update requires item.id", ErrInvalidEvent)
		}
	case EventAnalyticsUpdate:
		if len(ev.Data) == 0 || ev.Data[0] != '{' {
			return fmt.Errorf("%w: analytics-update requires an object in data", ErrInvalidEvent)
		}
	case EventNotification:
		if ev.Notification == nil {
			return fmt.Errorf("%w: notification payload missing", ErrInvalidEvent)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
	return nil
}

// Rooms lists the station rooms an order update is delivered to. A nil
// result means every connection.
func (ev Event) Rooms() []string {
	if ev.Type != EventOrderUpdate || ev.Order == nil {
		return nil
	}
	rooms := []string{ev.Order.Station}
	if ev.Order.Station == StationFrontCounter {
		rooms = append(rooms, StationKitchen)
	}
	return rooms
}

func OrderUpdate(o Order) Event { return Event{Type: EventOrderUpdate, Order: &o} }

func InventoryUpdate(i InventoryItem) Event { return Event{Type: EventInventoryUpdate, Item: &i} }

func NotificationEvent(n Notification) Event { return Event{Type: EventNotification, Notification: &n} }
