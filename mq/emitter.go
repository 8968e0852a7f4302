package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"parkly/rdx"
)

// Channel carries every domain event; subscribers filter by Event.Name.
const Channel = "parkly-events"

// Event names
const (
	SlotUpdated         = "slot-updated"
	BookingCreated      = "booking-created"
	BookingReleased     = "booking-released"
	VehicleAdded        = "vehicle-added"
	NotificationCreated = "notification-created"
)

type Event struct {
	Name      string `json:"name"`
	Building  string `json:"building,omitempty"`
	SlotID    string `json:"slotId,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	EmpID     string `json:"empId,omitempty"`
	Payload   string `json:"payload,omitempty"` // JSON document for subscribers
	At        int64  `json:"at"`
}

// Emit publishes a domain event to Redis. Delivery is best effort; live
// dashboards re-query on reconnect, so a dropped event is not corrected here.
func Emit(ctx context.Context, ev Event) {
	ev.At = time.Now().Unix()
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		log.Printf("[Emit] publish failed: %v", err)
	}
}

// Subscribe hands every event on the channel to fn, in arrival order, until
// ctx is cancelled. Run it in its own goroutine.
func Subscribe(ctx context.Context, fn func(Event)) {
	sub := rdx.Conn.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[Subscribe] bad event payload: %v", err)
				continue
			}
			fn(ev)
		}
	}
}
