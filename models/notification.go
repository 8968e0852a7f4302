package models

import "time"

type Notification struct {
	NotifID    string    `json:"notifid" bson:"notifid"`
	Type       string    `json:"type" bson:"type"`
	Message    string    `json:"message" bson:"message"`
	IsCritical bool      `json:"isCritical" bson:"isCritical"`
	IsRead     bool      `json:"isRead" bson:"isRead"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Building   string    `json:"building,omitempty" bson:"building,omitempty"`
	SlotID     string    `json:"slotId,omitempty" bson:"slotId,omitempty"`
}

const NotifUnauthorizedParking = "unauthorized_parking"
