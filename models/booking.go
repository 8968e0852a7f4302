package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

type Booking struct {
	BookingID   string        `json:"bookingid" bson:"bookingid"`
	VehicleID   string        `json:"vehicleid" bson:"vehicleid"` // "empid/vehicleid"
	SlotID      string        `json:"slotid" bson:"slotid"`
	SlotName    string        `json:"slot_name" bson:"slot_name"`
	Floor       string        `json:"floor" bson:"floor"`
	Building    string        `json:"building" bson:"building"`
	BookingTime time.Time     `json:"booking_time" bson:"booking_time"`
	ExpiryTime  time.Time     `json:"expiry_time" bson:"expiry_time"`
	Status      BookingStatus `json:"status" bson:"status"`
}

// Active reports whether the booking still holds its slot at the given instant.
// Expired Confirmed bookings are never rewritten by a background job; they are
// treated as inactive on read.
func (b Booking) Active(at time.Time) bool {
	return b.Status == BookingConfirmed && b.ExpiryTime.After(at)
}
