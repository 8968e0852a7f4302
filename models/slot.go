package models

type SlotStatus string

const (
	SlotFree     SlotStatus = "Free"
	SlotBooked   SlotStatus = "Booked"
	SlotReserved SlotStatus = "Reserved"
	SlotNamed    SlotStatus = "Named"
	SlotUnbooked SlotStatus = "Unbooked" // occupied without a booking
)

type ParkingSlot struct {
	SlotID    string     `json:"slotid" bson:"slotid"`
	SlotName  string     `json:"slot_name" bson:"slot_name"`
	Building  string     `json:"building" bson:"building"`
	Floor     string     `json:"floor" bson:"floor"`
	Block     string     `json:"block,omitempty" bson:"block,omitempty"`
	Status    SlotStatus `json:"status" bson:"status"`
	IsSpecial bool       `json:"is_special,omitempty" bson:"is_special,omitempty"`
	Notes     string     `json:"notes,omitempty" bson:"notes,omitempty"`
	MapImage  string     `json:"map_image,omitempty" bson:"map_image,omitempty"`
}

type Building struct {
	Name string `json:"name" bson:"name"`
	City string `json:"city,omitempty" bson:"city,omitempty"`
}
