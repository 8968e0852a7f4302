package reports

import (
	"testing"
	"time"

	"parkly/models"
)

var reportNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func day(offset int, hour int) time.Time {
	return time.Date(2025, 3, 10+offset, hour, 0, 0, 0, time.UTC)
}

func reportSlots() []models.ParkingSlot {
	return []models.ParkingSlot{
		{SlotID: "s1", SlotName: "A1", Building: "HQ", Floor: "1", Status: models.SlotUnbooked},
		{SlotID: "s2", SlotName: "A2", Building: "HQ", Floor: "1", Status: models.SlotFree},
		{SlotID: "s3", SlotName: "A3", Building: "HQ", Floor: "1", Status: models.SlotBooked},
	}
}

func TestAggregateDayBuckets(t *testing.T) {
	bookings := []models.Booking{
		{BookingID: "b1", SlotID: "s1", BookingTime: day(0, 9), Status: models.BookingConfirmed},
		{BookingID: "b2", SlotID: "slots/s1", BookingTime: day(-1, 9), Status: models.BookingCompleted},
		{BookingID: "b3", SlotID: "s3", BookingTime: day(-1, 11), Status: models.BookingConfirmed},
		{BookingID: "b4", SlotID: "s1", BookingTime: day(-8, 9), Status: models.BookingConfirmed},  // outside window
		{BookingID: "b5", SlotID: "s99", BookingTime: day(0, 9), Status: models.BookingConfirmed},  // unknown slot
	}
	notifs := []models.Notification{
		{NotifID: "n1", Type: models.NotifUnauthorizedParking, Building: "HQ", Timestamp: day(0, 8)},
		{NotifID: "n2", Type: models.NotifUnauthorizedParking, SlotID: "s1", Timestamp: day(-2, 8)},
		{NotifID: "n3", Type: "other", Building: "HQ", Timestamp: day(0, 8)},
		{NotifID: "n4", Type: models.NotifUnauthorizedParking, Building: "Annex", Timestamp: day(0, 8)},
	}

	rep := Aggregate("HQ", reportNow, reportSlots(), bookings, notifs)

	if rep.TotalSlots != 3 {
		t.Fatalf("TotalSlots = %d", rep.TotalSlots)
	}
	if len(rep.Days) != 7 {
		t.Fatalf("Days = %d", len(rep.Days))
	}

	today := rep.Days[6]
	if today.Label != "10 Mar" {
		t.Errorf("today label = %q", today.Label)
	}
	if today.Booked != 1 || today.Unauthorized != 1 {
		t.Errorf("today = %+v", today)
	}
	if today.Free != 2 {
		t.Errorf("today free = %d", today.Free)
	}

	yesterday := rep.Days[5]
	if yesterday.Booked != 2 {
		t.Errorf("yesterday booked = %d", yesterday.Booked)
	}

	twoAgo := rep.Days[4]
	if twoAgo.Unauthorized != 1 {
		t.Errorf("slot-resolved unauthorized not counted: %+v", twoAgo)
	}

	// b4 (out of window) and b5 (unknown slot), n3 (wrong type) and n4 (other
	// building) must all be excluded.
	totalBooked := 0
	totalUnauthorized := 0
	for _, d := range rep.Days {
		totalBooked += d.Booked
		totalUnauthorized += d.Unauthorized
	}
	if totalBooked != 3 {
		t.Errorf("total booked = %d", totalBooked)
	}
	if totalUnauthorized != 2 {
		t.Errorf("total unauthorized = %d", totalUnauthorized)
	}
}

func TestAggregateMostBookedAndPeakHour(t *testing.T) {
	bookings := []models.Booking{
		{BookingID: "b1", SlotID: "s1", BookingTime: day(0, 9)},
		{BookingID: "b2", SlotID: "s1", BookingTime: day(-1, 10)},
		{BookingID: "b3", SlotID: "s3", BookingTime: day(-2, 9)},
	}

	rep := Aggregate("HQ", reportNow, reportSlots(), bookings, nil)

	if rep.MostBookedSlot != "A1" {
		t.Errorf("MostBookedSlot = %q", rep.MostBookedSlot)
	}
	if rep.PeakHour != 9 {
		t.Errorf("PeakHour = %d", rep.PeakHour)
	}
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate("HQ", reportNow, reportSlots(), nil, nil)

	if rep.MostBookedSlot != "" {
		t.Errorf("MostBookedSlot = %q", rep.MostBookedSlot)
	}
	if rep.PeakHour != -1 {
		t.Errorf("PeakHour = %d", rep.PeakHour)
	}
	for i, d := range rep.Days {
		if d.Booked != 0 || d.Unauthorized != 0 || d.Free != 3 {
			t.Errorf("day %d = %+v", i, d)
		}
	}
}
