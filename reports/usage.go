package reports

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/rdx"

	"github.com/jinzhu/now"
	"go.mongodb.org/mongo-driver/bson"
)

const windowDays = 7

// DayCount is one row of the day-by-day table.
type DayCount struct {
	Label        string `json:"label"` // "02 Jan"
	Booked       int    `json:"booked"`
	Free         int    `json:"free"`
	Unauthorized int    `json:"unauthorized"`
}

// UsageReport is the rolling 7-day rollup for one building.
type UsageReport struct {
	Building       string     `json:"building"`
	TotalSlots     int        `json:"total_slots"`
	Days           []DayCount `json:"days"` // oldest first
	MostBookedSlot string     `json:"most_booked_slot"`
	PeakHour       int        `json:"peak_hour"` // clock hour, -1 when no bookings
	GeneratedAt    time.Time  `json:"generated_at"`
}

// reportData is everything Aggregate needs, fetched once and memoized.
type reportData struct {
	Slots         []models.ParkingSlot  `json:"slots"`
	Bookings      []models.Booking      `json:"bookings"`
	Notifications []models.Notification `json:"notifications"`
}

// Aggregate computes the trailing-7-day usage rollup over already-fetched
// data. Bookings and notifications outside the window or outside the building
// are silently excluded; that is a filtering rule, not an error.
func Aggregate(building string, at time.Time, slots []models.ParkingSlot, bookings []models.Booking, notifs []models.Notification) UsageReport {
	rep := UsageReport{
		Building:    building,
		TotalSlots:  len(slots),
		PeakHour:    -1,
		GeneratedAt: at,
	}

	slotsByID := make(map[string]models.ParkingSlot, len(slots))
	for _, s := range slots {
		slotsByID[s.SlotID] = s
	}

	// Fixed-size buckets aligned to the generated day labels, oldest first.
	dayStart := make([]time.Time, windowDays)
	rep.Days = make([]DayCount, windowDays)
	for i := 0; i < windowDays; i++ {
		d := now.New(at.AddDate(0, 0, i-windowDays+1)).BeginningOfDay()
		dayStart[i] = d
		rep.Days[i] = DayCount{Label: d.Format("02 Jan")}
	}

	dayIndex := func(t time.Time) int {
		d := now.New(t).BeginningOfDay()
		for i := range dayStart {
			if d.Equal(dayStart[i]) {
				return i
			}
		}
		return -1
	}

	bookedPerSlot := make(map[string]int)
	hourBuckets := make(map[int]int)

	for _, b := range bookings {
		slotID := models.NormalizeSlotRef(b.SlotID)
		slot, ok := slotsByID[slotID]
		if !ok || slot.Building != building {
			continue
		}
		i := dayIndex(b.BookingTime)
		if i < 0 {
			continue
		}
		rep.Days[i].Booked++
		bookedPerSlot[slot.SlotName]++
		hourBuckets[b.BookingTime.Hour()]++
	}

	for _, n := range notifs {
		if n.Type != models.NotifUnauthorizedParking {
			continue
		}
		if n.Building != building {
			slot, ok := slotsByID[models.NormalizeSlotRef(n.SlotID)]
			if !ok || slot.Building != building {
				continue
			}
		}
		if i := dayIndex(n.Timestamp); i >= 0 {
			rep.Days[i].Unauthorized++
		}
	}

	for i := range rep.Days {
		rep.Days[i].Free = rep.TotalSlots - rep.Days[i].Booked
		if rep.Days[i].Free < 0 {
			rep.Days[i].Free = 0
		}
	}

	best := 0
	for name, count := range bookedPerSlot {
		if count > best || (count == best && (rep.MostBookedSlot == "" || name < rep.MostBookedSlot)) {
			best = count
			rep.MostBookedSlot = name
		}
	}
	peak := 0
	for hour, count := range hourBuckets {
		if count > peak || (count == peak && rep.PeakHour >= 0 && hour < rep.PeakHour) {
			peak = count
			rep.PeakHour = hour
		}
	}
	return rep
}

const dataCacheTTL = time.Minute

// fetchData loads the building's slots plus all bookings and notifications in
// the window, memoized in Redis so repeated report hits don't re-query.
func fetchData(ctx context.Context, building string) (reportData, error) {
	cacheKey := "report:data:" + building
	if raw, err := rdx.RdxGet(cacheKey); err == nil && raw != "" {
		var data reportData
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			return data, nil
		}
	}

	var data reportData

	cur, err := db.SlotsCollection.Find(ctx, bson.M{"building": building})
	if err != nil {
		return data, err
	}
	for cur.Next(ctx) {
		var s models.ParkingSlot
		if err := cur.Decode(&s); err == nil {
			data.Slots = append(data.Slots, s)
		}
	}
	cur.Close(ctx)

	since := now.New(time.Now().AddDate(0, 0, -windowDays)).BeginningOfDay()

	cur, err = db.BookingsCollection.Find(ctx, bson.M{"booking_time": bson.M{"$gte": since}})
	if err != nil {
		return data, err
	}
	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err == nil {
			data.Bookings = append(data.Bookings, b)
		}
	}
	cur.Close(ctx)

	cur, err = db.NotificationsCollection.Find(ctx, bson.M{"timestamp": bson.M{"$gte": since}})
	if err != nil {
		return data, err
	}
	for cur.Next(ctx) {
		var n models.Notification
		if err := cur.Decode(&n); err == nil {
			data.Notifications = append(data.Notifications, n)
		}
	}
	cur.Close(ctx)

	if raw, err := json.Marshal(data); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(raw), dataCacheTTL); err != nil {
			log.Printf("[reports] cache write failed: %v", err)
		}
	}
	return data, nil
}

// LoadUsageReport fetches (memoized) and aggregates.
func LoadUsageReport(ctx context.Context, building string) (UsageReport, error) {
	data, err := fetchData(ctx, building)
	if err != nil {
		return UsageReport{}, err
	}
	return Aggregate(building, time.Now(), data.Slots, data.Bookings, data.Notifications), nil
}
