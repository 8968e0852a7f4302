package bookings

import (
	"context"
	"strings"
	"time"

	"parkly/db"
	"parkly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// matchEmployee selects any booking made with one of the employee's vehicles.
func matchEmployee(empID string) func(models.Booking) bool {
	prefix := empID + "/"
	return func(b models.Booking) bool { return strings.HasPrefix(b.VehicleID, prefix) }
}

// matchVehicle selects bookings for exactly this vehicle. Equality on the
// full composite ref; a prefix test would conflate "e1/v4" with "e1/v42".
func matchVehicle(ref models.VehicleRef) func(models.Booking) bool {
	want := ref.String()
	return func(b models.Booking) bool { return b.VehicleID == want }
}

// ActiveForEmployee finds the employee's current non-expired Confirmed booking.
// Confirmed bookings are fetched in a stable order (booking_time, then id) and
// the first one whose expiry lies strictly in the future wins; tolerates zero
// or several matches.
func ActiveForEmployee(ctx context.Context, empID string) (models.Booking, bool, error) {
	return active(ctx, matchEmployee(empID), time.Now())
}

// ActiveForVehicle is the vehicle-scoped precondition check used before a new
// booking is written.
func ActiveForVehicle(ctx context.Context, ref models.VehicleRef) (models.Booking, bool, error) {
	return active(ctx, matchVehicle(ref), time.Now())
}

func active(ctx context.Context, match func(models.Booking) bool, now time.Time) (models.Booking, bool, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booking_time", Value: 1}, {Key: "bookingid", Value: 1}})
	cur, err := db.BookingsCollection.Find(ctx, bson.M{"status": models.BookingConfirmed}, opts)
	if err != nil {
		return models.Booking{}, false, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err != nil {
			continue
		}
		if !match(b) {
			continue
		}
		if b.ExpiryTime.After(now) {
			return b, true, nil
		}
	}
	return models.Booking{}, false, cur.Err()
}
