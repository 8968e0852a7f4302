package bookings

import (
	"context"
	"errors"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/slots"
	"parkly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Bookings expire the same calendar day at this cutoff hour.
const expiryCutoffHour = 18

var (
	ErrAlreadyBooked = errors.New("you already have an active booking")
	ErrSlotNotFound  = errors.New("slot not found in this building")
	ErrSlotFree      = errors.New("slot is free; only occupied unbooked slots can be claimed")
	ErrSlotTaken     = errors.New("slot is already booked")
)

// Result describes a freshly created booking.
type Result struct {
	BookingID string `json:"bookingid"`
	SlotID    string `json:"slotid"`
	SlotName  string `json:"slot_name"`
	Floor     string `json:"floor"`
	ExpiresAt string `json:"expires_at"`
}

func genID() string {
	return "b" + utils.GenerateRandomDigitString(16)
}

// Book claims an occupied-but-unbooked slot for one of the employee's
// vehicles. Preconditions run in order: no active booking for the vehicle,
// then slot present in the unauthorized bucket of the building directory. The
// booking insert and the slot status change commit as one transaction.
func Book(ctx context.Context, dir *slots.Directory, slotName string, ref models.VehicleRef) (Result, error) {
	if _, busy, err := ActiveForVehicle(ctx, ref); err != nil {
		return Result{}, err
	} else if busy {
		return Result{}, ErrAlreadyBooked
	}

	entry, floor, bucket, found := dir.Lookup(slotName)
	if !found {
		return Result{}, ErrSlotNotFound
	}
	switch bucket {
	case slots.BucketFree:
		return Result{}, ErrSlotFree
	case slots.BucketBooked:
		return Result{}, ErrSlotTaken
	}

	now := time.Now()
	expiry := time.Date(now.Year(), now.Month(), now.Day(), expiryCutoffHour, 0, 0, 0, now.Location())

	booking := models.Booking{
		BookingID:   genID(),
		VehicleID:   ref.String(),
		SlotID:      entry.SlotID,
		SlotName:    entry.DisplayName,
		Floor:       floor,
		Building:    dir.Building,
		BookingTime: now,
		ExpiryTime:  expiry,
		Status:      models.BookingConfirmed,
	}

	_, err := db.WithTxn(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := db.BookingsCollection.InsertOne(sessCtx, booking); err != nil {
			return nil, err
		}
		res, err := db.SlotsCollection.UpdateOne(sessCtx,
			bson.M{"slotid": entry.SlotID},
			bson.M{"$set": bson.M{"status": models.SlotBooked}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			// Directory was stale: the slot vanished since the caller loaded it.
			return nil, ErrSlotNotFound
		}
		return nil, nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		BookingID: booking.BookingID,
		SlotID:    booking.SlotID,
		SlotName:  booking.SlotName,
		Floor:     booking.Floor,
		ExpiresAt: booking.ExpiryTime.Format(time.RFC3339),
	}, nil
}

// Leave releases a booking: status to Cancelled, expiry forced to now, slot
// back to Free, in one transaction. Callers reload their slot directory in full
// afterwards rather than patching it incrementally.
func Leave(ctx context.Context, booking models.Booking) error {
	now := time.Now()
	_, err := db.WithTxn(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := db.BookingsCollection.UpdateOne(sessCtx,
			bson.M{"bookingid": booking.BookingID},
			bson.M{"$set": bson.M{"status": models.BookingCancelled, "expiry_time": now}},
		); err != nil {
			return nil, err
		}
		if _, err := db.SlotsCollection.UpdateOne(sessCtx,
			bson.M{"slotid": booking.SlotID},
			bson.M{"$set": bson.M{"status": models.SlotFree}},
		); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
