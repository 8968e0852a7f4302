package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"parkly/db"
	"parkly/globals"
	"parkly/models"
	"parkly/mq"
	"parkly/slots"
	"parkly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func empFromContext(r *http.Request) string {
	empID, _ := r.Context().Value(globals.EmpIDKey).(string)
	return empID
}

// GET /api/bookings/active
func GetActiveBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, ok, err := ActiveForEmployee(ctx, empID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"active": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"active": true, "booking": b})
}

// GET /api/bookings?status=Confirmed&building=X
func ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}
	if b := r.URL.Query().Get("building"); b != "" {
		filter["building"] = b
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, filter)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Booking
	for cur.Next(ctx) {
		var b models.Booking
		if err := cur.Decode(&b); err != nil {
			continue
		}
		list = append(list, b)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": list})
}

// POST /api/bookings, body {slot_name, vehicleid}
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var body struct {
		SlotName  string `json:"slot_name"`
		VehicleID string `json:"vehicleid"`
		Match     string `json:"match,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SlotName == "" || body.VehicleID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ref, err := models.ParseVehicleRef(body.VehicleID)
	if err != nil {
		// Short form without the employee segment: assume the caller's own vehicle.
		ref = models.VehicleRef{EmpID: empID, VehicleID: body.VehicleID}
	}
	if !ref.BelongsTo(empID) {
		http.Error(w, "vehicle does not belong to you", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var emp models.Employee
	if err := db.EmployeesCollection.FindOne(ctx, bson.M{"empid": empID}).Decode(&emp); err != nil {
		http.Error(w, "employee not found", http.StatusNotFound)
		return
	}

	dir, err := slots.Load(ctx, emp.Building, body.Match == "loose")
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	result, err := Book(ctx, dir, body.SlotName, ref)
	if err != nil {
		respondBookingError(w, err)
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.BookingCreated, Building: emp.Building, SlotID: result.SlotID, BookingID: result.BookingID, EmpID: empID})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "booking": result})
}

// POST /api/bookings/leave: releases the caller's active booking. Calling it
// with nothing to release is a warning, not an error.
func LeaveBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	b, ok, err := ActiveForEmployee(ctx, empID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "warning": "no active booking to release"})
		return
	}

	if err := Leave(ctx, b); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.BookingReleased, Building: b.Building, SlotID: b.SlotID, BookingID: b.BookingID, EmpID: empID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "released": b.BookingID, "slot": b.SlotName})
}

func respondBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadyBooked), errors.Is(err, ErrSlotFree), errors.Is(err, ErrSlotTaken):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSlotNotFound), errors.Is(err, mongo.ErrNoDocuments):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
