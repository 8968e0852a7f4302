package employees

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"parkly/db"
	"parkly/filemgr"
	"parkly/globals"
	"parkly/models"
	"parkly/mq"
	"parkly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func empFromContext(r *http.Request) string {
	empID, _ := r.Context().Value(globals.EmpIDKey).(string)
	return empID
}

// GET /api/employees/me
func GetMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var emp models.Employee
	err := db.EmployeesCollection.FindOne(ctx, bson.M{"empid": empID}).Decode(&emp)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "employee not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	emp.Password = ""
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"employee": emp})
}

// GET /api/employees/vehicles
func GetVehicles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := ListVehicles(ctx, empID)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"vehicles": list})
}

// POST /api/employees/vehicles
func CreateVehicle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if v.RegistrationNo == "" {
		http.Error(w, "registration_no is required", http.StatusBadRequest)
		return
	}
	v.EmpID = empID

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := AddVehicle(ctx, v)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.VehicleAdded, EmpID: empID})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"vehicle": created})
}

// PUT /api/employees/vehicles/:vehicleid/default
func MakeDefaultVehicle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := SetDefault(ctx, empID, ps.ByName("vehicleid"))
	if err == mongo.ErrNoDocuments {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/employees/vehicles/:vehicleid/photo: multipart upload, saved to
// disk with a thumbnail.
func UploadVehiclePhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}
	vehicleID := ps.ByName("vehicleid")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var v models.Vehicle
	if err := db.VehiclesCollection.FindOne(ctx, bson.M{"empid": empID, "vehicleid": vehicleID}).Decode(&v); err != nil {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}

	photo, thumb, err := filemgr.SaveVehiclePhoto(r, vehicleID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := db.VehiclesCollection.UpdateOne(ctx,
		bson.M{"empid": empID, "vehicleid": vehicleID},
		bson.M{"$set": bson.M{"photo": photo, "photo_thumb": thumb}},
	); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"photo": photo, "thumb": thumb})
}
