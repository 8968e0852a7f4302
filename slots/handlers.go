package slots

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/mq"
	"parkly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET /api/slots?building=X
func GetAllSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")

	filter := bson.M{}
	if building != "" {
		filter["building"] = building
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.SlotsCollection.Find(ctx, filter)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.ParkingSlot
	for cur.Next(ctx) {
		var s models.ParkingSlot
		if err := cur.Decode(&s); err != nil {
			continue
		}
		list = append(list, s)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slots": list})
}

// GET /api/slots/slot/:slotid
func GetSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := models.NormalizeSlotRef(ps.ByName("slotid"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var s models.ParkingSlot
	err := db.SlotsCollection.FindOne(ctx, bson.M{"slotid": slotID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"slot": s})
}

// PATCH /api/slots/slot/:slotid, the dashboard's updateSlot. Only status and notes
// are writable here; booking-driven status changes go through the booking
// transactions instead.
func UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slotID := models.NormalizeSlotRef(ps.ByName("slotid"))

	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if body.Status != "" {
		switch models.SlotStatus(body.Status) {
		case models.SlotFree, models.SlotBooked, models.SlotReserved, models.SlotNamed, models.SlotUnbooked:
			set["status"] = body.Status
		default:
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
	}
	if body.Notes != "" {
		set["notes"] = body.Notes
	}
	if len(set) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.ParkingSlot
	err := db.SlotsCollection.FindOneAndUpdate(ctx,
		bson.M{"slotid": slotID},
		bson.M{"$set": set},
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.SlotUpdated, Building: updated.Building, SlotID: slotID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// GET /api/slots/stats?building=X, the dashboard's updateStats.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := LoadStats(ctx, building)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"stats": st})
}

// GET /api/slots/levels?building=X, populateLevels / getAvailableLevels.
func GetLevels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dir, err := Load(ctx, building, r.URL.Query().Get("match") == "loose")
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"levels": dir.Levels()})
}

// GET /api/slots/directory?building=X, the grouped free/unauthorized/booked index.
func GetDirectory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dir, err := Load(ctx, building, r.URL.Query().Get("match") == "loose")
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"directory": dir})
}

// POST /api/slots/refresh?building=X forces a fresh directory load and nudges
// every live dashboard to re-pull stats.
func RefreshDirectory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	building := r.URL.Query().Get("building")
	if building == "" {
		http.Error(w, "missing building", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dir, err := Load(ctx, building, r.URL.Query().Get("match") == "loose")
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.SlotUpdated, Building: building})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"directory": dir})
}

// GET /api/buildings, from the Buildings collection, falling back to a
// distinct() over slots when it has never been seeded.
func GetBuildings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var names []string
	cur, err := db.BuildingsCollection.Find(ctx, bson.M{})
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var b models.Building
			if err := cur.Decode(&b); err != nil {
				continue
			}
			names = append(names, b.Name)
		}
	}

	if len(names) == 0 {
		values, err := db.SlotsCollection.Distinct(ctx, "building", bson.M{})
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		for _, v := range values {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"buildings": names})
}
