package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/mq"
	"parkly/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/notifications?building=X&type=Y&unread=1&critical=1
func ListNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	filter := bson.M{}
	if b := q.Get("building"); b != "" {
		filter["building"] = b
	}
	if t := q.Get("type"); t != "" {
		filter["type"] = t
	}
	if q.Get("unread") == "1" {
		filter["isRead"] = false
	}
	if q.Get("critical") == "1" {
		filter["isCritical"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(200)
	cur, err := db.NotificationsCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var list []models.Notification
	for cur.Next(ctx) {
		var n models.Notification
		if err := cur.Decode(&n); err != nil {
			continue
		}
		list = append(list, n)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"notifications": list})
}

// POST /api/notifications: ingress for the external producers (sensors,
// patrol app) that raise alerts.
func CreateNotification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var n models.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if n.Type == "" || n.Message == "" {
		http.Error(w, "type and message are required", http.StatusBadRequest)
		return
	}
	n.NotifID = uuid.NewString()
	n.IsRead = false
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	n.SlotID = models.NormalizeSlotRef(n.SlotID)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	payload, _ := json.Marshal(n)
	mq.Emit(ctx, mq.Event{Name: mq.NotificationCreated, Building: n.Building, SlotID: n.SlotID, Payload: string(payload)})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"notification": n})
}

// PATCH /api/notifications/:notifid/read
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"notifid": ps.ByName("notifid")},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "notification not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/notifications/read-all?building=X
func MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{"isRead": false}
	if b := r.URL.Query().Get("building"); b != "" {
		filter["building"] = b
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.NotificationsCollection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "updated": res.ModifiedCount})
}
