package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"parkly/globals"
	"parkly/utils"

	"github.com/julienschmidt/httprouter"
)

var (
	engine     *Engine
	engineOnce sync.Once
)

func defaultEngine() *Engine {
	engineOnce.Do(func() {
		engine = NewEngine(NewStore(), NewClassifier(context.Background()))
	})
	return engine
}

func empFromContext(r *http.Request) string {
	empID, _ := r.Context().Value(globals.EmpIDKey).(string)
	return empID
}

// POST /api/chatbot/message, body {"text": "..."}
func PostMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	unlock := lockSession(empID)
	defer unlock()

	sess := loadSession(empID)
	reply := defaultEngine().HandleMessage(ctx, sess, body.Text)
	saveSession(sess)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"reply":   reply,
		"state":   sess.State,
		"session": sess.ID,
	})
}

// GET /api/chatbot/session
func GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"session": loadSession(empID)})
}

// DELETE /api/chatbot/session, reset the conversation
func ResetSessionHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	empID := empFromContext(r)
	if empID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}
	unlock := lockSession(empID)
	defer unlock()

	resetSession(empID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
