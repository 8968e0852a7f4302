package chatbot

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"parkly/models"
	"parkly/rdx"

	"github.com/google/uuid"
)

// Conversation states. The step field only means something in StateAddVehicle.
type StateKind string

const (
	StateIdle            StateKind = "idle"
	StateAwaitingVehicle StateKind = "awaiting_vehicle"
	StateAddVehicle      StateKind = "add_vehicle"
)

// AddVehicle steps, advanced one field per user message in fixed order.
type AddStep string

const (
	StepRegNo     AddStep = "reg_no"
	StepModel     AddStep = "model"
	StepColor     AddStep = "color"
	StepType      AddStep = "type"
	StepIsDefault AddStep = "is_default"
)

// Session is the explicit conversation context for one employee. It replaces
// the module-level state the old UI kept; every handler call loads it, holds
// the per-employee lock, and writes it back.
type Session struct {
	ID          string         `json:"id"`
	EmpID       string         `json:"empid"`
	State       StateKind      `json:"state"`
	PendingSlot string         `json:"pending_slot,omitempty"`
	AddStep     AddStep        `json:"add_step,omitempty"`
	Partial     models.Vehicle `json:"partial,omitempty"`
}

const sessionTTL = 30 * time.Minute

func sessionKey(empID string) string { return "chat:session:" + empID }

// One logical thread of control per employee conversation.
var (
	sessLocks   = make(map[string]*sync.Mutex)
	sessLocksMu sync.Mutex
)

func lockSession(empID string) func() {
	sessLocksMu.Lock()
	l, ok := sessLocks[empID]
	if !ok {
		l = &sync.Mutex{}
		sessLocks[empID] = l
	}
	sessLocksMu.Unlock()

	l.Lock()
	return l.Unlock
}

func loadSession(empID string) *Session {
	raw, err := rdx.RdxGet(sessionKey(empID))
	if err == nil && raw != "" {
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return &s
		}
		log.Printf("[chatbot] corrupt session for %s, resetting", empID)
	}
	return &Session{ID: uuid.NewString(), EmpID: empID, State: StateIdle}
}

func saveSession(s *Session) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("[chatbot] session marshal failed: %v", err)
		return
	}
	if err := rdx.SetWithExpiry(sessionKey(s.EmpID), string(data), sessionTTL); err != nil {
		log.Printf("[chatbot] session save failed: %v", err)
	}
}

func resetSession(empID string) {
	if _, err := rdx.RdxDel(sessionKey(empID)); err != nil {
		log.Printf("[chatbot] session reset failed: %v", err)
	}
}
