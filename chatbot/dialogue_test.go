package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"parkly/bookings"
	"parkly/models"
	"parkly/slots"
)

// fakeStore drives the dialogue engine without Mongo or Redis.
type fakeStore struct {
	emp      models.Employee
	slots    []models.ParkingSlot
	active   *models.Booking
	vehicles []models.Vehicle

	bookErr    error
	booked     []string // slot names passed to Book
	left       []string // booking ids passed to Leave
	registered []models.Vehicle
}

func (f *fakeStore) Employee(_ context.Context, empID string) (models.Employee, error) {
	if empID != f.emp.EmpID {
		return models.Employee{}, errors.New("not found")
	}
	return f.emp, nil
}

func (f *fakeStore) Directory(_ context.Context, building string) (*slots.Directory, error) {
	return slots.Partition(building, f.slots), nil
}

func (f *fakeStore) ActiveBooking(_ context.Context, _ string) (models.Booking, bool, error) {
	if f.active == nil {
		return models.Booking{}, false, nil
	}
	return *f.active, true, nil
}

func (f *fakeStore) Book(_ context.Context, _ *slots.Directory, slotName string, ref models.VehicleRef) (bookings.Result, error) {
	if f.bookErr != nil {
		return bookings.Result{}, f.bookErr
	}
	f.booked = append(f.booked, slotName)
	return bookings.Result{BookingID: "b1", SlotID: "s-" + slotName, SlotName: slotName, Floor: "1", ExpiresAt: "18:00"}, nil
}

func (f *fakeStore) Leave(_ context.Context, b models.Booking) error {
	f.left = append(f.left, b.BookingID)
	f.active = nil
	return nil
}

func (f *fakeStore) Vehicles(_ context.Context, _ string) ([]models.Vehicle, error) {
	return f.vehicles, nil
}

func (f *fakeStore) AddVehicle(_ context.Context, v models.Vehicle) (models.Vehicle, error) {
	v.VehicleID = "v-new"
	f.registered = append(f.registered, v)
	f.vehicles = append(f.vehicles, v)
	return v, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		emp: models.Employee{EmpID: "e1", Username: "gayathri", FullName: "Gayathri N", Building: "HQ"},
		slots: []models.ParkingSlot{
			{SlotID: "s1", SlotName: "A1", Building: "HQ", Floor: "1", Status: models.SlotUnbooked},
			{SlotID: "s2", SlotName: "A2", Building: "HQ", Floor: "1", Status: models.SlotFree},
			{SlotID: "s3", SlotName: "A3", Building: "HQ", Floor: "1", Status: models.SlotBooked},
		},
	}
}

func newTestEngine(store Store) (*Engine, *Session) {
	engine := NewEngine(store, RuleClassifier{})
	sess := &Session{ID: "t1", EmpID: "e1", State: StateIdle}
	return engine, sess
}

func TestGreeting(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "hi")
	if !strings.Contains(reply, "Gayathri") {
		t.Errorf("greeting does not address the employee: %q", reply)
	}
	if sess.State != StateIdle {
		t.Errorf("state after greeting = %s", sess.State)
	}
}

func TestGreetingBlankFullName(t *testing.T) {
	store := newFakeStore()
	store.emp.FullName = " "
	engine, sess := newTestEngine(store)

	reply := engine.HandleMessage(context.Background(), sess, "hi")
	if !strings.Contains(reply, "gayathri") {
		t.Errorf("greeting does not fall back to the username: %q", reply)
	}
}

func TestBookFreeSlotRejected(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "park at A2")
	if !strings.Contains(reply, "free") {
		t.Errorf("free slot not rejected: %q", reply)
	}
	if sess.State != StateIdle {
		t.Errorf("state = %s, want idle", sess.State)
	}
}

func TestBookTakenSlotRejected(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "park at A3")
	if !strings.Contains(reply, "already booked") {
		t.Errorf("booked slot not rejected: %q", reply)
	}
}

func TestBookUnknownSlot(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "park at Z9")
	if !strings.Contains(reply, "can't find") {
		t.Errorf("unknown slot reply = %q", reply)
	}
}

func TestBookWhileActiveBookingRefused(t *testing.T) {
	store := newFakeStore()
	store.active = &models.Booking{BookingID: "b0", SlotName: "A1", ExpiryTime: time.Now().Add(time.Hour)}
	engine, sess := newTestEngine(store)

	reply := engine.HandleMessage(context.Background(), sess, "book A1")
	if !strings.Contains(reply, "already have") {
		t.Errorf("second booking not refused: %q", reply)
	}
	if len(store.booked) != 0 {
		t.Errorf("Book was called despite active booking")
	}
}

func TestBookWithExistingVehicle(t *testing.T) {
	store := newFakeStore()
	store.vehicles = []models.Vehicle{
		{VehicleID: "v1", EmpID: "e1", RegistrationNo: "KA01AB1234", Model: "Swift", IsDefault: true},
	}
	engine, sess := newTestEngine(store)
	ctx := context.Background()

	reply := engine.HandleMessage(ctx, sess, "park at A1")
	if sess.State != StateAwaitingVehicle || sess.PendingSlot != "A1" {
		t.Fatalf("state = %s pending = %q after slot pick, reply %q", sess.State, sess.PendingSlot, reply)
	}
	if !strings.Contains(reply, "KA01AB1234") {
		t.Errorf("vehicle list missing from prompt: %q", reply)
	}

	reply = engine.HandleMessage(ctx, sess, "1")
	if !strings.Contains(reply, "A1") || !strings.Contains(reply, "18:00") {
		t.Errorf("confirmation = %q", reply)
	}
	if sess.State != StateIdle || sess.PendingSlot != "" {
		t.Errorf("session not reset after booking: %+v", sess)
	}
	if len(store.booked) != 1 || store.booked[0] != "A1" {
		t.Errorf("booked = %v", store.booked)
	}
}

func TestBookNoVehiclesWalksThroughRegistration(t *testing.T) {
	store := newFakeStore()
	engine, sess := newTestEngine(store)
	ctx := context.Background()

	reply := engine.HandleMessage(ctx, sess, "book A1")
	if sess.State != StateAddVehicle || sess.AddStep != StepRegNo {
		t.Fatalf("state = %s/%s, reply %q", sess.State, sess.AddStep, reply)
	}

	// Answers are stored verbatim, whatever they look like.
	engine.HandleMessage(ctx, sess, "KA05 XY 9999")
	engine.HandleMessage(ctx, sess, "hi") // "hi" here is the model answer, not a greeting
	engine.HandleMessage(ctx, sess, "blue")
	engine.HandleMessage(ctx, sess, "car")
	reply = engine.HandleMessage(ctx, sess, "yes")

	if len(store.registered) != 1 {
		t.Fatalf("registered = %v", store.registered)
	}
	v := store.registered[0]
	if v.RegistrationNo != "KA05 XY 9999" || v.Model != "hi" || v.Color != "blue" || v.VehicleType != "car" || !v.IsDefault {
		t.Errorf("vehicle stored = %+v", v)
	}
	if len(store.booked) != 1 || store.booked[0] != "A1" {
		t.Errorf("booking did not follow registration: %v", store.booked)
	}
	if !strings.Contains(reply, "A1") {
		t.Errorf("confirmation = %q", reply)
	}
	if sess.State != StateIdle {
		t.Errorf("state after flow = %s", sess.State)
	}
}

func TestVehicleChoiceNewEntersRegistration(t *testing.T) {
	store := newFakeStore()
	store.vehicles = []models.Vehicle{{VehicleID: "v1", EmpID: "e1", RegistrationNo: "KA01AB1234"}}
	engine, sess := newTestEngine(store)
	ctx := context.Background()

	engine.HandleMessage(ctx, sess, "book A1")
	engine.HandleMessage(ctx, sess, "new")
	if sess.State != StateAddVehicle || sess.AddStep != StepRegNo {
		t.Errorf("state = %s/%s after \"new\"", sess.State, sess.AddStep)
	}
	if sess.PendingSlot != "A1" {
		t.Errorf("pending slot lost: %q", sess.PendingSlot)
	}
}

func TestLeaveReleasesActiveBooking(t *testing.T) {
	store := newFakeStore()
	store.active = &models.Booking{BookingID: "b7", SlotName: "A1", Building: "HQ", ExpiryTime: time.Now().Add(time.Hour)}
	engine, sess := newTestEngine(store)

	reply := engine.HandleMessage(context.Background(), sess, "I'm leaving")
	if !strings.Contains(reply, "Released slot A1") {
		t.Errorf("release reply = %q", reply)
	}
	if len(store.left) != 1 || store.left[0] != "b7" {
		t.Errorf("left = %v", store.left)
	}
}

func TestLeaveWithoutBookingIsIdempotent(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "leave")
	if !strings.Contains(reply, "no active booking") {
		t.Errorf("reply = %q", reply)
	}
}

func TestBookRaceMapsToFriendlyReply(t *testing.T) {
	store := newFakeStore()
	store.vehicles = []models.Vehicle{{VehicleID: "v1", EmpID: "e1", RegistrationNo: "KA01AB1234"}}
	store.bookErr = bookings.ErrSlotTaken
	engine, sess := newTestEngine(store)
	ctx := context.Background()

	engine.HandleMessage(ctx, sess, "book A1")
	reply := engine.HandleMessage(ctx, sess, "KA01AB1234")
	if !strings.Contains(reply, "someone else") {
		t.Errorf("race reply = %q", reply)
	}
	if sess.State != StateIdle {
		t.Errorf("state after failed booking = %s", sess.State)
	}
}

func TestBookWithoutSlotListsClaimable(t *testing.T) {
	engine, sess := newTestEngine(newFakeStore())
	reply := engine.HandleMessage(context.Background(), sess, "book")
	if !strings.Contains(reply, "A1") {
		t.Errorf("claimable list missing: %q", reply)
	}
	if sess.State != StateIdle {
		t.Errorf("state = %s", sess.State)
	}
}
