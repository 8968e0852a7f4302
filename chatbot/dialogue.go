package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"parkly/bookings"
	"parkly/models"
	"parkly/slots"
)

const transientReply = "Something went wrong on my end, please try again."

// Engine drives the conversation. It owns no state of its own; everything
// conversational lives in the Session passed through each call.
type Engine struct {
	store    Store
	classify Classifier
}

func NewEngine(store Store, classifier Classifier) *Engine {
	return &Engine{store: store, classify: classifier}
}

// HandleMessage advances the conversation by one user message and returns the
// bot's reply. The session is mutated in place; the caller persists it.
func (e *Engine) HandleMessage(ctx context.Context, sess *Session, text string) string {
	emp, err := e.store.Employee(ctx, sess.EmpID)
	if err != nil {
		return "I can't find your employee record, sorry."
	}

	switch sess.State {
	case StateAddVehicle:
		return e.handleAddStep(ctx, sess, emp, text)
	case StateAwaitingVehicle:
		return e.handleVehicleChoice(ctx, sess, emp, text)
	default:
		return e.handleIdle(ctx, sess, emp, text)
	}
}

func (e *Engine) handleIdle(ctx context.Context, sess *Session, emp models.Employee, text string) string {
	dir, err := e.store.Directory(ctx, emp.Building)
	if err != nil {
		return transientReply
	}

	c, _ := e.classify.Classify(ctx, text, dir.FreeNames(), dir.UnauthorizedNames())

	switch c.Intent {
	case IntentGreet:
		return fmt.Sprintf("Hi %s! You can ask me to book a slot (\"park at A4\"), release your booking (\"leave\"), or list what's open.", firstName(emp))

	case IntentList:
		free := dir.FreeNames()
		claimable := dir.UnauthorizedNames()
		if len(free) == 0 && len(claimable) == 0 {
			return fmt.Sprintf("No slots to show in %s right now.", emp.Building)
		}
		return fmt.Sprintf("In %s, free: %s. Occupied without a booking (claimable): %s.",
			emp.Building, nameList(free), nameList(claimable))

	case IntentBook:
		return e.startBooking(ctx, sess, emp, dir, c.Slot)

	case IntentLeave:
		return e.handleLeave(ctx, emp)

	case IntentExtend:
		if _, busy, err := e.store.ActiveBooking(ctx, emp.EmpID); err != nil {
			return transientReply
		} else if !busy {
			return "You have no active booking to extend."
		}
		return "Bookings always run until 18:00 the same day and can't be extended past that."

	case IntentReport:
		return fmt.Sprintf("Right now %s has %d free slots and %d claimable ones. The full 7-day usage report is on the dashboard's Reports page.",
			emp.Building, dir.FreeCount(), len(dir.UnauthorizedNames()))

	case IntentManage:
		vehicles, err := e.store.Vehicles(ctx, emp.EmpID)
		if err != nil {
			return transientReply
		}
		if len(vehicles) == 0 {
			return "You have no registered vehicles yet. Say \"book <slot>\" and I'll register one on the way."
		}
		return "Your vehicles: " + vehicleList(vehicles)

	default:
		return "Sorry, I didn't get that. Try \"park at A4\", \"leave\", or \"show free slots\"."
	}
}

// startBooking runs the idle-state guards, then moves to vehicle selection or
// straight into vehicle registration when the employee owns none.
func (e *Engine) startBooking(ctx context.Context, sess *Session, emp models.Employee, dir *slots.Directory, slotName string) string {
	if slotName == "" {
		claimable := dir.UnauthorizedNames()
		if len(claimable) == 0 {
			return fmt.Sprintf("Which slot? There are currently no claimable slots in %s.", emp.Building)
		}
		return "Which slot? Claimable right now: " + nameList(claimable)
	}

	if b, busy, err := e.store.ActiveBooking(ctx, emp.EmpID); err != nil {
		return transientReply
	} else if busy {
		return fmt.Sprintf("You already have slot %s booked until %s. Say \"leave\" first if you want to switch.",
			b.SlotName, b.ExpiryTime.Format("15:04"))
	}

	_, _, bucket, found := dir.Lookup(slotName)
	if !found {
		return fmt.Sprintf("I can't find slot %s in %s.", slotName, emp.Building)
	}
	switch bucket {
	case slots.BucketFree:
		return fmt.Sprintf("Slot %s is free, no vehicle is parked there, so there's nothing to claim. Only occupied unbooked slots can be booked.", slotName)
	case slots.BucketBooked:
		return fmt.Sprintf("Slot %s is already booked by someone else.", slotName)
	}

	vehicles, err := e.store.Vehicles(ctx, emp.EmpID)
	if err != nil {
		return transientReply
	}

	if len(vehicles) == 0 {
		sess.State = StateAddVehicle
		sess.AddStep = StepRegNo
		sess.PendingSlot = slotName
		sess.Partial = models.Vehicle{EmpID: emp.EmpID}
		return fmt.Sprintf("You have no registered vehicles, let's add one for slot %s. What's the registration number?", slotName)
	}

	sess.State = StateAwaitingVehicle
	sess.PendingSlot = slotName
	return fmt.Sprintf("Which vehicle for slot %s? %s. Pick a number or registration, or say \"new\" to add one.",
		slotName, vehicleList(vehicles))
}

func (e *Engine) handleVehicleChoice(ctx context.Context, sess *Session, emp models.Employee, text string) string {
	choice := strings.ToLower(strings.TrimSpace(text))

	if choice == "new" || strings.Contains(choice, "add") {
		sess.State = StateAddVehicle
		sess.AddStep = StepRegNo
		sess.Partial = models.Vehicle{EmpID: emp.EmpID}
		return "Alright, a new vehicle. What's the registration number?"
	}

	vehicles, err := e.store.Vehicles(ctx, emp.EmpID)
	if err != nil {
		return transientReply
	}

	var picked *models.Vehicle
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(vehicles) {
		picked = &vehicles[n-1]
	} else {
		for i := range vehicles {
			if strings.EqualFold(vehicles[i].RegistrationNo, strings.TrimSpace(text)) ||
				strings.EqualFold(vehicles[i].VehicleID, strings.TrimSpace(text)) {
				picked = &vehicles[i]
				break
			}
		}
	}
	if picked == nil {
		return "I didn't catch which vehicle. Pick a number or registration, or say \"new\"."
	}

	return e.finalizeBooking(ctx, sess, emp, *picked)
}

// handleAddStep consumes the answer to the current AddVehicle step. Whatever
// the employee typed is the answer; even "cancel" or "hi" is stored verbatim.
func (e *Engine) handleAddStep(ctx context.Context, sess *Session, emp models.Employee, text string) string {
	answer := strings.TrimSpace(text)

	switch sess.AddStep {
	case StepRegNo:
		sess.Partial.RegistrationNo = answer
		sess.AddStep = StepModel
		return "Model?"
	case StepModel:
		sess.Partial.Model = answer
		sess.AddStep = StepColor
		return "Color?"
	case StepColor:
		sess.Partial.Color = answer
		sess.AddStep = StepType
		return "Vehicle type? (car / bike / ev)"
	case StepType:
		sess.Partial.VehicleType = answer
		sess.AddStep = StepIsDefault
		return "Make this your default vehicle? (yes/no)"
	case StepIsDefault:
		sess.Partial.IsDefault = isYes(answer)

		vehicle, err := e.store.AddVehicle(ctx, sess.Partial)
		if err != nil {
			sess.State = StateIdle
			sess.AddStep = ""
			sess.PendingSlot = ""
			sess.Partial = models.Vehicle{}
			return transientReply
		}

		if sess.PendingSlot == "" {
			sess.State = StateIdle
			sess.AddStep = ""
			sess.Partial = models.Vehicle{}
			return fmt.Sprintf("Vehicle %s registered.", vehicle.RegistrationNo)
		}
		return e.finalizeBooking(ctx, sess, emp, vehicle)
	default:
		// Unreachable step values reset the conversation rather than wedging it.
		sess.State = StateIdle
		sess.AddStep = ""
		return "Let's start over. What would you like to do?"
	}
}

func (e *Engine) finalizeBooking(ctx context.Context, sess *Session, emp models.Employee, vehicle models.Vehicle) string {
	slotName := sess.PendingSlot

	sess.State = StateIdle
	sess.AddStep = ""
	sess.PendingSlot = ""
	sess.Partial = models.Vehicle{}

	dir, err := e.store.Directory(ctx, emp.Building)
	if err != nil {
		return transientReply
	}

	ref := models.VehicleRef{EmpID: emp.EmpID, VehicleID: vehicle.VehicleID}
	res, err := e.store.Book(ctx, dir, slotName, ref)
	switch {
	case err == nil:
		return fmt.Sprintf("Done! Slot %s on %s is yours with %s until 18:00 today. Booking id %s.",
			res.SlotName, res.Floor, vehicle.RegistrationNo, res.BookingID)
	case errors.Is(err, bookings.ErrAlreadyBooked):
		return "You already have an active booking, so I can't book another slot."
	case errors.Is(err, bookings.ErrSlotFree):
		return fmt.Sprintf("Slot %s is free, only occupied unbooked slots can be claimed.", slotName)
	case errors.Is(err, bookings.ErrSlotTaken):
		return fmt.Sprintf("Slot %s got booked by someone else in the meantime.", slotName)
	case errors.Is(err, bookings.ErrSlotNotFound):
		return fmt.Sprintf("Slot %s is no longer listed in %s.", slotName, emp.Building)
	default:
		return transientReply
	}
}

func (e *Engine) handleLeave(ctx context.Context, emp models.Employee) string {
	b, busy, err := e.store.ActiveBooking(ctx, emp.EmpID)
	if err != nil {
		return transientReply
	}
	if !busy {
		return "You have no active booking to release."
	}

	if err := e.store.Leave(ctx, b); err != nil {
		return transientReply
	}

	// Full reload keeps the index honest with the store after the release.
	if dir, err := e.store.Directory(ctx, emp.Building); err == nil {
		return fmt.Sprintf("Released slot %s, it is free again. %s now has %d free slots.",
			b.SlotName, emp.Building, dir.FreeCount())
	}
	return fmt.Sprintf("Released slot %s, it is free again.", b.SlotName)
}

func firstName(emp models.Employee) string {
	if fields := strings.Fields(emp.FullName); len(fields) > 0 {
		return fields[0]
	}
	return emp.Username
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func vehicleList(vehicles []models.Vehicle) string {
	parts := make([]string, 0, len(vehicles))
	for i, v := range vehicles {
		label := fmt.Sprintf("%d) %s %s", i+1, v.RegistrationNo, v.Model)
		if v.IsDefault {
			label += " (default)"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "yeah", "yep", "true", "sure", "ok", "okay":
		return true
	}
	return false
}
