package chatbot

import (
	"context"

	"parkly/bookings"
	"parkly/db"
	"parkly/employees"
	"parkly/models"
	"parkly/mq"
	"parkly/slots"

	"go.mongodb.org/mongo-driver/bson"
)

// Store is the dialogue engine's view of the backing data. Handlers use the
// Mongo-backed implementation; tests swap in a fake.
type Store interface {
	Employee(ctx context.Context, empID string) (models.Employee, error)
	Directory(ctx context.Context, building string) (*slots.Directory, error)
	ActiveBooking(ctx context.Context, empID string) (models.Booking, bool, error)
	Book(ctx context.Context, dir *slots.Directory, slotName string, ref models.VehicleRef) (bookings.Result, error)
	Leave(ctx context.Context, b models.Booking) error
	Vehicles(ctx context.Context, empID string) ([]models.Vehicle, error)
	AddVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
}

type mongoStore struct{}

// NewStore returns the production Store.
func NewStore() Store { return mongoStore{} }

func (mongoStore) Employee(ctx context.Context, empID string) (models.Employee, error) {
	var emp models.Employee
	err := db.EmployeesCollection.FindOne(ctx, bson.M{"empid": empID}).Decode(&emp)
	return emp, err
}

func (mongoStore) Directory(ctx context.Context, building string) (*slots.Directory, error) {
	return slots.Load(ctx, building, false)
}

func (mongoStore) ActiveBooking(ctx context.Context, empID string) (models.Booking, bool, error) {
	return bookings.ActiveForEmployee(ctx, empID)
}

func (mongoStore) Book(ctx context.Context, dir *slots.Directory, slotName string, ref models.VehicleRef) (bookings.Result, error) {
	res, err := bookings.Book(ctx, dir, slotName, ref)
	if err == nil {
		mq.Emit(ctx, mq.Event{Name: mq.BookingCreated, Building: dir.Building, SlotID: res.SlotID, BookingID: res.BookingID, EmpID: ref.EmpID})
	}
	return res, err
}

func (mongoStore) Leave(ctx context.Context, b models.Booking) error {
	err := bookings.Leave(ctx, b)
	if err == nil {
		mq.Emit(ctx, mq.Event{Name: mq.BookingReleased, Building: b.Building, SlotID: b.SlotID, BookingID: b.BookingID})
	}
	return err
}

func (mongoStore) Vehicles(ctx context.Context, empID string) ([]models.Vehicle, error) {
	return employees.ListVehicles(ctx, empID)
}

func (mongoStore) AddVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	return employees.AddVehicle(ctx, v)
}
