package bookings

import (
	"testing"

	"parkly/models"
)

func TestMatchVehicleExact(t *testing.T) {
	match := matchVehicle(models.VehicleRef{EmpID: "e1", VehicleID: "v4"})

	if !match(models.Booking{VehicleID: "e1/v4"}) {
		t.Error("exact ref did not match")
	}
	// v4 is a prefix of v42; they are different vehicles.
	if match(models.Booking{VehicleID: "e1/v42"}) {
		t.Error("matched a different vehicle with a shared id prefix")
	}
	if match(models.Booking{VehicleID: "e2/v4"}) {
		t.Error("matched another employee's vehicle")
	}
}

func TestMatchEmployee(t *testing.T) {
	match := matchEmployee("e1")

	if !match(models.Booking{VehicleID: "e1/v42"}) {
		t.Error("own vehicle did not match")
	}
	if match(models.Booking{VehicleID: "e11/v1"}) {
		t.Error("matched an employee with a shared id prefix")
	}
	if match(models.Booking{VehicleID: "e2/v1"}) {
		t.Error("matched another employee")
	}
}
