package employees

import (
	"testing"

	"parkly/models"
)

// apply mirrors what the AddVehicle transaction does to the collection.
func apply(existing []models.Vehicle, v models.Vehicle, isDefault bool, demoted []string) []models.Vehicle {
	cleared := make(map[string]bool, len(demoted))
	for _, id := range demoted {
		cleared[id] = true
	}
	out := make([]models.Vehicle, 0, len(existing)+1)
	for _, e := range existing {
		if cleared[e.VehicleID] {
			e.IsDefault = false
		}
		out = append(out, e)
	}
	v.IsDefault = isDefault
	return append(out, v)
}

func countDefaults(list []models.Vehicle) int {
	n := 0
	for _, v := range list {
		if v.IsDefault {
			n++
		}
	}
	return n
}

func TestDefaultChanges(t *testing.T) {
	garage := []models.Vehicle{
		{VehicleID: "v1", EmpID: "e1", RegistrationNo: "KA01AB1234", IsDefault: true},
		{VehicleID: "v2", EmpID: "e1", RegistrationNo: "KA02CD5678"},
	}

	cases := []struct {
		name        string
		existing    []models.Vehicle
		isDefault   bool
		wantDefault bool
		wantDemoted []string
	}{
		{"first vehicle is always default", nil, false, true, nil},
		{"first vehicle flagged default", nil, true, true, nil},
		{"non-default add changes nothing", garage, false, false, nil},
		{"default add demotes the old default", garage, true, true, []string{"v1"}},
	}

	for _, c := range cases {
		isDefault, demoted := defaultChanges(c.existing, c.isDefault)
		if isDefault != c.wantDefault {
			t.Errorf("%s: isDefault = %v, want %v", c.name, isDefault, c.wantDefault)
		}
		if len(demoted) != len(c.wantDemoted) {
			t.Errorf("%s: demoted = %v, want %v", c.name, demoted, c.wantDemoted)
			continue
		}
		for i := range demoted {
			if demoted[i] != c.wantDemoted[i] {
				t.Errorf("%s: demoted = %v, want %v", c.name, demoted, c.wantDemoted)
			}
		}

		after := apply(c.existing, models.Vehicle{VehicleID: "vnew", EmpID: "e1"}, isDefault, demoted)
		if n := countDefaults(after); n != 1 {
			t.Errorf("%s: %d defaults after add, want exactly 1", c.name, n)
		}
	}
}
