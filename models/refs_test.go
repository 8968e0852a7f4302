package models

import "testing"

func TestParseVehicleRef(t *testing.T) {
	cases := []struct {
		in      string
		emp     string
		vehicle string
		ok      bool
	}{
		{"e123/v456", "e123", "v456", true},
		{"/e123/v456/", "e123", "v456", true},
		{"employees/e123/vehicles/v456", "e123", "v456", true},
		{"v456", "", "", false},
		{"a/b/c", "", "", false},
		{"drivers/e123/vehicles/v456", "", "", false},
		{"", "", "", false},
	}

	for _, c := range cases {
		ref, err := ParseVehicleRef(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseVehicleRef(%q): unexpected error %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseVehicleRef(%q): expected error, got %+v", c.in, ref)
			}
			continue
		}
		if ref.EmpID != c.emp || ref.VehicleID != c.vehicle {
			t.Errorf("ParseVehicleRef(%q) = %+v, want %s/%s", c.in, ref, c.emp, c.vehicle)
		}
	}
}

func TestVehicleRefRoundTrip(t *testing.T) {
	ref := VehicleRef{EmpID: "e1", VehicleID: "v9"}
	if ref.String() != "e1/v9" {
		t.Fatalf("String() = %q", ref.String())
	}
	if !ref.BelongsTo("e1") {
		t.Fatal("BelongsTo(e1) = false")
	}
	if ref.BelongsTo("e2") {
		t.Fatal("BelongsTo(e2) = true")
	}
	back, err := ParseVehicleRef(ref.String())
	if err != nil || back != ref {
		t.Fatalf("round trip = %+v, %v", back, err)
	}
}

func TestNormalizeSlotRef(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"s42", "s42"},
		{"slots/s42", "s42"},
		{"buildings/b1/slots/s42", "s42"},
		{map[string]interface{}{"slotid": "s42"}, "s42"},
		{map[string]interface{}{"id": "slots/s42"}, "s42"},
		{map[string]interface{}{"$id": "s42"}, "s42"},
		{map[string]interface{}{"other": "s42"}, ""},
		{42, ""},
		{nil, ""},
	}

	for _, c := range cases {
		if got := NormalizeSlotRef(c.in); got != c.want {
			t.Errorf("NormalizeSlotRef(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
