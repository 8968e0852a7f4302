package models

import (
	"fmt"
	"strings"
)

// Stored documents reference slots and vehicles in three historical shapes:
// a bare id, a "/"-delimited collection path, or a DBRef-style document.
// Everything is normalized to the canonical id at the ingress boundary;
// nothing downstream branches on representation.

type VehicleRef struct {
	EmpID     string
	VehicleID string
}

func (v VehicleRef) String() string {
	return v.EmpID + "/" + v.VehicleID
}

// BelongsTo reports whether the referenced vehicle is owned by the employee.
func (v VehicleRef) BelongsTo(empID string) bool {
	return v.EmpID == empID
}

// ParseVehicleRef accepts "empid/vehicleid" or the long form
// "employees/empid/vehicles/vehicleid".
func ParseVehicleRef(raw string) (VehicleRef, error) {
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	switch len(parts) {
	case 2:
		return VehicleRef{EmpID: parts[0], VehicleID: parts[1]}, nil
	case 4:
		if parts[0] == "employees" && parts[2] == "vehicles" {
			return VehicleRef{EmpID: parts[1], VehicleID: parts[3]}, nil
		}
	}
	return VehicleRef{}, fmt.Errorf("malformed vehicle reference %q", raw)
}

// NormalizeSlotRef resolves a slot reference in any of its stored shapes to the
// bare slot id. Unknown shapes yield an empty string so callers can filter the
// record out instead of failing the whole read.
func NormalizeSlotRef(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		if i := strings.LastIndex(v, "/"); i >= 0 {
			return v[i+1:]
		}
		return v
	case map[string]interface{}:
		for _, key := range []string{"slotid", "id", "$id"} {
			if id, ok := v[key].(string); ok {
				return NormalizeSlotRef(id)
			}
		}
	}
	return ""
}
