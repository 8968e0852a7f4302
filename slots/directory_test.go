package slots

import (
	"reflect"
	"testing"

	"parkly/models"
)

func sampleSlots() []models.ParkingSlot {
	return []models.ParkingSlot{
		{SlotID: "s4", SlotName: "A4", Building: "HQ", Floor: "1", Status: models.SlotUnbooked},
		{SlotID: "s1", SlotName: "A1", Building: "HQ", Floor: "1", Status: models.SlotFree},
		{SlotID: "s3", SlotName: "A3", Building: "HQ", Floor: "1", Status: models.SlotBooked},
		{SlotID: "s2", SlotName: "A2", Building: "HQ", Floor: "1", Status: models.SlotFree},
		{SlotID: "s5", SlotName: "B1", Building: "HQ", Floor: "2", Status: models.SlotReserved},
		{SlotID: "s6", SlotName: "B2", Building: "HQ", Floor: "2", Status: models.SlotNamed},
		{SlotID: "s7", SlotName: "B3", Building: "HQ", Floor: "2", Status: models.SlotUnbooked},
	}
}

func names(list []Entry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.DisplayName)
	}
	return out
}

func TestPartitionBuckets(t *testing.T) {
	dir := Partition("HQ", sampleSlots())

	f1, ok := dir.Floors["1"]
	if !ok {
		t.Fatal("floor 1 missing")
	}
	if got := names(f1.Free); !reflect.DeepEqual(got, []string{"A1", "A2"}) {
		t.Errorf("floor 1 free = %v", got)
	}
	if got := names(f1.Unauthorized); !reflect.DeepEqual(got, []string{"A4"}) {
		t.Errorf("floor 1 unauthorized = %v", got)
	}
	if got := names(f1.Booked); !reflect.DeepEqual(got, []string{"A3"}) {
		t.Errorf("floor 1 booked = %v", got)
	}

	f2 := dir.Floors["2"]
	// Reserved and Named both count as booked.
	if got := names(f2.Booked); !reflect.DeepEqual(got, []string{"B1", "B2"}) {
		t.Errorf("floor 2 booked = %v", got)
	}

	if got := dir.Levels(); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("Levels() = %v", got)
	}
	if dir.FreeCount() != 2 {
		t.Errorf("FreeCount() = %d", dir.FreeCount())
	}
	if got := dir.UnauthorizedNames(); !reflect.DeepEqual(got, []string{"A4", "B3"}) {
		t.Errorf("UnauthorizedNames() = %v", got)
	}
}

func TestDirectoryLookup(t *testing.T) {
	dir := Partition("HQ", sampleSlots())

	e, floor, bucket, ok := dir.Lookup("A4")
	if !ok || e.SlotID != "s4" || floor != "1" || bucket != BucketUnauthorized {
		t.Errorf("Lookup(A4) = %+v, %q, %q, %v", e, floor, bucket, ok)
	}

	_, _, bucket, ok = dir.Lookup("A1")
	if !ok || bucket != BucketFree {
		t.Errorf("Lookup(A1) bucket = %q, ok = %v", bucket, ok)
	}

	_, _, bucket, ok = dir.Lookup("B2")
	if !ok || bucket != BucketBooked {
		t.Errorf("Lookup(B2) bucket = %q, ok = %v", bucket, ok)
	}

	if _, _, _, ok := dir.Lookup("Z9"); ok {
		t.Error("Lookup(Z9) found a slot that does not exist")
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats("HQ", sampleSlots())

	if st.Total != 7 {
		t.Errorf("Total = %d", st.Total)
	}
	if st.ByStatus["Free"] != 2 || st.ByStatus["Unbooked"] != 2 || st.ByStatus["Booked"] != 1 {
		t.Errorf("ByStatus = %v", st.ByStatus)
	}
	f2 := st.ByFloor["2"]
	if f2.Total != 3 || f2.Free != 0 || f2.Booked != 2 {
		t.Errorf("floor 2 stats = %+v", f2)
	}
}
