package slots

import (
	"context"

	"parkly/models"

	"go.mongodb.org/mongo-driver/bson"

	"parkly/db"
)

// Stats is the dashboard occupancy rollup for one building.
type Stats struct {
	Building string                `json:"building"`
	Total    int                   `json:"total"`
	ByStatus map[string]int        `json:"by_status"`
	ByFloor  map[string]FloorStats `json:"by_floor"`
}

type FloorStats struct {
	Total  int `json:"total"`
	Free   int `json:"free"`
	Booked int `json:"booked"`
}

// ComputeStats aggregates already-fetched slots.
func ComputeStats(building string, list []models.ParkingSlot) Stats {
	st := Stats{
		Building: building,
		ByStatus: make(map[string]int),
		ByFloor:  make(map[string]FloorStats),
	}
	for _, s := range list {
		st.Total++
		st.ByStatus[string(s.Status)]++

		fs := st.ByFloor[s.Floor]
		fs.Total++
		switch s.Status {
		case models.SlotFree:
			fs.Free++
		case models.SlotBooked, models.SlotReserved, models.SlotNamed:
			fs.Booked++
		}
		st.ByFloor[s.Floor] = fs
	}
	return st
}

// LoadStats fetches a building's slots and aggregates them.
func LoadStats(ctx context.Context, building string) (Stats, error) {
	cur, err := db.SlotsCollection.Find(ctx, bson.M{"building": building})
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)

	var list []models.ParkingSlot
	for cur.Next(ctx) {
		var s models.ParkingSlot
		if err := cur.Decode(&s); err != nil {
			continue
		}
		list = append(list, s)
	}
	if err := cur.Err(); err != nil {
		return Stats{}, err
	}
	return ComputeStats(building, list), nil
}
