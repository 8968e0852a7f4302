package slots

import (
	"context"
	"sort"
	"time"

	"parkly/db"
	"parkly/models"
	"parkly/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// Entry is one slot as the booking surfaces consume it.
type Entry struct {
	DisplayName string `json:"display_name"`
	SlotID      string `json:"slotid"`
}

// FloorBuckets holds the three status buckets for one floor, each ordered by
// display name. Only the unauthorized bucket is eligible for new bookings.
type FloorBuckets struct {
	Free         []Entry `json:"free"`
	Unauthorized []Entry `json:"unauthorized"`
	Booked       []Entry `json:"booked"`
}

// Directory is the per-building slot index, grouped by floor.
type Directory struct {
	Building string                   `json:"building"`
	Floors   map[string]*FloorBuckets `json:"floors"`
	LoadedAt time.Time                `json:"loaded_at"`
}

// Bucket names as reported by Lookup.
const (
	BucketFree         = "free"
	BucketUnauthorized = "unauthorized"
	BucketBooked       = "booked"
)

// Partition groups already-fetched slots by floor and status bucket.
func Partition(building string, list []models.ParkingSlot) *Directory {
	dir := &Directory{
		Building: building,
		Floors:   make(map[string]*FloorBuckets),
		LoadedAt: time.Now(),
	}

	for _, s := range list {
		fb, ok := dir.Floors[s.Floor]
		if !ok {
			fb = &FloorBuckets{}
			dir.Floors[s.Floor] = fb
		}
		e := Entry{DisplayName: s.SlotName, SlotID: s.SlotID}
		switch s.Status {
		case models.SlotFree:
			fb.Free = append(fb.Free, e)
		case models.SlotUnbooked:
			fb.Unauthorized = append(fb.Unauthorized, e)
		case models.SlotBooked, models.SlotReserved, models.SlotNamed:
			fb.Booked = append(fb.Booked, e)
		}
	}

	for _, fb := range dir.Floors {
		sortEntries(fb.Free)
		sortEntries(fb.Unauthorized)
		sortEntries(fb.Booked)
	}
	return dir
}

func sortEntries(list []Entry) {
	sort.Slice(list, func(i, j int) bool { return list[i].DisplayName < list[j].DisplayName })
}

// Load fetches the slots of one building and partitions them. Exact building
// match is the default; loose substring matching is kept only for legacy
// "Building, City" records.
func Load(ctx context.Context, building string, loose bool) (*Directory, error) {
	filter := bson.M{}
	if !loose {
		filter["building"] = building
	}

	cur, err := db.SlotsCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.ParkingSlot
	for cur.Next(ctx) {
		var s models.ParkingSlot
		if err := cur.Decode(&s); err != nil {
			continue
		}
		if loose && !utils.BuildingMatches(s.Building, building, true) {
			continue
		}
		list = append(list, s)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return Partition(building, list), nil
}

// Lookup resolves a display name to its entry, floor and bucket.
func (d *Directory) Lookup(displayName string) (Entry, string, string, bool) {
	for floor, fb := range d.Floors {
		for bucket, list := range map[string][]Entry{
			BucketFree:         fb.Free,
			BucketUnauthorized: fb.Unauthorized,
			BucketBooked:       fb.Booked,
		} {
			for _, e := range list {
				if e.DisplayName == displayName {
					return e, floor, bucket, true
				}
			}
		}
	}
	return Entry{}, "", "", false
}

// Levels returns the floor names in stable order.
func (d *Directory) Levels() []string {
	levels := make([]string, 0, len(d.Floors))
	for f := range d.Floors {
		levels = append(levels, f)
	}
	sort.Strings(levels)
	return levels
}

// FreeCount sums the free bucket across floors.
func (d *Directory) FreeCount() int {
	n := 0
	for _, fb := range d.Floors {
		n += len(fb.Free)
	}
	return n
}

// UnauthorizedNames lists the bookable slot names, for the chat prompt.
func (d *Directory) UnauthorizedNames() []string {
	var names []string
	for _, fb := range d.Floors {
		for _, e := range fb.Unauthorized {
			names = append(names, e.DisplayName)
		}
	}
	sort.Strings(names)
	return names
}

// FreeNames lists the free slot names, for the chat prompt.
func (d *Directory) FreeNames() []string {
	var names []string
	for _, fb := range d.Floors {
		for _, e := range fb.Free {
			names = append(names, e.DisplayName)
		}
	}
	sort.Strings(names)
	return names
}
