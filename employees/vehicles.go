package employees

import (
	"context"

	"parkly/db"
	"parkly/models"
	"parkly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func genVehicleID() string {
	return "v" + utils.GenerateRandomDigitString(12)
}

// defaultChanges decides the default flag for a vehicle being added: the
// first vehicle always becomes the default, and a new default demotes every
// existing one. Returns the final flag and the ids to clear.
func defaultChanges(existing []models.Vehicle, isDefault bool) (bool, []string) {
	if len(existing) == 0 {
		return true, nil
	}
	if !isDefault {
		return false, nil
	}
	var demoted []string
	for _, e := range existing {
		if e.IsDefault {
			demoted = append(demoted, e.VehicleID)
		}
	}
	return true, demoted
}

// AddVehicle persists a vehicle for an employee. The demotions and the insert
// commit in the same transaction so exactly one default survives.
func AddVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	if v.VehicleID == "" {
		v.VehicleID = genVehicleID()
	}

	existing, err := ListVehicles(ctx, v.EmpID)
	if err != nil {
		return models.Vehicle{}, err
	}
	isDefault, demoted := defaultChanges(existing, v.IsDefault)
	v.IsDefault = isDefault

	_, err = db.WithTxn(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if len(demoted) > 0 {
			if _, err := db.VehiclesCollection.UpdateMany(sessCtx,
				bson.M{"empid": v.EmpID, "vehicleid": bson.M{"$in": demoted}},
				bson.M{"$set": bson.M{"is_default": false}},
			); err != nil {
				return nil, err
			}
		}
		return db.VehiclesCollection.InsertOne(sessCtx, v)
	})
	if err != nil {
		return models.Vehicle{}, err
	}
	return v, nil
}

// SetDefault flips the default flag to the given vehicle, clearing the old
// default in the same transaction.
func SetDefault(ctx context.Context, empID, vehicleID string) error {
	_, err := db.WithTxn(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := db.VehiclesCollection.UpdateMany(sessCtx,
			bson.M{"empid": empID, "is_default": true},
			bson.M{"$set": bson.M{"is_default": false}},
		); err != nil {
			return nil, err
		}
		res, err := db.VehiclesCollection.UpdateOne(sessCtx,
			bson.M{"empid": empID, "vehicleid": vehicleID},
			bson.M{"$set": bson.M{"is_default": true}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		return nil, nil
	})
	return err
}

// ListVehicles returns an employee's vehicles, default first.
func ListVehicles(ctx context.Context, empID string) ([]models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "registration_no", Value: 1}})
	cur, err := db.VehiclesCollection.Find(ctx, bson.M{"empid": empID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Vehicle
	for cur.Next(ctx) {
		var v models.Vehicle
		if err := cur.Decode(&v); err != nil {
			continue
		}
		list = append(list, v)
	}
	return list, cur.Err()
}
