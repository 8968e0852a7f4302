package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	SlotsCollection         *mongo.Collection
	BookingsCollection      *mongo.Collection
	EmployeesCollection     *mongo.Collection
	VehiclesCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
	BuildingsCollection     *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	SlotsCollection = Client.Database("parkdb").Collection("ParkingSlots")
	BookingsCollection = Client.Database("parkdb").Collection("bookings")
	EmployeesCollection = Client.Database("parkdb").Collection("employees")
	VehiclesCollection = Client.Database("parkdb").Collection("vehicles")
	NotificationsCollection = Client.Database("parkdb").Collection("notifications")
	BuildingsCollection = Client.Database("parkdb").Collection("Buildings")
}

// WithTxn runs fn inside a MongoDB session transaction. Multi-document
// mutations (booking create, booking release, default-vehicle flip) go through
// here so a slot/booking pair never observably diverges.
func WithTxn(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn)
}
