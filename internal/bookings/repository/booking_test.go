package repository

import (
	"context"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"evshare/pkg/client"
	"evshare/pkg/config"
	"evshare/pkg/logger"
)

// Connecting is lazy in the driver, so a client can be built without a
// running server. Good enough to verify repository construction wires the
// shared client and database name.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("mongo.Connect() error: %v", err)
	}
	t.Cleanup(func() {
		_ = mongoClient.Disconnect(context.Background())
	})

	return &config.Config{
		MongoDatabaseName: "evshare_test",
		Log:               logger.New(logger.Config{Level: "error", Output: io.Discard}),
		Client:            &client.Client{Mongo: mongoClient},
	}
}

func TestNewMongoBookingRepository(t *testing.T) {
	if repo := NewMongoBookingRepository(testConfig(t)); repo == nil {
		t.Fatal("NewMongoBookingRepository() returned nil")
	}
}

func TestNewBookingLockRepository(t *testing.T) {
	if repo := NewBookingLockRepository(testConfig(t)); repo == nil {
		t.Fatal("NewBookingLockRepository() returned nil")
	}
}

func TestNewMongoGroupReader(t *testing.T) {
	if reader := NewMongoGroupReader(testConfig(t)); reader == nil {
		t.Fatal("NewMongoGroupReader() returned nil")
	}
}
