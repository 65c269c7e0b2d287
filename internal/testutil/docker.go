package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"flightsurety-service/internal/infrastructure/persistence"

	"github.com/ory/dockertest/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPool returns a docker pool, skipping the test when docker is unreachable
func newPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not connect to docker: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not available: %s", err)
	}
	pool.MaxWait = 60 * time.Second
	return pool
}

func purgeOnCleanup(t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) {
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})
}

// MongoURI runs a throwaway MongoDB container and returns its connection string
func MongoURI(t *testing.T) string {
	t.Helper()
	pool := newPool(t)

	resource, err := pool.Run("mongo", "7", nil)
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}
	purgeOnCleanup(t, pool, resource)

	uri := "mongodb://" + resource.GetHostPort("27017/tcp")
	err = pool.Retry(func() error {
		client, err := persistence.NewMongoClient(context.Background(), persistence.MongoOptions{
			URI:     uri,
			Timeout: 5 * time.Second,
		})
		if err != nil {
			return err
		}
		return client.Disconnect(context.Background())
	})
	if err != nil {
		t.Fatalf("Could not connect to resource: %s", uri)
	}
	return uri
}

// MongoStart runs a throwaway MongoDB container and returns a database on it
func MongoStart(t *testing.T) *mongo.Database {
	t.Helper()
	uri := MongoURI(t)

	client, err := persistence.NewMongoClient(context.Background(), persistence.MongoOptions{URI: uri})
	if err != nil {
		t.Fatalf("Could not connect to resource: %s", err)
	}
	t.Cleanup(func() {
		client.Disconnect(context.Background())
	})
	return persistence.GetDatabase(client, "flightsurety_test")
}

// PostgresStart runs a throwaway PostgreSQL container and returns a GORM handle on it
func PostgresStart(t *testing.T) *gorm.DB {
	t.Helper()
	pool := newPool(t)

	resource, err := pool.Run("postgres", "16", []string{
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=flightsurety",
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}
	purgeOnCleanup(t, pool, resource)

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=secret dbname=flightsurety sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	if err != nil {
		t.Fatalf("Could not connect to resource: %s", dsn)
	}
	return db
}
