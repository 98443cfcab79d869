//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// These tests need live servers. Run with:
//
//	GRIDBOARD_TEST_REDIS_URL=redis://localhost:6379/15 \
//	GRIDBOARD_TEST_MONGO_URI=mongodb://localhost:27017 \
//	go test -tags integration ./pkg/store/...

func TestRedisStore(t *testing.T) {
	url := os.Getenv("GRIDBOARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GRIDBOARD_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prefix := "gridboard-test-" + time.Now().Format("150405.000") + ":"
	s, err := NewRedisStore(ctx, RedisConfig{URL: url, Prefix: prefix})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("GRIDBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GRIDBOARD_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coll := "boards_" + time.Now().Format("150405")
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "gridboard_test", Collection: coll})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()
	testStore(t, s)
}
