package cache

import (
	"context"
	"testing"
	"time"

	"creatorhub/internal/config"
	"creatorhub/internal/listing"
)

var _ listing.Cache = (*Redis)(nil)

func TestRedis_UnconfiguredIsNoop(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, nil)

	var out []string
	hit, err := r.GetJSON(context.Background(), "postings:list", &out)
	if hit || err != nil {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}
	if err := r.SetJSON(context.Background(), "postings:list", []string{"a"}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache: %v", err)
	}
	if err := r.Delete(context.Background(), "postings:list"); err != nil {
		t.Fatalf("delete on disabled cache: %v", err)
	}
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("ping must report unavailability")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRedis_UnreachableFallsBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// port 1 is reserved and refuses connections
	r := NewRedis(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, nil)
	if !r.isUnavailable() {
		t.Fatal("expected cache disabled after failed ping")
	}
	if r.ttl != defaultTTL {
		t.Fatalf("expected default ttl, got %v", r.ttl)
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	if hit, err := r.GetJSON(context.Background(), "k", new([]int)); hit || err != nil {
		t.Fatalf("nil cache must miss, got hit=%v err=%v", hit, err)
	}
}
