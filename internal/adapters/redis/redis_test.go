package redis

import (
	"context"
	"testing"

	"quickgrab-listing-feed/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := Connect(config.RedisConfig{Addr: server.Addr()})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "listing:probe", "1", 0).Err(); err != nil {
		t.Errorf("Expected a usable client, got %v", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	if _, err := Connect(config.RedisConfig{Addr: addr}); err == nil {
		t.Error("Expected an error for an unreachable server")
	}
}
