package cache

import (
	"context"
	"testing"
	"time"

	"resumeqa/internal/config"
	"resumeqa/internal/errors"

	"github.com/redis/go-redis/v9"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.CacheConfig
		wantAddr string
		wantDB   int
		wantPass string
		wantErr  bool
	}{
		{
			name:     "address fields",
			cfg:      config.CacheConfig{Addr: "cache:6379", Password: "pw", DB: 2, PoolSize: 4},
			wantAddr: "cache:6379",
			wantDB:   2,
			wantPass: "pw",
		},
		{
			name:     "url wins",
			cfg:      config.CacheConfig{URL: "redis://:secret@redis.internal:6380/3", Addr: "ignored:1"},
			wantAddr: "redis.internal:6380",
			wantDB:   3,
			wantPass: "secret",
		},
		{name: "bad url", cfg: config.CacheConfig{URL: "http://nope"}, wantErr: true},
		{name: "nothing", cfg: config.CacheConfig{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("redisOptions() error = %v", err)
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB || opts.Password != tt.wantPass {
				t.Errorf("options = addr %s db %d password %q", opts.Addr, opts.DB, opts.Password)
			}
		})
	}
}

func TestRedisOptionsTimeouts(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{
		Addr:         "localhost:6379",
		PoolSize:     7,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if opts.PoolSize != 7 || opts.DialTimeout != 2*time.Second || opts.ReadTimeout != time.Second {
		t.Errorf("options = %+v", opts)
	}
}

func TestKey(t *testing.T) {
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), time.Hour, "resumeqa:parsed:", errors.NewNopLogger())
	defer c.Close()

	if got := c.Key("abc123"); got != "resumeqa:parsed:abc123" {
		t.Errorf("Key() = %q", got)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 on loopback refuses connections.
	_, err := NewRedisCache(ctx, config.CacheConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond}, errors.NewNopLogger())
	if !errors.IsType(err, errors.ErrorTypeNetwork) {
		t.Errorf("NewRedisCache() error = %v, want network error", err)
	}
}
