package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on narrow sub-interfaces (ISP); the facade exists for
// wiring at the composition root.
type Store interface {
	Pinger
	KVStore
	HashStore
	SetStore
	TxWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// HashStore provides hash-based record operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, val int64) (int64, error)
	HDel(ctx context.Context, key string, fields ...string) error
}

// SetStore provides unordered-set operations.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// SetItem names a set key and the members of one SADD/SREM write.
type SetItem struct {
	Key     string
	Members []string
}

// HashItem names a hash key and the fields of one HSET write.
type HashItem struct {
	Key    string
	Fields map[string]string
}

// Write is a single mutation inside an atomic batch. Exactly one field is set.
type Write struct {
	HSet *HashItem
	SAdd *SetItem
	SRem *SetItem
	Del  string
}

// TxWriter executes a write batch atomically: either every write commits or
// none do.
type TxWriter interface {
	TxWrite(ctx context.Context, writes []Write) error
}
