package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Data is everything kept server-side for one session.
type Data struct {
	Identity Identity `json:"identity"`
	Flashes  []Flash  `json:"flashes,omitempty"`
}

// Store persists session data by session id. Get returns nil, nil for an
// unknown or expired id.
type Store interface {
	Get(ctx context.Context, sid string) (*Data, error)
	Set(ctx context.Context, sid string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

// RedisStore keeps sessions as JSON values under "session:<sid>".
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{redis: client}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{redis: client}
}

func (s *RedisStore) key(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Data, error) {
	raw, err := s.redis.Get(ctx, s.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &data, nil
}

func (s *RedisStore) Set(ctx context.Context, sid string, data *Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.redis.Set(ctx, s.key(sid), raw, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.redis.Del(ctx, s.key(sid)).Err()
}

// Client exposes the connection for other Redis users such as the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.redis
}

func (s *RedisStore) Close() error {
	return s.redis.Close()
}

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Used when no Redis is
// configured and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// memorySweepInterval bounds how often Set scans for expired entries.
const memorySweepInterval = time.Minute

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sid]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, sid)
		return nil, nil
	}
	data := entry.data
	data.Flashes = append([]Flash(nil), entry.data.Flashes...)
	return &data, nil
}

func (s *MemoryStore) Set(_ context.Context, sid string, data *Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= memorySweepInterval {
		s.sweep(now)
	}

	copied := *data
	copied.Flashes = append([]Flash(nil), data.Flashes...)
	s.entries[sid] = memoryEntry{data: copied, expiresAt: now.Add(ttl)}
	return nil
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	for sid, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, sid)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sid)
	return nil
}
