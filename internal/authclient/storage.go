package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/redis/go-redis/v9"
)

// SessionStorage persists the current session between runs. Load returns
// (nil, nil) when nothing is stored.
type SessionStorage interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultSessionPath is <user config dir>/stockroom/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stockroom", "session.json"), nil
}

func (f *FileStorage) Load(_ context.Context) (*models.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &s, nil
}

func (f *FileStorage) Save(_ context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStorage) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStorage keeps the session under a single key, for clients that share
// a login across machines.
type RedisStorage struct {
	client redisKV
	key    string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, key string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, key: key, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return &s, nil
}

func (r *RedisStorage) Save(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// MemoryStorage keeps the session in process only.
type MemoryStorage struct {
	mu sync.Mutex
	s  *models.Session
}

func (m *MemoryStorage) Load(context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryStorage) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
