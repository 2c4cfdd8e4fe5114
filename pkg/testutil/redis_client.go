package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory implementation of xredis.Client.
type MockRedisClient struct {
	values map[string]string
	sets   map[string]map[string]bool
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		values: make(map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	for _, k := range key {
		delete(m.values, k)
		delete(m.sets, k)
	}

	return nil
}

func (m *MockRedisClient) SAdd(ctx context.Context, key string, members ...string) error {
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]bool)
	}

	for _, member := range members {
		m.sets[key][member] = true
	}

	return nil
}

func (m *MockRedisClient) SRem(ctx context.Context, key string, members ...string) error {
	for _, member := range members {
		delete(m.sets[key], member)
	}

	return nil
}

func (m *MockRedisClient) SCard(ctx context.Context, key string) (uint64, error) {
	return uint64(len(m.sets[key])), nil
}

func (m *MockRedisClient) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return m.sets[key][member], nil
}

func (m *MockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	counter, err := strconv.ParseInt(m.values[key], 10, 64)
	if err != nil && m.values[key] != "" {
		return 0, err
	}

	counter++
	m.values[key] = strconv.FormatInt(counter, 10)
	return counter, nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.values[key] = string(b)
	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	value, ok := m.values[key]
	if !ok {
		return redis.Nil
	}

	return json.Unmarshal([]byte(value), v)
}
