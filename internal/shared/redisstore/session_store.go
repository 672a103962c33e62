package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/ports"
	"whats-my-order/internal/shared/config"
	"whats-my-order/internal/shared/logger"
)

// Connect builds a Redis client from cfg and verifies connectivity.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, strconv.Itoa(cfg.Redis.Port)),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info(ctx, "redis_connected", "Connected to Redis session store", nil)
	return client, nil
}

// SessionStore keeps one JSON-marshalled session per customer under a sliding TTL.
// A missing key is not an error: Get returns a fresh init session, which keeps
// the get-or-create contract in one place.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore wires a SessionStore with the configured idle TTL.
func NewSessionStore(client *redis.Client, cfg *config.Config) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    time.Duration(cfg.Redis.SessionTTL) * time.Minute,
	}
}

func (s *SessionStore) Get(ctx context.Context, customerID string) (*conversation.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return conversation.NewSession(customerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var sess conversation.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	if sess.Cart == nil {
		sess.Cart = make(map[string]conversation.CartLine)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *conversation.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.CustomerID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, sessionKey(customerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(customerID string) string {
	return "session:" + customerID
}
