package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go-travel-verifier/models"

	"github.com/redis/go-redis/v9"
)

// Should be safe to use in concurrency
type SessionStorage interface {
	// Store the session under its id. Storing an existing id overwrites
	// the previous record.
	StoreSession(session models.VerificationSession) error

	// Retrieve the session for the given id, or an error when it is not
	// there.
	RetrieveSession(id string) (models.VerificationSession, error)

	// Remove the session; a missing id is an error.
	RemoveSession(id string) error
}

// ------------------------------------------------------------------------------

type RedisSessionStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisSessionStorage(client *redis.Client, namespace string) *RedisSessionStorage {
	return &RedisSessionStorage{client: client, namespace: namespace}
}

func createSessionKey(namespace, id string) string {
	return fmt.Sprintf("%s:session:%s", namespace, id)
}

// SessionTimeout bounds how long an abandoned flow lingers in storage.
const SessionTimeout time.Duration = 24 * time.Hour

func (s *RedisSessionStorage) StoreSession(session models.VerificationSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.Id, err)
	}
	ctx := context.Background()
	return s.client.Set(ctx, createSessionKey(s.namespace, session.Id), payload, SessionTimeout).Err()
}

func (s *RedisSessionStorage) RetrieveSession(id string) (models.VerificationSession, error) {
	ctx := context.Background()
	payload, err := s.client.Get(ctx, createSessionKey(s.namespace, id)).Result()
	if err != nil {
		return models.VerificationSession{}, err
	}

	var session models.VerificationSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return models.VerificationSession{}, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return session, nil
}

func (s *RedisSessionStorage) RemoveSession(id string) error {
	ctx := context.Background()
	return s.client.Del(ctx, createSessionKey(s.namespace, id)).Err()
}

// ------------------------------------------------------------------------------

type InMemorySessionStorage struct {
	Sessions map[string]models.VerificationSession
	mutex    sync.Mutex
}

func NewInMemorySessionStorage() *InMemorySessionStorage {
	return &InMemorySessionStorage{
		Sessions: make(map[string]models.VerificationSession),
	}
}

func (s *InMemorySessionStorage) StoreSession(session models.VerificationSession) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Sessions[session.Id] = session
	return nil
}

func (s *InMemorySessionStorage) RetrieveSession(id string) (models.VerificationSession, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if session, ok := s.Sessions[id]; ok {
		return session, nil
	}
	return models.VerificationSession{}, fmt.Errorf("failed to find session for %s", id)
}

func (s *InMemorySessionStorage) RemoveSession(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.Sessions[id]; ok {
		delete(s.Sessions, id)
		return nil
	}
	return fmt.Errorf("failed to remove session for %s, because it wasn't there", id)
}
