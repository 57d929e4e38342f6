package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MaxChallengeAttempts is how many wrong codes a challenge survives.
const MaxChallengeAttempts = 5

// ErrChallengeNotFound is returned for unknown, expired or consumed challenges.
var ErrChallengeNotFound = errors.New("admin challenge not found")

// Challenge is the pending second step of an admin login.
type Challenge struct {
	Email    string
	Attempts int
}

// ChallengeStore keeps admin login challenges between the two steps.
type ChallengeStore interface {
	Create(ctx context.Context, id, email string, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Challenge, error)
	// RecordFailure increments the failed attempt counter and returns it.
	RecordFailure(ctx context.Context, id string) (int, error)
	// Consume deletes the challenge, returning ErrChallengeNotFound when it
	// was already gone so that a challenge can be redeemed only once.
	Consume(ctx context.Context, id string) error
}

// =============================================================================
// Redis
// =============================================================================

const challengeKeyPrefix = "admin:challenge:"

// incrementIfExists avoids resurrecting an expired challenge without a TTL.
var incrementIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// RedisChallengeStore keeps challenges in redis hashes that expire on their own.
type RedisChallengeStore struct {
	client redis.UniversalClient
}

// NewRedisChallengeStore wraps client.
func NewRedisChallengeStore(client redis.UniversalClient) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (s *RedisChallengeStore) Create(ctx context.Context, id, email string, ttl time.Duration) error {
	key := challengeKeyPrefix + id
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "email", email, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisChallengeStore) Get(ctx context.Context, id string) (*Challenge, error) {
	fields, err := s.client.HGetAll(ctx, challengeKeyPrefix+id).Result()
	if err != nil {
		return nil, err
	}
	email := fields["email"]
	if email == "" {
		return nil, ErrChallengeNotFound
	}
	attempts, _ := strconv.Atoi(fields["attempts"])
	return &Challenge{Email: email, Attempts: attempts}, nil
}

func (s *RedisChallengeStore) RecordFailure(ctx context.Context, id string) (int, error) {
	n, err := incrementIfExists.Run(ctx, s.client, []string{challengeKeyPrefix + id}).Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrChallengeNotFound
	}
	return n, nil
}

func (s *RedisChallengeStore) Consume(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, challengeKeyPrefix+id).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

// =============================================================================
// In-process fallback
// =============================================================================

type memoryChallenge struct {
	Challenge
	expiresAt time.Time
}

// MemoryChallengeStore is used when redis is not configured. Challenges do
// not survive a restart and are not shared between instances.
type MemoryChallengeStore struct {
	mu    sync.Mutex
	items map[string]*memoryChallenge
	now   func() time.Time
}

// NewMemoryChallengeStore creates an empty store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{items: make(map[string]*memoryChallenge), now: time.Now}
}

func (s *MemoryChallengeStore) Create(_ context.Context, id, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.items[id] = &memoryChallenge{Challenge: Challenge{Email: email}, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryChallengeStore) Get(_ context.Context, id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.live(id)
	if !ok {
		return nil, ErrChallengeNotFound
	}
	c := item.Challenge
	return &c, nil
}

func (s *MemoryChallengeStore) RecordFailure(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.live(id)
	if !ok {
		return 0, ErrChallengeNotFound
	}
	item.Attempts++
	return item.Attempts, nil
}

func (s *MemoryChallengeStore) Consume(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(id); !ok {
		return ErrChallengeNotFound
	}
	delete(s.items, id)
	return nil
}

// live must be called with mu held.
func (s *MemoryChallengeStore) live(id string) (*memoryChallenge, bool) {
	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if !s.now().Before(item.expiresAt) {
		delete(s.items, id)
		return nil, false
	}
	return item, true
}

// sweep drops expired challenges; must be called with mu held.
func (s *MemoryChallengeStore) sweep() {
	now := s.now()
	for id, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, id)
		}
	}
}
