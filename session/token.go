package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "session")

// TokenStore keeps the token of a signed in worker so that other processes
// share the session. Watch reports every change, an empty token meaning the
// worker signed out.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Watch(ctx context.Context) (<-chan string, error)
}

// MemoryTokenStore shares a token inside one process
type MemoryTokenStore struct {
	sync.Mutex
	token    string
	watchers map[chan string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		watchers: make(map[chan string]struct{}),
	}
}

func (s *MemoryTokenStore) Get(_ context.Context) (string, error) {
	s.Lock()
	defer s.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string) error {
	s.Lock()
	defer s.Unlock()
	s.token = token
	s.notify(token)
	return nil
}

func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	return s.Set(ctx, "")
}

func (s *MemoryTokenStore) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 1)

	s.Lock()
	s.watchers[ch] = struct{}{}
	s.Unlock()

	go func() {
		<-ctx.Done()
		s.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.Unlock()
	}()
	return ch, nil
}

// notify keeps only the latest value for a slow watcher
func (s *MemoryTokenStore) notify(token string) {
	for ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- token
	}
}

// RedisTokenStore shares a token between processes through redis
type RedisTokenStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisTokenStore keeps the token under key. A zero ttl keeps it until cleared.
func NewRedisTokenStore(client *redis.Client, key string, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (s *RedisTokenStore) channel() string {
	return s.key + ":changes"
}

func (s *RedisTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (s *RedisTokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel(), token).Err()
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel(), "").Err()
}

func (s *RedisTokenStore) Watch(ctx context.Context) (<-chan string, error) {
	pubsub := s.client.Subscribe(ctx, s.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					log.Warn("token subscription closed")
					return
				}
				select {
				case ch <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
