package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/aretw0/dtm/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ProgramStore using Redis. Programs are kept in
// their text form, one string key per program plus a sorted-set index.
type Store struct {
	client   *backend.Client
	prefix   string
	ttl      time.Duration
	alphabet domain.Alphabet
}

type Option func(*Store)

// WithTTL sets the expiration for stored programs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for programs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithAlphabet sets the alphabet programs are parsed against on Load.
func WithAlphabet(a domain.Alphabet) Option {
	return func(s *Store) {
		s.alphabet = a
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:   client,
		prefix:   "dtm:program:",
		ttl:      0, // No expiration by default
		alphabet: domain.DefaultAlphabet,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the program to Redis.
func (s *Store) Save(ctx context.Context, name string, p *domain.Program) error {
	src := text.FormatString(p)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), src, s.ttl)

	// Score = expiry; programs without TTL never leave the index on their own.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and parses the program.
func (s *Store) Load(ctx context.Context, name string) (*domain.Program, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProgramNotFound, name)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	p, err := text.ParseString(val, s.alphabet)
	if err != nil {
		return nil, fmt.Errorf("stored program %s: %w", name, err)
	}
	p.Name = name
	return p, nil
}

// Delete removes the program.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored program names, pruning expired entries from the index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired programs: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
