package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/dtm/pkg/adapters/redis"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func haltProgram() *domain.Program {
	p := &domain.Program{States: 2, Tapes: 0, Start: 0, Halting: []int{1}, Accepting: []int{1}}
	p.Add(0, '~', []domain.Symbol{'~'}, 1, domain.Stay, []domain.Symbol{'~'}, []domain.Move{domain.Stay})
	return p
}

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunProgramStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short-lived", haltProgram()))

	names, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	// Key expiration in miniredis
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	// The index is pruned against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "halt", haltProgram()))

	assert.True(t, mr.Exists("custom:app:halt"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	// Programs are stored in the text format.
	raw, err := mr.Get("custom:app:halt")
	require.NoError(t, err)
	assert.Equal(t, "2\n0\n0\n1\n1\n0 ~ ~ 1 0 ~ 0\n", raw)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set("dtm:program:broken", "not a program"))

	_, err := store.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrMalformedProgram)
}

func TestRedisStore_Alphabet(t *testing.T) {
	_, client := newClient(t)
	binary := domain.Alphabet{First: '0', Last: '1', Blank: '_'}
	store := redis.NewFromClient(client, redis.WithAlphabet(binary))
	ctx := context.Background()

	p := &domain.Program{States: 2, Tapes: 0, Start: 0, Halting: []int{1}, Accepting: []int{1}}
	p.Add(0, '_', []domain.Symbol{'_'}, 1, domain.Stay, []domain.Symbol{'1'}, []domain.Move{domain.Stay})
	require.NoError(t, store.Save(ctx, "one", p))

	loaded, err := store.Load(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, p.Transitions, loaded.Transitions)
}
