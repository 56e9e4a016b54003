package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/dtm"
	loamAdapter "github.com/aretw0/dtm/pkg/adapters/loam"
	"github.com/aretw0/dtm/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/dtm/pkg/adapters/redis"
	"github.com/aretw0/dtm/pkg/adapters/sqlite"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store is an opened program source together with its cleanup.
type Store struct {
	ports.ProgramSource
	// Library is set when the source is a Markdown program library.
	Library *loamAdapter.Library
	close   func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Writable returns the source as a ProgramStore when it accepts writes.
func (s *Store) Writable() (ports.ProgramStore, bool) {
	ps, ok := s.ProgramSource.(ports.ProgramStore)
	return ps, ok
}

// OpenStore resolves a store location:
//
//	memory            in-process map (default)
//	redis://host/db   Redis, any URL go-redis accepts
//	sqlite:path       SQLite database file
//	anything else     directory of Markdown program documents (read-only)
func OpenStore(ctx context.Context, location string, alphabet domain.Alphabet) (*Store, error) {
	switch {
	case location == "" || location == "memory":
		return &Store{ProgramSource: memory.NewStore()}, nil

	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		opt, err := backend.ParseURL(location)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis unreachable: %w", err)
		}
		rs := redisAdapter.NewFromClient(client, redisAdapter.WithAlphabet(alphabet))
		return &Store{ProgramSource: rs, close: rs.Close}, nil

	case strings.HasPrefix(location, "sqlite:"):
		ss, err := sqlite.Open(ctx, strings.TrimPrefix(location, "sqlite:"), sqlite.WithAlphabet(alphabet))
		if err != nil {
			return nil, err
		}
		return &Store{ProgramSource: ss, close: ss.Close}, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("program library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("program library %s is not a directory", location)
	}
	lib, err := loamAdapter.Open(location, loamAdapter.WithAlphabet(alphabet))
	if err != nil {
		return nil, err
	}
	return &Store{ProgramSource: lib, Library: lib}, nil
}

// Seed saves every program file (.tm, .yaml, .yml) found directly in dir.
// Programs are named after their file. It returns the stored names.
func Seed(ctx context.Context, store ports.ProgramStore, dir string, alphabet domain.Alphabet, logger *slog.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}

	var names []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !isProgramFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := dtm.ReadProgram(path, alphabet)
		if err == nil {
			err = p.Validate(alphabet)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		name := dtm.ProgramName(path)
		if err := store.Save(ctx, name, p); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", name, err))
			continue
		}
		if logger != nil {
			logger.Debug("program seeded", "program", name, "path", path)
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, errors.Join(errs...)
}

func isProgramFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tm", ".yaml", ".yml":
		return true
	}
	return false
}
