package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/observability"
)

// Config carries the settings shared by every command that builds an engine.
type Config struct {
	Alphabet domain.Alphabet
	Logger   *slog.Logger
	Debug    bool
	// Hooks are attached to every engine in addition to the debug hooks.
	Hooks domain.LifecycleHooks
}

// EngineOptions translates the config into engine options.
func (c Config) EngineOptions() []dtm.Option {
	opts := []dtm.Option{dtm.WithAlphabet(c.alphabet())}

	hooks := c.Hooks
	if c.Logger != nil {
		opts = append(opts, dtm.WithLogger(c.Logger))
		if c.Debug {
			hooks = observability.LoggingHooks(c.Logger).Merge(hooks)
		}
	}
	return append(opts, dtm.WithLifecycleHooks(hooks))
}

func (c Config) alphabet() domain.Alphabet {
	if c.Alphabet == (domain.Alphabet{}) {
		return domain.DefaultAlphabet
	}
	return c.Alphabet
}

// OpenEngine loads the program file at path with standard CLI conventions.
func OpenEngine(path string, cfg Config, extra ...dtm.Option) (*dtm.Engine, error) {
	eng, err := dtm.Open(path, append(cfg.EngineOptions(), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error loading machine: %w", err)
	}
	return eng, nil
}
