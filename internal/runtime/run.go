package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/dtm/pkg/domain"
	"github.com/google/uuid"
)

// checkInterval is the number of steps between context polls.
const checkInterval = 1024

// Stats summarizes the most recent run of a Machine.
type Stats struct {
	RunID  string
	Mode   domain.Mode
	Steps  int
	State  int
	Class  domain.Class
	Reason domain.HaltReason
}

func newRunID() string {
	return uuid.NewString()
}

// Transform runs word to completion and returns the trimmed content of the
// output tape. It never returns if the program diverges on word.
func (m *Machine) Transform(word string) string {
	out, _ := m.TransformContext(context.Background(), word)
	return out
}

// Decide runs word to completion and reports whether an accepting state was
// reached. A start state that is already accepting accepts without firing
// any transition.
func (m *Machine) Decide(word string) bool {
	ok, _ := m.DecideContext(context.Background(), word)
	return ok
}

// TransformContext is Transform with cancellation. The context is polled
// every checkInterval steps; on cancellation the machine is reset and the
// context error is returned.
func (m *Machine) TransformContext(ctx context.Context, word string) (string, error) {
	m.prepare(word)
	defer m.reset()

	if err := m.run(ctx, domain.ModeSimulate, word); err != nil {
		return "", err
	}
	return Trim(m.tapes[0].String(), m.alphabet.Blank), nil
}

// DecideContext is Decide with cancellation.
func (m *Machine) DecideContext(ctx context.Context, word string) (bool, error) {
	m.prepare(word)
	defer m.reset()

	if err := m.run(ctx, domain.ModeCheck, word); err != nil {
		return false, err
	}
	return m.active.Class == domain.Accepting, nil
}

// LastRun returns statistics of the most recent run.
func (m *Machine) LastRun() Stats {
	return m.last
}

func (m *Machine) prepare(word string) {
	m.input.Load(word)
	m.reset()
}

// run fires transitions until the active state stops running or no rule
// matches the current configuration.
func (m *Machine) run(ctx context.Context, mode domain.Mode, word string) error {
	started := time.Now()
	id := m.newID()

	m.logger.Debug("run started", "run_id", id, "mode", mode, "word", word, "state", m.active.ID)
	if m.hooks.OnRunStart != nil {
		m.hooks.OnRunStart(ctx, &domain.RunEvent{
			Timestamp: started,
			RunID:     id,
			Mode:      mode,
			Word:      word,
		})
	}

	var (
		steps  int
		reason domain.HaltReason
		err    error
	)
	for {
		if m.active.Class == domain.Accepting {
			reason = domain.HaltAccepted
			break
		}
		if m.active.Class == domain.Halting {
			reason = domain.HaltHalted
			break
		}
		if steps%checkInterval == 0 {
			if cerr := ctx.Err(); cerr != nil {
				reason = domain.HaltCanceled
				err = fmt.Errorf("run %s stopped after %d steps: %w", id, steps, cerr)
				break
			}
		}

		t, ok := m.active.Lookup(m.input.Read(), m.readHeads())
		if !ok {
			reason = domain.HaltNoTransition
			break
		}

		from := m.active.ID
		m.apply(t)
		m.active = m.states[t.Target]
		steps++

		if m.hooks.OnStep != nil {
			m.hooks.OnStep(ctx, &domain.StepEvent{RunID: id, Step: steps, From: from, To: t.Target})
		}
	}

	m.last = Stats{
		RunID:  id,
		Mode:   mode,
		Steps:  steps,
		State:  m.active.ID,
		Class:  m.active.Class,
		Reason: reason,
	}

	m.logger.Debug("run halted",
		"run_id", id,
		"mode", mode,
		"steps", steps,
		"state", m.active.ID,
		"reason", reason,
	)
	if m.hooks.OnHalt != nil {
		m.hooks.OnHalt(ctx, &domain.HaltEvent{
			Timestamp: time.Now(),
			RunID:     id,
			Mode:      mode,
			Steps:     steps,
			State:     m.active.ID,
			Class:     m.active.Class,
			Reason:    reason,
			Duration:  time.Since(started),
		})
	}
	return err
}

func (m *Machine) readHeads() []domain.Symbol {
	for i, t := range m.tapes {
		m.heads[i] = t.Read()
	}
	return m.heads
}

// apply writes before moving on every work tape, then moves the input head.
func (m *Machine) apply(t *domain.Transition) {
	for i, tape := range m.tapes {
		tape.Write(t.Write[i])
		tape.Move(t.Moves[i])
	}
	m.input.Move(t.InputMove)
}
