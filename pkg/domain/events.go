package domain

import (
	"context"
	"time"
)

// Mode names the query a run answers.
type Mode string

const (
	ModeSimulate Mode = "simulate"
	ModeCheck    Mode = "check"
)

// HaltReason explains why a run stopped.
type HaltReason string

const (
	HaltHalted       HaltReason = "halted"        // reached a halting, non-accepting state
	HaltAccepted     HaltReason = "accepted"      // reached an accepting state
	HaltNoTransition HaltReason = "no_transition" // no rule matched the configuration
	HaltCanceled     HaltReason = "canceled"      // the caller's context ended the run
)

// RunEvent is emitted once when a run starts.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Mode      Mode      `json:"mode"`
	Word      string    `json:"word"`
}

// StepEvent is emitted after every fired transition.
type StepEvent struct {
	RunID string `json:"run_id"`
	Step  int    `json:"step"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// HaltEvent is emitted once when a run stops.
type HaltEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Mode      Mode          `json:"mode"`
	Steps     int           `json:"steps"`
	State     int           `json:"state"`
	Class     Class         `json:"class"`
	Reason    HaltReason    `json:"reason"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnHalt     func(context.Context, *HaltEvent)
}

// Merge returns hooks that call h first and then o.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: chain(h.OnRunStart, o.OnRunStart),
		OnStep:     chain(h.OnStep, o.OnStep),
		OnHalt:     chain(h.OnHalt, o.OnHalt),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
