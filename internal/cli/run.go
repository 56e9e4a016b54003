package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/dtm/pkg/domain"
)

// RunOptions contains the configuration for a one-shot simulate or check.
type RunOptions struct {
	ProgramPath string
	Word        string
	Mode        domain.Mode
	JSON        bool
	// Timeout bounds the run; zero means no limit.
	Timeout time.Duration
}

// RunResult is the JSON form of a one-shot run.
type RunResult struct {
	Program  string            `json:"program"`
	Word     string            `json:"word"`
	Output   *string           `json:"output,omitempty"`
	Accepted *bool             `json:"accepted,omitempty"`
	Steps    int               `json:"steps"`
	State    int               `json:"state"`
	Reason   domain.HaltReason `json:"reason"`
	RunID    string            `json:"run_id"`
}

// Execute loads the program, runs the word once and writes the result to w:
// the output tape for simulate, accept or reject for check.
func Execute(ctx context.Context, cfg Config, opts RunOptions, w io.Writer) error {
	eng, err := OpenEngine(opts.ProgramPath, cfg)
	if err != nil {
		return err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res := RunResult{Program: eng.Name, Word: opts.Word}
	var line string
	switch opts.Mode {
	case domain.ModeSimulate:
		out, err := eng.Simulate(ctx, opts.Word)
		if err != nil {
			return err
		}
		res.Output = &out
		line = out
	case domain.ModeCheck:
		accepted, err := eng.Check(ctx, opts.Word)
		if err != nil {
			return err
		}
		res.Accepted = &accepted
		line = "reject"
		if accepted {
			line = "accept"
		}
	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}

	stats := eng.LastRun()
	res.Steps, res.State, res.Reason, res.RunID = stats.Steps, stats.State, stats.Reason, stats.RunID

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
