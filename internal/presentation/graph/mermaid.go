package graph

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/dtm/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []int
	CurrentState  int
	// HasCurrent distinguishes state 0 from "no current state".
	HasCurrent bool
}

// GenerateMermaid produces a Mermaid flowchart for a program.
// It applies semantic styling:
// - Start: ((Circle))
// - Accepting: (((Double circle)))
// - Halting: [[Subroutine]]
// - Default: [Rectangle]
// Parallel transitions between the same pair of states share one edge whose
// label lists every rule on its own line.
func GenerateMermaid(p *domain.Program, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for id := 0; id < p.States; id++ {
		opener, closer := "[", "]"
		switch {
		case p.Class(id) == domain.Accepting:
			opener, closer = "(((", ")))"
		case p.Class(id) == domain.Halting:
			opener, closer = "[[", "]]"
		case id == p.Start:
			opener, closer = "((", "))"
		}
		label := fmt.Sprintf("q%d", id)
		if id == p.Start && opener != "((" {
			label += " <br/> start"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(id), opener, label, closer)
	}

	type edge struct{ from, to int }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range p.Transitions {
		e := edge{t.Source, t.Target}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], ruleLabel(t))
	}
	for _, e := range order {
		label := strings.Join(labels[e], " <br/> ")
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(e.from), label, nodeID(e.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on the light fills regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.VisitedStates {
			if seen[id] || id < 0 || id >= p.States {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
		}
		if overlay.HasCurrent {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// Trace records the states a run passes through as lifecycle hooks.
type Trace struct {
	visited []int
	current int
	started bool
}

// Hooks returns hooks that fill the trace. Attach them to a single run.
func (tr *Trace) Hooks(start int) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			if !tr.started {
				tr.visited = append(tr.visited, e.From)
				tr.started = true
			}
			tr.visited = append(tr.visited, e.To)
			tr.current = e.To
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			if !tr.started {
				tr.visited = append(tr.visited, start)
				tr.started = true
			}
			tr.current = e.State
		},
	}
}

// Overlay converts the trace into an overlay.
func (tr *Trace) Overlay() *GraphOverlay {
	return &GraphOverlay{
		VisitedStates: slices.Clone(tr.visited),
		CurrentState:  tr.current,
		HasCurrent:    tr.started,
	}
}

func nodeID(id int) string {
	return fmt.Sprintf("q%d", id)
}

// ruleLabel renders a transition as "input,reads / writes,moves", with
// double quotes swapped out since they would close the Mermaid label.
func ruleLabel(t domain.Transition) string {
	reads := []string{t.Input.String()}
	for _, s := range t.Read {
		reads = append(reads, s.String())
	}
	effects := []string{t.InputMove.String()}
	for i, s := range t.Write {
		effects = append(effects, s.String()+t.Moves[i].String())
	}
	label := strings.Join(reads, ",") + " / " + strings.Join(effects, ",")
	return strings.ReplaceAll(label, "\"", "'")
}
