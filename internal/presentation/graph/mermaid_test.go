package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/presentation/graph"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endsInB() *domain.Program {
	p := &domain.Program{States: 3, Tapes: 0, Start: 0, Halting: []int{1, 2}, Accepting: []int{2}}
	blank := []domain.Symbol{'~'}
	stay := []domain.Move{domain.Stay}
	p.Add(0, 'a', blank, 0, domain.Right, blank, stay)
	p.Add(0, 'b', blank, 0, domain.Right, blank, stay)
	p.Add(0, '~', blank, 1, domain.Left, blank, stay)
	p.Add(1, 'b', blank, 2, domain.Stay, blank, stay)
	return p
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		program  *domain.Program
		contains []string
		excludes []string
	}{
		{
			name:    "State Shapes",
			program: endsInB(),
			contains: []string{
				"graph TD\n",
				"q0((\"q0\"))",
				"q1[[\"q1\"]]",
				"q2(((\"q2\")))",
			},
		},
		{
			name: "Halting Start Is Annotated",
			program: &domain.Program{
				States: 1, Tapes: 0, Start: 0, Halting: []int{0},
			},
			contains: []string{"q0[[\"q0 <br/> start\"]]"},
		},
		{
			name:    "Parallel Rules Share An Edge",
			program: endsInB(),
			contains: []string{
				"q0 -- \"a,~ / +1,~0 <br/> b,~ / +1,~0\" --> q0",
				"q0 -- \"~,~ / -1,~0\" --> q1",
				"q1 -- \"b,~ / 0,~0\" --> q2",
			},
		},
		{
			name: "Quotes Are Escaped",
			program: func() *domain.Program {
				p := &domain.Program{States: 1, Tapes: 0, Start: 0}
				p.Add(0, '"', []domain.Symbol{'~'}, 0, domain.Right, []domain.Symbol{'"'}, []domain.Move{domain.Right})
				return p
			}(),
			contains: []string{"q0 -- \"',~ / +1,'+1\" --> q0"},
		},
		{
			name:     "No Overlay Without Run",
			program:  endsInB(),
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.program, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(endsInB(), &graph.GraphOverlay{
		VisitedStates: []int{0, 0, 1, 7},
		CurrentState:  1,
		HasCurrent:    true,
	})

	assert.Contains(t, got, "classDef visited")
	assert.Equal(t, 1, strings.Count(got, "class q0 visited;"))
	assert.Contains(t, got, "class q1 current;")
	assert.NotContains(t, got, "q7")
}

func TestTrace(t *testing.T) {
	p := endsInB()
	tests := []struct {
		word    string
		visited []int
		current int
	}{
		{word: "ab", visited: []int{0, 0, 0, 1, 2}, current: 2},
		{word: "ba", visited: []int{0, 0, 0, 1}, current: 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			var tr graph.Trace
			eng, err := dtm.New(p, dtm.WithLifecycleHooks(tr.Hooks(p.Start)))
			require.NoError(t, err)

			_, err = eng.Check(context.Background(), tt.word)
			require.NoError(t, err)

			overlay := tr.Overlay()
			assert.Equal(t, tt.visited, overlay.VisitedStates)
			assert.Equal(t, tt.current, overlay.CurrentState)
			assert.True(t, overlay.HasCurrent)
		})
	}
}
