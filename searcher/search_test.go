package searcher

import (
	"math"
	"strings"
	"testing"

	"gridwars/experiments/metrics"
	"gridwars/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var algorithms = []Algorithm{Minimax, AlphaBeta, Expectimax, MaxN}

func TestMinimax(t *testing.T) {
	t.Run("maximizing over the rival's minimum", func(t *testing.T) {
		root := branch(0,
			branch(0, leaf(3), leaf(12), leaf(8)),
			branch(0, leaf(2), leaf(4), leaf(6)),
			branch(0, leaf(14), leaf(5), leaf(2)),
		)
		s := NewMinimax(WithEvaluationFn(treeValue))

		decision, err := s.Decide(twoAgents(root), 2, 0)

		require.NoError(t, err)
		require.Equal(t, 3.0, decision.Score)
		require.Equal(t, game.Action("a0"), decision.Action)
	})

	t.Run("evaluating inner nodes when depth runs out", func(t *testing.T) {
		root := branch(0,
			branch(1, leaf(100)),
			branch(9, leaf(-100)),
		)
		s := NewMinimax(WithEvaluationFn(treeValue))

		decision, err := s.Decide(twoAgents(root), 1, 0)

		require.NoError(t, err)
		require.Equal(t, 9.0, decision.Score)
		require.Equal(t, game.Action("a1"), decision.Action)
	})

	t.Run("searching to terminal states when unbounded", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 50; i++ {
			root := twoAgents(randomTree(rng, 5, 3))
			s := NewMinimax(WithEvaluationFn(treeValue))

			unbounded, err := s.Decide(root, Unbounded, 0)
			require.NoError(t, err)
			deep, err := s.Decide(root, 10, 0)
			require.NoError(t, err)

			require.Equal(t, deep.Score, unbounded.Score)
			require.Equal(t, deep.Action, unbounded.Action)
		}
	})

	t.Run("collapsing several rivals into one minimizing layer", func(t *testing.T) {
		state := scripted{
			agents: []game.AgentID{0, 1, 2},
			moves: map[string]map[game.AgentID][]game.Action{
				"":    {0: {"go"}},
				"/go": {1: {"r1"}, 2: {"r2"}},
			},
			values: map[string]float64{"/go/r1": 5, "/go/r2": -3},
		}
		s := NewMinimax(WithEvaluationFn(scriptedValue))

		decision, err := s.Decide(state, 2, 0)

		require.NoError(t, err)
		require.Equal(t, -3.0, decision.Score, "Min layer should see the moves of every rival")
		require.Equal(t, game.Action("go"), decision.Action)
	})

	t.Run("treating a setup without rivals as terminal at the rival layer", func(t *testing.T) {
		state := scripted{
			agents: []game.AgentID{0},
			moves: map[string]map[game.AgentID][]game.Action{
				"": {0: {"left", "right"}},
			},
			values: map[string]float64{"/left": 1, "/right": 2},
		}
		s := NewMinimax(WithEvaluationFn(scriptedValue))

		decision, err := s.Decide(state, Unbounded, 0)

		require.NoError(t, err)
		require.Equal(t, 2.0, decision.Score)
		require.Equal(t, game.Action("right"), decision.Action)
	})
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		depth := 1 + rng.Intn(5)
		root := twoAgents(randomTree(rng, depth, 4))

		plain := metrics.NewCollector()
		pruned := metrics.NewCollector()
		minimax := NewMinimax(WithEvaluationFn(treeValue), WithCollector(plain))
		alphaBeta := NewAlphaBeta(WithEvaluationFn(treeValue), WithCollector(pruned))

		want, err := minimax.Decide(root, depth, 0)
		require.NoError(t, err)
		got, err := alphaBeta.Decide(root, depth, 0)
		require.NoError(t, err)

		require.Equal(t, want.Score, got.Score, "tree %d: pruning must not change the score", i)
		require.Equal(t, want.Action, got.Action, "tree %d: pruning must not change the move", i)
		require.LessOrEqual(t, got.Metric.Nodes, want.Metric.Nodes, "tree %d: pruning must not visit more nodes", i)
		require.Zero(t, want.Metric.Cutoffs, "plain minimax never cuts")
	}
}

func TestAlphaBeta(t *testing.T) {
	t.Run("cutting off a refuted branch", func(t *testing.T) {
		// After a0 is worth 3, the first reply to a1 (2) already refutes it.
		root := branch(0,
			branch(0, leaf(3), leaf(12), leaf(8)),
			branch(0, leaf(2), leaf(4), leaf(6)),
		)
		collector := metrics.NewCollector()
		s := NewAlphaBeta(WithEvaluationFn(treeValue), WithCollector(collector))

		decision, err := s.Decide(twoAgents(root), 2, 0)

		require.NoError(t, err)
		require.Equal(t, 3.0, decision.Score)
		require.Equal(t, game.Action("a0"), decision.Action)
		require.Equal(t, 1, decision.Metric.Cutoffs)
		require.Equal(t, 1+(1+3)+(1+1), decision.Metric.Nodes)
	})

	t.Run("honoring a caller supplied window", func(t *testing.T) {
		root := branch(0, leaf(5), leaf(9))
		s := NewAlphaBeta(WithEvaluationFn(treeValue), WithMetrics())

		decision, err := s.DecideWindow(twoAgents(root), 1, 0, math.Inf(-1), 4)

		require.NoError(t, err)
		require.Equal(t, 5.0, decision.Score, "First child already reaches beta")
		require.Equal(t, 1, decision.Metric.Cutoffs)
	})
}

func TestExpectimax(t *testing.T) {
	t.Run("averaging the rival's replies at a chance node", func(t *testing.T) {
		values := []float64{3, -7, 10.5, 0.25}
		children := make([]*tree, len(values))
		sum := 0.0
		for i, v := range values {
			children[i] = leaf(v)
			sum += v
		}
		chance := NewNode(twoAgents(branch(0, children...)), game.NoAction, Chance, 0)
		s := NewExpectimax(WithEvaluationFn(treeValue))

		result, err := s.Run(chance, 1, 0)

		require.NoError(t, err)
		require.InDelta(t, sum/float64(len(values)), result.Score, 1e-9)
		require.Same(t, chance, result.Chosen, "Chance node reports itself, not a move")
	})

	t.Run("picking the move with the best expectation", func(t *testing.T) {
		root := branch(0,
			branch(0, leaf(10), leaf(-10)), // Worst case -10, mean 0
			branch(0, leaf(-1), leaf(-2)),  // Worst case -2, mean -1.5
		)
		s := NewExpectimax(WithEvaluationFn(treeValue))

		decision, err := s.Decide(twoAgents(root), 2, 0)
		require.NoError(t, err)
		require.Equal(t, game.Action("a0"), decision.Action)
		require.InDelta(t, 0.0, decision.Score, 1e-9)

		minimax, err := NewMinimax(WithEvaluationFn(treeValue)).Decide(twoAgents(root), 2, 0)
		require.NoError(t, err)
		require.Equal(t, game.Action("a1"), minimax.Action, "Minimax prefers the safer move")
	})

	t.Run("reporting the move from the max layer above the chance layer", func(t *testing.T) {
		root := branch(0,
			branch(0, leaf(1)),
			branch(0, leaf(4), leaf(6)),
		)
		s := NewExpectimax(WithEvaluationFn(treeValue))

		decision, err := s.Decide(twoAgents(root), 2, 0)

		require.NoError(t, err)
		require.Equal(t, game.Action("a1"), decision.Action)
		require.InDelta(t, 5.0, decision.Score, 1e-9)
	})
}

func TestMaxNMatchesMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	for i := 0; i < 300; i++ {
		depth := 1 + rng.Intn(5)
		root := twoAgents(randomTree(rng, depth, 4))

		want, err := NewMinimax(WithEvaluationFn(treeValue)).Decide(root, depth, 0)
		require.NoError(t, err)
		got, err := NewMaxN(WithEvaluationFn(treeValue)).Decide(root, depth, 0)
		require.NoError(t, err)

		require.Equal(t, want.Score, got.Score, "tree %d", i)
		require.Equal(t, want.Action, got.Action, "tree %d", i)
	}

	t.Run("on the grid with the mobility evaluator", func(t *testing.T) {
		state := game.NewDefaultState()
		for _, agent := range state.Agents() {
			want, err := NewMinimax().Decide(state, 3, agent)
			require.NoError(t, err)
			got, err := NewMaxN().Decide(state, 3, agent)
			require.NoError(t, err)

			require.Equal(t, want.Score, got.Score)
			require.Equal(t, want.Action, got.Action)
		}
	})
}

func TestMaxN(t *testing.T) {
	threeAgents := func(values map[string]float64) scripted {
		return scripted{
			agents: []game.AgentID{0, 1, 2},
			moves: map[string]map[game.AgentID][]game.Action{
				"":       {0: {"a", "b"}},
				"/a":     {1: {"x", "y"}},
				"/b":     {1: {"x"}},
				"/a/x":   {2: {"p", "q"}},
				"/a/y":   {2: {"p"}},
				"/b/x":   {2: {"p"}},
				"/a/x/p": {0: {"z"}},
			},
			values: values,
		}
	}

	t.Run("rotating through every agent before the acting agent moves again", func(t *testing.T) {
		state := threeAgents(map[string]float64{
			"/a/x/p": 8, "/a/x/q": 6, "/a/y/p": 7, // Rivals hold a to 6
			"/b/x/p":   4,
			"/a/x/p/z": 100, // Only reachable with a fourth ply
		})
		s := NewMaxN(WithEvaluationFn(scriptedValue))

		decision, err := s.Decide(state, 3, 0)

		require.NoError(t, err)
		require.Equal(t, 6.0, decision.Score)
		require.Equal(t, game.Action("a"), decision.Action)

		decision, err = s.Decide(state, 4, 0)

		require.NoError(t, err)
		require.Equal(t, 6.0, decision.Score, "Agent 0 moves at the fourth ply, q still holds a to 6")
	})

	t.Run("starting the rotation at a non-zero acting agent", func(t *testing.T) {
		state := scripted{
			agents: []game.AgentID{0, 1, 2},
			moves: map[string]map[game.AgentID][]game.Action{
				"":       {1: {"m"}},
				"/m":     {2: {"n"}},
				"/m/n":   {0: {"o", "p"}},
				"/m/n/o": {1: {"q"}},
			},
			values: map[string]float64{"/m/n/o/q": 3, "/m/n/p": 9},
		}
		s := NewMaxN(WithEvaluationFn(scriptedValue))

		decision, err := s.Decide(state, Unbounded, 1)

		require.NoError(t, err)
		require.Equal(t, game.Action("m"), decision.Action)
		require.Equal(t, 3.0, decision.Score, "Agent 0 moves third and picks the worst outcome for agent 1")
	})
}

func TestTerminalShortCircuit(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.String()+" evaluates a blocked root once", func(t *testing.T) {
			evaluate, calls := countingEvaluator(treeValue)
			collector := metrics.NewCollector()
			s := New(algorithm, WithEvaluationFn(evaluate), WithCollector(collector))

			decision, err := s.Decide(twoAgents(leaf(42)), 5, 0)

			require.NoError(t, err)
			require.Equal(t, 1, *calls)
			require.Equal(t, 1, decision.Metric.Nodes)
			require.Equal(t, 42.0, decision.Score)
			require.Equal(t, game.NoAction, decision.Action)
		})
	}
}

func TestTieBreak(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.String()+" keeps the earliest of equal moves", func(t *testing.T) {
			root := labeled([]game.Action{"Up", "Down"}, leaf(20), leaf(20))
			s := New(algorithm, WithEvaluationFn(treeValue))

			decision, err := s.Decide(twoAgents(root), 1, 0)

			require.NoError(t, err)
			require.Equal(t, game.Action("Up"), decision.Action)
			require.Equal(t, 20.0, decision.Score)
		})
	}

	t.Run("minimizing layers keep the earliest of equal replies", func(t *testing.T) {
		rival := NewNode(twoAgents(branch(0, leaf(5), leaf(5), leaf(9))), game.NoAction, Min, 0)
		s := NewMinimax(WithEvaluationFn(treeValue))

		result, err := s.Run(rival, 1, 0)

		require.NoError(t, err)
		require.Equal(t, 5.0, result.Score)
		require.Equal(t, game.Action("a0"), result.Chosen.Action)
	})
}

func TestDepthZero(t *testing.T) {
	for _, algorithm := range algorithms {
		t.Run(algorithm.String()+" evaluates the root without expanding it", func(t *testing.T) {
			evaluate, calls := countingEvaluator(treeValue)
			s := New(algorithm, WithEvaluationFn(evaluate), WithMetrics())

			decision, err := s.Decide(twoAgents(branch(11, leaf(1), leaf(2))), 0, 0)

			require.NoError(t, err)
			require.Equal(t, 1, *calls)
			require.Equal(t, 11.0, decision.Score)
			require.Equal(t, game.NoAction, decision.Action)
			require.Equal(t, 1, decision.Metric.Nodes)
		})
	}
}

func TestDecideErrors(t *testing.T) {
	t.Run("rejecting a negative depth other than unbounded", func(t *testing.T) {
		_, err := NewMinimax().Decide(game.NewDefaultState(), -2, 0)
		require.ErrorIs(t, err, ErrInvalidDepth)
	})

	t.Run("rejecting an agent that is not in the game", func(t *testing.T) {
		_, err := NewAlphaBeta().Decide(game.NewDefaultState(), 2, 5)
		require.ErrorIs(t, err, ErrUnknownAgent)
	})
}

func TestDecideOnGrid(t *testing.T) {
	t.Run("escaping a dead end", func(t *testing.T) {
		m, spawns, err := game.ParseMap(strings.NewReader(`
#######
#.#...#
#.0...#
###.1.#
#######
`))
		require.NoError(t, err)
		state := game.NewGridState(m, spawns)

		for _, algorithm := range algorithms {
			decision, err := New(algorithm).Decide(state, 2, 0)
			require.NoError(t, err)
			require.NotEqual(t, game.Left, decision.Action, "%s walks into the dead end", algorithm)
			require.True(t, game.IsLegal(state, 0, decision.Action))
		}
	})
}

func TestParseAlgorithm(t *testing.T) {
	for _, algorithm := range algorithms {
		parsed, err := ParseAlgorithm(algorithm.String())
		require.NoError(t, err)
		require.Equal(t, algorithm, parsed)
	}

	_, err := ParseAlgorithm("negamax")
	require.Error(t, err)
}
