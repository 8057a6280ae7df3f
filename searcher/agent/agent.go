package agent

import (
	"gridwars/experiments/metrics"
	"gridwars/game"
	"gridwars/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// RandomName selects the random agent in NewAgent.
const RandomName = "random"

type Agent interface {
	// FindMove returns the action for agent id and performance metrics (if collected) from the search
	FindMove(state game.State, id game.AgentID) (game.Action, metrics.SearchMetric)
}

type searchAgent struct {
	searcher *searcher.Searcher
	depth    int
}

// NewSearchAgent returns an agent that plays the action chosen by s at the given depth.
func NewSearchAgent(s *searcher.Searcher, depth int) Agent {
	return searchAgent{searcher: s, depth: depth}
}

func (a searchAgent) FindMove(state game.State, id game.AgentID) (game.Action, metrics.SearchMetric) {
	decision, err := a.searcher.Decide(state, a.depth, id)
	if err != nil {
		log.Warn().Err(err).Int("agent", int(id)).Msg("search failed, falling back to first legal action")
		return firstLegal(state, id), decision.Metric
	}
	if decision.Action == game.NoAction {
		return firstLegal(state, id), decision.Metric
	}
	return decision.Action, decision.Metric
}

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that picks a uniformly random legal action without searching.
// Not safe for concurrent use.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(state game.State, id game.AgentID) (game.Action, metrics.SearchMetric) {
	actions := state.LegalActions(id)
	if len(actions) == 0 {
		return game.NoAction, metrics.SearchMetric{Algorithm: RandomName}
	}
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{Algorithm: RandomName}
}

// NewAgent builds an agent by algorithm name. Search agents collect metrics and log through the
// global logger; seed is only used by the random agent.
func NewAgent(name string, depth int, seed uint64) (Agent, error) {
	if name == RandomName {
		return NewRandomAgent(seed), nil
	}

	algorithm, err := searcher.ParseAlgorithm(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create agent")
	}
	s := searcher.New(algorithm, searcher.WithMetrics(), searcher.WithLogger(log.Logger))
	return NewSearchAgent(s, depth), nil
}

func firstLegal(state game.State, id game.AgentID) game.Action {
	actions := state.LegalActions(id)
	if len(actions) == 0 {
		return game.NoAction
	}
	return actions[0]
}
