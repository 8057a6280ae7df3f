package engine

import (
	"time"

	"gridwars/experiments/metrics"
	"gridwars/game"
	"gridwars/meta"
	"gridwars/searcher/agent"

	"github.com/rs/zerolog/log"
)

// LocalGame plays a game in process. Agents[i] controls the agent with id i.
type LocalGame struct {
	State    game.State
	Agents   []agent.Agent
	MaxTurns int
}

func LocalEngine(state game.State, agents []agent.Agent) *LocalGame {
	if len(state.Agents()) != len(agents) {
		panic("number of agents in the state does not match number of controllers")
	}
	if len(agents) < 2 {
		panic("need at least two agents")
	}

	return &LocalGame{
		State:    state,
		Agents:   agents,
		MaxTurns: meta.MAX_TURNS,
	}
}

// Run moves the agents in turn order until one of them is blocked on its turn and loses.
// Reaching MaxTurns ends the game as a draw.
func (e *LocalGame) Run() (metrics.GameMetric, []metrics.MoveMetric) {
	order := e.State.Agents()
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(order[0]),
		Loser:          -1,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("agent %d is starting", order[0])

	for turn := 1; turn <= e.MaxTurns; turn++ {
		id := order[(turn-1)%len(order)]
		legal := e.State.LegalActions(id)
		if len(legal) == 0 {
			gameMetric.Loser = int(id)
			break
		}

		action, searchMetric := e.Agents[id].FindMove(e.State, id)
		if !game.IsLegal(e.State, id, action) {
			log.Warn().Int("agent", int(id)).Str("action", string(action)).Msg("illegal action, forcing first legal action")
			action = legal[0]
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       int(id),
			Action:       string(action),
			SearchMetric: searchMetric,
		})
		e.State = e.State.Apply(id, action)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if gameMetric.Loser >= 0 {
		log.Info().Msgf("game over after %d moves, agent %d is blocked", gameMetric.TotalMoves, gameMetric.Loser)
	} else {
		log.Info().Msgf("stopped after %d moves (no loser yet)", gameMetric.TotalMoves)
	}
	return gameMetric, moveMetrics
}
