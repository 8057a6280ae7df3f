package experiments

import (
	"context"
	"path/filepath"
	"strings"

	"gridwars/config"
	"gridwars/engine"
	"gridwars/experiments/metrics"
	"gridwars/game"
	"gridwars/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultMapName = "default"

// Results holds what a tournament produced and where it was stored.
type Results struct {
	Dir   string
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

type arena struct {
	name   string
	m      *game.Map
	spawns []game.Point
}

type job struct {
	id      int // GameRecord.ID, 1-based
	matchup []metrics.AgentConfig
	arena   arena
	game    int // Index within its matchup and arena
}

type outcome struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// Run plays every matchup on every map cfg.Games times, up to cfg.Parallelism games at once, and
// writes the agent configs and game and move records under cfg.OutputDir.
func Run(ctx context.Context, cfg config.Config) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	arenas, err := loadArenas(cfg.Maps)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, matchup := range cfg.MatchupList() {
		for _, a := range arenas {
			if len(a.spawns) != len(matchup) {
				return nil, errors.Errorf("map %s has %d agents, matchup needs %d", a.name, len(a.spawns), len(matchup))
			}
			for i := 0; i < cfg.Games; i++ {
				jobs = append(jobs, job{id: len(jobs) + 1, matchup: matchup, arena: a, game: i})
			}
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", cfg.Name, len(jobs))

	outcomes := make([]outcome, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := playGame(j, cfg.MaxTurns)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "%s experiment", cfg.Name)
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	results := &Results{}
	for _, o := range outcomes {
		results.Games = append(results.Games, o.game)
		results.Moves = append(results.Moves, o.moves...)
	}

	writer, err := metrics.NewWriter(cfg.OutputDir, cfg.Name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create experiment writer")
	}
	results.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(cfg.Agents); err != nil {
		return nil, err
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(results.Games); err != nil {
		return nil, err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return nil, err
	}
	log.Info().Str("dir", results.Dir).Msg("stored move records")

	return results, nil
}

// playGame builds fresh agents for every seat, searchers are never shared between games.
func playGame(j job, maxTurns int) (outcome, error) {
	agents := make([]agent.Agent, len(j.matchup))
	seats := make([]int, len(j.matchup))
	for i, c := range j.matchup {
		a, err := agent.NewAgent(c.Algorithm, c.Depth, c.Seed+uint64(j.game))
		if err != nil {
			return outcome{}, errors.Wrapf(err, "game %d seat %d", j.id, i)
		}
		agents[i] = a
		seats[i] = c.ID
	}

	log.Debug().Int("game", j.id).Str("map", j.arena.name).Ints("seats", seats).Msg("starting game")

	e := engine.LocalEngine(game.NewGridState(j.arena.m, j.arena.spawns), agents)
	e.MaxTurns = maxTurns
	gameMetric, moveMetrics := e.Run()

	o := outcome{
		game: metrics.GameRecord{
			ID:         j.id,
			Map:        j.arena.name,
			Seats:      seats,
			GameMetric: gameMetric,
		},
		moves: make([]metrics.MoveRecord, len(moveMetrics)),
	}
	for i, mm := range moveMetrics {
		o.moves[i] = metrics.MoveRecord{Game: j.id, MoveMetric: mm}
	}

	log.Info().Int("game", j.id).Int("loser", gameMetric.Loser).Int("moves", gameMetric.TotalMoves).Msg("completed game")
	return o, nil
}

func loadArenas(paths []string) ([]arena, error) {
	if len(paths) == 0 {
		m, spawns := game.CreateMap()
		return []arena{{name: DefaultMapName, m: m, spawns: spawns}}, nil
	}

	arenas := make([]arena, 0, len(paths))
	for _, path := range paths {
		m, spawns, err := game.LoadMap(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		arenas = append(arenas, arena{name: name, m: m, spawns: spawns})
	}
	return arenas, nil
}
