package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"gridwars/config"
	"gridwars/experiments"
	"gridwars/game"
	"gridwars/meta"
	"gridwars/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "experiment", "experiment or decide")
	configPath := flag.String("config", "", "Experiment config file (YAML), defaults when empty")
	mapPath := flag.String("map", "", "Map file for decide mode, the default arena when empty")
	algorithm := flag.String("algorithm", searcher.AlphaBeta.String(), "minimax, alphabeta, expectimax or maxn")
	depth := flag.Int("depth", meta.DEFAULT_DEPTH, "Search depth, -1 for unbounded")
	agentID := flag.Int("agent", 0, "Acting agent id for decide mode")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn or error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch *mode {
	case "experiment":
		err = runExperiment(*configPath)
	case "decide":
		err = decide(*mapPath, *algorithm, *depth, game.AgentID(*agentID))
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(*mode + " failed")
	}
}

func runExperiment(path string) error {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := experiments.Run(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Int("games", len(results.Games)).Str("dir", results.Dir).Msg("experiment done")
	return nil
}

// decide runs a single search and prints the chosen action and its score.
func decide(path, name string, depth int, acting game.AgentID) error {
	m, spawns := game.CreateMap()
	if path != "" {
		var err error
		if m, spawns, err = game.LoadMap(path); err != nil {
			return err
		}
	}
	state := game.NewGridState(m, spawns)

	algorithm, err := searcher.ParseAlgorithm(name)
	if err != nil {
		return err
	}
	s := searcher.New(algorithm, searcher.WithMetrics(), searcher.WithLogger(log.Logger))

	decision, err := s.Decide(state, depth, acting)
	if err != nil {
		return err
	}

	action := string(decision.Action)
	if decision.Action == game.NoAction {
		action = "none"
	}
	fmt.Print(state)
	fmt.Printf("agent %d: %s (score %.2f, %d nodes, %d cutoffs, %s)\n",
		acting, action, decision.Score, decision.Metric.Nodes, decision.Metric.Cutoffs, decision.Metric.Duration)
	return nil
}
