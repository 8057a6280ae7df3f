package config

import (
	"os"

	"gridwars/experiments/metrics"
	"gridwars/meta"
	"gridwars/searcher"
	"gridwars/searcher/agent"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a tournament: which agents meet in which seats, on which maps and how often.
type Config struct {
	Name        string                `yaml:"name"`
	OutputDir   string                `yaml:"output_dir"`
	Games       int                   `yaml:"games"` // Per matchup and map
	Parallelism int                   `yaml:"parallelism"`
	MaxTurns    int                   `yaml:"max_turns"`
	Maps        []string              `yaml:"maps"` // Map files, the default arena when empty
	Agents      []metrics.AgentConfig `yaml:"agents"`
	Matchups    [][]int               `yaml:"matchups"` // Agent config ids by seat, every pair when empty
}

func Default() Config {
	return Config{
		Name:        "tournament",
		OutputDir:   meta.OUTPUT_DIR,
		Games:       meta.GAMES,
		Parallelism: meta.PARALLELISM,
		MaxTurns:    meta.MAX_TURNS,
		Agents: []metrics.AgentConfig{
			{ID: 0, Algorithm: searcher.AlphaBeta.String(), Depth: meta.DEFAULT_DEPTH},
			{ID: 1, Algorithm: searcher.Expectimax.String(), Depth: meta.DEFAULT_DEPTH},
		},
	}
}

// Load reads a YAML config from path on top of the defaults and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Games < 1 {
		return errors.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Parallelism < 1 {
		return errors.Errorf("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.MaxTurns < 1 {
		return errors.Errorf("max_turns must be positive, got %d", c.MaxTurns)
	}
	if len(c.Agents) < 2 {
		return errors.New("need at least two agents")
	}

	ids := make(map[int]bool, len(c.Agents))
	for _, a := range c.Agents {
		if ids[a.ID] {
			return errors.Errorf("duplicate agent id %d", a.ID)
		}
		ids[a.ID] = true

		if a.Depth < searcher.Unbounded {
			return errors.Wrapf(searcher.ErrInvalidDepth, "agent %d has depth %d", a.ID, a.Depth)
		}
		if a.Algorithm == agent.RandomName {
			continue
		}
		if _, err := searcher.ParseAlgorithm(a.Algorithm); err != nil {
			return errors.Wrapf(err, "agent %d", a.ID)
		}
	}

	for i, matchup := range c.Matchups {
		if len(matchup) < 2 {
			return errors.Errorf("matchup %d needs at least two seats", i)
		}
		for _, id := range matchup {
			if !ids[id] {
				return errors.Errorf("matchup %d refers to unknown agent %d", i, id)
			}
		}
	}
	return nil
}

// MatchupList returns the configured matchups, or every pair of distinct agents in both seatings.
func (c Config) MatchupList() [][]metrics.AgentConfig {
	byID := make(map[int]metrics.AgentConfig, len(c.Agents))
	for _, a := range c.Agents {
		byID[a.ID] = a
	}

	var matchups [][]metrics.AgentConfig
	if len(c.Matchups) > 0 {
		for _, ids := range c.Matchups {
			seats := make([]metrics.AgentConfig, len(ids))
			for i, id := range ids {
				seats[i] = byID[id]
			}
			matchups = append(matchups, seats)
		}
		return matchups
	}

	for i, a := range c.Agents {
		for j, b := range c.Agents {
			if i != j {
				matchups = append(matchups, []metrics.AgentConfig{a, b})
			}
		}
	}
	return matchups
}
