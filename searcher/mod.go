package searcher

import (
	"fmt"

	"github.com/pkg/errors"
)

// Unbounded as a depth budget searches until terminal states only.
const Unbounded = -1

var (
	ErrInvalidDepth = errors.New("depth must be -1 (unbounded) or non-negative")
	ErrUnknownAgent = errors.New("acting agent is not part of the state")
)

// Role tags how a node aggregates the scores of its successors.
type Role int

const (
	Max         Role = iota // Searching agent picks the best successor
	Min                     // Rivals, as one adversarial layer, pick the worst successor
	Chance                  // Rivals move uniformly at random
	PerAgentMax             // Max-N ply owned by a single agent
)

func (r Role) String() string {
	switch r {
	case Max:
		return "max"
	case Min:
		return "min"
	case Chance:
		return "chance"
	case PerAgentMax:
		return "per-agent-max"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Algorithm selects the resolution strategy of a Searcher.
type Algorithm int

const (
	Minimax Algorithm = iota
	AlphaBeta
	Expectimax
	MaxN
)

var algorithmNames = map[Algorithm]string{
	Minimax:    "minimax",
	AlphaBeta:  "alphabeta",
	Expectimax: "expectimax",
	MaxN:       "maxn",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm maps a name such as "alphabeta" to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for algorithm, candidate := range algorithmNames {
		if candidate == name {
			return algorithm, nil
		}
	}
	return 0, errors.Errorf("unknown search algorithm %q", name)
}
