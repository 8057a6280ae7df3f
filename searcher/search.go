package searcher

import (
	"math"

	"gridwars/experiments/metrics"
	"gridwars/game"
	"gridwars/utils"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Option func(s *Searcher)

// Result is the outcome of searching below a node. Chosen is the successor whose score was
// selected; it is nil when the node was evaluated directly. A Chance node returns itself as a
// representative, which is not a move.
type Result struct {
	Score  float64
	Chosen *Node
}

// Decision is what a controller gets back: the action to play and the score behind it.
type Decision struct {
	Action game.Action // game.NoAction when no successor was explored
	Score  float64
	Metric metrics.SearchMetric
}

// Searcher runs one depth-limited search algorithm. A Searcher holds its metrics collector, so a
// single instance must not search from several goroutines at once.
type Searcher struct {
	algorithm Algorithm
	strategy  strategy
	evaluate  game.Evaluate
	metrics   metrics.Collector
	logger    zerolog.Logger
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Searcher) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func WithCollector(collector metrics.Collector) Option {
	return func(s *Searcher) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

func New(algorithm Algorithm, options ...Option) *Searcher {
	s := &Searcher{ // Default values
		algorithm: algorithm,
		strategy:  strategyFor(algorithm),
		evaluate:  game.EvaluateMobility,
		metrics:   metrics.NewDummyCollector(),
		logger:    zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func NewMinimax(options ...Option) *Searcher    { return New(Minimax, options...) }
func NewAlphaBeta(options ...Option) *Searcher  { return New(AlphaBeta, options...) }
func NewExpectimax(options ...Option) *Searcher { return New(Expectimax, options...) }
func NewMaxN(options ...Option) *Searcher       { return New(MaxN, options...) }

func (s *Searcher) Algorithm() Algorithm {
	return s.algorithm
}

// Root wraps state as the root node of this searcher's algorithm for the acting agent.
func (s *Searcher) Root(state game.State, acting game.AgentID) *Node {
	return NewNode(state, game.NoAction, s.strategy.root, acting)
}

// Decide searches state for the acting agent and returns the action of the chosen successor.
// The action is game.NoAction when the acting agent is blocked or depth is 0.
func (s *Searcher) Decide(state game.State, depth int, acting game.AgentID) (Decision, error) {
	return s.DecideWindow(state, depth, acting, math.Inf(-1), math.Inf(1))
}

// DecideWindow is Decide with explicit initial alpha-beta bounds. Only AlphaBeta uses them.
func (s *Searcher) DecideWindow(state game.State, depth int, acting game.AgentID, alpha, beta float64) (Decision, error) {
	result, err := s.RunWindow(s.Root(state, acting), depth, acting, alpha, beta)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Action: game.NoAction,
		Score:  result.Score,
		Metric: s.metrics.Complete(),
	}
	// The root is always a layer of the acting agent, so Chosen is one of its own moves.
	if result.Chosen != nil {
		decision.Action = result.Chosen.Action
	}

	s.logger.Debug().
		Str("algorithm", s.algorithm.String()).
		Int("depth", depth).
		Int("agent", int(acting)).
		Str("action", string(decision.Action)).
		Float64("score", decision.Score).
		Int("nodes", decision.Metric.Nodes).
		Int("cutoffs", decision.Metric.Cutoffs).
		Msg("decided")
	return decision, nil
}

// Run searches below root with an open alpha-beta window.
func (s *Searcher) Run(root *Node, depth int, acting game.AgentID) (Result, error) {
	return s.RunWindow(root, depth, acting, math.Inf(-1), math.Inf(1))
}

func (s *Searcher) RunWindow(root *Node, depth int, acting game.AgentID, alpha, beta float64) (Result, error) {
	if depth < Unbounded {
		return Result{}, errors.Wrapf(ErrInvalidDepth, "got %d", depth)
	}
	if !utils.Contains(root.State.Agents(), acting) {
		return Result{}, errors.Wrapf(ErrUnknownAgent, "agent %d", acting)
	}

	s.metrics.Start(s.algorithm.String(), depth)
	return s.run(root, depth, acting, alpha, beta), nil
}

func (s *Searcher) run(n *Node, depth int, acting game.AgentID, alpha, beta float64) Result {
	s.metrics.AddNode()

	agents := movers(n, acting)
	if depth == 0 || n.isTerminalFor(agents) {
		s.metrics.AddEvaluation()
		return Result{Score: s.evaluate(n.State, acting)}
	}

	role, mover := s.strategy.next(n, acting)
	var children []*Node
	for _, agent := range agents {
		children = append(children, n.Successors(agent, role, mover)...)
	}

	remaining := depth
	if depth != Unbounded {
		remaining--
	}

	switch aggregationOf(n, acting) {
	case minStrictFirst, minimizeRivalMax:
		return s.minimize(children, remaining, acting, alpha, beta)
	case expectation:
		return s.expect(n, children, remaining, acting, alpha, beta)
	default:
		return s.maximize(children, remaining, acting, alpha, beta)
	}
}

// maximize keeps the first child with the strictly greatest score.
func (s *Searcher) maximize(children []*Node, depth int, acting game.AgentID, alpha, beta float64) Result {
	best := Result{Score: math.Inf(-1)}
	for _, child := range children {
		score := s.run(child, depth, acting, alpha, beta).Score
		if score > best.Score {
			best = Result{Score: score, Chosen: child}
		}

		if s.strategy.prune {
			alpha = math.Max(alpha, best.Score)
			if alpha >= beta {
				s.cutoff(depth, alpha, beta)
				break
			}
		}
	}
	return best
}

// minimize keeps the first child with the strictly least score.
func (s *Searcher) minimize(children []*Node, depth int, acting game.AgentID, alpha, beta float64) Result {
	best := Result{Score: math.Inf(1)}
	for _, child := range children {
		score := s.run(child, depth, acting, alpha, beta).Score
		if score < best.Score {
			best = Result{Score: score, Chosen: child}
		}

		if s.strategy.prune {
			beta = math.Min(beta, best.Score)
			if alpha >= beta {
				s.cutoff(depth, alpha, beta)
				break
			}
		}
	}
	return best
}

// expect averages the children with uniform probability and returns n as representative.
func (s *Searcher) expect(n *Node, children []*Node, depth int, acting game.AgentID, alpha, beta float64) Result {
	probability := 1 / float64(len(children))
	score := 0.0
	for _, child := range children {
		score += probability * s.run(child, depth, acting, alpha, beta).Score
	}
	return Result{Score: score, Chosen: n}
}

func (s *Searcher) cutoff(depth int, alpha, beta float64) {
	s.metrics.AddCutoff()
	s.logger.Trace().
		Int("depth", depth).
		Float64("alpha", alpha).
		Float64("beta", beta).
		Msg("cutoff")
}
