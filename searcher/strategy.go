package searcher

import (
	"gridwars/game"
	"gridwars/utils"
)

type aggregation int

const (
	maxStrictFirst aggregation = iota
	minStrictFirst
	expectation
	minimizeRivalMax
)

// transition returns the role and mover of the children of n.
type transition func(n *Node, acting game.AgentID) (Role, game.AgentID)

// strategy is what sets the algorithms apart: the role of the root, how roles follow each other
// and whether alpha-beta bounds may cut a layer short.
type strategy struct {
	root  Role
	next  transition
	prune bool
}

func strategyFor(algorithm Algorithm) strategy {
	switch algorithm {
	case Minimax:
		return strategy{root: Max, next: alternate(Min)}
	case AlphaBeta:
		return strategy{root: Max, next: alternate(Min), prune: true}
	case Expectimax:
		return strategy{root: Max, next: alternate(Chance)}
	case MaxN:
		return strategy{root: PerAgentMax, next: rotate}
	default:
		panic("unexpected search algorithm " + algorithm.String())
	}
}

// alternate switches between the searching agent and a single layer for all of its rivals.
func alternate(rivals Role) transition {
	return func(n *Node, acting game.AgentID) (Role, game.AgentID) {
		if n.Role == Max {
			return rivals, acting
		}
		return Max, acting
	}
}

// rotate hands the turn to the next agent in turn order, wrapping back to the first one.
func rotate(n *Node, acting game.AgentID) (Role, game.AgentID) {
	order := n.State.Agents()
	i := utils.FindIndex(order, n.Mover)
	if i < 0 { // Mover left the game, resume with the searching agent
		return PerAgentMax, acting
	}
	return PerAgentMax, order[(i+1)%len(order)]
}

// movers returns the agents whose actions expand n.
func movers(n *Node, acting game.AgentID) []game.AgentID {
	switch n.Role {
	case Min, Chance:
		return game.Rivals(n.State, acting)
	default:
		return []game.AgentID{n.Mover}
	}
}

func aggregationOf(n *Node, acting game.AgentID) aggregation {
	switch n.Role {
	case Min:
		return minStrictFirst
	case Chance:
		return expectation
	case PerAgentMax:
		if n.Mover == acting {
			return maxStrictFirst
		}
		return minimizeRivalMax
	default:
		return maxStrictFirst
	}
}
