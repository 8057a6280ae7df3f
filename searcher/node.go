package searcher

import "gridwars/game"

// Node pairs a state with the action that produced it and its search role. Mover is the agent to
// act on Max and PerAgentMax nodes; Min and Chance nodes act for every rival of the searching agent.
// Nodes are never mutated once built.
type Node struct {
	State  game.State
	Action game.Action // game.NoAction for a root
	Role   Role
	Mover  game.AgentID
}

func NewNode(state game.State, action game.Action, role Role, mover game.AgentID) *Node {
	return &Node{
		State:  state,
		Action: action,
		Role:   role,
		Mover:  mover,
	}
}

// Successors applies every legal action of agent, in legal-action order. Each child gets role and
// mover and remembers the action that produced it.
func (n *Node) Successors(agent game.AgentID, role Role, mover game.AgentID) []*Node {
	actions := n.State.LegalActions(agent)
	children := make([]*Node, 0, len(actions))
	for _, action := range actions {
		children = append(children, NewNode(n.State.Apply(agent, action), action, role, mover))
	}
	return children
}

// IsTerminal reports whether agent has no legal action left.
func (n *Node) IsTerminal(agent game.AgentID) bool {
	return len(n.State.LegalActions(agent)) == 0
}

// isTerminalFor reports whether none of movers can act.
func (n *Node) isTerminalFor(movers []game.AgentID) bool {
	for _, mover := range movers {
		if !n.IsTerminal(mover) {
			return false
		}
	}
	return true
}
