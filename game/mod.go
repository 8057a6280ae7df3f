package game

// AgentID identifies an agent and its turn slot. Id 0 is the searching agent by convention.
type AgentID int

// Action is an opaque label for one legal move of one agent.
type Action string

// NoAction is reported when no move was selected.
const NoAction Action = ""

// State should be immutable - Apply always returns a new copy and never touches the receiver.
// LegalActions must return the same order on every call for the same state, searchers rely on it
// to break ties.
type State interface {
	Agents() []AgentID
	LegalActions(agent AgentID) []Action
	Apply(agent AgentID, action Action) State
}

// Evaluate scores a state from the perspective of agent. Higher is better for agent.
type Evaluate func(state State, agent AgentID) float64

// IsLegal reports whether action is currently one of agent's legal actions.
func IsLegal(state State, agent AgentID, action Action) bool {
	for _, legal := range state.LegalActions(agent) {
		if legal == action {
			return true
		}
	}
	return false
}

// Rivals returns every agent id except agent, in turn order.
func Rivals(state State, agent AgentID) []AgentID {
	agents := state.Agents()
	rivals := make([]AgentID, 0, len(agents))
	for _, id := range agents {
		if id != agent {
			rivals = append(rivals, id)
		}
	}
	return rivals
}
