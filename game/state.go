package game

import (
	"fmt"
	"strings"
)

const (
	Up    Action = "Up"
	Down  Action = "Down"
	Left  Action = "Left"
	Right Action = "Right"
)

// Actions lists every grid action in the order legal actions are generated.
var Actions = []Action{Up, Down, Left, Right}

var offsets = map[Action]Point{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

// GridState is a light-cycle arena: agents move one cell per turn and leave a trail behind.
// A cell that is a wall, a trail or another agent cannot be entered.
type GridState struct {
	Map       *Map    // Static arena, shared between copies
	Positions []Point // Agent positions, indexed by agent id
	Trails    []bool  // Occupied cells, indexed like Map.Walls
}

// NewGridState places one agent on each spawn cell.
func NewGridState(m *Map, spawns []Point) *GridState {
	gs := &GridState{
		Map:       m,
		Positions: make([]Point, len(spawns)),
		Trails:    make([]bool, len(m.Walls)),
	}
	copy(gs.Positions, spawns)
	for _, p := range spawns {
		gs.Trails[m.index(p)] = true
	}
	return gs
}

// NewDefaultState returns the starting state of the default arena.
func NewDefaultState() *GridState {
	return NewGridState(CreateMap())
}

// Copy returns a deep copy of gs. The map is shared.
func (gs *GridState) Copy() *GridState {
	positions := make([]Point, len(gs.Positions))
	copy(positions, gs.Positions)

	trails := make([]bool, len(gs.Trails))
	copy(trails, gs.Trails)

	return &GridState{
		Map:       gs.Map,
		Positions: positions,
		Trails:    trails,
	}
}

func (gs *GridState) Agents() []AgentID {
	agents := make([]AgentID, len(gs.Positions))
	for i := range agents {
		agents[i] = AgentID(i)
	}
	return agents
}

func (gs *GridState) LegalActions(agent AgentID) []Action {
	if !gs.hasAgent(agent) {
		return nil
	}

	actions := make([]Action, 0, len(Actions))
	for _, action := range Actions {
		if gs.isFree(gs.target(agent, action)) {
			actions = append(actions, action)
		}
	}
	return actions
}

func (gs *GridState) Apply(agent AgentID, action Action) State {
	if !gs.hasAgent(agent) {
		panic(fmt.Sprintf("unknown agent %d", agent))
	}
	target := gs.target(agent, action)
	if !gs.isFree(target) {
		panic(fmt.Sprintf("illegal action %q for agent %d", action, agent))
	}

	next := gs.Copy()
	next.Positions[agent] = target
	next.Trails[gs.Map.index(target)] = true
	return next
}

func (gs *GridState) hasAgent(agent AgentID) bool {
	return agent >= 0 && int(agent) < len(gs.Positions)
}

func (gs *GridState) target(agent AgentID, action Action) Point {
	offset, ok := offsets[action]
	if !ok {
		return Point{X: -1, Y: -1}
	}
	p := gs.Positions[agent]
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

func (gs *GridState) isFree(p Point) bool {
	return !gs.Map.IsWall(p) && !gs.Trails[gs.Map.index(p)]
}

// String renders the arena with agent ids on their cells and '+' for trails.
func (gs *GridState) String() string {
	heads := make(map[Point]AgentID, len(gs.Positions))
	for id, p := range gs.Positions {
		heads[p] = AgentID(id)
	}

	var b strings.Builder
	for y := 0; y < gs.Map.Height; y++ {
		for x := 0; x < gs.Map.Width; x++ {
			p := Point{X: x, Y: y}
			if id, ok := heads[p]; ok {
				fmt.Fprintf(&b, "%d", id)
				continue
			}
			switch {
			case gs.Map.IsWall(p):
				b.WriteByte(wallCell)
			case gs.Trails[gs.Map.index(p)]:
				b.WriteByte('+')
			default:
				b.WriteByte(emptyCell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
