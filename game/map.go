package game

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	wallCell  = '#'
	emptyCell = '.'
)

// Point is a cell coordinate, (0,0) is the top-left corner.
type Point struct {
	X int
	Y int
}

// Map is the static part of an arena: its size and walls.
type Map struct {
	Width  int
	Height int
	Walls  []bool // Indexed by y*Width+x
}

// index returns the flat cell index of p.
func (m *Map) index(p Point) int {
	return p.Y*m.Width + p.X
}

// Inside reports whether p lies on the map.
func (m *Map) Inside(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// IsWall reports whether p is a wall. Cells off the map count as walls.
func (m *Map) IsWall(p Point) bool {
	if !m.Inside(p) {
		return true
	}
	return m.Walls[m.index(p)]
}

// ParseMap reads an arena: one row per line, '#' for walls, '.' for free cells and a digit for the
// spawn cell of that agent. Agent ids must be contiguous from 0. Blank lines are ignored.
func ParseMap(r io.Reader) (*Map, []Point, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read map")
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("map is empty")
	}

	m := &Map{
		Width:  len(rows[0]),
		Height: len(rows),
		Walls:  make([]bool, len(rows[0])*len(rows)),
	}
	spawns := map[int]Point{}
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, nil, errors.Errorf("line %d: expected %d cells, got %d", y+1, m.Width, len(row))
		}
		for x, cell := range row {
			p := Point{X: x, Y: y}
			switch {
			case cell == wallCell:
				m.Walls[m.index(p)] = true
			case cell == emptyCell:
			case cell >= '0' && cell <= '9':
				id := int(cell - '0')
				if _, ok := spawns[id]; ok {
					return nil, nil, errors.Errorf("line %d column %d: agent %d spawns twice", y+1, x+1, id)
				}
				spawns[id] = p
			default:
				return nil, nil, errors.Errorf("line %d column %d: unexpected cell %q", y+1, x+1, cell)
			}
		}
	}

	if len(spawns) == 0 {
		return nil, nil, errors.New("map has no agents")
	}
	positions := make([]Point, len(spawns))
	for id := range positions {
		p, ok := spawns[id]
		if !ok {
			return nil, nil, errors.Errorf("agent ids must be contiguous from 0: agent %d is missing", id)
		}
		positions[id] = p
	}

	return m, positions, nil
}

// LoadMap parses the arena stored at path.
func LoadMap(path string) (*Map, []Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open map %s", path)
	}
	defer f.Close()

	m, spawns, err := ParseMap(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse map %s", path)
	}
	return m, spawns, nil
}

const defaultArena = `
##########
#0.......#
#........#
#..##....#
#....##..#
#........#
#.......1#
##########
`

// CreateMap returns the default two-agent arena.
func CreateMap() (*Map, []Point) {
	m, spawns, err := ParseMap(strings.NewReader(defaultArena))
	if err != nil {
		panic(err)
	}
	return m, spawns
}
