// meta/meta.go
package meta

// DEFAULT_DEPTH is the search depth budget of an agent without one, -1 searches to terminal states.
const DEFAULT_DEPTH = 3

// MAX_TURNS caps the number of moves of a game, reaching it is a draw.
const MAX_TURNS = 300

// GAMES is the number of games per matchup and map.
const GAMES = 10

// PARALLELISM is the number of games played at once.
const PARALLELISM = 8

// OUTPUT_DIR is where experiment records are written.
const OUTPUT_DIR = "results"
