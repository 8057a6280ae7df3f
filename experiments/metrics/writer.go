package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
)

// AgentConfig describes one competitor of an experiment.
type AgentConfig struct {
	ID        int    `yaml:"id"`
	Algorithm string `yaml:"algorithm"` // Searcher name or "random"
	Depth     int    `yaml:"depth"`
	Seed      uint64 `yaml:"seed"` // Random agent only
}

type GameRecord struct {
	ID    int
	Map   string
	Seats []int // AgentConfig.ID controlling each agent id
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type gameRow struct {
	ID             int64   `parquet:"id"`
	Map            string  `parquet:"map,dict"`
	Seats          []int32 `parquet:"seats"`
	StartingPlayer int32   `parquet:"starting_player"`
	Loser          int32   `parquet:"loser"`
	StartNs        int64   `parquet:"start_ns"`
	EndNs          int64   `parquet:"end_ns"`
	DurationNs     int64   `parquet:"duration_ns"`
	TotalMoves     int32   `parquet:"total_moves"`
}

type moveRow struct {
	Game        int64  `parquet:"game"`
	Step        int32  `parquet:"step"`
	Player      int32  `parquet:"player"`
	Action      string `parquet:"action,dict"`
	Algorithm   string `parquet:"algorithm,dict"`
	Depth       int32  `parquet:"depth"`
	DurationNs  int64  `parquet:"duration_ns"`
	Nodes       int64  `parquet:"nodes"`
	Evaluations int64  `parquet:"evaluations"`
	Cutoffs     int64  `parquet:"cutoffs"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir for the experiment, named by the current timestamp.
func NewWriter(dir string, experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(dir, experiment, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	path := filepath.Join(w.baseDir, "agent_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create agent configs file")
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"id", "algorithm", "depth", "seed"}
	err = writer.Write(header)
	if err != nil {
		return errors.Wrap(err, "failed to write agent configs header")
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Algorithm,
			strconv.Itoa(config.Depth),
			strconv.FormatUint(config.Seed, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return errors.Wrap(err, "failed to write agent config row")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush agent configs")
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([]gameRow, len(records))
	for i, record := range records {
		seats := make([]int32, len(record.Seats))
		for j, seat := range record.Seats {
			seats[j] = int32(seat)
		}
		rows[i] = gameRow{
			ID:             int64(record.ID),
			Map:            record.Map,
			Seats:          seats,
			StartingPlayer: int32(record.StartingPlayer),
			Loser:          int32(record.Loser),
			StartNs:        record.StartTime.UnixNano(),
			EndNs:          record.EndTime.UnixNano(),
			DurationNs:     record.Duration.Nanoseconds(),
			TotalMoves:     int32(record.TotalMoves),
		}
	}
	return errors.Wrap(writeParquet(filepath.Join(w.baseDir, "game_records.parquet"), rows, "game_records_v1"),
		"failed to write game records")
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([]moveRow, len(records))
	for i, record := range records {
		rows[i] = moveRow{
			Game:        int64(record.Game),
			Step:        int32(record.Step),
			Player:      int32(record.Player),
			Action:      record.Action,
			Algorithm:   record.Algorithm,
			Depth:       int32(record.Depth),
			DurationNs:  record.Duration.Nanoseconds(),
			Nodes:       int64(record.Nodes),
			Evaluations: int64(record.Evaluations),
			Cutoffs:     int64(record.Cutoffs),
		}
	}
	return errors.Wrap(writeParquet(filepath.Join(w.baseDir, "move_records.parquet"), rows, "move_records_v1"),
		"failed to write move records")
}

// writeParquet writes rows next to path and renames the file into place once complete.
func writeParquet[T any](path string, rows []T, schema string) error {
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "write parquet")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "rename parquet")
	}
	return nil
}
