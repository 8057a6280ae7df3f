package engine

import "gridwars/experiments/metrics"

type Engine interface {
	// Run plays a game till an agent is blocked or meta.MaxTurns moves are reached
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
