package game

// MobilityWeight scales the mobility difference.
const MobilityWeight = 10.0

// EvaluateMobility compares the number of legal actions of agent with the mean number of legal
// actions of its rivals: 10 * (own - mean(rivals)). Without rivals the rival mean is 0.
func EvaluateMobility(s State, agent AgentID) float64 {
	own := float64(len(s.LegalActions(agent)))
	return MobilityWeight * (own - rivalMobility(s, agent))
}

func rivalMobility(s State, agent AgentID) float64 {
	rivals := Rivals(s, agent)
	if len(rivals) == 0 {
		return 0
	}

	total := 0
	for _, rival := range rivals {
		total += len(s.LegalActions(rival))
	}
	return float64(total) / float64(len(rivals))
}
