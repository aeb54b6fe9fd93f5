package game

// RunOutcome classifies how a defense run resolved.
type RunOutcome int

const (
	OutcomeInconclusive RunOutcome = iota
	OutcomeFlawlessHold
	OutcomeSteadyHold
	OutcomeNarrowHold
	OutcomeCollapse
	OutcomeOverrun
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomeFlawlessHold:
		return "flawless_hold"
	case OutcomeSteadyHold:
		return "steady_hold"
	case OutcomeNarrowHold:
		return "narrow_hold"
	case OutcomeCollapse:
		return "collapse"
	case OutcomeOverrun:
		return "overrun"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// RunOutcomeReason carries the outcome plus the counts that drove it.
type RunOutcomeReason struct {
	Outcome        RunOutcome
	WavesCompleted int
	LivesLeft      int
	MaxLives       int
	Kills          int
	Breaches       int
	Score          int
	BestCombo      int
	Description    string
}

// DetermineRunOutcome classifies the current run from its log. A run that
// ended in game over is a collapse, or an overrun if it never cleared a
// wave. A run still standing is graded by how many lives the breaches cost.
func DetermineRunOutcome(s *Session) RunOutcomeReason {
	entries := s.runEntries()

	kills := 0
	breaches := 0
	overSeen := false
	for _, e := range entries {
		switch {
		case e.Category == "combat" && e.Key == "kill":
			kills++
		case e.Category == "combat" && e.Key == "breach":
			breaches++
		case e.Category == "run" && e.Key == "over":
			overSeen = true
		}
	}

	reason := func(o RunOutcome, desc string) RunOutcomeReason {
		return RunOutcomeReason{
			Outcome:        o,
			WavesCompleted: s.completedWaves,
			LivesLeft:      s.lives,
			MaxLives:       s.maxLives,
			Kills:          kills,
			Breaches:       breaches,
			Score:          s.score,
			BestCombo:      s.bestCombo,
			Description:    desc,
		}
	}

	if len(entries) == 0 {
		return reason(OutcomeInconclusive, "no_run_recorded")
	}

	if overSeen {
		if s.completedWaves == 0 {
			return reason(OutcomeOverrun, "overrun_before_first_clear")
		}
		return reason(OutcomeCollapse, "defense_collapsed")
	}

	if s.completedWaves == 0 {
		return reason(OutcomeInconclusive, "inconclusive_no_wave_resolved")
	}

	if breaches == 0 {
		return reason(OutcomeFlawlessHold, "flawless_hold_no_breaches")
	}

	if s.maxLives > 0 {
		lostFrac := float64(s.maxLives-s.lives) / float64(s.maxLives)
		if lostFrac >= 0.5 {
			return reason(OutcomeNarrowHold, "narrow_hold_heavy_losses")
		}
	}
	return reason(OutcomeSteadyHold, "steady_hold_minor_losses")
}
