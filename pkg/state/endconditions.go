package state

import "slices"

// EndCondition inspects the session after a turn and returns the phase it
// should move to, or PhasePlaying to keep going.
type EndCondition func(s *Session) Phase

// OxygenDepleted ends the game once the tank is empty.
func OxygenDepleted(s *Session) Phase {
	if s.Player.OutOfOxygen() {
		return PhaseGameOver
	}
	return PhasePlaying
}

// ItemsCollected wins the game once every named item is carried.
func ItemsCollected(items ...string) EndCondition {
	want := slices.Clone(items)
	return func(s *Session) Phase {
		if len(want) == 0 {
			return PhasePlaying
		}
		for _, it := range want {
			if _, ok := s.Player.Carried(it); !ok {
				return PhasePlaying
			}
		}
		return PhaseWon
	}
}

// ReachedRoom wins the game when the player enters the named room.
func ReachedRoom(room string) EndCondition {
	return func(s *Session) Phase {
		if s.Location == room {
			return PhaseWon
		}
		return PhasePlaying
	}
}

// checkEndConditions applies the first condition that leaves PhasePlaying.
func (s *Session) checkEndConditions() Phase {
	conditions := append([]EndCondition{OxygenDepleted}, s.opts.EndConditions...)
	for _, cond := range conditions {
		if cond == nil {
			continue
		}
		if next := cond(s); next != PhasePlaying {
			s.Phase = next
			s.log.Info("Session ended", "phase", next, "turn", s.Turn, "location", s.Location)
			return next
		}
	}
	return PhasePlaying
}
