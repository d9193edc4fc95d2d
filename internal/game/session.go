package game

import "context"

// Session caches the counters every operation needs. The store stays the
// source of truth: the engine rewrites these fields after each roster or
// round change and Reload rebuilds them from scratch.
type Session struct {
	RoundNumber     int
	NumberOfPlayers int
	Outcomes        Outcomes
}

// Reload recomputes the session from persisted players and rounds.
func (s *Session) Reload(ctx context.Context, st Store) error {
	players, err := st.ListPlayers(ctx)
	if err != nil {
		return storeErr("list players", err)
	}
	rounds, err := st.ListRounds(ctx)
	if err != nil {
		return storeErr("list rounds", err)
	}
	s.NumberOfPlayers = len(players)
	s.RoundNumber = latestRoundNumber(rounds)
	s.Outcomes = tallyOutcomes(rounds)
	return nil
}

func (s *Session) reset() {
	*s = Session{}
}

func latestRoundNumber(rounds []Round) int {
	latest := 0
	for _, round := range rounds {
		if round.Number > latest {
			latest = round.Number
		}
	}
	return latest
}
