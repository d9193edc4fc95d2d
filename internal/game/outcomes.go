package game

import (
	"context"
	"sort"
)

// Aggregator records round outcomes and derives the running tally from the
// persisted rounds.
type Aggregator struct {
	RoundCap int
}

// RecordOutcome finishes round with outcome and returns the recomputed tally.
func (a Aggregator) RecordOutcome(ctx context.Context, st Store, round Round, outcome string) (Tally, error) {
	if !validOutcome(outcome) {
		return Tally{}, ErrInvalidOutcome
	}
	round.Outcome = outcome
	round.Status = PhaseFinished
	if err := st.UpdateRound(ctx, round); err != nil {
		return Tally{}, storeErr("update round", err)
	}
	return a.Tally(ctx, st)
}

func (a Aggregator) Tally(ctx context.Context, st Store) (Tally, error) {
	rounds, err := st.ListRounds(ctx)
	if err != nil {
		return Tally{}, storeErr("list rounds", err)
	}
	return Tally{
		Outcomes: tallyOutcomes(rounds),
		History:  history(rounds),
	}, nil
}

// GameComplete reports whether the finished-round count has reached the cap.
func (a Aggregator) GameComplete(ctx context.Context, st Store) (bool, error) {
	rounds, err := st.ListRounds(ctx)
	if err != nil {
		return false, storeErr("list rounds", err)
	}
	return a.complete(finishedCount(rounds)), nil
}

func (a Aggregator) complete(finished int) bool {
	limit := a.RoundCap
	if limit <= 0 {
		limit = DefaultRoundCap
	}
	return finished >= limit
}

func tallyOutcomes(rounds []Round) Outcomes {
	var outcomes Outcomes
	for _, round := range rounds {
		switch round.Outcome {
		case OutcomeCorrect:
			outcomes.Correct++
		case OutcomeSkip:
			outcomes.Skip++
		case OutcomeWrong:
			outcomes.Wrong++
		}
	}
	return outcomes
}

func finishedCount(rounds []Round) int {
	count := 0
	for _, round := range rounds {
		if round.Status == PhaseFinished {
			count++
		}
	}
	return count
}

func history(rounds []Round) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(rounds))
	for _, round := range rounds {
		if round.Status != PhaseFinished {
			continue
		}
		entries = append(entries, HistoryEntry{
			Round:        round.Number,
			ActivePlayer: round.ActivePlayer,
			Word:         round.ActiveWord,
			Outcome:      round.Outcome,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Round < entries[j].Round
	})
	return entries
}
