package game

import "context"

// Ledger holds the clues of the current round, one per player name.
type Ledger struct{}

// Submit upserts clue and reports whether every non-active player has
// submitted.
func (l Ledger) Submit(ctx context.Context, st Store, clue Clue, numberOfPlayers int) (LedgerState, error) {
	if err := st.UpsertClue(ctx, clue); err != nil {
		return LedgerState{}, storeErr("upsert clue", err)
	}
	clues, err := l.All(ctx, st)
	if err != nil {
		return LedgerState{}, err
	}
	return LedgerState{
		Clues:  clues,
		Quorum: quorumReached(len(clues), numberOfPlayers),
	}, nil
}

// Remove deletes every clue whose text equals text, whoever submitted it.
func (l Ledger) Remove(ctx context.Context, st Store, text string) ([]Clue, error) {
	if err := st.DeleteCluesByText(ctx, text); err != nil {
		return nil, storeErr("delete clues", err)
	}
	return l.All(ctx, st)
}

func (l Ledger) All(ctx context.Context, st Store) ([]Clue, error) {
	clues, err := st.ListClues(ctx)
	if err != nil {
		return nil, storeErr("list clues", err)
	}
	return clues, nil
}

func (l Ledger) Clear(ctx context.Context, st Store) error {
	return storeErr("clear clues", st.ClearClues(ctx))
}

// quorumReached is true when the clue count equals numberOfPlayers-1. A round
// with no clues never reaches quorum.
func quorumReached(clueCount, numberOfPlayers int) bool {
	return clueCount > 0 && clueCount == numberOfPlayers-1
}
