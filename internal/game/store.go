package game

import "context"

// Store is the narrow persistence surface the engine depends on. Reads return
// rows in retrieval order; implementations decide what that order is.
type Store interface {
	InsertPlayer(ctx context.Context, player Player) error
	DeletePlayer(ctx context.Context, connectionID string) error
	ListPlayers(ctx context.Context) ([]Player, error)

	UpsertClue(ctx context.Context, clue Clue) error
	DeleteCluesByText(ctx context.Context, text string) error
	ListClues(ctx context.Context) ([]Clue, error)
	ClearClues(ctx context.Context) error

	InsertRound(ctx context.Context, round Round) error
	UpdateRound(ctx context.Context, round Round) error
	GetRound(ctx context.Context, number int) (Round, bool, error)
	ListRounds(ctx context.Context) ([]Round, error)
	ClearRounds(ctx context.Context) error

	ClearPlayers(ctx context.Context) error

	// RecordEvent appends an audit entry. roundNumber is 0 outside a round.
	RecordEvent(ctx context.Context, roundNumber int, eventType string, payload any) error

	// Atomic runs fn against a store whose writes commit together or not at all.
	Atomic(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}

// WordSource supplies the secret word for a round.
type WordSource interface {
	NextWord(ctx context.Context) (string, error)
}
