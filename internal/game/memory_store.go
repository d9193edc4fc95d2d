package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// EventRecord is an audit log entry as kept by MemoryStore.
type EventRecord struct {
	RoundNumber int
	Type        string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

// MemoryStore keeps the session in process memory. Players, clues and rounds
// are returned in insertion order.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	players []Player
	clues   []Clue
	rounds  []Round
	events  []EventRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memoryState{}}
}

func (s *MemoryStore) InsertPlayer(ctx context.Context, player Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.players {
		if s.state.players[i].ConnectionID == player.ConnectionID {
			s.state.players[i] = player
			return nil
		}
	}
	s.state.players = append(s.state.players, player)
	return nil
}

func (s *MemoryStore) DeletePlayer(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.players[:0]
	for _, player := range s.state.players {
		if player.ConnectionID != connectionID {
			kept = append(kept, player)
		}
	}
	s.state.players = kept
	return nil
}

func (s *MemoryStore) ListPlayers(ctx context.Context) ([]Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Player(nil), s.state.players...), nil
}

func (s *MemoryStore) ClearPlayers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.players = nil
	return nil
}

func (s *MemoryStore) UpsertClue(ctx context.Context, clue Clue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.clues {
		if s.state.clues[i].PlayerName == clue.PlayerName {
			s.state.clues[i] = clue
			return nil
		}
	}
	s.state.clues = append(s.state.clues, clue)
	return nil
}

func (s *MemoryStore) DeleteCluesByText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.state.clues[:0]
	for _, clue := range s.state.clues {
		if clue.Text != text {
			kept = append(kept, clue)
		}
	}
	s.state.clues = kept
	return nil
}

func (s *MemoryStore) ListClues(ctx context.Context) ([]Clue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Clue(nil), s.state.clues...), nil
}

func (s *MemoryStore) ClearClues(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.clues = nil
	return nil
}

func (s *MemoryStore) InsertRound(ctx context.Context, round Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.rounds {
		if existing.Number == round.Number {
			return storeErr("insert round", errDuplicateRound)
		}
	}
	s.state.rounds = append(s.state.rounds, round)
	return nil
}

func (s *MemoryStore) UpdateRound(ctx context.Context, round Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.rounds {
		if s.state.rounds[i].Number == round.Number {
			s.state.rounds[i] = round
			return nil
		}
	}
	return storeErr("update round", errRoundNotFound)
}

func (s *MemoryStore) GetRound(ctx context.Context, number int) (Round, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, round := range s.state.rounds {
		if round.Number == number {
			return round, true, nil
		}
	}
	return Round{}, false, nil
}

func (s *MemoryStore) ListRounds(ctx context.Context) ([]Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Round(nil), s.state.rounds...), nil
}

func (s *MemoryStore) ClearRounds(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.rounds = nil
	return nil
}

func (s *MemoryStore) RecordEvent(ctx context.Context, roundNumber int, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return storeErr("encode event", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.events = append(s.state.events, EventRecord{
		RoundNumber: roundNumber,
		Type:        eventType,
		Payload:     data,
		CreatedAt:   time.Now().UTC(),
	})
	return nil
}

// Events returns a copy of the audit log.
func (s *MemoryStore) Events() []EventRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EventRecord(nil), s.state.events...)
}

// Atomic runs fn against a private copy of the state and publishes the copy
// only when fn succeeds. Other callers block until it finishes.
func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &MemoryStore{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *memoryState) clone() *memoryState {
	return &memoryState{
		players: append([]Player(nil), m.players...),
		clues:   append([]Clue(nil), m.clues...),
		rounds:  append([]Round(nil), m.rounds...),
		events:  append([]EventRecord(nil), m.events...),
	}
}
