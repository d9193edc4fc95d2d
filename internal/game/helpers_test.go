package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const allConnections = "*"

type sentEvent struct {
	To     string
	Except string
	Event  Event
}

// recordingBroadcaster captures every event the engine emits.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (r *recordingBroadcaster) Broadcast(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: allConnections, Event: ev})
}

func (r *recordingBroadcaster) BroadcastExcept(connectionID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: allConnections, Except: connectionID, Event: ev})
}

func (r *recordingBroadcaster) Send(connectionID string, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: connectionID, Event: ev})
}

func (r *recordingBroadcaster) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recordingBroadcaster) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, sent := range r.events {
		names = append(names, sent.Event.Name)
	}
	return names
}

func (r *recordingBroadcaster) sentTo(connectionID string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var events []Event
	for _, sent := range r.events {
		if sent.To == connectionID {
			events = append(events, sent.Event)
		}
	}
	return events
}

func (r *recordingBroadcaster) count(name string) int {
	total := 0
	for _, n := range r.names() {
		if n == name {
			total++
		}
	}
	return total
}

func (r *recordingBroadcaster) last(name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Event.Name == name {
			return r.events[i].Event, true
		}
	}
	return Event{}, false
}

type mockWordSource struct {
	mock.Mock
}

func (m *mockWordSource) NextWord(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// sequenceWords hands out words in order, wrapping around.
type sequenceWords struct {
	mu    sync.Mutex
	words []string
	next  int
}

func (s *sequenceWords) NextWord(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	word := s.words[s.next%len(s.words)]
	s.next++
	return word, nil
}

var errConnectionRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// failingStore fails round writes while failRounds is set.
type failingStore struct {
	Store
	failRounds bool
}

func (f *failingStore) InsertRound(ctx context.Context, round Round) error {
	if f.failRounds {
		return errConnectionRefused
	}
	return f.Store.InsertRound(ctx, round)
}

func (f *failingStore) UpdateRound(ctx context.Context, round Round) error {
	if f.failRounds {
		return errConnectionRefused
	}
	return f.Store.UpdateRound(ctx, round)
}

func (f *failingStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return f.Store.Atomic(ctx, func(tx Store) error {
		return fn(&failingStore{Store: tx, failRounds: f.failRounds})
	})
}

type testSession struct {
	engine *Engine
	store  *MemoryStore
	out    *recordingBroadcaster
}

func newTestSession(t *testing.T, opts Options) testSession {
	t.Helper()
	store := NewMemoryStore()
	out := &recordingBroadcaster{}
	words := &sequenceWords{words: []string{"apple", "river", "candle", "tiger", "glacier"}}
	return testSession{
		engine: NewEngine(store, words, out, nil, opts),
		store:  store,
		out:    out,
	}
}

func (ts testSession) register(t *testing.T, players ...Player) {
	t.Helper()
	for _, player := range players {
		require.NoError(t, ts.engine.Register(context.Background(), player.ConnectionID, player.Name, player.Color))
	}
}

// playRound drives one round from start to outcome, skipping straight to
// clue checking without any clues.
func (ts testSession) playRound(t *testing.T, outcome string) Round {
	t.Helper()
	ctx := context.Background()
	round, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	require.NoError(t, ts.engine.OntoCheckingClues(ctx))
	require.NoError(t, ts.engine.FinishCheckingClues(ctx))
	_, err = ts.engine.UpdateOutcomes(ctx, outcome)
	require.NoError(t, err)
	return round
}

func threePlayers() []Player {
	return []Player{
		{ConnectionID: "conn-a", Name: "A", Color: "red"},
		{ConnectionID: "conn-b", Name: "B", Color: "blue"},
		{ConnectionID: "conn-c", Name: "C", Color: "green"},
	}
}
