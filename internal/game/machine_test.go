package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestThreePlayerRound(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)

	round, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, "A", round.ActivePlayer)
	assert.Equal(t, "apple", round.ActiveWord)

	ev, ok := ts.out.last(EventProceedGivingClues)
	require.True(t, ok)
	assert.Equal(t, GivingCluesPayload{ActivePlayer: "A", ActiveColor: "red", ActiveWord: "apple"}, ev.Payload)

	require.NoError(t, ts.engine.SubmitClue(ctx, "B", "blue", "fruit"))
	assert.Zero(t, ts.out.count(EventProceedCheckingClues))
	require.NoError(t, ts.engine.SubmitClue(ctx, "C", "green", "orchard"))

	ev, ok = ts.out.last(EventProceedCheckingClues)
	require.True(t, ok)
	assert.Equal(t, cluesPayload([]Clue{
		{PlayerName: "B", Color: "blue", Text: "fruit"},
		{PlayerName: "C", Color: "green", Text: "orchard"},
	}), ev.Payload)

	phase, err := ts.engine.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseCheckingClues, phase)

	require.NoError(t, ts.engine.FinishCheckingClues(ctx))
	phase, err = ts.engine.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseGuessing, phase)

	tally, err := ts.engine.UpdateOutcomes(ctx, OutcomeCorrect)
	require.NoError(t, err)
	assert.Equal(t, Outcomes{Correct: 1}, tally.Outcomes)
	assert.Equal(t, []HistoryEntry{{Round: 1, ActivePlayer: "A", Word: "apple", Outcome: OutcomeCorrect}}, tally.History)
	assert.Equal(t, Outcomes{Correct: 1}, ts.engine.Session().Outcomes)

	stored, found, err := ts.store.GetRound(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, PhaseFinished, stored.Status)
	assert.Equal(t, OutcomeCorrect, stored.Outcome)
	assert.Zero(t, ts.out.count(EventEndingGame))
}

func TestQuorumTransitionsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t,
		Player{ConnectionID: "c1", Name: "P1", Color: "red"},
		Player{ConnectionID: "c2", Name: "P2", Color: "blue"},
		Player{ConnectionID: "c3", Name: "P3", Color: "green"},
		Player{ConnectionID: "c4", Name: "P4", Color: "teal"},
		Player{ConnectionID: "c5", Name: "P5", Color: "pink"},
	)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	submitters := []string{"P2", "P3", "P4", "P5"}
	for i, name := range submitters {
		require.NoError(t, ts.engine.SubmitClue(ctx, name, "", fmt.Sprintf("clue-%d", i)))
		want := 0
		if i == len(submitters)-1 {
			want = 1
		}
		assert.Equal(t, want, ts.out.count(EventProceedCheckingClues), "after %d clues", i+1)
	}

	err = ts.engine.SubmitClue(ctx, "P1", "", "late")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, ts.out.count(EventProceedCheckingClues))
}

func TestResubmissionOverwritesClue(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, ts.engine.SubmitClue(ctx, "B", "blue", "first"))
	require.NoError(t, ts.engine.SubmitClue(ctx, "B", "blue", "second"))
	assert.Zero(t, ts.out.count(EventProceedCheckingClues))

	clues, err := ts.store.ListClues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Clue{{PlayerName: "B", Color: "blue", Text: "second"}}, clues)
	assert.Equal(t, 1, ts.out.count(EventRemoveGetNewWord))
}

func TestActivePlayerClueCountsByDefault(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, ts.engine.SubmitClue(ctx, "A", "red", "self"))
	require.NoError(t, ts.engine.SubmitClue(ctx, "B", "blue", "other"))
	assert.Equal(t, 1, ts.out.count(EventProceedCheckingClues))
}

func TestActivePlayerClueRejectedWhenConfigured(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{RejectActivePlayerClues: true})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	err = ts.engine.SubmitClue(ctx, "A", "red", "self")
	assert.ErrorIs(t, err, ErrActivePlayerClue)
	clues, err := ts.store.ListClues(ctx)
	require.NoError(t, err)
	assert.Empty(t, clues)
}

func TestRoundNumbersIncreaseAndResetOnEndGame(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)

	for want := 1; want <= 4; want++ {
		round := ts.playRound(t, OutcomeSkip)
		assert.Equal(t, want, round.Number)
		assert.Equal(t, want, ts.engine.Session().RoundNumber)
	}

	require.NoError(t, ts.engine.EndGame(ctx))
	assert.Equal(t, Session{}, ts.engine.Session())
	assert.Equal(t, 1, ts.out.count(EventEndingGame))

	players, err := ts.store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)
	rounds, err := ts.store.ListRounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestRotationCoversEveryPlayer(t *testing.T) {
	ts := newTestSession(t, Options{})
	players := []Player{
		{ConnectionID: "c1", Name: "P1", Color: "red"},
		{ConnectionID: "c2", Name: "P2", Color: "blue"},
		{ConnectionID: "c3", Name: "P3", Color: "green"},
		{ConnectionID: "c4", Name: "P4", Color: "teal"},
	}
	ts.register(t, players...)

	seen := map[string]int{}
	var order []string
	for i := 0; i < len(players); i++ {
		round := ts.playRound(t, OutcomeWrong)
		seen[round.ActivePlayer]++
		order = append(order, round.ActivePlayer)
	}
	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, order)
	for _, player := range players {
		assert.Equal(t, 1, seen[player.Name], player.Name)
	}

	round := ts.playRound(t, OutcomeWrong)
	assert.Equal(t, "P1", round.ActivePlayer)
}

func TestStartRoundRejectedMidRound(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	_, err = ts.engine.StartRound(ctx)
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.Equal(t, 1, ts.engine.Session().RoundNumber)
}

func TestPhaseGuards(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)

	assert.ErrorIs(t, ts.engine.SubmitClue(ctx, "B", "blue", "x"), ErrNoActiveRound)
	assert.ErrorIs(t, ts.engine.GetNewWord(ctx), ErrNoActiveRound)

	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, ts.engine.FinishCheckingClues(ctx), ErrWrongPhase)
	assert.ErrorIs(t, ts.engine.RemoveClue(ctx, "x"), ErrWrongPhase)
	_, err = ts.engine.UpdateOutcomes(ctx, OutcomeCorrect)
	assert.ErrorIs(t, err, ErrWrongPhase)
	_, err = ts.engine.UpdateOutcomes(ctx, "maybe")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestRemoveClueDropsEveryMatch(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t,
		Player{ConnectionID: "c1", Name: "P1", Color: "red"},
		Player{ConnectionID: "c2", Name: "P2", Color: "blue"},
		Player{ConnectionID: "c3", Name: "P3", Color: "green"},
		Player{ConnectionID: "c4", Name: "P4", Color: "teal"},
	)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	require.NoError(t, ts.engine.SubmitClue(ctx, "P2", "blue", "X"))
	require.NoError(t, ts.engine.SubmitClue(ctx, "P3", "green", "X"))
	require.NoError(t, ts.engine.SubmitClue(ctx, "P4", "teal", "Y"))

	require.NoError(t, ts.engine.RemoveClue(ctx, "X"))
	ev, ok := ts.out.last(EventRemovingClues)
	require.True(t, ok)
	assert.Equal(t, cluesPayload([]Clue{{PlayerName: "P4", Color: "teal", Text: "Y"}}), ev.Payload)

	require.NoError(t, ts.engine.FinishCheckingClues(ctx))
	ev, ok = ts.out.last(EventProceedGuessing)
	require.True(t, ok)
	assert.Equal(t, cluesPayload([]Clue{{PlayerName: "P4", Color: "teal", Text: "Y"}}), ev.Payload)
}

func TestRoundCapEndsGame(t *testing.T) {
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)

	for i := 1; i < DefaultRoundCap; i++ {
		ts.playRound(t, OutcomeCorrect)
	}
	assert.Zero(t, ts.out.count(EventEndingGame))
	complete, err := ts.engine.GameComplete(context.Background())
	require.NoError(t, err)
	assert.False(t, complete)

	ts.playRound(t, OutcomeWrong)
	assert.Equal(t, 1, ts.out.count(EventEndingGame))
	names := ts.out.names()
	assert.Equal(t, []string{EventStats, EventEndingGame}, names[len(names)-2:])
	complete, err = ts.engine.GameComplete(context.Background())
	require.NoError(t, err)
	assert.True(t, complete)

	ts.playRound(t, OutcomeSkip)
	assert.Equal(t, 2, ts.out.count(EventEndingGame))
}

func TestRoundCapFromOptions(t *testing.T) {
	ts := newTestSession(t, Options{RoundCap: 2})
	ts.register(t, threePlayers()...)
	ts.playRound(t, OutcomeCorrect)
	assert.Zero(t, ts.out.count(EventEndingGame))
	ts.playRound(t, OutcomeCorrect)
	assert.Equal(t, 1, ts.out.count(EventEndingGame))
}

func TestLastDisconnectClearsSession(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, Player{ConnectionID: "solo", Name: "Solo", Color: "red"})
	ts.playRound(t, OutcomeCorrect)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, ts.engine.Disconnect(ctx, "solo"))
	assert.Equal(t, Session{}, ts.engine.Session())
	rounds, err := ts.store.ListRounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, rounds)
	clues, err := ts.store.ListClues(ctx)
	require.NoError(t, err)
	assert.Empty(t, clues)

	ts.out.clear()
	_, err = ts.engine.StartRound(ctx)
	assert.ErrorIs(t, err, ErrEmptyRoster)
	assert.Empty(t, ts.out.names())
	rounds, err = ts.store.ListRounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestDisconnectUnknownConnectionIsNoop(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	require.NoError(t, ts.engine.Disconnect(ctx, "spectator"))
	assert.Equal(t, 3, ts.engine.Session().NumberOfPlayers)
}

func TestDisconnectCanCompleteQuorum(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t,
		Player{ConnectionID: "c1", Name: "P1", Color: "red"},
		Player{ConnectionID: "c2", Name: "P2", Color: "blue"},
		Player{ConnectionID: "c3", Name: "P3", Color: "green"},
		Player{ConnectionID: "c4", Name: "P4", Color: "teal"},
	)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	require.NoError(t, ts.engine.SubmitClue(ctx, "P2", "blue", "one"))
	require.NoError(t, ts.engine.SubmitClue(ctx, "P3", "green", "two"))
	assert.Zero(t, ts.out.count(EventProceedCheckingClues))

	require.NoError(t, ts.engine.Disconnect(ctx, "c4"))
	assert.Equal(t, 1, ts.out.count(EventProceedCheckingClues))
	assert.Equal(t, 3, ts.engine.Session().NumberOfPlayers)
	phase, err := ts.engine.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseCheckingClues, phase)
}

func TestRegisterBroadcastsColorToOthers(t *testing.T) {
	ts := newTestSession(t, Options{})
	ts.register(t, Player{ConnectionID: "c1", Name: "P1", Color: "purple"})

	require.Len(t, ts.out.events, 1)
	sent := ts.out.events[0]
	assert.Equal(t, allConnections, sent.To)
	assert.Equal(t, "c1", sent.Except)
	assert.Equal(t, Event{Name: EventRemoveColors, Payload: ColorPayload{Color: "purple"}}, sent.Event)
}

func TestUniqueColorsEnforcedWhenConfigured(t *testing.T) {
	ctx := context.Background()
	lenient := newTestSession(t, Options{})
	lenient.register(t, Player{ConnectionID: "c1", Name: "P1", Color: "red"})
	require.NoError(t, lenient.engine.Register(ctx, "c2", "P2", "red"))

	strict := newTestSession(t, Options{EnforceUniqueColors: true})
	strict.register(t, Player{ConnectionID: "c1", Name: "P1", Color: "red"})
	err := strict.engine.Register(ctx, "c2", "P2", "red")
	assert.ErrorIs(t, err, ErrColorTaken)
	assert.Equal(t, 1, strict.engine.Session().NumberOfPlayers)
}

func TestGetNewWordRedrawsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	out := &recordingBroadcaster{}
	words := &mockWordSource{}
	words.On("NextWord", mock.Anything).Return("lantern", nil).Once()
	words.On("NextWord", mock.Anything).Return("harbor", nil).Once()
	engine := NewEngine(store, words, out, nil, Options{})
	require.NoError(t, engine.Register(ctx, "c1", "P1", "red"))
	require.NoError(t, engine.Register(ctx, "c2", "P2", "blue"))

	round, err := engine.StartRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lantern", round.ActiveWord)

	require.NoError(t, engine.GetNewWord(ctx))
	ev, ok := out.last(EventSendingNewWord)
	require.True(t, ok)
	assert.Equal(t, WordPayload{ActiveWord: "harbor"}, ev.Payload)

	stored, _, err := store.GetRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "harbor", stored.ActiveWord)
	words.AssertExpectations(t)
}

func TestStartNewGameKeepsRoster(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	ts.playRound(t, OutcomeCorrect)
	ts.playRound(t, OutcomeWrong)

	require.NoError(t, ts.engine.StartNewGame(ctx))
	assert.Equal(t, Session{NumberOfPlayers: 3}, ts.engine.Session())
	assert.Equal(t, 1, ts.out.count(EventStartingNewGame))

	round, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	assert.Equal(t, "A", round.ActivePlayer)
}

func TestStoreFailureEmitsNothing(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: NewMemoryStore()}
	out := &recordingBroadcaster{}
	engine := NewEngine(store, &sequenceWords{words: []string{"apple"}}, out, nil, Options{})
	require.NoError(t, engine.Register(ctx, "c1", "P1", "red"))
	require.NoError(t, engine.Register(ctx, "c2", "P2", "blue"))
	out.clear()

	store.failRounds = true
	_, err := engine.StartRound(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, errConnectionRefused)
	assert.Empty(t, out.names())
	assert.Zero(t, engine.Session().RoundNumber)

	store.failRounds = false
	round, err := engine.StartRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)

	store.failRounds = true
	out.clear()
	assert.ErrorIs(t, engine.OntoCheckingClues(ctx), ErrStoreUnavailable)
	assert.Empty(t, out.names())
	store.failRounds = false
	phase, err := engine.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseGivingClues, phase)
}

func TestFailedSubmitRollsBackClue(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: NewMemoryStore()}
	out := &recordingBroadcaster{}
	engine := NewEngine(store, &sequenceWords{words: []string{"apple"}}, out, nil, Options{})
	require.NoError(t, engine.Register(ctx, "c1", "P1", "red"))
	require.NoError(t, engine.Register(ctx, "c2", "P2", "blue"))
	_, err := engine.StartRound(ctx)
	require.NoError(t, err)

	store.failRounds = true
	err = engine.SubmitClue(ctx, "P2", "blue", "fruit")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	clues, err := store.ListClues(ctx)
	require.NoError(t, err)
	assert.Empty(t, clues)
}

func TestRestoreRebuildsSession(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	ts.playRound(t, OutcomeCorrect)
	ts.playRound(t, OutcomeSkip)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	restarted := NewEngine(ts.store, &sequenceWords{words: []string{"zebra"}}, &recordingBroadcaster{}, nil, Options{})
	require.NoError(t, restarted.Restore(ctx))
	assert.Equal(t, Session{
		RoundNumber: 3,
		Outcomes:    Outcomes{Correct: 1, Skip: 1},
	}, restarted.Session())

	phase, err := restarted.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseGivingClues, phase)

	players, err := ts.store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)
	events := ts.store.Events()
	assert.Equal(t, auditPlayersPurged, events[len(events)-1].Type)
}

func TestRestoreDropsPlayersFromDeadConnections(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t,
		Player{ConnectionID: "old-a", Name: "A", Color: "red"},
		Player{ConnectionID: "old-b", Name: "B", Color: "blue"},
	)

	out := &recordingBroadcaster{}
	restarted := NewEngine(ts.store, &sequenceWords{words: []string{"zebra"}}, out, nil, Options{})
	require.NoError(t, restarted.Restore(ctx))
	require.NoError(t, restarted.Register(ctx, "new-c", "C", "green"))
	require.NoError(t, restarted.Register(ctx, "new-d", "D", "teal"))
	assert.Equal(t, 2, restarted.Session().NumberOfPlayers)

	round, err := restarted.StartRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C", round.ActivePlayer)

	require.NoError(t, restarted.SubmitClue(ctx, "D", "teal", "stripes"))
	phase, err := restarted.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseCheckingClues, phase)
	assert.Equal(t, 1, out.count(EventProceedCheckingClues))

	require.NoError(t, restarted.Disconnect(ctx, "new-c"))
	require.NoError(t, restarted.Disconnect(ctx, "new-d"))
	assert.Equal(t, Session{}, restarted.Session())
	players, err := ts.store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestRestoreWithoutPlayersRecordsNothing(t *testing.T) {
	ts := newTestSession(t, Options{})
	require.NoError(t, ts.engine.Restore(context.Background()))
	assert.Empty(t, ts.store.Events())
	assert.Equal(t, Session{}, ts.engine.Session())
}

func TestSinglePlayerClueDoesNotReachQuorum(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, Player{ConnectionID: "conn-a", Name: "A", Color: "red"})
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, ts.engine.SubmitClue(ctx, "A", "red", "self"))
	assert.Zero(t, ts.out.count(EventProceedCheckingClues))
	phase, err := ts.engine.Phase(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseGivingClues, phase)
}

func TestSubmitClueFromUsesRegisteredPlayer(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	require.NoError(t, ts.engine.SubmitClueFrom(ctx, "conn-b", "fruit"))
	clues, err := ts.store.ListClues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Clue{{PlayerName: "B", Color: "blue", Text: "fruit"}}, clues)

	assert.ErrorIs(t, ts.engine.SubmitClueFrom(ctx, "spectator", "orchard"), ErrNotRegistered)
}

func TestSubmitClueFromAfterEndGame(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	require.NoError(t, ts.engine.EndGame(ctx))

	ts.register(t,
		Player{ConnectionID: "conn-b", Name: "B", Color: "blue"},
		Player{ConnectionID: "conn-c", Name: "C", Color: "green"},
	)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, ts.engine.SubmitClueFrom(ctx, "conn-a", "fruit"), ErrNotRegistered)
	clues, err := ts.store.ListClues(ctx)
	require.NoError(t, err)
	assert.Empty(t, clues)
}

func TestAuditLogRecordsRoundActivity(t *testing.T) {
	ctx := context.Background()
	ts := newTestSession(t, Options{})
	ts.register(t, threePlayers()...)
	_, err := ts.engine.StartRound(ctx)
	require.NoError(t, err)
	require.NoError(t, ts.engine.SubmitClue(ctx, "B", "blue", "fruit"))

	var types []string
	for _, record := range ts.store.Events() {
		types = append(types, record.Type)
	}
	assert.Equal(t, []string{
		auditPlayerJoined, auditPlayerJoined, auditPlayerJoined,
		auditRoundStarted, auditClueSubmitted,
	}, types)
	last := ts.store.Events()[len(types)-1]
	assert.Equal(t, 1, last.RoundNumber)
	assert.JSONEq(t, `{"playerName":"B","color":"blue","clue":"fruit"}`, string(last.Payload))
}
