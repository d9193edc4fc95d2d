package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var phaseTransitions = map[string][]string{
	phaseLobby:         {PhaseGivingClues},
	PhaseGivingClues:   {PhaseCheckingClues},
	PhaseCheckingClues: {PhaseGuessing},
	PhaseGuessing:      {PhaseFinished},
	PhaseFinished:      {PhaseGivingClues},
}

func canTransition(from, to string) bool {
	for _, next := range phaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Options struct {
	RoundCap                int
	EnforceUniqueColors     bool
	RejectActivePlayerClues bool
}

// Engine is the round state machine. Every exported operation holds mu from
// its first read to its last broadcast, so the engine is the single writer
// for the session and clients observe events in engine order.
type Engine struct {
	mu         sync.Mutex
	store      Store
	words      WordSource
	out        Broadcaster
	logger     *zap.Logger
	opts       Options
	session    Session
	roster     Roster
	ledger     Ledger
	aggregator Aggregator
}

func NewEngine(store Store, words WordSource, out Broadcaster, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RoundCap <= 0 {
		opts.RoundCap = DefaultRoundCap
	}
	return &Engine{
		store:      store,
		words:      words,
		out:        out,
		logger:     logger,
		opts:       opts,
		roster:     Roster{EnforceUniqueColors: opts.EnforceUniqueColors},
		aggregator: Aggregator{RoundCap: opts.RoundCap},
	}
}

// Restore rebuilds the session cache from the store after a restart. Player
// rows belong to connections that did not survive the restart, so they are
// purged; rounds and their outcomes are kept.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		restored Session
		purged   int
	)
	err := e.store.Atomic(ctx, func(tx Store) error {
		stale, err := tx.ListPlayers(ctx)
		if err != nil {
			return storeErr("list players", err)
		}
		purged = len(stale)
		if purged > 0 {
			if err := tx.ClearPlayers(ctx); err != nil {
				return storeErr("clear players", err)
			}
		}
		if err := restored.Reload(ctx, tx); err != nil {
			return err
		}
		if purged == 0 {
			return nil
		}
		return e.audit(ctx, tx, restored.RoundNumber, auditPlayersPurged, map[string]int{"players": purged})
	})
	if err != nil {
		return e.fail("restore", err)
	}
	e.session = restored
	e.logger.Info("session restored",
		zap.Int("round", e.session.RoundNumber),
		zap.Int("stale_players", purged),
	)
	return nil
}

// Session returns a copy of the cached session counters.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Phase reports the phase of the current round, or "lobby" when no round exists.
func (e *Engine) Phase(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	round, found, err := e.currentRound(ctx, e.store)
	if err != nil {
		return "", err
	}
	if !found {
		return phaseLobby, nil
	}
	return round.Status, nil
}

func (e *Engine) Register(ctx context.Context, connectionID, name, color string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player := Player{ConnectionID: connectionID, Name: name, Color: color}
	var count int
	err := e.store.Atomic(ctx, func(tx Store) error {
		if err := e.roster.Register(ctx, tx, player); err != nil {
			return err
		}
		snapshot, err := e.roster.Snapshot(ctx, tx)
		if err != nil {
			return err
		}
		count = snapshot.Count
		return e.audit(ctx, tx, e.session.RoundNumber, auditPlayerJoined, player)
	})
	if err != nil {
		return e.fail("register", err)
	}
	e.session.NumberOfPlayers = count
	e.logger.Info("player registered",
		zap.String("connection_id", connectionID),
		zap.String("player", name),
		zap.String("color", color),
		zap.Int("players", count),
	)
	e.out.BroadcastExcept(connectionID, Event{Name: EventRemoveColors, Payload: ColorPayload{Color: color}})
	return nil
}

// Disconnect unregisters the connection's player. When the roster becomes
// empty the whole session is cleared; otherwise quorum is re-evaluated
// against the smaller roster.
func (e *Engine) Disconnect(ctx context.Context, connectionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		snapshot RosterSnapshot
		removed  Player
		found    bool
		advanced *Round
		clues    []Clue
	)
	err := e.store.Atomic(ctx, func(tx Store) error {
		var err error
		snapshot, removed, found, err = e.roster.Unregister(ctx, tx, connectionID)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		if err := e.audit(ctx, tx, e.session.RoundNumber, auditPlayerLeft, removed); err != nil {
			return err
		}
		if snapshot.Empty {
			return e.clearSession(ctx, tx, true)
		}
		round, ok, err := e.currentRound(ctx, tx)
		if err != nil || !ok || round.Status != PhaseGivingClues {
			return err
		}
		clues, err = e.ledger.All(ctx, tx)
		if err != nil {
			return err
		}
		if !quorumReached(len(clues), snapshot.Count) {
			return nil
		}
		next, err := e.advance(ctx, tx, round, PhaseCheckingClues)
		if err != nil {
			return err
		}
		advanced = &next
		return nil
	})
	if err != nil {
		return e.fail("disconnect", err)
	}
	if !found {
		return nil
	}
	e.logger.Info("player left",
		zap.String("connection_id", connectionID),
		zap.String("player", removed.Name),
		zap.Int("players", snapshot.Count),
	)
	if snapshot.Empty {
		e.session.reset()
		e.logger.Info("roster empty, session cleared")
		return nil
	}
	e.session.NumberOfPlayers = snapshot.Count
	if advanced != nil {
		e.out.Broadcast(Event{Name: EventProceedCheckingClues, Payload: cluesPayload(clues)})
	}
	return nil
}

func (e *Engine) StartRound(ctx context.Context) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, found, err := e.currentRound(ctx, e.store)
	if err != nil {
		return Round{}, e.fail("start round", err)
	}
	from := phaseLobby
	if found {
		from = current.Status
	}
	if !canTransition(from, PhaseGivingClues) {
		return Round{}, e.fail("start round", fmt.Errorf("%w: %s", ErrWrongPhase, from))
	}

	var (
		next        Round
		activeColor string
		count       int
	)
	err = e.store.Atomic(ctx, func(tx Store) error {
		active, snapshot, err := e.roster.NextActivePlayer(ctx, tx, e.session.RoundNumber)
		if err != nil {
			return err
		}
		word, err := e.drawWord(ctx)
		if err != nil {
			return err
		}
		if err := e.ledger.Clear(ctx, tx); err != nil {
			return err
		}
		next = Round{
			Number:       e.session.RoundNumber + 1,
			ActivePlayer: active.Name,
			ActiveWord:   word,
			Status:       PhaseGivingClues,
		}
		if err := tx.InsertRound(ctx, next); err != nil {
			return storeErr("insert round", err)
		}
		activeColor = active.Color
		count = snapshot.Count
		return e.audit(ctx, tx, next.Number, auditRoundStarted, GivingCluesPayload{
			ActivePlayer: next.ActivePlayer,
			ActiveColor:  activeColor,
			ActiveWord:   next.ActiveWord,
		})
	})
	if err != nil {
		return Round{}, e.fail("start round", err)
	}
	e.session.RoundNumber = next.Number
	e.session.NumberOfPlayers = count
	e.logger.Info("round started",
		zap.Int("round", next.Number),
		zap.String("active_player", next.ActivePlayer),
		zap.Int("players", count),
	)
	e.out.Broadcast(Event{Name: EventProceedGivingClues, Payload: GivingCluesPayload{
		ActivePlayer: next.ActivePlayer,
		ActiveColor:  activeColor,
		ActiveWord:   next.ActiveWord,
	}})
	return next, nil
}

// JoinGame moves every client from set-up to the game screen.
func (e *Engine) JoinGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.out.Broadcast(Event{Name: EventGameStarted, Payload: EmptyPayload{}})
	return nil
}

// GetNewWord redraws the current round's word. It is not refused once clues
// exist; clients hide the affordance after removeGetNewWord.
func (e *Engine) GetNewWord(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	round, found, err := e.currentRound(ctx, e.store)
	if err != nil {
		return e.fail("get new word", err)
	}
	if !found {
		return e.fail("get new word", ErrNoActiveRound)
	}
	word, err := e.drawWord(ctx)
	if err != nil {
		return e.fail("get new word", err)
	}
	round.ActiveWord = word
	err = e.store.Atomic(ctx, func(tx Store) error {
		if err := tx.UpdateRound(ctx, round); err != nil {
			return storeErr("update round", err)
		}
		return e.audit(ctx, tx, round.Number, auditWordRedrawn, WordPayload{ActiveWord: word})
	})
	if err != nil {
		return e.fail("get new word", err)
	}
	e.out.Broadcast(Event{Name: EventSendingNewWord, Payload: WordPayload{ActiveWord: word}})
	return nil
}

func (e *Engine) SubmitClue(ctx context.Context, playerName, color, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitClue(ctx, playerName, color, text)
}

// SubmitClueFrom submits text as the player registered on connectionID,
// with that player's name and colour. A connection without a player row
// gets ErrNotRegistered.
func (e *Engine) SubmitClueFrom(ctx context.Context, connectionID, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, found, err := e.roster.Find(ctx, e.store, connectionID)
	if err != nil {
		return e.fail("submit clue", err)
	}
	if !found {
		return e.fail("submit clue", ErrNotRegistered)
	}
	return e.submitClue(ctx, player.Name, player.Color, text)
}

func (e *Engine) submitClue(ctx context.Context, playerName, color, text string) error {
	round, err := e.requirePhase(ctx, PhaseGivingClues)
	if err != nil {
		return e.fail("submit clue", err)
	}
	if e.opts.RejectActivePlayerClues && playerName == round.ActivePlayer {
		return e.fail("submit clue", ErrActivePlayerClue)
	}

	clue := Clue{PlayerName: playerName, Color: color, Text: text}
	var (
		state LedgerState
		first bool
		count int
	)
	err = e.store.Atomic(ctx, func(tx Store) error {
		before, err := e.ledger.All(ctx, tx)
		if err != nil {
			return err
		}
		first = len(before) == 0
		snapshot, err := e.roster.Snapshot(ctx, tx)
		if err != nil {
			return err
		}
		count = snapshot.Count
		state, err = e.ledger.Submit(ctx, tx, clue, count)
		if err != nil {
			return err
		}
		if err := e.audit(ctx, tx, round.Number, auditClueSubmitted, clue); err != nil {
			return err
		}
		if state.Quorum {
			_, err = e.advance(ctx, tx, round, PhaseCheckingClues)
		}
		return err
	})
	if err != nil {
		return e.fail("submit clue", err)
	}
	e.session.NumberOfPlayers = count
	e.logger.Debug("clue submitted",
		zap.Int("round", round.Number),
		zap.String("player", playerName),
		zap.Int("clues", len(state.Clues)),
		zap.Int("players", count),
	)
	if first {
		e.out.Broadcast(Event{Name: EventRemoveGetNewWord, Payload: EmptyPayload{}})
	}
	if state.Quorum {
		e.out.Broadcast(Event{Name: EventProceedCheckingClues, Payload: cluesPayload(state.Clues)})
	}
	return nil
}

// OntoCheckingClues moves to clue checking without waiting for quorum.
func (e *Engine) OntoCheckingClues(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	round, err := e.requirePhase(ctx, PhaseGivingClues)
	if err != nil {
		return e.fail("onto checking clues", err)
	}
	var clues []Clue
	err = e.store.Atomic(ctx, func(tx Store) error {
		if _, err := e.advance(ctx, tx, round, PhaseCheckingClues); err != nil {
			return err
		}
		clues, err = e.ledger.All(ctx, tx)
		return err
	})
	if err != nil {
		return e.fail("onto checking clues", err)
	}
	e.out.Broadcast(Event{Name: EventProceedCheckingClues, Payload: cluesPayload(clues)})
	return nil
}

// RemoveClue prunes every clue whose text equals text.
func (e *Engine) RemoveClue(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	round, err := e.requirePhase(ctx, PhaseCheckingClues)
	if err != nil {
		return e.fail("remove clue", err)
	}
	var clues []Clue
	err = e.store.Atomic(ctx, func(tx Store) error {
		clues, err = e.ledger.Remove(ctx, tx, text)
		if err != nil {
			return err
		}
		return e.audit(ctx, tx, round.Number, auditCluesRemoved, map[string]string{"clue": text})
	})
	if err != nil {
		return e.fail("remove clue", err)
	}
	e.out.Broadcast(Event{Name: EventRemovingClues, Payload: cluesPayload(clues)})
	return nil
}

func (e *Engine) FinishCheckingClues(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	round, err := e.requirePhase(ctx, PhaseCheckingClues)
	if err != nil {
		return e.fail("finish checking clues", err)
	}
	var clues []Clue
	err = e.store.Atomic(ctx, func(tx Store) error {
		if _, err := e.advance(ctx, tx, round, PhaseGuessing); err != nil {
			return err
		}
		clues, err = e.ledger.All(ctx, tx)
		return err
	})
	if err != nil {
		return e.fail("finish checking clues", err)
	}
	e.out.Broadcast(Event{Name: EventProceedGuessing, Payload: cluesPayload(clues)})
	return nil
}

// UpdateOutcomes finishes the round, broadcasts the tally and, once the
// round cap is reached, the end of the game.
func (e *Engine) UpdateOutcomes(ctx context.Context, outcome string) (Tally, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !validOutcome(outcome) {
		return Tally{}, e.fail("update outcomes", fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome))
	}
	round, err := e.requirePhase(ctx, PhaseGuessing)
	if err != nil {
		return Tally{}, e.fail("update outcomes", err)
	}
	var tally Tally
	err = e.store.Atomic(ctx, func(tx Store) error {
		tally, err = e.aggregator.RecordOutcome(ctx, tx, round, outcome)
		if err != nil {
			return err
		}
		return e.audit(ctx, tx, round.Number, auditOutcome, outcomePayload{Round: round.Number, Outcome: outcome})
	})
	if err != nil {
		return Tally{}, e.fail("update outcomes", err)
	}
	e.session.Outcomes = tally.Outcomes
	complete := e.aggregator.complete(len(tally.History))
	e.logger.Info("round finished",
		zap.Int("round", round.Number),
		zap.String("outcome", outcome),
		zap.Int("finished_rounds", len(tally.History)),
		zap.Bool("game_complete", complete),
	)
	e.out.Broadcast(Event{Name: EventStats, Payload: tally})
	if complete {
		e.out.Broadcast(Event{Name: EventEndingGame, Payload: EmptyPayload{}})
	}
	return tally, nil
}

// GameComplete reports whether the round cap has been reached.
func (e *Engine) GameComplete(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	complete, err := e.aggregator.GameComplete(ctx, e.store)
	if err != nil {
		return false, e.fail("game complete", err)
	}
	return complete, nil
}

// EndGame clears players, clues and rounds and tells every client.
func (e *Engine) EndGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.Atomic(ctx, func(tx Store) error {
		return e.clearSession(ctx, tx, true)
	})
	if err != nil {
		return e.fail("end game", err)
	}
	e.session.reset()
	e.logger.Info("game ended")
	e.out.Broadcast(Event{Name: EventEndingGame, Payload: EmptyPayload{}})
	return nil
}

// StartNewGame discards rounds and clues but keeps the roster.
func (e *Engine) StartNewGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var count int
	err := e.store.Atomic(ctx, func(tx Store) error {
		if err := e.clearSession(ctx, tx, false); err != nil {
			return err
		}
		snapshot, err := e.roster.Snapshot(ctx, tx)
		if err != nil {
			return err
		}
		count = snapshot.Count
		return e.audit(ctx, tx, 0, auditNewGame, EmptyPayload{})
	})
	if err != nil {
		return e.fail("start new game", err)
	}
	e.session.reset()
	e.session.NumberOfPlayers = count
	e.logger.Info("new game started", zap.Int("players", count))
	e.out.Broadcast(Event{Name: EventStartingNewGame, Payload: EmptyPayload{}})
	return nil
}

func (e *Engine) clearSession(ctx context.Context, tx Store, players bool) error {
	if err := e.ledger.Clear(ctx, tx); err != nil {
		return err
	}
	if err := tx.ClearRounds(ctx); err != nil {
		return storeErr("clear rounds", err)
	}
	if players {
		if err := tx.ClearPlayers(ctx); err != nil {
			return storeErr("clear players", err)
		}
		return e.audit(ctx, tx, 0, auditSessionCleared, EmptyPayload{})
	}
	return nil
}

func (e *Engine) advance(ctx context.Context, tx Store, round Round, to string) (Round, error) {
	if !canTransition(round.Status, to) {
		return round, fmt.Errorf("%w: %s -> %s", ErrWrongPhase, round.Status, to)
	}
	from := round.Status
	round.Status = to
	if err := tx.UpdateRound(ctx, round); err != nil {
		return round, storeErr("update round", err)
	}
	if err := e.audit(ctx, tx, round.Number, auditPhaseChanged, phasePayload{Round: round.Number, From: from, To: to}); err != nil {
		return round, err
	}
	e.logger.Info("phase changed",
		zap.Int("round", round.Number),
		zap.String("from", from),
		zap.String("to", to),
	)
	return round, nil
}

func (e *Engine) requirePhase(ctx context.Context, phase string) (Round, error) {
	round, found, err := e.currentRound(ctx, e.store)
	if err != nil {
		return Round{}, err
	}
	if !found {
		return Round{}, ErrNoActiveRound
	}
	if round.Status != phase {
		return Round{}, fmt.Errorf("%w: %s", ErrWrongPhase, round.Status)
	}
	return round, nil
}

func (e *Engine) currentRound(ctx context.Context, st Store) (Round, bool, error) {
	if e.session.RoundNumber == 0 {
		return Round{}, false, nil
	}
	round, found, err := st.GetRound(ctx, e.session.RoundNumber)
	if err != nil {
		return Round{}, false, storeErr("get round", err)
	}
	return round, found, nil
}

func (e *Engine) drawWord(ctx context.Context) (string, error) {
	word, err := e.words.NextWord(ctx)
	if err != nil {
		return "", fmt.Errorf("draw word: %w", err)
	}
	return word, nil
}

func (e *Engine) audit(ctx context.Context, tx Store, roundNumber int, eventType string, payload any) error {
	return storeErr("record event", tx.RecordEvent(ctx, roundNumber, eventType, payload))
}

func (e *Engine) fail(op string, err error) error {
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		e.logger.Error("store call failed", zap.String("op", op), zap.Error(err))
	case errors.Is(err, ErrWrongPhase), errors.Is(err, ErrNoActiveRound),
		errors.Is(err, ErrInvalidOutcome), errors.Is(err, ErrActivePlayerClue),
		errors.Is(err, ErrColorTaken), errors.Is(err, ErrEmptyRoster),
		errors.Is(err, ErrNotRegistered):
		e.logger.Warn("action rejected", zap.String("op", op), zap.Error(err))
	default:
		e.logger.Error("action failed", zap.String("op", op), zap.Error(err))
	}
	return err
}
