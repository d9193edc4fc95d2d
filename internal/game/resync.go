package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Connect runs attach and the resync snapshot for connectionID under the
// engine lock. attach is where the transport starts routing broadcasts to the
// new connection, so the client sees either an event or its effect in the
// snapshot, never neither.
func (e *Engine) Connect(ctx context.Context, connectionID string, attach func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if attach != nil {
		attach()
	}
	return e.resync(ctx, connectionID)
}

// SnapshotFor sends connectionID the phase-appropriate view of the session.
func (e *Engine) SnapshotFor(ctx context.Context, connectionID string) error {
	return e.Connect(ctx, connectionID, nil)
}

func (e *Engine) resync(ctx context.Context, connectionID string) error {
	players, err := e.store.ListPlayers(ctx)
	if err != nil {
		return e.fail("resync", storeErr("list players", err))
	}
	for _, player := range players {
		e.out.Send(connectionID, Event{Name: EventRemoveColors, Payload: ColorPayload{Color: player.Color}})
	}
	if e.session.RoundNumber > 0 {
		e.out.Send(connectionID, Event{Name: EventGameStarted, Payload: EmptyPayload{}})
	}

	round, found, err := e.currentRound(ctx, e.store)
	if err != nil {
		return e.fail("resync", err)
	}
	if !found {
		return nil
	}

	switch round.Status {
	case PhaseGivingClues:
		color, err := e.roster.ColorOf(ctx, e.store, round.ActivePlayer)
		if err != nil {
			return e.fail("resync", err)
		}
		e.out.Send(connectionID, Event{Name: EventProceedGivingClues, Payload: GivingCluesPayload{
			ActivePlayer: round.ActivePlayer,
			ActiveColor:  color,
			ActiveWord:   round.ActiveWord,
		}})
	case PhaseCheckingClues:
		clues, err := e.ledger.All(ctx, e.store)
		if err != nil {
			return e.fail("resync", err)
		}
		e.out.Send(connectionID, Event{Name: EventProceedCheckingClues, Payload: cluesPayload(clues)})
	case PhaseGuessing:
		tally, err := e.aggregator.Tally(ctx, e.store)
		if err != nil {
			return e.fail("resync", err)
		}
		clues, err := e.ledger.All(ctx, e.store)
		if err != nil {
			return e.fail("resync", err)
		}
		e.out.Send(connectionID, Event{Name: EventStats, Payload: tally})
		e.out.Send(connectionID, Event{Name: EventProceedGuessing, Payload: cluesPayload(clues)})
	case PhaseFinished:
		tally, err := e.aggregator.Tally(ctx, e.store)
		if err != nil {
			return e.fail("resync", err)
		}
		e.out.Send(connectionID, Event{Name: EventStats, Payload: tally})
	default:
		err := fmt.Errorf("%w: round %d has status %q", ErrInconsistentRoundStatus, round.Number, round.Status)
		e.logger.Error("resync skipped",
			zap.String("connection_id", connectionID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
