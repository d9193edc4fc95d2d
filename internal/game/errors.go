package game

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable        = errors.New("store unavailable")
	ErrEmptyRoster             = errors.New("roster is empty")
	ErrInconsistentRoundStatus = errors.New("inconsistent round status")
	ErrWrongPhase              = errors.New("action not allowed in current phase")
	ErrNoActiveRound           = errors.New("no active round")
	ErrInvalidOutcome          = errors.New("invalid outcome")
	ErrColorTaken              = errors.New("color already taken")
	ErrActivePlayerClue        = errors.New("active player cannot submit a clue")
	ErrNotRegistered           = errors.New("connection is not registered")

	errDuplicateRound = errors.New("round already exists")
	errRoundNotFound  = errors.New("round not found")
)

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrColorTaken) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
