package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hue-clues/internal/game"

	"go.uber.org/zap"
)

// Inbound event names.
const (
	EventSubmitSetUp         = "submitSetUp"
	EventStartRound          = "startRound"
	EventJoinGame            = "joinGame"
	EventGetNewWord          = "getNewWord"
	EventSubmitClue          = "submitClue"
	EventOntoCheckingClues   = "ontoCheckingClues"
	EventRemoveClue          = "removeClue"
	EventFinishCheckingClues = "finishCheckingClues"
	EventUpdateOutcomes      = "updateOutcomes"
	EventEndGame             = "endGame"
	EventStartNewGame        = "startNewGame"
)

// EventActionFailed is sent only to the connection whose event failed.
const EventActionFailed = "actionFailed"

var (
	errMalformedFrame = errors.New("malformed frame")
	errRateLimited    = errors.New("too many events")
	errUnknownEvent   = errors.New("unknown event")
)

type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type actionFailedPayload struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

type setUpRequest struct {
	Name  string `json:"name" binding:"required,name"`
	Color string `json:"color" binding:"required,palette"`
}

// clueRequest carries name and color for older clients; the clue is always
// attributed to the player registered on the connection.
type clueRequest struct {
	Name  string `json:"name" binding:"omitempty,name"`
	Color string `json:"color" binding:"omitempty,palette"`
	Clue  string `json:"clue" binding:"required,cluetext"`
}

type removeClueRequest struct {
	Clue string `json:"clue" binding:"required,cluetext"`
}

type outcomeRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=correct skip wrong"`
}

var requestMessages = bindMessages{
	"Name": {
		"required": "name is required",
		"name":     fmt.Sprintf("name must be 1-%d plain characters", maxNameLength),
	},
	"Color": {
		"required": "color is required",
		"palette":  "color is not in the palette",
	},
	"Clue": {
		"required": "clue is required",
		"cluetext": fmt.Sprintf("clue must be 1-%d plain characters", maxClueLength),
	},
	"Outcome": {
		"required": "outcome is required",
		"oneof":    "outcome must be correct, skip or wrong",
	},
}

func (s *Server) dispatch(ctx context.Context, client *wsClient, env envelope) error {
	s.logger.Debug("inbound event", zap.String("connection_id", client.id), zap.String("event", env.Event))
	switch env.Event {
	case EventSubmitSetUp:
		var req setUpRequest
		if err := decodePayload(env.Payload, &req); err != nil {
			return err
		}
		return s.engine.Register(ctx, client.id, normalizeText(req.Name), req.Color)
	case EventStartRound:
		_, err := s.engine.StartRound(ctx)
		return err
	case EventJoinGame:
		return s.engine.JoinGame(ctx)
	case EventGetNewWord:
		return s.engine.GetNewWord(ctx)
	case EventSubmitClue:
		var req clueRequest
		if err := decodePayload(env.Payload, &req); err != nil {
			return err
		}
		return s.engine.SubmitClueFrom(ctx, client.id, normalizeText(req.Clue))
	case EventOntoCheckingClues:
		return s.engine.OntoCheckingClues(ctx)
	case EventRemoveClue:
		var req removeClueRequest
		if err := decodePayload(env.Payload, &req); err != nil {
			return err
		}
		return s.engine.RemoveClue(ctx, normalizeText(req.Clue))
	case EventFinishCheckingClues:
		return s.engine.FinishCheckingClues(ctx)
	case EventUpdateOutcomes:
		var req outcomeRequest
		if err := decodePayload(env.Payload, &req); err != nil {
			return err
		}
		_, err := s.engine.UpdateOutcomes(ctx, req.Outcome)
		return err
	case EventEndGame:
		return s.engine.EndGame(ctx)
	case EventStartNewGame:
		return s.engine.StartNewGame(ctx)
	default:
		return fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
}

// failureMessage is the client-facing text for err. Store failures are
// reported generically.
func failureMessage(err error) string {
	var invalid *invalidPayloadError
	switch {
	case errors.As(err, &invalid):
		return invalid.message
	case errors.Is(err, game.ErrStoreUnavailable):
		return game.ErrStoreUnavailable.Error()
	case errors.Is(err, errUnknownEvent):
		return errUnknownEvent.Error()
	default:
		return err.Error()
	}
}
