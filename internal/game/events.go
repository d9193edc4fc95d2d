package game

// Outbound event names.
const (
	EventRemoveColors         = "removeColors"
	EventGameStarted          = "gameStarted"
	EventProceedGivingClues   = "proceedGivingClues"
	EventSendingNewWord       = "sendingNewWord"
	EventRemoveGetNewWord     = "removeGetNewWord"
	EventProceedCheckingClues = "proceedCheckingClues"
	EventRemovingClues        = "removingClues"
	EventProceedGuessing      = "proceedGuessing"
	EventStats                = "stats"
	EventEndingGame           = "endingGame"
	EventStartingNewGame      = "startingNewGame"
)

// Audit log entry types.
const (
	auditPlayerJoined   = "player_joined"
	auditPlayerLeft     = "player_left"
	auditSessionCleared = "session_cleared"
	auditRoundStarted   = "round_started"
	auditWordRedrawn    = "word_redrawn"
	auditClueSubmitted  = "clue_submitted"
	auditCluesRemoved   = "clues_removed"
	auditPhaseChanged   = "phase_changed"
	auditOutcome        = "outcome_recorded"
	auditNewGame        = "new_game"
	auditPlayersPurged  = "players_purged"
)

// Event is a named payload addressed to one or more connections.
type Event struct {
	Name    string
	Payload any
}

// Broadcaster delivers events to connected clients in call order.
type Broadcaster interface {
	Broadcast(ev Event)
	BroadcastExcept(connectionID string, ev Event)
	Send(connectionID string, ev Event)
}

type ColorPayload struct {
	Color string `json:"color"`
}

type GivingCluesPayload struct {
	ActivePlayer string `json:"activePlayer"`
	ActiveColor  string `json:"activeColor"`
	ActiveWord   string `json:"activeWord"`
}

type WordPayload struct {
	ActiveWord string `json:"activeWord"`
}

type CluesPayload struct {
	Clues []Clue `json:"clues"`
}

type EmptyPayload struct{}

type phasePayload struct {
	Round int    `json:"round"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type outcomePayload struct {
	Round   int    `json:"round"`
	Outcome string `json:"outcome"`
}

func cluesPayload(clues []Clue) CluesPayload {
	if clues == nil {
		clues = []Clue{}
	}
	return CluesPayload{Clues: clues}
}
