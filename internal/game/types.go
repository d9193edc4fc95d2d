package game

const (
	phaseLobby         = "lobby"
	PhaseGivingClues   = "giving_clues"
	PhaseCheckingClues = "checking_clues"
	PhaseGuessing      = "guessing"
	PhaseFinished      = "finished"
)

const (
	OutcomeCorrect = "correct"
	OutcomeSkip    = "skip"
	OutcomeWrong   = "wrong"
)

// DefaultRoundCap is the number of finished rounds after which a game ends.
const DefaultRoundCap = 15

// Palette maps the colour names offered to players to their display values.
var Palette = map[string]string{
	"red":     "#b01320",
	"hotPink": "#c325db",
	"pink":    "#d674af",
	"orange":  "#db8f37",
	"yellow":  "#c9c30c",
	"green":   "#20bd0f",
	"teal":    "#0a7d5e",
	"blue":    "#1679db",
	"purple":  "#6213d1",
}

type Player struct {
	ConnectionID string `json:"-"`
	Name         string `json:"name"`
	Color        string `json:"color"`
}

type Clue struct {
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
	Text       string `json:"clue"`
}

type Round struct {
	Number       int
	ActivePlayer string
	ActiveWord   string
	Status       string
	Outcome      string
}

// Outcomes counts finished rounds per outcome value.
type Outcomes struct {
	Correct int `json:"correct"`
	Skip    int `json:"skip"`
	Wrong   int `json:"wrong"`
}

func (o Outcomes) Total() int {
	return o.Correct + o.Skip + o.Wrong
}

type HistoryEntry struct {
	Round        int    `json:"round"`
	ActivePlayer string `json:"activePlayer"`
	Word         string `json:"word"`
	Outcome      string `json:"outcome"`
}

type Tally struct {
	Outcomes Outcomes       `json:"outcomes"`
	History  []HistoryEntry `json:"history"`
}

type RosterSnapshot struct {
	Count   int
	Players []Player
	Empty   bool
}

type LedgerState struct {
	Clues  []Clue
	Quorum bool
}

func validOutcome(outcome string) bool {
	switch outcome {
	case OutcomeCorrect, OutcomeSkip, OutcomeWrong:
		return true
	default:
		return false
	}
}
