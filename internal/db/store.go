package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hue-clues/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueColorIndex = "idx_players_unique_color"

var errRoundNotFound = errors.New("round not found")

// GormStore persists the session in Postgres. Players are read in insertion
// order, which keeps the active-player rotation stable.
type GormStore struct {
	conn *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{conn: conn}
}

// SetUniqueColors creates or drops the case-insensitive unique index on
// player colours.
func (s *GormStore) SetUniqueColors(ctx context.Context, enabled bool) error {
	stmt := fmt.Sprintf("DROP INDEX IF EXISTS %s", uniqueColorIndex)
	if enabled {
		stmt = fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON players (lower(color))", uniqueColorIndex)
	}
	return s.conn.WithContext(ctx).Exec(stmt).Error
}

func (s *GormStore) InsertPlayer(ctx context.Context, player game.Player) error {
	record := Player{
		ConnectionID: player.ConnectionID,
		Name:         player.Name,
		Color:        player.Color,
	}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "connection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"player_name", "color"}),
		}).
		Create(&record).Error
	if isUniqueViolation(err, uniqueColorIndex) {
		return game.ErrColorTaken
	}
	return err
}

func (s *GormStore) DeletePlayer(ctx context.Context, connectionID string) error {
	return s.conn.WithContext(ctx).Where("connection_id = ?", connectionID).Delete(&Player{}).Error
}

func (s *GormStore) ListPlayers(ctx context.Context) ([]game.Player, error) {
	var records []Player
	if err := s.conn.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	players := make([]game.Player, 0, len(records))
	for _, record := range records {
		players = append(players, game.Player{
			ConnectionID: record.ConnectionID,
			Name:         record.Name,
			Color:        record.Color,
		})
	}
	return players, nil
}

func (s *GormStore) ClearPlayers(ctx context.Context) error {
	return s.global(ctx).Delete(&Player{}).Error
}

func (s *GormStore) UpsertClue(ctx context.Context, clue game.Clue) error {
	record := Clue{
		PlayerName: clue.PlayerName,
		Color:      clue.Color,
		Text:       clue.Text,
	}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"color", "clue", "updated_at"}),
		}).
		Create(&record).Error
}

func (s *GormStore) DeleteCluesByText(ctx context.Context, text string) error {
	return s.conn.WithContext(ctx).Where("clue = ?", text).Delete(&Clue{}).Error
}

func (s *GormStore) ListClues(ctx context.Context) ([]game.Clue, error) {
	var records []Clue
	if err := s.conn.WithContext(ctx).Order("created_at, player_name").Find(&records).Error; err != nil {
		return nil, err
	}
	clues := make([]game.Clue, 0, len(records))
	for _, record := range records {
		clues = append(clues, game.Clue{
			PlayerName: record.PlayerName,
			Color:      record.Color,
			Text:       record.Text,
		})
	}
	return clues, nil
}

func (s *GormStore) ClearClues(ctx context.Context) error {
	return s.global(ctx).Delete(&Clue{}).Error
}

func (s *GormStore) InsertRound(ctx context.Context, round game.Round) error {
	record := RoundStatus{
		Round:        round.Number,
		ActivePlayer: round.ActivePlayer,
		ActiveWord:   round.ActiveWord,
		Status:       round.Status,
		Outcome:      round.Outcome,
	}
	err := s.conn.WithContext(ctx).Create(&record).Error
	if isUniqueViolation(err, "") {
		return fmt.Errorf("round %d already exists: %w", round.Number, err)
	}
	return err
}

func (s *GormStore) UpdateRound(ctx context.Context, round game.Round) error {
	result := s.conn.WithContext(ctx).
		Model(&RoundStatus{}).
		Where("round = ?", round.Number).
		Updates(map[string]any{
			"active_player": round.ActivePlayer,
			"active_word":   round.ActiveWord,
			"status":        round.Status,
			"outcome":       round.Outcome,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("round %d: %w", round.Number, errRoundNotFound)
	}
	return nil
}

func (s *GormStore) GetRound(ctx context.Context, number int) (game.Round, bool, error) {
	var record RoundStatus
	err := s.conn.WithContext(ctx).Where("round = ?", number).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return game.Round{}, false, nil
	}
	if err != nil {
		return game.Round{}, false, err
	}
	return toRound(record), true, nil
}

func (s *GormStore) ListRounds(ctx context.Context) ([]game.Round, error) {
	var records []RoundStatus
	if err := s.conn.WithContext(ctx).Order("round").Find(&records).Error; err != nil {
		return nil, err
	}
	rounds := make([]game.Round, 0, len(records))
	for _, record := range records {
		rounds = append(rounds, toRound(record))
	}
	return rounds, nil
}

func (s *GormStore) ClearRounds(ctx context.Context) error {
	return s.global(ctx).Delete(&RoundStatus{}).Error
}

func (s *GormStore) RecordEvent(ctx context.Context, roundNumber int, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := Event{
		RoundNumber: roundNumber,
		Type:        eventType,
		Payload:     datatypes.JSON(data),
	}
	return s.conn.WithContext(ctx).Create(&record).Error
}

// Events returns the audit log, oldest first.
func (s *GormStore) Events(ctx context.Context) ([]Event, error) {
	var records []Event
	err := s.conn.WithContext(ctx).Order("id").Find(&records).Error
	return records, err
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx game.Store) error) error {
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{conn: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) global(ctx context.Context) *gorm.DB {
	return s.conn.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
}

func toRound(record RoundStatus) game.Round {
	return game.Round{
		Number:       record.Round,
		ActivePlayer: record.ActivePlayer,
		ActiveWord:   record.ActiveWord,
		Status:       record.Status,
		Outcome:      record.Outcome,
	}
}

// isUniqueViolation reports a Postgres 23505 error, optionally restricted to
// one constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
