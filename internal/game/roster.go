package game

import (
	"context"
	"strings"
)

// Roster tracks registered players and picks the active player each round.
type Roster struct {
	EnforceUniqueColors bool
}

func (r Roster) Register(ctx context.Context, st Store, player Player) error {
	if r.EnforceUniqueColors {
		players, err := st.ListPlayers(ctx)
		if err != nil {
			return storeErr("list players", err)
		}
		for _, existing := range players {
			if existing.ConnectionID != player.ConnectionID && strings.EqualFold(existing.Color, player.Color) {
				return ErrColorTaken
			}
		}
	}
	return storeErr("insert player", st.InsertPlayer(ctx, player))
}

// Unregister removes the player bound to connectionID. found is false when
// the connection never completed set-up.
func (r Roster) Unregister(ctx context.Context, st Store, connectionID string) (snapshot RosterSnapshot, removed Player, found bool, err error) {
	removed, found, err = r.Find(ctx, st, connectionID)
	if err != nil {
		return RosterSnapshot{}, Player{}, false, err
	}
	if found {
		if err := st.DeletePlayer(ctx, connectionID); err != nil {
			return RosterSnapshot{}, Player{}, false, storeErr("delete player", err)
		}
	}
	snapshot, err = r.Snapshot(ctx, st)
	return snapshot, removed, found, err
}

func (r Roster) Snapshot(ctx context.Context, st Store) (RosterSnapshot, error) {
	players, err := st.ListPlayers(ctx)
	if err != nil {
		return RosterSnapshot{}, storeErr("list players", err)
	}
	return RosterSnapshot{
		Count:   len(players),
		Players: players,
		Empty:   len(players) == 0,
	}, nil
}

func (r Roster) Find(ctx context.Context, st Store, connectionID string) (Player, bool, error) {
	players, err := st.ListPlayers(ctx)
	if err != nil {
		return Player{}, false, storeErr("list players", err)
	}
	for _, player := range players {
		if player.ConnectionID == connectionID {
			return player, true, nil
		}
	}
	return Player{}, false, nil
}

// ColorOf returns the colour of the named player, or "" if they have left.
func (r Roster) ColorOf(ctx context.Context, st Store, name string) (string, error) {
	players, err := st.ListPlayers(ctx)
	if err != nil {
		return "", storeErr("list players", err)
	}
	for _, player := range players {
		if player.Name == name {
			return player.Color, nil
		}
	}
	return "", nil
}

// NextActivePlayer selects players[roundNumber mod count] from a fresh
// roster snapshot.
func (r Roster) NextActivePlayer(ctx context.Context, st Store, roundNumber int) (Player, RosterSnapshot, error) {
	snapshot, err := r.Snapshot(ctx, st)
	if err != nil {
		return Player{}, RosterSnapshot{}, err
	}
	player, err := rotate(snapshot.Players, roundNumber)
	return player, snapshot, err
}

func rotate(players []Player, roundNumber int) (Player, error) {
	if len(players) == 0 {
		return Player{}, ErrEmptyRoster
	}
	index := roundNumber % len(players)
	if index < 0 {
		index += len(players)
	}
	return players[index], nil
}
