// Package provider is the source of leagues and scheduled games a game sheet
// is seeded from.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/trentd187/hockey-gamesheet/internal/models"
)

// ErrNotFound is returned when a league or game does not exist upstream.
var ErrNotFound = errors.New("not found")

// Provider lists leagues and their games. Implementations return fresh values
// on every call; callers may modify them.
type Provider interface {
	ListLeagues(ctx context.Context) ([]models.League, error)
	ListGames(ctx context.Context, leagueID string) ([]models.Game, error)
}

// FindLeague looks a league up by ID.
func FindLeague(ctx context.Context, p Provider, leagueID string) (models.League, error) {
	leagues, err := p.ListLeagues(ctx)
	if err != nil {
		return models.League{}, err
	}
	for _, l := range leagues {
		if l.ID == leagueID {
			return l, nil
		}
	}
	return models.League{}, fmt.Errorf("league %s: %w", leagueID, ErrNotFound)
}

// FindGame looks a game up in the schedule of its league.
func FindGame(ctx context.Context, p Provider, leagueID, gameID string) (models.Game, error) {
	games, err := p.ListGames(ctx, leagueID)
	if err != nil {
		return models.Game{}, err
	}
	for _, g := range games {
		if g.ID == gameID {
			return g, nil
		}
	}
	return models.Game{}, fmt.Errorf("game %s in league %s: %w", gameID, leagueID, ErrNotFound)
}

// RosterStore keeps the rosters entered on a game sheet so the team's next
// game starts with them.
type RosterStore interface {
	SaveRoster(ctx context.Context, teamID string, players []models.Player) error
}
