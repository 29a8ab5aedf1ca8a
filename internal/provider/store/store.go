// Package store caches provider data in PostgreSQL through GORM.
//
// Only seed data is stored: leagues, scheduled games, teams and their rosters.
// Game sheets themselves (clock, goals, penalties) are never written here.
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/hockey-gamesheet/internal/models"
	"github.com/trentd187/hockey-gamesheet/internal/provider"
	"github.com/trentd187/hockey-gamesheet/internal/roster"
)

// Store is a read-through cache in front of another provider.
//
// Every call goes upstream first and writes the result to the database. When
// upstream fails (the rink has no network, the API is down) the last cached
// copy is served instead. Rosters saved with SaveRoster are merged into every
// game returned, since the upstream schedule carries none.
type Store struct {
	db       *gorm.DB
	upstream provider.Provider
}

var (
	_ provider.Provider    = (*Store)(nil)
	_ provider.RosterStore = (*Store)(nil)
)

// New wraps upstream with a cache in db. The schema comes from the SQL migrations.
func New(db *gorm.DB, upstream provider.Provider) *Store {
	return &Store{db: db, upstream: upstream}
}

// ListLeagues returns the upstream leagues, or the cached ones if upstream fails.
func (s *Store) ListLeagues(ctx context.Context) ([]models.League, error) {
	leagues, err := s.upstream.ListLeagues(ctx)
	if err != nil {
		var cached []models.League
		if qerr := s.db.WithContext(ctx).Order("name").Find(&cached).Error; qerr != nil || len(cached) == 0 {
			return nil, err
		}
		log.Printf("store: upstream unavailable (%v), serving %d cached leagues", err, len(cached))
		return cached, nil
	}
	if len(leagues) == 0 {
		return leagues, nil
	}

	err = s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(&leagues).Error
	if err != nil {
		return nil, fmt.Errorf("caching leagues: %w", err)
	}
	return leagues, nil
}

// ListGames returns the schedule of a league with any saved rosters filled in.
func (s *Store) ListGames(ctx context.Context, leagueID string) ([]models.Game, error) {
	games, err := s.upstream.ListGames(ctx, leagueID)
	if err != nil {
		cached, qerr := s.cachedGames(ctx, leagueID)
		if qerr != nil || len(cached) == 0 {
			return nil, err
		}
		log.Printf("store: upstream unavailable (%v), serving %d cached games for league %s", err, len(cached), leagueID)
		return cached, nil
	}
	if len(games) == 0 {
		return games, nil
	}

	if err := s.saveSchedule(ctx, games); err != nil {
		return nil, fmt.Errorf("caching games of league %s: %w", leagueID, err)
	}
	return s.cachedGames(ctx, leagueID)
}

// saveSchedule upserts the games and both of their teams. Team rosters are
// left alone so saved players survive a schedule refresh.
func (s *Store) saveSchedule(ctx context.Context, games []models.Game) error {
	teams := make([]models.Team, 0, len(games)*2)
	seen := make(map[string]bool)
	for _, g := range games {
		for _, t := range []models.Team{g.HomeTeam, g.AwayTeam} {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			teams = append(teams, models.Team{ID: t.ID, Name: t.Name, Icon: t.Icon})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "updated_at"}),
			}).
			Create(&teams).Error
		if err != nil {
			return err
		}

		rows := make([]models.Game, len(games))
		for i, g := range games {
			rows[i] = g
			rows[i].HomeTeamID = g.HomeTeam.ID
			rows[i].AwayTeamID = g.AwayTeam.ID
		}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"league_id", "name", "division", "home_team_id", "away_team_id",
					"scheduled_at", "venue", "updated_at",
				}),
			}).
			Create(&rows).Error
	})
}

// cachedGames loads a league's games with both teams and their rosters.
func (s *Store) cachedGames(ctx context.Context, leagueID string) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Preload("HomeTeam.Players").
		Preload("AwayTeam.Players").
		Where("league_id = ?", leagueID).
		Order("scheduled_at, id").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	for i := range games {
		games[i].Status = models.GameStatusSetup
		roster.SortByNumber(games[i].HomeTeam.Players)
		roster.SortByNumber(games[i].AwayTeam.Players)
	}
	return games, nil
}

// SaveRoster replaces the stored roster of a team. Incomplete rows are dropped.
func (s *Store) SaveRoster(ctx context.Context, teamID string, players []models.Player) error {
	players = roster.Complete(players)
	rows := make([]models.Player, len(players))
	for i, p := range players {
		rows[i] = models.Player{ID: uuid.New(), TeamID: teamID, Number: p.Number, Name: p.Name}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("saving roster of team %s: %w", teamID, err)
	}
	log.Printf("store: saved %d players for team %s", len(rows), teamID)
	return nil
}
