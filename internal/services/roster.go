package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/abrezinsky/hockeyscorer/internal/errors"
	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// PlayerMatch is one result of a roster search
type PlayerMatch struct {
	TeamID   string        `json:"teamId"`
	TeamName string        `json:"teamName"`
	Player   models.Player `json:"player"`
	Distance int           `json:"distance"`
}

func findTeam(teams []models.Team, teamID string) (int, error) {
	ti := models.FindTeam(teams, teamID)
	if ti < 0 {
		return -1, errors.NotFoundf("team %s not found", teamID)
	}
	return ti, nil
}

func findPlayer(teams []models.Team, teamID, playerID string) (int, int, error) {
	ti, err := findTeam(teams, teamID)
	if err != nil {
		return -1, -1, err
	}
	pi := teams[ti].FindPlayer(playerID)
	if pi < 0 {
		return -1, -1, errors.NotFoundf("player %s not found", playerID)
	}
	return ti, pi, nil
}

// AddPlayer adds an active player with no score to a team
func (s *GameService) AddPlayer(ctx context.Context, teamID, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPlayerName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	next := s.state.Clone()
	ti, err := findTeam(next.Teams, teamID)
	if err != nil {
		return nil, err
	}

	id, err := s.playerIDs.NewID()
	if err != nil {
		return nil, err
	}
	player := models.Player{ID: id, Name: name, Active: true}
	next.Teams[ti].Players = append(next.Teams[ti].Players, player)

	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	s.log.Info("Player added", "team", next.Teams[ti].Name, "player", name)
	return &player, nil
}

// RemovePlayer takes a player off a team's roster
func (s *GameService) RemovePlayer(ctx context.Context, teamID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	next := s.state.Clone()
	ti, pi, err := findPlayer(next.Teams, teamID, playerID)
	if err != nil {
		return err
	}

	players := next.Teams[ti].Players
	name := players[pi].Name
	next.Teams[ti].Players = append(players[:pi:pi], players[pi+1:]...)
	models.RecomputeTotals(next.Teams)

	if err := s.commitLocked(ctx, next); err != nil {
		return err
	}
	s.log.Info("Player removed", "team", next.Teams[ti].Name, "player", name)
	return nil
}

// SetPlayerActive marks a player as playing or sitting out
func (s *GameService) SetPlayerActive(ctx context.Context, teamID, playerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	next := s.state.Clone()
	ti, pi, err := findPlayer(next.Teams, teamID, playerID)
	if err != nil {
		return err
	}
	if next.Teams[ti].Players[pi].Active == active {
		return nil
	}
	next.Teams[ti].Players[pi].Active = active
	return s.commitLocked(ctx, next)
}

// UpdateTeam renames or recolors a team. Empty values keep what is there.
func (s *GameService) UpdateTeam(ctx context.Context, teamID, name string, color models.TeamColor) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if color != "" && !color.Valid() {
		return nil, ErrInvalidColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	next := s.state.Clone()
	ti, err := findTeam(next.Teams, teamID)
	if err != nil {
		return nil, err
	}
	team := &next.Teams[ti]
	if name != "" {
		team.Name = name
	}
	if color != "" {
		team.Color = color
	}

	if err := s.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	updated := s.state.Teams[ti]
	updated.Players = append([]models.Player{}, updated.Players...)
	return &updated, nil
}

// SearchPlayers fuzzy matches query against every rostered name, closest
// first. An empty query lists everyone.
func (s *GameService) SearchPlayers(ctx context.Context, query string) ([]PlayerMatch, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)

	var (
		names  []string
		owners []PlayerMatch
	)
	for _, t := range state.Teams {
		for _, p := range t.Players {
			names = append(names, p.Name)
			owners = append(owners, PlayerMatch{TeamID: t.ID, TeamName: t.Name, Player: p})
		}
	}

	if query == "" {
		if owners == nil {
			return []PlayerMatch{}, nil
		}
		return owners, nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	matches := make([]PlayerMatch, 0, len(ranks))
	for _, r := range ranks {
		m := owners[r.OriginalIndex]
		m.Distance = r.Distance
		matches = append(matches, m)
	}
	return matches, nil
}
