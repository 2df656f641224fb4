package models

// GameStatus is the cached projection of a game's primitive state fields
type GameStatus string

const (
	StatusInitial    GameStatus = "initial"
	StatusInProgress GameStatus = "in_progress"
	StatusHalftime   GameStatus = "halftime"
	StatusSecondHalf GameStatus = "second_half"
	StatusFinal      GameStatus = "final"
)

// CurrentGameState is the game in progress. There is only ever one.
//
// GameStatus is derived from GameActive, IsHalftime, CurrentHalf and Ended
// by Normalize; callers never assign it directly. Ended only matters while
// the game is inactive, where it separates a finished game from a fresh one.
type CurrentGameState struct {
	Teams       []Team     `json:"teams"`
	GameActive  bool       `json:"gameActive"`
	IsHalftime  bool       `json:"isHalftime"`
	CurrentHalf int        `json:"currentHalf"`
	GameStatus  GameStatus `json:"gameStatus"`
	Ended       bool       `json:"-"`
}

// DefaultTeams returns the two teams a brand new installation starts with
func DefaultTeams() []Team {
	return []Team{
		{ID: "1", Name: "Team A", Color: ColorBlue, Players: []Player{}},
		{ID: "2", Name: "Team B", Color: ColorRed, Players: []Player{}},
	}
}

// NewGameState returns the initial state for a new installation
func NewGameState() CurrentGameState {
	return CurrentGameState{
		Teams:       DefaultTeams(),
		CurrentHalf: 1,
		GameStatus:  StatusInitial,
	}
}

// DeriveStatus computes the game status from the primitive fields.
func DeriveStatus(active, halftime bool, half int, ended bool) GameStatus {
	if !active {
		if ended {
			return StatusFinal
		}
		return StatusInitial
	}
	if halftime {
		return StatusHalftime
	}
	if half >= 2 {
		return StatusSecondHalf
	}
	return StatusInProgress
}

// Normalize repairs inconsistent primitive fields, refreshes derived fields
// and reports whether any primitive field had to be repaired.
func (s *CurrentGameState) Normalize() bool {
	repaired := false
	if s.CurrentHalf < 1 {
		s.CurrentHalf = 1
		repaired = true
	}
	if s.CurrentHalf > 2 {
		s.CurrentHalf = 2
		repaired = true
	}
	// No halftime during the second half.
	if s.CurrentHalf == 2 && s.IsHalftime {
		s.IsHalftime = false
		repaired = true
	}
	if s.GameActive {
		s.Ended = false
	}
	for i := range s.Teams {
		if s.Teams[i].Players == nil {
			s.Teams[i].Players = []Player{}
		}
	}
	RecomputeTotals(s.Teams)
	s.GameStatus = DeriveStatus(s.GameActive, s.IsHalftime, s.CurrentHalf, s.Ended)
	return repaired
}

// Clone returns a deep copy of the state
func (s CurrentGameState) Clone() CurrentGameState {
	s.Teams = CloneTeams(s.Teams)
	return s
}

// RecomputeTotals sets every team's TotalScore to the sum of its player
// scores and reports whether any total changed.
func RecomputeTotals(teams []Team) bool {
	changed := false
	for i := range teams {
		total := 0
		for _, p := range teams[i].Players {
			total += p.Score
		}
		if teams[i].TotalScore != total {
			teams[i].TotalScore = total
			changed = true
		}
	}
	return changed
}

// CloneTeams deep copies a team list
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i, t := range teams {
		out[i] = t
		out[i].Players = append([]Player{}, t.Players...)
	}
	return out
}

// Winner returns the name of the team with the higher total, or DrawResult
// when the totals are equal.
func Winner(teams []Team) string {
	if len(teams) < 2 {
		return DrawResult
	}
	a, b := teams[0], teams[1]
	switch {
	case a.TotalScore > b.TotalScore:
		return a.Name
	case a.TotalScore < b.TotalScore:
		return b.Name
	default:
		return DrawResult
	}
}

// FindTeam returns the index of the team with the given id, or -1
func FindTeam(teams []Team, teamID string) int {
	for i := range teams {
		if teams[i].ID == teamID {
			return i
		}
	}
	return -1
}

// FindPlayer returns the index of the player with the given id, or -1
func (t *Team) FindPlayer(playerID string) int {
	for i := range t.Players {
		if t.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// AllHavePlayers reports whether every team has at least one player
func AllHavePlayers(teams []Team) bool {
	if len(teams) == 0 {
		return false
	}
	for _, t := range teams {
		if len(t.Players) == 0 {
			return false
		}
	}
	return true
}
