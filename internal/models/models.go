package models

// TeamColor is one of the named colors a team can wear
type TeamColor string

const (
	ColorRed    TeamColor = "red"
	ColorBlue   TeamColor = "blue"
	ColorGreen  TeamColor = "green"
	ColorYellow TeamColor = "yellow"
	ColorPurple TeamColor = "purple"
	ColorPink   TeamColor = "pink"
	ColorOrange TeamColor = "orange"
	ColorTeal   TeamColor = "teal"
	ColorIndigo TeamColor = "indigo"
	ColorBlack  TeamColor = "black"
)

// TeamColors lists every selectable team color in display order
var TeamColors = []TeamColor{
	ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple,
	ColorPink, ColorOrange, ColorTeal, ColorIndigo, ColorBlack,
}

// Valid reports whether c is one of TeamColors
func (c TeamColor) Valid() bool {
	for _, known := range TeamColors {
		if c == known {
			return true
		}
	}
	return false
}

// Player is a rostered player. Owned by exactly one Team.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Active bool   `json:"active"`
}

// Team is one side of a game. TotalScore is derived from Players and is
// refreshed by RecomputeTotals, never set directly.
type Team struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      TeamColor `json:"color"`
	Players    []Player  `json:"players"`
	TotalScore int       `json:"totalScore"`
}

// TeamUpdate carries the editable metadata of a team
type TeamUpdate struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Color TeamColor `json:"color"`
}

// GameResult is a finalized game in the history archive
type GameResult struct {
	ID     string `json:"id"`
	Date   string `json:"date"` // YYYY-MM-DD
	Teams  []Team `json:"teams"`
	Winner string `json:"winner"` // team name or Draw
}

// LogType classifies a log entry
type LogType string

const (
	LogTypeScore    LogType = "score"
	LogTypeHalftime LogType = "halftime" // also used for game start/end markers
	LogTypeNote     LogType = "note"
)

// LogEntry is one event in the scoring log
type LogEntry struct {
	ID         string  `json:"id"`
	Timestamp  string  `json:"timestamp"` // YYYY-MM-DD HH:MM:SS
	TeamID     string  `json:"teamId,omitempty"`
	TeamName   string  `json:"teamName"`
	PlayerID   string  `json:"playerId,omitempty"`
	PlayerName string  `json:"playerName"`
	Points     int     `json:"points"`
	Content    string  `json:"content,omitempty"`
	Type       LogType `json:"type"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Layouts used for every stored date and timestamp
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// DrawResult is the winner value of a game with equal totals
const DrawResult = "Draw"

// ReconcileTeam rewrites the team name of a score entry from teams and
// reports whether it changed. Entries carrying a team id are matched by id;
// older entries fall back to finding a team with a player of the same name.
func (e *LogEntry) ReconcileTeam(teams []Team) bool {
	if e.Type != LogTypeScore {
		return false
	}
	name, ok := "", false
	if e.TeamID != "" {
		if i := FindTeam(teams, e.TeamID); i >= 0 {
			name, ok = teams[i].Name, true
		}
	} else {
	search:
		for _, t := range teams {
			for _, p := range t.Players {
				if p.Name == e.PlayerName {
					name, ok = t.Name, true
					break search
				}
			}
		}
	}
	if !ok || name == e.TeamName {
		return false
	}
	e.TeamName = name
	return true
}
