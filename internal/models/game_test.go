package models

import "testing"

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		halftime bool
		half     int
		ended    bool
		want     GameStatus
	}{
		{"fresh", false, false, 1, false, StatusInitial},
		{"first half", true, false, 1, false, StatusInProgress},
		{"halftime", true, true, 1, false, StatusHalftime},
		{"second half", true, false, 2, false, StatusSecondHalf},
		{"finished", false, false, 2, true, StatusFinal},
		{"finished in first half", false, false, 1, true, StatusFinal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.active, tt.halftime, tt.half, tt.ended)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_RepairsHalftimeInSecondHalf(t *testing.T) {
	s := CurrentGameState{
		Teams:       DefaultTeams(),
		GameActive:  true,
		IsHalftime:  true,
		CurrentHalf: 2,
		GameStatus:  StatusHalftime,
	}

	if !s.Normalize() {
		t.Error("expected Normalize to report a repair")
	}
	if s.IsHalftime {
		t.Error("expected IsHalftime to be cleared in the second half")
	}
	if s.GameStatus != StatusSecondHalf {
		t.Errorf("expected status %q, got %q", StatusSecondHalf, s.GameStatus)
	}
}

func TestNormalize_ClampsHalf(t *testing.T) {
	s := CurrentGameState{Teams: DefaultTeams(), CurrentHalf: 0}
	s.Normalize()
	if s.CurrentHalf != 1 {
		t.Errorf("expected half 1, got %d", s.CurrentHalf)
	}

	s.CurrentHalf = 5
	s.Normalize()
	if s.CurrentHalf != 2 {
		t.Errorf("expected half 2, got %d", s.CurrentHalf)
	}
}

func TestNormalize_ConsistentStateNotRepaired(t *testing.T) {
	s := NewGameState()
	if s.Normalize() {
		t.Error("expected no repair for a consistent state")
	}
}

func TestNormalize_IgnoresStoredStatus(t *testing.T) {
	s := CurrentGameState{
		Teams:       DefaultTeams(),
		GameActive:  true,
		CurrentHalf: 1,
		GameStatus:  StatusFinal,
	}
	s.Normalize()
	if s.GameStatus != StatusInProgress {
		t.Errorf("expected derived status %q, got %q", StatusInProgress, s.GameStatus)
	}
}

func TestRecomputeTotals(t *testing.T) {
	teams := []Team{
		{ID: "1", Players: []Player{{Score: 2}, {Score: 3}}},
		{ID: "2", Players: []Player{{Score: 1}}},
	}

	if !RecomputeTotals(teams) {
		t.Error("expected first recompute to report a change")
	}
	if teams[0].TotalScore != 5 || teams[1].TotalScore != 1 {
		t.Errorf("unexpected totals %d, %d", teams[0].TotalScore, teams[1].TotalScore)
	}
	if RecomputeTotals(teams) {
		t.Error("expected second recompute to be a no-op")
	}
}

func TestWinner(t *testing.T) {
	teams := []Team{{Name: "Hawks", TotalScore: 3}, {Name: "Owls", TotalScore: 1}}
	if got := Winner(teams); got != "Hawks" {
		t.Errorf("expected Hawks, got %q", got)
	}

	teams[1].TotalScore = 4
	if got := Winner(teams); got != "Owls" {
		t.Errorf("expected Owls, got %q", got)
	}

	teams[1].TotalScore = 3
	if got := Winner(teams); got != DrawResult {
		t.Errorf("expected Draw, got %q", got)
	}
}

func TestCloneTeams_IsDeep(t *testing.T) {
	orig := []Team{{ID: "1", Players: []Player{{ID: "p", Score: 1}}}}
	cp := CloneTeams(orig)
	cp[0].Players[0].Score = 9
	cp[0].Name = "changed"

	if orig[0].Players[0].Score != 1 {
		t.Error("clone shares player storage with the original")
	}
	if orig[0].Name != "" {
		t.Error("clone shares team storage with the original")
	}
}

func TestTeamColorValid(t *testing.T) {
	for _, c := range TeamColors {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if TeamColor("magenta").Valid() {
		t.Error("expected magenta to be invalid")
	}
}

func TestAllHavePlayers(t *testing.T) {
	teams := DefaultTeams()
	if AllHavePlayers(teams) {
		t.Error("expected false for empty rosters")
	}
	teams[0].Players = append(teams[0].Players, Player{ID: "a"})
	if AllHavePlayers(teams) {
		t.Error("expected false with one empty roster")
	}
	teams[1].Players = append(teams[1].Players, Player{ID: "b"})
	if !AllHavePlayers(teams) {
		t.Error("expected true when both rosters have players")
	}
}

func TestLogEntryReconcileTeam(t *testing.T) {
	teams := []Team{
		{ID: "1", Name: "Hawks", Players: []Player{{ID: "p1", Name: "Sam"}}},
		{ID: "2", Name: "Owls", Players: []Player{{ID: "p2", Name: "Sam"}}},
	}

	t.Run("by team id", func(t *testing.T) {
		e := LogEntry{Type: LogTypeScore, TeamID: "2", TeamName: "Team B", PlayerName: "Sam"}
		if !e.ReconcileTeam(teams) {
			t.Fatal("expected a change")
		}
		if e.TeamName != "Owls" {
			t.Errorf("expected Owls, got %q", e.TeamName)
		}
	})

	t.Run("by player name", func(t *testing.T) {
		e := LogEntry{Type: LogTypeScore, TeamName: "Team A", PlayerName: "Sam"}
		if !e.ReconcileTeam(teams) {
			t.Fatal("expected a change")
		}
		if e.TeamName != "Hawks" {
			t.Errorf("expected first matching team Hawks, got %q", e.TeamName)
		}
	})

	t.Run("unchanged", func(t *testing.T) {
		e := LogEntry{Type: LogTypeScore, TeamID: "1", TeamName: "Hawks"}
		if e.ReconcileTeam(teams) {
			t.Error("expected no change")
		}
	})

	t.Run("notes are left alone", func(t *testing.T) {
		e := LogEntry{Type: LogTypeNote, TeamID: "1", TeamName: "old"}
		if e.ReconcileTeam(teams) {
			t.Error("expected notes to be skipped")
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		e := LogEntry{Type: LogTypeScore, TeamName: "X", PlayerName: "Nobody"}
		if e.ReconcileTeam(teams) || e.TeamName != "X" {
			t.Error("expected no change for an unknown player")
		}
	})
}
