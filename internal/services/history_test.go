package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	internalerrors "github.com/abrezinsky/hockeyscorer/internal/errors"
	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
	"github.com/abrezinsky/hockeyscorer/internal/repository/mock"
	"github.com/abrezinsky/hockeyscorer/internal/services"
)

// playedGame finishes a 2-1 game with one note and returns its result
func playedGame(t *testing.T) (*models.GameResult, *services.GameService, *repository.Repository) {
	t.Helper()
	svc, repo := newReadyGame(t)
	ctx := context.Background()
	svc.StartGame(ctx)
	svc.UpdateScore(ctx, "1", playerID(t, svc, 0), 1)
	svc.UpdateScore(ctx, "1", playerID(t, svc, 0), 1)
	svc.UpdateScore(ctx, "2", playerID(t, svc, 1), 1)
	if _, err := svc.AddNote(ctx, "Rain delay"); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	result, err := svc.EndGame(ctx)
	if err != nil {
		t.Fatalf("EndGame failed: %v", err)
	}
	return result, svc, repo
}

func TestHistoryService_List(t *testing.T) {
	first, svc, repo := playedGame(t)
	ctx := context.Background()
	svc.StartGame(ctx)
	second, _ := svc.EndGame(ctx)

	games, err := services.NewHistoryService(logger.Discard(), repo).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(games) != 2 || games[0].ID != second.ID || games[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", games)
	}
}

func TestHistoryService_Update(t *testing.T) {
	result, _, repo := playedGame(t)
	ctx := context.Background()
	svc := services.NewHistoryService(logger.Discard(), repo)
	rec := &recorder{}
	svc.SetBroadcaster(rec)

	game, err := svc.Update(ctx, result.ID, []models.TeamUpdate{
		{ID: "1", Name: "Hawks", Color: models.ColorTeal},
		{ID: "2", Name: ""},
		{ID: "99", Name: "Ghost"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if game.Teams[0].Name != "Hawks" || game.Teams[0].Color != models.ColorTeal {
		t.Errorf("unexpected team %+v", game.Teams[0])
	}
	if game.Teams[1].Name != "Team B" {
		t.Errorf("expected empty name to keep Team B, got %q", game.Teams[1].Name)
	}
	if game.Winner != "Hawks" {
		t.Errorf("expected winner to follow the rename, got %q", game.Winner)
	}

	entries, _ := repo.LoadScoringLogForGame(ctx, result.ID)
	for _, e := range entries {
		if e.Type == models.LogTypeScore && e.PlayerName == "Alice" && e.TeamName != "Hawks" {
			t.Errorf("expected score entry to be renamed, got %+v", e)
		}
		if e.Type == models.LogTypeScore && e.PlayerName == "Bea" && e.TeamName != "Team B" {
			t.Errorf("expected other team untouched, got %+v", e)
		}
	}
	if rec.count(services.MsgHistory) != 1 {
		t.Errorf("expected history broadcast, got %v", rec.msgs)
	}
}

func TestHistoryService_Update_Errors(t *testing.T) {
	result, _, repo := playedGame(t)
	ctx := context.Background()
	svc := services.NewHistoryService(logger.Discard(), repo)

	if _, err := svc.Update(ctx, "missing", nil); !internalerrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := svc.Update(ctx, result.ID, []models.TeamUpdate{{ID: "1", Color: "gold"}}); !errors.Is(err, services.ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}

	failing := mock.NewRepository(repo)
	failing.UpdateCompletedGameError = errors.New("storage quota exceeded")
	if _, err := services.NewHistoryService(logger.Discard(), failing).Update(ctx, result.ID, nil); err == nil {
		t.Error("expected storage error")
	}
}

// Deleting a game takes its log with it
func TestHistoryService_Delete(t *testing.T) {
	result, _, repo := playedGame(t)
	ctx := context.Background()
	svc := services.NewHistoryService(logger.Discard(), repo)

	if err := svc.Delete(ctx, result.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	entries, _ := repo.LoadScoringLogForGame(ctx, result.ID)
	if len(entries) != 0 {
		t.Errorf("expected log to be deleted, got %d entries", len(entries))
	}
	if _, err := svc.Get(ctx, result.ID); !internalerrors.IsNotFound(err) {
		t.Errorf("expected game to be gone, got %v", err)
	}
	if err := svc.Delete(ctx, result.ID); !internalerrors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestHistoryService_Summary(t *testing.T) {
	result, _, repo := playedGame(t)
	svc := services.NewHistoryService(logger.Discard(), repo)

	text, err := svc.Summary(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	for _, want := range []string{
		"Game Summary (Monday, 12th May 2025)",
		"Team A 2 - 1 Team B",
		"- Alice: 2 goals",
		"- Bea: 1 goal",
		"Notes:\n- Rain delay",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestLogService_Notes(t *testing.T) {
	svc, repo := newReadyGame(t)
	ctx := context.Background()
	svc.StartGame(ctx)
	note, _ := svc.AddNote(ctx, "first")

	logs := services.NewLogService(logger.Discard(), repo)
	rec := &recorder{}
	logs.SetBroadcaster(rec)

	edited, err := logs.EditNote(ctx, note.ID, nil, " edited ")
	if err != nil {
		t.Fatalf("EditNote failed: %v", err)
	}
	if edited.ID != note.ID || edited.Content != "edited" || edited.Type != models.LogTypeNote {
		t.Errorf("unexpected edited note %+v", edited)
	}
	current, _ := logs.CurrentLog(ctx)
	if current[0].Content != "edited" {
		t.Errorf("expected edited note, got %q", current[0].Content)
	}
	if rec.count(services.MsgLogUpdated) != 1 {
		t.Errorf("expected log broadcast, got %v", rec.msgs)
	}

	if _, err := logs.EditNote(ctx, note.ID, nil, ""); !errors.Is(err, services.ErrEmptyNote) {
		t.Errorf("expected ErrEmptyNote, got %v", err)
	}

	start := current[len(current)-1]
	if _, err := logs.EditNote(ctx, start.ID, nil, "hack"); !internalerrors.IsNotFound(err) {
		t.Errorf("expected non-note edit to be refused, got %v", err)
	}
	if err := logs.DeleteNote(ctx, start.ID, nil); !internalerrors.IsNotFound(err) {
		t.Errorf("expected non-note delete to be refused, got %v", err)
	}

	if err := logs.DeleteNote(ctx, note.ID, nil); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	current, _ = logs.CurrentLog(ctx)
	if len(current) != 1 {
		t.Errorf("expected only the start marker left, got %+v", current)
	}
}

func TestLogService_HistoricalNotes(t *testing.T) {
	result, _, repo := playedGame(t)
	ctx := context.Background()
	logs := services.NewLogService(logger.Discard(), repo)

	entries, err := logs.GameLog(ctx, result.ID)
	if err != nil {
		t.Fatalf("GameLog failed: %v", err)
	}
	var noteID string
	for _, e := range entries {
		if e.Type == models.LogTypeNote {
			noteID = e.ID
		}
	}
	if noteID == "" {
		t.Fatal("expected the game note in the archived log")
	}

	edited, err := logs.EditNote(ctx, noteID, &result.ID, "Rain delay, 10 minutes")
	if err != nil {
		t.Fatalf("EditNote failed: %v", err)
	}
	if edited.Content != "Rain delay, 10 minutes" {
		t.Errorf("unexpected edited note %+v", edited)
	}
	if _, err := logs.EditNote(ctx, noteID, nil, "wrong game"); !internalerrors.IsNotFound(err) {
		t.Errorf("expected archived note not to be editable as current, got %v", err)
	}
	if err := logs.DeleteNote(ctx, noteID, &result.ID); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}

	entries, _ = logs.GameLog(ctx, result.ID)
	for _, e := range entries {
		if e.ID == noteID {
			t.Error("expected note to be deleted")
		}
	}
}

func TestConsentService(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	svc := services.NewConsentService(logger.Discard(), kv)

	ok, err := svc.HasConsent()
	if err != nil || ok {
		t.Fatalf("HasConsent() = %v, %v; want false", ok, err)
	}
	if err := svc.GiveConsent(); err != nil {
		t.Fatalf("GiveConsent failed: %v", err)
	}
	ok, err = svc.HasConsent()
	if err != nil || !ok {
		t.Errorf("HasConsent() = %v, %v; want true", ok, err)
	}
}

func TestShareService(t *testing.T) {
	svc := services.NewShareService(logger.Discard(), "http://192.168.1.5:8082/")
	if got := svc.ScoreboardURL(); got != "http://192.168.1.5:8082/" {
		t.Errorf("ScoreboardURL() = %q", got)
	}

	png, err := svc.QRCode(0)
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("expected PNG data")
	}
}
