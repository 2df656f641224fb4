package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/hockeyscorer/internal/handlers"
	"github.com/abrezinsky/hockeyscorer/internal/idgen"
	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
	"github.com/abrezinsky/hockeyscorer/internal/services"
	"github.com/abrezinsky/hockeyscorer/internal/testutil"
)

type testSetup struct {
	router chi.Router
	repo   *repository.Repository
	game   *services.GameService
	clock  *clockwork.FakeClock
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	log := logger.Discard()
	clock := testutil.NewClock()
	repo, _ := testutil.NewTestRepositoryWithStore(t, kvstore.NewMemoryStore(), clock)

	game := services.NewGameService(log, repo, clock,
		&idgen.Sequence{Prefix: "id"}, &idgen.Sequence{Prefix: "p"})
	h := handlers.New(
		game,
		services.NewLogService(log, repo),
		services.NewHistoryService(log, repo),
		services.NewConsentService(log, kvstore.NewMemoryStore()),
		services.NewShareService(log, "http://192.168.1.5:8082"),
		repo,
		nil,
		log,
	)
	return &testSetup{router: h.Router(), repo: repo, game: game, clock: clock}
}

func (s *testSetup) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

// rosters adds one player to each team and returns their ids
func (s *testSetup) rosters(t *testing.T) (string, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/teams/1/players", handlers.PlayerCreateRequest{Name: "Alice"})
	expectStatus(t, rec, http.StatusCreated)
	alice := decode[models.Player](t, rec)

	rec = s.do(t, http.MethodPost, "/api/teams/2/players", handlers.PlayerCreateRequest{Name: "Bea"})
	expectStatus(t, rec, http.StatusCreated)
	bea := decode[models.Player](t, rec)
	return alice.ID, bea.ID
}

func TestHealth(t *testing.T) {
	s := newTestSetup(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)

	s.repo.Close()
	rec = s.do(t, http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestGetGame_Default(t *testing.T) {
	s := newTestSetup(t)
	rec := s.do(t, http.MethodGet, "/api/game", nil)
	expectStatus(t, rec, http.StatusOK)

	game := decode[handlers.GameResponse](t, rec)
	if len(game.Teams) != 2 || game.Teams[0].Name != "Team A" || game.Teams[1].Name != "Team B" {
		t.Errorf("unexpected default teams %+v", game.Teams)
	}
	if game.GameStatus != models.StatusInitial || game.CanStart {
		t.Errorf("unexpected status %q canStart=%v", game.GameStatus, game.CanStart)
	}
}

func TestStartGame_NeedsPlayers(t *testing.T) {
	s := newTestSetup(t)
	rec := s.do(t, http.MethodPost, "/api/game/start", nil)
	expectStatus(t, rec, http.StatusConflict)

	apiErr := decode[handlers.APIError](t, rec)
	if apiErr.Code != handlers.ErrCodeTeamsNeedPlayers {
		t.Errorf("expected %s, got %s", handlers.ErrCodeTeamsNeedPlayers, apiErr.Code)
	}
}

func TestFullGame(t *testing.T) {
	s := newTestSetup(t)
	alice, bea := s.rosters(t)

	rec := s.do(t, http.MethodPost, "/api/game/start", nil)
	expectStatus(t, rec, http.StatusOK)
	if game := decode[handlers.GameResponse](t, rec); game.GameStatus != models.StatusInProgress {
		t.Errorf("expected in_progress, got %q", game.GameStatus)
	}

	rec = s.do(t, http.MethodPost, "/api/teams/1/players/"+alice+"/score", handlers.ScoreRequest{Points: 1})
	expectStatus(t, rec, http.StatusOK)
	score := decode[handlers.ScoreResponse](t, rec)
	if !score.Changed || score.Game.Teams[0].TotalScore != 1 {
		t.Errorf("unexpected score response %+v", score)
	}

	rec = s.do(t, http.MethodPost, "/api/game/halftime", nil)
	expectStatus(t, rec, http.StatusOK)
	if game := decode[handlers.GameResponse](t, rec); game.GameStatus != models.StatusHalftime {
		t.Errorf("expected halftime, got %q", game.GameStatus)
	}

	rec = s.do(t, http.MethodPost, "/api/teams/2/players/"+bea+"/score", handlers.ScoreRequest{Points: 1})
	expectStatus(t, rec, http.StatusOK)
	if score := decode[handlers.ScoreResponse](t, rec); score.Changed {
		t.Error("expected score during halftime to be ignored")
	}

	s.do(t, http.MethodPost, "/api/game/halftime", nil)
	rec = s.do(t, http.MethodPost, "/api/game/halftime", nil)
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(t, http.MethodPost, "/api/log/notes", handlers.NoteRequest{Content: "Great save"})
	expectStatus(t, rec, http.StatusCreated)

	rec = s.do(t, http.MethodGet, "/api/log", nil)
	expectStatus(t, rec, http.StatusOK)
	current := decode[[]models.LogEntry](t, rec)
	if len(current) != 5 || current[0].Content != "Great save" {
		t.Errorf("expected newest first with 5 entries, got %+v", current)
	}

	rec = s.do(t, http.MethodPost, "/api/game/end", nil)
	expectStatus(t, rec, http.StatusOK)
	result := decode[models.GameResult](t, rec)
	if result.Winner != "Team A" || result.Date != "2025-05-12" {
		t.Errorf("unexpected result %+v", result)
	}

	rec = s.do(t, http.MethodGet, "/api/game", nil)
	if game := decode[handlers.GameResponse](t, rec); game.GameStatus != models.StatusFinal {
		t.Errorf("expected final, got %q", game.GameStatus)
	}

	rec = s.do(t, http.MethodGet, "/api/history/"+result.ID+"/log", nil)
	expectStatus(t, rec, http.StatusOK)
	archived := decode[[]models.LogEntry](t, rec)
	if len(archived) != 6 || archived[0].Content != "Game Started" || archived[5].Content != "Game Ended - Team A wins!" {
		t.Errorf("unexpected archived log %+v", archived)
	}

	rec = s.do(t, http.MethodGet, "/api/log", nil)
	if current := decode[[]models.LogEntry](t, rec); len(current) != 0 {
		t.Errorf("expected empty current log, got %+v", current)
	}

	rec = s.do(t, http.MethodPost, "/api/game/end", nil)
	expectStatus(t, rec, http.StatusConflict)
}

func TestUpdateScore_Validation(t *testing.T) {
	s := newTestSetup(t)
	alice, _ := s.rosters(t)

	rec := s.do(t, http.MethodPost, "/api/teams/1/players/"+alice+"/score", handlers.ScoreRequest{Points: 0})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/api/teams/1/players/"+alice+"/score", "")
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(strings.ToLower(rec.Body.String()), "empty") {
		t.Errorf("expected empty body error, got %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/teams/1/players/"+alice+"/score", "{invalid}")
	expectStatus(t, rec, http.StatusBadRequest)

	s.do(t, http.MethodPost, "/api/game/start", nil)
	rec = s.do(t, http.MethodPost, "/api/teams/1/players/nobody/score", handlers.ScoreRequest{Points: 1})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestRosterEndpoints(t *testing.T) {
	s := newTestSetup(t)
	alice, _ := s.rosters(t)

	rec := s.do(t, http.MethodPost, "/api/teams/1/players", handlers.PlayerCreateRequest{Name: " "})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPut, "/api/teams/1", handlers.TeamUpdateRequest{Name: "Hawks", Color: models.ColorTeal})
	expectStatus(t, rec, http.StatusOK)
	if team := decode[models.Team](t, rec); team.Name != "Hawks" || team.Color != models.ColorTeal {
		t.Errorf("unexpected team %+v", team)
	}

	rec = s.do(t, http.MethodPut, "/api/teams/1", handlers.TeamUpdateRequest{Color: "gold"})
	expectStatus(t, rec, http.StatusBadRequest)
	if apiErr := decode[handlers.APIError](t, rec); apiErr.Code != handlers.ErrCodeValidation {
		t.Errorf("expected validation code, got %s", apiErr.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/teams/1/players/"+alice+"/active", handlers.PlayerActiveRequest{Active: false})
	expectStatus(t, rec, http.StatusOK)
	if game := decode[handlers.GameResponse](t, rec); game.Teams[0].Players[0].Active {
		t.Error("expected Alice to be benched")
	}

	rec = s.do(t, http.MethodGet, "/api/players/search?q=bea", nil)
	expectStatus(t, rec, http.StatusOK)
	if matches := decode[[]services.PlayerMatch](t, rec); len(matches) != 1 || matches[0].TeamID != "2" {
		t.Errorf("unexpected matches %+v", matches)
	}
	rec = s.do(t, http.MethodGet, "/api/players/search?limit=1", nil)
	if matches := decode[[]services.PlayerMatch](t, rec); len(matches) != 1 {
		t.Errorf("expected limit to apply, got %+v", matches)
	}
	rec = s.do(t, http.MethodGet, "/api/players/search?limit=x", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodDelete, "/api/teams/1/players/"+alice, nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = s.do(t, http.MethodDelete, "/api/teams/1/players/"+alice, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestNotesEndpoints(t *testing.T) {
	s := newTestSetup(t)
	s.rosters(t)

	rec := s.do(t, http.MethodPost, "/api/log/notes", handlers.NoteRequest{Content: "too early"})
	expectStatus(t, rec, http.StatusConflict)

	s.do(t, http.MethodPost, "/api/game/start", nil)
	rec = s.do(t, http.MethodPost, "/api/log/notes", handlers.NoteRequest{Content: "  "})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPost, "/api/log/notes", handlers.NoteRequest{Content: "Corner"})
	note := decode[models.LogEntry](t, rec)

	s.clock.Advance(90 * time.Second)
	rec = s.do(t, http.MethodPut, "/api/log/notes/"+note.ID, handlers.NoteRequest{Content: "Short corner"})
	expectStatus(t, rec, http.StatusOK)
	edited := decode[models.LogEntry](t, rec)
	if edited.ID != note.ID || edited.Content != "Short corner" {
		t.Errorf("unexpected edited note %+v", edited)
	}
	if edited.Timestamp == note.Timestamp {
		t.Errorf("expected the edit to refresh the timestamp, still %q", edited.Timestamp)
	}

	rec = s.do(t, http.MethodPut, "/api/log/notes/missing", handlers.NoteRequest{Content: "x"})
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(t, http.MethodDelete, "/api/log/notes/"+note.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(t, http.MethodGet, "/api/log", nil)
	if entries := decode[[]models.LogEntry](t, rec); len(entries) != 1 {
		t.Errorf("expected only the start marker, got %+v", entries)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	s := newTestSetup(t)
	alice, _ := s.rosters(t)
	s.do(t, http.MethodPost, "/api/game/start", nil)
	s.do(t, http.MethodPost, "/api/teams/1/players/"+alice+"/score", handlers.ScoreRequest{Points: 2})
	rec := s.do(t, http.MethodPost, "/api/log/notes", handlers.NoteRequest{Content: "Windy"})
	note := decode[models.LogEntry](t, rec)
	rec = s.do(t, http.MethodPost, "/api/game/end", nil)
	result := decode[models.GameResult](t, rec)

	rec = s.do(t, http.MethodGet, "/api/history", nil)
	expectStatus(t, rec, http.StatusOK)
	if games := decode[[]models.GameResult](t, rec); len(games) != 1 || games[0].ID != result.ID {
		t.Errorf("unexpected history %+v", games)
	}

	rec = s.do(t, http.MethodPut, "/api/history/"+result.ID, handlers.HistoryUpdateRequest{
		Teams: []models.TeamUpdate{{ID: "1", Name: "Hawks"}},
	})
	expectStatus(t, rec, http.StatusOK)
	if game := decode[models.GameResult](t, rec); game.Winner != "Hawks" {
		t.Errorf("expected winner to follow rename, got %q", game.Winner)
	}

	rec = s.do(t, http.MethodPut, "/api/history/"+result.ID+"/notes/"+note.ID, handlers.NoteRequest{Content: "Very windy"})
	expectStatus(t, rec, http.StatusOK)
	if edited := decode[models.LogEntry](t, rec); edited.Content != "Very windy" {
		t.Errorf("unexpected edited note %+v", edited)
	}

	rec = s.do(t, http.MethodGet, "/api/history/"+result.ID+"/summary", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %q", ct)
	}
	for _, want := range []string{"Hawks 2 - 0 Team B", "- Alice: 2 goals", "- Very windy"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, rec.Body.String())
		}
	}

	rec = s.do(t, http.MethodDelete, "/api/history/"+result.ID+"/notes/"+note.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(t, http.MethodDelete, "/api/history/"+result.ID, nil)
	expectStatus(t, rec, http.StatusNoContent)
	rec = s.do(t, http.MethodGet, "/api/history/"+result.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = s.do(t, http.MethodGet, "/api/history/"+result.ID+"/log", nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = s.do(t, http.MethodDelete, "/api/history/"+result.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestConsentEndpoints(t *testing.T) {
	s := newTestSetup(t)

	rec := s.do(t, http.MethodGet, "/api/consent", nil)
	if decode[handlers.ConsentResponse](t, rec).Consent {
		t.Error("expected no consent initially")
	}
	rec = s.do(t, http.MethodPost, "/api/consent", nil)
	expectStatus(t, rec, http.StatusOK)
	rec = s.do(t, http.MethodGet, "/api/consent", nil)
	if !decode[handlers.ConsentResponse](t, rec).Consent {
		t.Error("expected consent to be stored")
	}
}

func TestShareEndpoints(t *testing.T) {
	s := newTestSetup(t)

	rec := s.do(t, http.MethodGet, "/api/share", nil)
	expectStatus(t, rec, http.StatusOK)
	if share := decode[handlers.ShareResponse](t, rec); share.URL != "http://192.168.1.5:8082/" {
		t.Errorf("unexpected share URL %q", share.URL)
	}

	rec = s.do(t, http.MethodGet, "/api/share/qr?size=128", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected image/png, got %q", rec.Header().Get("Content-Type"))
	}

	rec = s.do(t, http.MethodGet, "/api/share/qr?size=big", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestStorageFailure_IsInternalError(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	repo, _ := testutil.NewTestRepositoryWithStore(t, kv, testutil.NewClock())
	log := logger.Discard()
	game := services.NewGameService(log, repo, testutil.NewClock(),
		&idgen.Sequence{Prefix: "id"}, &idgen.Sequence{Prefix: "p"})
	h := handlers.New(game, services.NewLogService(log, repo), services.NewHistoryService(log, repo),
		services.NewConsentService(log, kv), services.NewShareService(log, ""), repo, nil, log)

	if _, err := game.State(context.Background()); err != nil {
		t.Fatal(err)
	}
	kv.SetQuota(1)

	req := httptest.NewRequest(http.MethodPost, "/api/teams/1/players", strings.NewReader(`{"name":"Alice"}`))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusInternalServerError)
	if apiErr := decode[handlers.APIError](t, rec); apiErr.Message != "Internal server error" {
		t.Errorf("expected generic message, got %q", apiErr.Message)
	}
}

func TestLiveEndpoint(t *testing.T) {
	live := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	h := handlers.New(nil, nil, nil, nil, nil, nil, live, logger.Discard())
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusSwitchingProtocols {
		t.Errorf("expected /ws to reach the live handler, got %d", rec.Code)
	}

	h = handlers.New(nil, nil, nil, nil, nil, nil, nil, logger.Discard())
	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected /ws to be absent, got %d", rec.Code)
	}
}

