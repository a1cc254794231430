package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// memGateway is an in-memory study.Gateway for tool handler tests
type memGateway struct {
	courses []*domain.Course
	stats   domain.UserStats
}

func (g *memGateway) LoadCourses(context.Context) ([]*domain.Course, error) {
	return g.courses, nil
}

func (g *memGateway) SaveCourses(_ context.Context, courses []*domain.Course) error {
	g.courses = courses
	return nil
}

func (g *memGateway) LoadUserStats(context.Context) (domain.UserStats, error) {
	return g.stats, nil
}

func (g *memGateway) SaveUserStats(_ context.Context, stats domain.UserStats) error {
	g.stats = stats
	return nil
}

const courseJSON = `{
	"title": "Spanish A1",
	"units": [
		{"title": "Greetings", "levels": [
			{"id": "l-1", "title": "Hola", "type": "THEORY", "markdownContent": "# Hola"},
			{"id": "l-2", "title": "Quiz", "type": "QUIZ"}
		]}
	]
}`

func setupTestServer(g *memGateway) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	controller := study.NewController(g, logger, study.WithClock(func() time.Time {
		t, _ := time.Parse("2006-01-02", "2026-01-04")
		return t
	}))
	return NewServer(controller)
}

func TestNewServer(t *testing.T) {
	s := setupTestServer(&memGateway{})

	if s == nil {
		t.Fatal("expected non-nil server")
	}
	if s.mcpServer == nil {
		t.Fatal("expected non-nil MCP server")
	}
	if s.GetMCPServer() != s.mcpServer {
		t.Error("GetMCPServer() should return the underlying server")
	}
}

func TestHandleImport(t *testing.T) {
	g := &memGateway{stats: domain.NewUserStats()}
	s := setupTestServer(g)

	out, err := s.handleImport(context.Background(), ImportInput{CourseJSON: courseJSON})
	if err != nil {
		t.Fatalf("handleImport() error = %v", err)
	}

	if out.CourseID == "" {
		t.Error("expected a generated course id")
	}
	if out.Levels != 2 {
		t.Errorf("Levels = %d, want 2", out.Levels)
	}
	if len(g.courses) != 1 {
		t.Errorf("stored courses = %d, want 1", len(g.courses))
	}
}

func TestHandleImport_Invalid(t *testing.T) {
	s := setupTestServer(&memGateway{})

	if _, err := s.handleImport(context.Background(), ImportInput{CourseJSON: `{"units": []}`}); err == nil {
		t.Error("handleImport() should reject a course without a title")
	}
}

func TestHandleListCourses(t *testing.T) {
	g := &memGateway{stats: domain.NewUserStats()}
	s := setupTestServer(g)
	imported, _ := s.handleImport(context.Background(), ImportInput{CourseJSON: courseJSON})

	out, err := s.handleListCourses(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleListCourses() error = %v", err)
	}

	if len(out.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(out.Courses))
	}
	if out.Courses[0].CourseID != imported.CourseID {
		t.Error("listed course id differs from imported course id")
	}
	if out.Courses[0].Progress != 0 {
		t.Errorf("Progress = %d, want 0", out.Courses[0].Progress)
	}
}

func TestHandleComplete(t *testing.T) {
	g := &memGateway{stats: domain.NewUserStats()}
	s := setupTestServer(g)
	imported, _ := s.handleImport(context.Background(), ImportInput{CourseJSON: courseJSON})

	out, err := s.handleComplete(context.Background(), CompleteInput{
		CourseID: imported.CourseID,
		LevelID:  "l-1",
		Stars:    3,
	})
	if err != nil {
		t.Fatalf("handleComplete() error = %v", err)
	}

	if out.XP != 50 || out.Coins != 50 {
		t.Errorf("reward = %d XP / %d coins, want 50/50", out.XP, out.Coins)
	}
	if out.Streak != 1 {
		t.Errorf("Streak = %d, want 1", out.Streak)
	}
	if out.TotalProgress != 50 {
		t.Errorf("TotalProgress = %d, want 50", out.TotalProgress)
	}
}

func TestHandleComplete_UnknownCourse(t *testing.T) {
	s := setupTestServer(&memGateway{})

	_, err := s.handleComplete(context.Background(), CompleteInput{CourseID: "nope", LevelID: "l-1", Stars: 3})
	if err == nil {
		t.Error("handleComplete() should fail for an unknown course")
	}
}

func TestHandleStats(t *testing.T) {
	last, _ := domain.ParseDate("2026-01-03")
	g := &memGateway{stats: domain.UserStats{TotalXP: 75, Coins: 40, CurrentStreak: 2, LastStudyDate: last, ActiveAvatar: domain.DefaultAvatar}}
	s := setupTestServer(g)

	out, err := s.handleStats(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleStats() error = %v", err)
	}

	if out.TotalXP != 75 || out.Coins != 40 {
		t.Errorf("stats = %+v, want 75 XP / 40 coins", out)
	}
	if out.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (yesterday keeps the streak)", out.CurrentStreak)
	}
	if out.LastStudyDate != "2026-01-03" {
		t.Errorf("LastStudyDate = %q, want 2026-01-03", out.LastStudyDate)
	}
}

func TestHandleShopAndBuy(t *testing.T) {
	g := &memGateway{stats: domain.UserStats{Coins: 150, Purchased: []string{}}}
	s := setupTestServer(g)

	shopOut, err := s.handleShop(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("handleShop() error = %v", err)
	}
	if len(shopOut.Items) == 0 {
		t.Fatal("catalog should not be empty")
	}
	if shopOut.Coins != 150 {
		t.Errorf("Coins = %d, want 150", shopOut.Coins)
	}

	buyOut, err := s.handleBuy(context.Background(), BuyInput{ItemID: "dark_mode"})
	if err != nil {
		t.Fatalf("handleBuy() error = %v", err)
	}
	if buyOut.Balance != 50 {
		t.Errorf("Balance = %d, want 50", buyOut.Balance)
	}

	if _, err := s.handleBuy(context.Background(), BuyInput{ItemID: "dark_mode"}); err == nil {
		t.Error("second purchase of the same item should fail")
	}
}

func TestHandleTranslate(t *testing.T) {
	g := &memGateway{stats: domain.NewUserStats()}
	s := setupTestServer(g)
	imported, _ := s.handleImport(context.Background(), ImportInput{CourseJSON: courseJSON})

	out, err := s.handleTranslate(context.Background(), TranslateInput{
		CourseID:        imported.CourseID,
		TranslationJSON: `{"title": "Spanisch A1", "units": []}`,
	})
	if err != nil {
		t.Fatalf("handleTranslate() error = %v", err)
	}
	if out.CourseID != imported.CourseID {
		t.Errorf("CourseID = %q, want %q", out.CourseID, imported.CourseID)
	}
	if g.courses[0].TranslatedTitle != "Spanisch A1" {
		t.Errorf("TranslatedTitle = %q, want Spanisch A1", g.courses[0].TranslatedTitle)
	}
}
