// Package mcp exposes the study controller as MCP tools so agent
// clients can import courses and drive progression directly.
package mcp

import (
	"context"
	"fmt"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// Server wraps the MCP server with lernpfad functionality
type Server struct {
	mcpServer  *server.Server
	controller *study.Controller
}

// NewServer creates a new MCP server on top of a study controller
func NewServer(controller *study.Controller) *Server {
	s := &Server{
		controller: controller,
	}

	s.mcpServer = server.New(server.Info{
		Name:    "lernpfad",
		Version: "0.1.0",
	}, server.WithInstructions(`
Lernpfad is a local language learning engine. Courses are authored as
JSON, imported through the normalizer and studied level by level.

Available tools:
- lernpfad_import: Import a course from raw JSON
- lernpfad_courses: List stored courses with progress
- lernpfad_course: Show one course with its units and levels
- lernpfad_complete: Complete a level with a star rating (0-3)
- lernpfad_translate: Merge a translation document onto a course
- lernpfad_stats: Show XP, coins and the current streak
- lernpfad_shop: List the shop catalog
- lernpfad_buy: Purchase a shop item with earned coins

Stars map to rewards: 1 star = 10 XP, 2 stars = 25 XP, 3 stars = 50 XP.
Coins match XP; daily streaks add a coin bonus.
`))

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("lernpfad_import").
		Description("Import a course from raw JSON. The input is normalized; missing ids and order fields are repaired.").
		Handler(s.handleImport)

	s.mcpServer.Tool("lernpfad_courses").
		Description("List all stored courses with their progress.").
		Handler(s.handleListCourses)

	s.mcpServer.Tool("lernpfad_course").
		Description("Show one course with its units and levels.").
		Handler(s.handleGetCourse)

	s.mcpServer.Tool("lernpfad_complete").
		Description("Complete a level with a star rating between 0 and 3. Returns the earned reward.").
		Handler(s.handleComplete)

	s.mcpServer.Tool("lernpfad_translate").
		Description("Merge a translation document onto a stored course.").
		Handler(s.handleTranslate)

	s.mcpServer.Tool("lernpfad_stats").
		Description("Show total XP, coins and the current streak.").
		Handler(s.handleStats)

	s.mcpServer.Tool("lernpfad_shop").
		Description("List the shop catalog.").
		Handler(s.handleShop)

	s.mcpServer.Tool("lernpfad_buy").
		Description("Purchase a shop item with earned coins.").
		Handler(s.handleBuy)
}

// -----------------------------------------------------------------------------
// Input/Output types
// -----------------------------------------------------------------------------

type ImportInput struct {
	CourseJSON string `json:"course_json" jsonschema:"description=Raw course JSON document"`
}

type ImportOutput struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Levels   int    `json:"levels"`
	Message  string `json:"message"`
}

type CoursesOutput struct {
	Courses []CourseSummary `json:"courses"`
}

type CourseSummary struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Levels   int    `json:"levels"`
	Progress int    `json:"progress"`
}

type CourseInput struct {
	CourseID string `json:"course_id" jsonschema:"description=Course ID from lernpfad_courses"`
}

type CourseOutput struct {
	Course *domain.Course `json:"course"`
}

type CompleteInput struct {
	CourseID string `json:"course_id" jsonschema:"description=Course ID"`
	LevelID  string `json:"level_id" jsonschema:"description=Level ID within the course"`
	Stars    int    `json:"stars" jsonschema:"description=Star rating between 0 and 3"`
}

type CompleteOutput struct {
	Stars         int    `json:"stars"`
	XP            int    `json:"xp"`
	Coins         int    `json:"coins"`
	StreakBonus   int    `json:"streak_bonus"`
	Streak        int    `json:"streak"`
	TotalProgress int    `json:"total_progress"`
	Message       string `json:"message"`
}

type TranslateInput struct {
	CourseID        string `json:"course_id" jsonschema:"description=Course ID"`
	TranslationJSON string `json:"translation_json" jsonschema:"description=Translation document matching the course layout"`
}

type TranslateOutput struct {
	CourseID string `json:"course_id"`
	Message  string `json:"message"`
}

type StatsOutput struct {
	TotalXP       int    `json:"total_xp"`
	Coins         int    `json:"coins"`
	CurrentStreak int    `json:"current_streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
	ActiveAvatar  string `json:"active_avatar"`
}

type ShopOutput struct {
	Items []domain.ShopItem `json:"items"`
	Coins int               `json:"coins"`
}

type BuyInput struct {
	ItemID string `json:"item_id" jsonschema:"description=Shop item ID from lernpfad_shop"`
}

type BuyOutput struct {
	ItemID  string `json:"item_id"`
	Balance int    `json:"balance"`
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------
// Tool handlers
// -----------------------------------------------------------------------------

func (s *Server) handleImport(ctx context.Context, input ImportInput) (ImportOutput, error) {
	course, err := s.controller.ImportCourse(ctx, []byte(input.CourseJSON))
	if err != nil {
		return ImportOutput{}, fmt.Errorf("import failed: %w", err)
	}

	return ImportOutput{
		CourseID: course.ID,
		Title:    course.Title,
		Levels:   course.LevelCount(),
		Message:  fmt.Sprintf("Imported %q with %d levels. The first level is unlocked.", course.Title, course.LevelCount()),
	}, nil
}

func (s *Server) handleListCourses(ctx context.Context, _ struct{}) (CoursesOutput, error) {
	courses, err := s.controller.ListCourses(ctx)
	if err != nil {
		return CoursesOutput{}, fmt.Errorf("list courses: %w", err)
	}

	out := CoursesOutput{Courses: make([]CourseSummary, 0, len(courses))}
	for _, course := range courses {
		out.Courses = append(out.Courses, CourseSummary{
			CourseID: course.ID,
			Title:    course.Title,
			Levels:   course.LevelCount(),
			Progress: course.TotalProgress,
		})
	}
	return out, nil
}

func (s *Server) handleGetCourse(ctx context.Context, input CourseInput) (CourseOutput, error) {
	course, err := s.controller.GetCourse(ctx, input.CourseID)
	if err != nil {
		return CourseOutput{}, fmt.Errorf("get course: %w", err)
	}
	return CourseOutput{Course: course}, nil
}

func (s *Server) handleComplete(ctx context.Context, input CompleteInput) (CompleteOutput, error) {
	outcome, err := s.controller.CompleteLevel(ctx, input.CourseID, input.LevelID, input.Stars)
	if err != nil {
		return CompleteOutput{}, fmt.Errorf("complete level: %w", err)
	}

	msg := fmt.Sprintf("Level completed: +%d XP, +%d coins.",
		outcome.Reward.XP, outcome.Reward.Coins)
	if outcome.Reward.StreakBonus > 0 {
		msg += fmt.Sprintf(" Streak day %d adds a %d coin bonus.", outcome.Reward.Streak, outcome.Reward.StreakBonus)
	}

	return CompleteOutput{
		Stars:         input.Stars,
		XP:            outcome.Reward.XP,
		Coins:         outcome.Reward.Coins,
		StreakBonus:   outcome.Reward.StreakBonus,
		Streak:        outcome.Reward.Streak,
		TotalProgress: outcome.Course.TotalProgress,
		Message:       msg,
	}, nil
}

func (s *Server) handleTranslate(ctx context.Context, input TranslateInput) (TranslateOutput, error) {
	course, err := s.controller.ImportTranslation(ctx, input.CourseID, []byte(input.TranslationJSON))
	if err != nil {
		return TranslateOutput{}, fmt.Errorf("translate: %w", err)
	}

	return TranslateOutput{
		CourseID: course.ID,
		Message:  fmt.Sprintf("Translation merged onto %q.", course.Title),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, _ struct{}) (StatsOutput, error) {
	stats, err := s.controller.Stats(ctx)
	if err != nil {
		return StatsOutput{}, fmt.Errorf("load stats: %w", err)
	}

	out := StatsOutput{
		TotalXP:       stats.TotalXP,
		Coins:         stats.Coins,
		CurrentStreak: stats.CurrentStreak,
		ActiveAvatar:  stats.ActiveAvatar,
	}
	if !stats.LastStudyDate.IsZero() {
		out.LastStudyDate = stats.LastStudyDate.String()
	}
	return out, nil
}

func (s *Server) handleShop(ctx context.Context, _ struct{}) (ShopOutput, error) {
	stats, err := s.controller.Stats(ctx)
	if err != nil {
		return ShopOutput{}, fmt.Errorf("load stats: %w", err)
	}

	return ShopOutput{
		Items: s.controller.Catalog(),
		Coins: stats.Coins,
	}, nil
}

func (s *Server) handleBuy(ctx context.Context, input BuyInput) (BuyOutput, error) {
	stats, err := s.controller.PurchaseItem(ctx, input.ItemID)
	if err != nil {
		return BuyOutput{}, fmt.Errorf("purchase failed: %w", err)
	}

	return BuyOutput{
		ItemID:  input.ItemID,
		Balance: stats.Coins,
		Message: fmt.Sprintf("Purchased %s. Remaining balance: %d coins.", input.ItemID, stats.Coins),
	}, nil
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
