package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
)

// apiError decodes the daemon's error envelope from a non-2xx response
func apiError(resp *http.Response) error {
	var e struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if e.Details != "" {
		return fmt.Errorf("%s: %s", e.Error, e.Details)
	}
	return fmt.Errorf("%s", e.Error)
}

func postJSON(path string, body []byte) (*http.Response, error) {
	return http.Post(daemonAddr+path, "application/json", bytes.NewReader(body))
}

// courseView is the subset of the course document the CLI renders
type courseView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	TranslatedTitle string `json:"titleTranslated,omitempty"`
	TotalProgress   int    `json:"totalProgress"`
	Units           []struct {
		Title  string `json:"title"`
		Levels []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Type    string `json:"type"`
			Status  string `json:"status"`
			Stars   int    `json:"stars"`
		} `json:"levels"`
	} `json:"units"`
}

// cmdImport imports a course JSON file through the daemon
func cmdImport(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lernpfad import <file>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read course file: %w", err)
	}

	resp, err := postJSON("/v1/courses", raw)
	if err != nil {
		return fmt.Errorf("import course: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}

	var course courseView
	if err := json.NewDecoder(resp.Body).Decode(&course); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	levels := 0
	for _, unit := range course.Units {
		levels += len(unit.Levels)
	}
	fmt.Printf("✓ Imported %q (%d units, %d levels)\n", course.Title, len(course.Units), levels)
	fmt.Printf("  ID: %s\n", course.ID)
	return nil
}

// cmdCourses lists stored courses
func cmdCourses() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/courses")
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var result struct {
		Courses []courseView `json:"courses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if len(result.Courses) == 0 {
		fmt.Println("No courses yet. Import one with 'lernpfad import <file>'.")
		return nil
	}

	fmt.Println("Courses")
	fmt.Println("=======")
	for _, course := range result.Courses {
		bar := renderProgressBar(float64(course.TotalProgress)/100, 20)
		title := course.Title
		if course.TranslatedTitle != "" {
			title = fmt.Sprintf("%s (%s)", course.TranslatedTitle, course.Title)
		}
		fmt.Printf("%-30s %s %3d%%  %s\n", title, bar, course.TotalProgress, course.ID)
	}
	return nil
}

// cmdCourse shows one course with its units and levels
func cmdCourse(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lernpfad course <id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/courses/" + args[0])
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var course courseView
	if err := json.NewDecoder(resp.Body).Decode(&course); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("%s\n", course.Title)
	fmt.Println(renderProgressBar(float64(course.TotalProgress)/100, 30), course.TotalProgress, "%")
	for _, unit := range course.Units {
		fmt.Printf("\n%s\n", unit.Title)
		for _, level := range unit.Levels {
			marker := " "
			switch level.Status {
			case "COMPLETED":
				marker = "✓"
			case "LOCKED":
				marker = "🔒"
			}
			stars := ""
			for i := 0; i < level.Stars; i++ {
				stars += "★"
			}
			fmt.Printf("  %s %-30s %-10s %s  (%s)\n", marker, level.Title, level.Type, stars, level.ID)
		}
	}
	return nil
}

// cmdDelete removes a course
func cmdDelete(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lernpfad delete <id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	req, err := http.NewRequest(http.MethodDelete, daemonAddr+"/v1/courses/"+args[0], nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	fmt.Println("✓ Course deleted")
	return nil
}

// cmdComplete records a level completion
func cmdComplete(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: lernpfad complete <course> <level> <stars>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	stars, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parse stars: %w", err)
	}

	body, _ := json.Marshal(map[string]int{"stars": stars})
	resp, err := postJSON("/v1/courses/"+args[0]+"/levels/"+args[1]+"/complete", body)
	if err != nil {
		return fmt.Errorf("complete level: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var outcome struct {
		Course courseView `json:"course"`
		Stats  struct {
			TotalXP       int `json:"totalXp"`
			Coins         int `json:"coins"`
			CurrentStreak int `json:"currentStreak"`
		} `json:"stats"`
		Reward struct {
			XP          int `json:"xp"`
			Coins       int `json:"coins"`
			StreakBonus int `json:"streakBonus"`
			Streak      int `json:"streak"`
		} `json:"reward"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if outcome.Reward.XP > 0 {
		fmt.Printf("✓ Level completed: +%d XP, +%d coins\n", outcome.Reward.XP, outcome.Reward.Coins)
		if outcome.Reward.StreakBonus > 0 {
			fmt.Printf("  🔥 Streak day %d: +%d bonus coins\n", outcome.Reward.Streak, outcome.Reward.StreakBonus)
		}
	} else {
		fmt.Println("✓ Level completed (no stars, no reward)")
	}
	fmt.Printf("  Course progress: %d%%  |  Total: %d XP, %d coins, streak %d\n",
		outcome.Course.TotalProgress, outcome.Stats.TotalXP, outcome.Stats.Coins, outcome.Stats.CurrentStreak)
	return nil
}

// cmdTranslate prints a translation template or merges a translation file
func cmdTranslate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: lernpfad translate template <course> | translate import <course> <file>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	switch args[0] {
	case "template":
		resp, err := http.Get(daemonAddr + "/v1/courses/" + args[1] + "/translations")
		if err != nil {
			return fmt.Errorf("get template: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return apiError(resp)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			return fmt.Errorf("format template: %w", err)
		}
		fmt.Println(pretty.String())
		return nil

	case "import":
		if len(args) < 3 {
			return fmt.Errorf("usage: lernpfad translate import <course> <file>")
		}
		raw, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("read translation file: %w", err)
		}

		resp, err := postJSON("/v1/courses/"+args[1]+"/translations", raw)
		if err != nil {
			return fmt.Errorf("import translation: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return apiError(resp)
		}

		fmt.Println("✓ Translation merged")
		return nil

	default:
		return fmt.Errorf("unknown translate command: %s (valid: template, import)", args[0])
	}
}
