package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7431"
	pidFile    = "lernpfadd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit()
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "config":
		err = cmdConfig()
	case "import":
		err = cmdImport(os.Args[2:])
	case "courses":
		err = cmdCourses()
	case "course":
		err = cmdCourse(os.Args[2:])
	case "delete":
		err = cmdDelete(os.Args[2:])
	case "complete":
		err = cmdComplete(os.Args[2:])
	case "translate":
		err = cmdTranslate(os.Args[2:])
	case "stats":
		err = cmdStats()
	case "shop":
		err = cmdShop()
	case "buy":
		err = cmdBuy(os.Args[2:])
	case "avatar":
		err = cmdAvatar(os.Args[2:])
	case "mcp":
		err = cmdMCP()
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("lernpfad %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Lernpfad - Local Language Learning Engine

Usage:
  lernpfad <command> [arguments]

Setup Commands:
  init            Initialize Lernpfad (first-time setup)
  config          Show current configuration

Daemon Commands:
  start           Start the Lernpfad daemon
  stop            Stop the Lernpfad daemon
  status          Show daemon status
  logs            View daemon logs

Course Commands:
  import <file>   Import a course from a JSON file
  courses         List stored courses
  course <id>     Show one course with its levels
  delete <id>     Delete a course
  complete <course> <level> <stars>
                  Complete a level with a star rating (0-3)
  translate template <course>
                  Print a translation template for a course
  translate import <course> <file>
                  Merge a translation file onto a course

Progress Commands:
  stats           Show XP, coins and streak
  shop            Show the shop catalog
  buy <item>      Purchase a shop item
  avatar <item>   Activate an owned avatar ('avatar default' resets)

Integration Commands:
  mcp             Start MCP server (stdio, for agent clients)

Other:
  help            Show this help message
  version         Show version information

Examples:
  lernpfad start                  # Start daemon
  lernpfad import course.json     # Import a generated course
  lernpfad complete c-1 l-3 3     # Finish a level with three stars
  lernpfad stats                  # Show progress`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
