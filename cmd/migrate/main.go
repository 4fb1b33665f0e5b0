// Command migrate applies or rolls back the todo-manager schema.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	infraconfig "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/config"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/database"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down [steps]|version>")
		return exitFailure
	}

	command := args[0]
	steps, err := parseSteps(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	if command != "up" && command != "down" && command != "version" {
		fmt.Fprintf(os.Stderr, "Invalid command: %q (must be \"up\", \"down\" or \"version\")\n", command)
		return exitFailure
	}

	cfg, err := config.Load(infraconfig.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	log, err := infralogger.New(infralogger.Config{Level: cfg.Logging.Level, Format: infralogger.FormatConsole, OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	db, err := database.New(context.Background(), &cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return exitFailure
	}
	defer func() { _ = db.Close() }()

	migrator := database.NewMigrator(db, cfg.Database.MigrationsPath, log)

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down(steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		if version, dirty, err = migrator.Version(); err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", command, err)
		return exitFailure
	}

	return exitSuccess
}

// parseSteps reads the optional step count of "down". It defaults to 1.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("invalid steps %q: must be a positive integer", args[0])
	}
	return steps, nil
}
