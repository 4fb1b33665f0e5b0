package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/board"
	"github.com/jonesrussell/north-cloud/todo-manager/internal/client"
)

const (
	flagAPIURL  = "api-url"
	flagTimeout = "timeout"
	flagDebug   = "debug"

	defaultTimeout = 10 * time.Second
)

// app carries what every subcommand needs once flags are resolved.
type app struct {
	v      *viper.Viper
	logger infralogger.Logger
	client *client.Client
}

func (a *app) timeout() time.Duration {
	if d := a.v.GetDuration(flagTimeout); d > 0 {
		return d
	}
	return defaultTimeout
}

func (a *app) board() *board.Board {
	return board.New(a.client, a.logger)
}

// init resolves flags, env (TODO_API_URL, TODO_TIMEOUT, TODO_DEBUG) and .env.
func (a *app) init(cmd *cobra.Command) error {
	_ = godotenv.Load()

	a.v.SetEnvPrefix("TODO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	level := "warn"
	if a.v.GetBool(flagDebug) {
		level = "debug"
	}
	log, err := infralogger.New(infralogger.Config{
		Level:       level,
		Format:      infralogger.FormatConsole,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.logger = log
	a.client = client.New(client.Config{
		BaseURL:   a.v.GetString(flagAPIURL),
		Timeout:   a.timeout(),
		UserAgent: "todoctl/" + version,
	})
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "todoctl",
		Short:         "Manage a todo-manager list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String(flagAPIURL, client.DefaultBaseURL, "todo-manager base URL")
	flags.Duration(flagTimeout, defaultTimeout, "per request timeout")
	flags.Bool(flagDebug, false, "enable debug logging")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newCompleteCmd(a),
		newDeleteCmd(a),
		newMoveCmd(a),
		newBoardCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		// Skip the root's client setup.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todoctl version %s\n", version)
		},
	}
}
