package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a reading-graph repository",
	Long: `Initialize a reading-graph repository in the current directory.

Creates a .readinggraph/ directory with a default config.yaml and an empty
SQLite store.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitConfigError, "repository already exists at %s", config.RepoPath(cwd))
	}

	if err := config.Init(cwd); err != nil {
		exitWithError(ExitError, "initializing repository: %v", err)
	}

	// Touch the store so the database exists up front.
	st := mustOpenStore(cwd)
	st.Close()

	if humanOutput {
		outputHuman("Initialized reading-graph repository at %s\n", config.RepoPath(cwd))
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: config.RepoPath(cwd)})
}
