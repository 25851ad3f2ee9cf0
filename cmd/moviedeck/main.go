package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Without a subcommand it opens the
// terminal dashboard.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moviedeck",
		Short: "Browse TMDb's popular movies",
		Long: "MovieDeck shows TMDb's popular movies as expandable cards.\n" +
			"Run it in the terminal, serve it over HTTP, or chat with it on Telegram.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/moviedeck.yaml", "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newBrowseCmd(),
		newWebCmd(),
		newBotCmd(),
		newMCPServeCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("MovieDeck v%s\n", version)
		},
	}
}
