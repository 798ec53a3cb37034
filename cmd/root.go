// Package cmd contains the visitboard command line.
package cmd

import (
	"errors"
	"io/fs"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"visitboard/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	envFile string
	noColor bool
	cfg     *config.Config
}

// NewRootCmd builds the visitboard command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "visitboard",
		Short: "Visit counter and Titanic dataset summary site",
		Long: `visitboard serves a landing page with a persistent visit counter and a
/titanic page summarizing the Titanic passenger dataset.

Example usage:
  visitboard serve             # Run the web server
  visitboard summary           # Print the dataset summary to the terminal
  visitboard version           # Print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(a),
		newSummaryCmd(a),
		newVersionCmd(),
	)

	return root
}

func (a *app) init() error {
	if a.noColor {
		color.NoColor = true
	}

	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
