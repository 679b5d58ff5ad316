// Package cmd is the go-autowire command line: it previews, validates and
// serves the auto-wiring of the shop application.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	fwapp "github.com/km-arc/go-autowire/framework/app"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "go-autowire",
		Short: "Convention-based service registration for Go",
		Long: `go-autowire binds the shop's types into the service container by rule.

Rules come from --rules, else AUTOWIRE_RULES, else the shop's built-in
rules file.`,
		Version:       fwapp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default: .env)")

	root.AddCommand(
		newPlanCommand(&envFiles),
		newValidateCommand(&envFiles),
		newServeCommand(&envFiles),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln(ErrorStyle.Render("Error: ") + err.Error())
		stop()
		os.Exit(1)
	}
}
