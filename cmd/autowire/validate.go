package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(envFiles *[]string) *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and rules file",
		Long: `Load .env and the rules file, resolve every type the rules name
against the shop, and dry-run the rules so that bindings serve would
reject (an unknown lifetime, say) are reported. Nothing is bound.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(*envFiles, rulesPath)
			if err != nil {
				return err
			}
			e, err := s.engine()
			if err != nil {
				return err
			}
			plan, err := e.Plan(s.universe)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, SuccessStyle.Render("✓ ")+s.rules.Filename)
			for _, label := range s.rules.Rules() {
				fmt.Fprintln(out, "  rule "+CmdStyle.Render(label))
			}
			fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("%d eligible modules, %d eligible types, %d bindings",
				len(e.EligibleModules(s.universe)), len(e.EligibleTypes(s.universe)), len(plan))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "HCL rules file (default: AUTOWIRE_RULES or the built-in shop rules)")
	return cmd
}
