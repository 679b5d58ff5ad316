package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/inspector"
)

func newPlanCommand(envFiles *[]string) *cobra.Command {
	var (
		rulesPath string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the bindings auto-wiring would make",
		Long: `Run the rules against the shop's types without touching a container
and print every binding that would be made, in order.

Examples:
  go-autowire plan
  go-autowire plan --rules config/autowire.hcl
  go-autowire plan --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}
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
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(planView(plan))
			}
			fmt.Fprintln(out, TitleStyle.Render("Auto-wiring plan"))
			fmt.Fprintln(out, SubtitleStyle.Render(fmt.Sprintf("%d bindings from %d rules in %s",
				len(plan), e.Rules(), s.rules.Filename)))
			fmt.Fprintln(out, renderPlan(plan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "HCL rules file (default: AUTOWIRE_RULES or the built-in shop rules)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	return cmd
}

func planView(plan []autowire.Binding) []inspector.Binding {
	out := make([]inspector.Binding, len(plan))
	for i, b := range plan {
		out[i] = inspector.FromPlan(b)
	}
	return out
}

func renderPlan(plan []autowire.Binding) string {
	rows := make([][]string, len(plan))
	for i, b := range plan {
		rows[i] = []string{short(b.Contract.String()), short(b.Concrete.String()), b.Name, string(b.Lifetime)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("CONTRACT", "CONCRETE", "NAME", "LIFETIME").
		Rows(rows...).
		String()
}
