package cmd

import (
	"github.com/spf13/cobra"

	"github.com/km-arc/go-autowire/app"
	fwapp "github.com/km-arc/go-autowire/framework/app"
	"github.com/km-arc/go-autowire/framework/providers"
)

func newServeCommand(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Auto-wire the shop and serve its API on APP_PORT",
		Long: `Boot the application, auto-wire the shop and serve:

  POST /api/orders?customer=1&total=1250
  GET  /api/orders/last
  GET  /_autowire/{bindings,modules,plan}   (APP_DEBUG=true only)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, contracts := app.Universe()
			a, err := fwapp.New(u, *envFiles...)
			if err != nil {
				return err
			}
			if a.Config().Autowire.Rules == "" {
				rules, err := loadRules("", providers.RuleOptions(a.Config()))
				if err != nil {
					return err
				}
				a.AutoWire.Rules = rules
			}
			if err := a.Boot(); err != nil {
				return err
			}
			app.EchoLog(a.Container, contracts, a.Logger())
			a.Router().Prefix("/api", app.Routes(a.Container, contracts))
			return a.Run(cmd.Context())
		},
	}
}
